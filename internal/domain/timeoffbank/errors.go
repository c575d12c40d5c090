package timeoffbank

import "errors"

var (
	ErrBankNotFound        = errors.New("time-off bank not found")
	ErrInsufficientBalance = errors.New("insufficient time-off balance")
)
