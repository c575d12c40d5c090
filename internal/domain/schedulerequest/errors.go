package schedulerequest

import "errors"

var (
	ErrRequestNotFound     = errors.New("schedule request not found")
	ErrInvalidRequestState = errors.New("schedule request is not in a state that allows this transition")
)
