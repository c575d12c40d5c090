package staff

import "errors"

var (
	ErrStaffNotFound  = errors.New("staff record not found")
	ErrBranchNotFound = errors.New("branch not found")
	ErrNotPermitted   = errors.New("actor is not permitted to perform this operation")
	ErrInvalidToken   = errors.New("invalid or missing access token")
)
