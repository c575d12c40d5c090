package shift

import "errors"

var (
	ErrTemplateNotFound     = errors.New("shift template not found")
	ErrAssignmentNotFound   = errors.New("shift assignment not found")
	ErrExceptionNotFound    = errors.New("shift exception not found")
	ErrExceptionExists      = errors.New("an active exception already exists for this date")
	ErrInvalidRecurrenceDay = errors.New("invalid recurrence day")
)
