package attendance

import "errors"

var (
	// Check-in / check-out errors
	ErrAlreadyRecorded   = errors.New("attendance already recorded for this date")
	ErrNotCheckedIn      = errors.New("no check-in recorded for this date")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
