package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedulerequest"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timeoffbank"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Staff domain errors
	case errors.Is(err, staff.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, staff.ErrNotPermitted):
		Forbidden(w, "Not permitted")
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff record not found")
	case errors.Is(err, staff.ErrBranchNotFound):
		NotFound(w, "Branch not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyRecorded):
		Conflict(w, "Attendance already recorded for this date")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No check-in recorded for this date", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out for this date")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Shift domain errors
	case errors.Is(err, shift.ErrTemplateNotFound):
		NotFound(w, "Shift template not found")
	case errors.Is(err, shift.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, shift.ErrExceptionNotFound):
		NotFound(w, "Shift exception not found")
	case errors.Is(err, shift.ErrExceptionExists):
		Conflict(w, "An active exception already exists for this date")
	case errors.Is(err, shift.ErrInvalidRecurrenceDay):
		BadRequest(w, "Invalid recurrence day", nil)

	// Calendar domain errors
	case errors.Is(err, calendar.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")

	// Geofence domain errors
	case errors.Is(err, geofence.ErrLocationNotFound):
		NotFound(w, "Attendance location not found")

	// Schedule request domain errors
	case errors.Is(err, schedulerequest.ErrRequestNotFound):
		NotFound(w, "Schedule request not found")
	case errors.Is(err, schedulerequest.ErrInvalidRequestState):
		Conflict(w, "Schedule request already decided")

	// Time-off bank domain errors
	case errors.Is(err, timeoffbank.ErrBankNotFound):
		NotFound(w, "Time-off bank not found")
	case errors.Is(err, timeoffbank.ErrInsufficientBalance):
		BadRequest(w, "Insufficient time-off balance", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
