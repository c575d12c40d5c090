package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

// CheckInRequest records the first touch of the day. Status only applies
// on dates with no resolved schedule, e.g. a half day worked on an
// otherwise free date; scheduled dates always derive present/late from
// the clock times.
type CheckInRequest struct {
	Date        string                `json:"date"`
	CheckInTime string                `json:"check_in_time"`
	Status      *string               `json:"status"`
	Coordinates *geofence.Coordinates `json:"coordinates"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if _, ok := validator.IsValidDateTime(r.CheckInTime); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_time",
			Message: "check_in_time must be an ISO8601 timestamp",
		})
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, absent, late, half_day, leave, holiday",
		})
	}

	errs = append(errs, validateCoordinates(r.Coordinates)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	Date         string                `json:"date"`
	CheckOutTime string                `json:"check_out_time"`
	Coordinates  *geofence.Coordinates `json:"coordinates"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if _, ok := validator.IsValidDateTime(r.CheckOutTime); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: "check_out_time must be an ISO8601 timestamp",
		})
	}

	errs = append(errs, validateCoordinates(r.Coordinates)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ManualMarkRequest lets a manager record attendance on behalf of an
// employee, e.g. a forgotten badge or an approved half day.
type ManualMarkRequest struct {
	UserID string  `json:"user_id"`
	Date   string  `json:"date"`
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

func (r *ManualMarkRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsInSlice(r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, absent, late, half_day, leave, holiday",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateCoordinates(c *geofence.Coordinates) validator.ValidationErrors {
	if c == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !validator.IsValidLatitude(c.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "coordinates.latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if !validator.IsValidLongitude(c.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "coordinates.longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	return errs
}

type ListFilter struct {
	UserID   *string
	DateFrom *time.Time
	DateTo   *time.Time
	Status   *Status
	Page     int
	Limit    int
}

// ProcessOutcome classifies the result of one batch-sweep unit.
type ProcessOutcome string

const (
	OutcomeCreated    ProcessOutcome = "created"
	OutcomeUpdated    ProcessOutcome = "updated"
	OutcomeSkipped    ProcessOutcome = "skipped"
	OutcomeNoSchedule ProcessOutcome = "no_schedule"
)

type ProcessResult struct {
	UserID  string         `json:"user_id"`
	Outcome ProcessOutcome `json:"outcome"`
	Status  *Status        `json:"status,omitempty"`
}

type ProcessBatchRequest struct {
	Date    string   `json:"date"`
	UserIDs []string `json:"user_ids"`
}

func (r *ProcessBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BatchSummary struct {
	Date       string          `json:"date"`
	Created    int             `json:"created"`
	Skipped    int             `json:"skipped"`
	NoSchedule int             `json:"no_schedule"`
	Results    []ProcessResult `json:"results"`
}

type AttendanceResponse struct {
	ID                 string   `json:"id"`
	UserID             string   `json:"user_id"`
	Date               string   `json:"date"`
	Status             string   `json:"status"`
	CheckInTime        *string  `json:"check_in_time"`
	CheckOutTime       *string  `json:"check_out_time"`
	LocationVerified   bool     `json:"location_verified"`
	LocationName       *string  `json:"location_name"`
	ScheduledStartTime *string  `json:"scheduled_start_time"`
	ScheduledEndTime   *string  `json:"scheduled_end_time"`
	IsLate             *bool    `json:"is_late"`
	IsEarlyDeparture   *bool    `json:"is_early_departure"`
	ActualWorkingHours *float64 `json:"actual_working_hours"`
	Notes              *string  `json:"notes"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}
