package schedulerequest

import (
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

type SubmitRequest struct {
	RequestType        string  `json:"request_type"`
	ScheduledFor       *string `json:"scheduled_for"`
	RequestedStartTime *string `json:"requested_start_time"`
	RequestedEndTime   *string `json:"requested_end_time"`
	DurationDays       float64 `json:"duration_days"`
	Program            *string `json:"program"`
	Reason             string  `json:"reason"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.RequestType, RequestTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_type",
			Message: "request_type must be one of time_off_request, schedule_change, shift_swap, flexible_arrangement, compensatory_time_use",
		})
	}

	if r.ScheduledFor != nil {
		if _, ok := validator.IsValidDate(*r.ScheduledFor); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "scheduled_for",
				Message: "scheduled_for must be in YYYY-MM-DD format",
			})
		}
	}

	switch RequestType(r.RequestType) {
	case TypeScheduleChange:
		if r.RequestedStartTime == nil || r.RequestedEndTime == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "requested_start_time",
				Message: "schedule_change requires requested_start_time and requested_end_time",
			})
		}
	case TypeCompensatoryTimeUse:
		if r.DurationDays <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "duration_days",
				Message: "compensatory_time_use requires a positive duration_days",
			})
		}
		if r.Program == nil || validator.IsEmpty(*r.Program) {
			errs = append(errs, validator.ValidationError{
				Field:   "program",
				Message: "compensatory_time_use requires the time-off program name",
			})
		}
	}

	if r.RequestedStartTime != nil {
		if _, ok := validator.IsValidClockTime(*r.RequestedStartTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "requested_start_time",
				Message: "requested_start_time must be in HH:MM format",
			})
		}
	}
	if r.RequestedEndTime != nil {
		if _, ok := validator.IsValidClockTime(*r.RequestedEndTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "requested_end_time",
				Message: "requested_end_time must be in HH:MM format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectRequest struct {
	Reason *string `json:"reason"`
}

type RequestResponse struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"user_id"`
	RequestType        string  `json:"request_type"`
	ScheduledFor       *string `json:"scheduled_for"`
	RequestedStartTime *string `json:"requested_start_time"`
	RequestedEndTime   *string `json:"requested_end_time"`
	DurationDays       float64 `json:"duration_days"`
	Program            *string `json:"program"`
	Reason             string  `json:"reason"`
	Status             string  `json:"status"`
	RejectionReason    *string `json:"rejection_reason"`
	ReviewedBy         *string `json:"reviewed_by"`
}

type ListRequestResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Requests   []RequestResponse `json:"requests"`
}
