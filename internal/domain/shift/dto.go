package shift

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

type CreateTemplateRequest struct {
	Name              string   `json:"name"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	BreakMinutes      int      `json:"break_minutes"`
	EffectiveFrom     *string  `json:"effective_from"`
	EffectiveTo       *string  `json:"effective_to"`
	RecurrencePattern string   `json:"recurrence_pattern"`
	RecurrenceDays    []string `json:"recurrence_days"`
}

func (r *CreateTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}

	if _, ok := validator.IsValidClockTime(r.StartTime); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be in HH:MM format"})
	}

	if _, ok := validator.IsValidClockTime(r.EndTime); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be in HH:MM format"})
	}

	if r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_minutes", Message: "break_minutes must not be negative"})
	}

	var from, to time.Time
	var fromOK, toOK bool
	if r.EffectiveFrom != nil {
		if from, fromOK = validator.IsValidDate(*r.EffectiveFrom); !fromOK {
			errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "effective_from must be in YYYY-MM-DD format"})
		}
	}
	if r.EffectiveTo != nil {
		if to, toOK = validator.IsValidDate(*r.EffectiveTo); !toOK {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must be in YYYY-MM-DD format"})
		}
	}
	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must not be before effective_from"})
	}

	if !validator.IsInSlice(r.RecurrencePattern, RecurrencePatternValues) {
		errs = append(errs, validator.ValidationError{Field: "recurrence_pattern", Message: "recurrence_pattern must be one of daily, weekly, monthly, custom"})
	}

	if _, err := NormalizeRecurrenceDays(r.RecurrenceDays); err != nil {
		errs = append(errs, validator.ValidationError{Field: "recurrence_days", Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AssignShiftRequest struct {
	UserID             string  `json:"user_id"`
	ShiftTemplateID    *string `json:"shift_template_id"`
	CustomStartTime    *string `json:"custom_start_time"`
	CustomEndTime      *string `json:"custom_end_time"`
	CustomBreakMinutes *int    `json:"custom_break_minutes"`
	EffectiveFrom      string  `json:"effective_from"`
	EffectiveTo        *string `json:"effective_to"`
	AssignmentType     string  `json:"assignment_type"`
}

func (r *AssignShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}

	if r.ShiftTemplateID == nil && (r.CustomStartTime == nil || r.CustomEndTime == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_template_id",
			Message: "either shift_template_id or custom start and end times are required",
		})
	}

	if r.CustomStartTime != nil {
		if _, ok := validator.IsValidClockTime(*r.CustomStartTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "custom_start_time", Message: "custom_start_time must be in HH:MM format"})
		}
	}
	if r.CustomEndTime != nil {
		if _, ok := validator.IsValidClockTime(*r.CustomEndTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "custom_end_time", Message: "custom_end_time must be in HH:MM format"})
		}
	}
	if r.CustomBreakMinutes != nil && *r.CustomBreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "custom_break_minutes", Message: "custom_break_minutes must not be negative"})
	}

	from, fromOK := validator.IsValidDate(r.EffectiveFrom)
	if !fromOK {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "effective_from must be in YYYY-MM-DD format"})
	}
	if r.EffectiveTo != nil {
		to, toOK := validator.IsValidDate(*r.EffectiveTo)
		if !toOK {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must be in YYYY-MM-DD format"})
		} else if fromOK && to.Before(from) {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must not be before effective_from"})
		}
	}

	if !validator.IsInSlice(r.AssignmentType, AssignmentTypeValues) {
		errs = append(errs, validator.ValidationError{Field: "assignment_type", Message: "assignment_type must be one of permanent, temporary, rotating"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TemplateResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	BreakMinutes      int      `json:"break_minutes"`
	EffectiveFrom     *string  `json:"effective_from"`
	EffectiveTo       *string  `json:"effective_to"`
	RecurrencePattern string   `json:"recurrence_pattern"`
	RecurrenceDays    []string `json:"recurrence_days"`
	IsActive          bool     `json:"is_active"`
}

type AssignmentResponse struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"user_id"`
	ShiftTemplateID    *string `json:"shift_template_id"`
	CustomStartTime    *string `json:"custom_start_time"`
	CustomEndTime      *string `json:"custom_end_time"`
	CustomBreakMinutes *int    `json:"custom_break_minutes"`
	EffectiveFrom      string  `json:"effective_from"`
	EffectiveTo        *string `json:"effective_to"`
	AssignmentType     string  `json:"assignment_type"`
	Status             string  `json:"status"`
}
