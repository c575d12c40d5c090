package timeoffbank

import (
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

type CreateBankRequest struct {
	UserID            string  `json:"user_id"`
	ProgramName       string  `json:"program_name"`
	TotalEntitledDays float64 `json:"total_entitled_days"`
	ValidFrom         string  `json:"valid_from"`
	ValidTo           string  `json:"valid_to"`
}

func (r *CreateBankRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.ProgramName) {
		errs = append(errs, validator.ValidationError{
			Field:   "program_name",
			Message: "program_name is required",
		})
	}

	if r.TotalEntitledDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "total_entitled_days",
			Message: "total_entitled_days must not be negative",
		})
	}

	from, fromOK := validator.IsValidDate(r.ValidFrom)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "valid_from",
			Message: "valid_from must be in YYYY-MM-DD format",
		})
	}
	to, toOK := validator.IsValidDate(r.ValidTo)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "valid_to",
			Message: "valid_to must be in YYYY-MM-DD format",
		})
	}
	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "valid_to",
			Message: "valid_to must not be before valid_from",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BulkCreateBankRequest struct {
	Banks []CreateBankRequest `json:"banks"`
}

func (r *BulkCreateBankRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Banks) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "banks",
			Message: "at least one bank is required",
		})
	}

	for _, b := range r.Banks {
		if err := b.Validate(); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				errs = append(errs, ve...)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BankResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	ProgramName       string  `json:"program_name"`
	TotalEntitledDays float64 `json:"total_entitled_days"`
	UsedDays          float64 `json:"used_days"`
	AvailableDays     float64 `json:"available_days"`
	ValidFrom         string  `json:"valid_from"`
	ValidTo           string  `json:"valid_to"`
}

type BalanceResponse struct {
	UserID string         `json:"user_id"`
	Banks  []BankResponse `json:"banks"`
}
