package calendar

import (
	"context"
	"time"
)

// Provider answers the two calendar questions the attendance resolver asks.
// Both are read-only lookups against externally owned tables.
type Provider interface {
	IsHoliday(ctx context.Context, date time.Time, branchID *string) (bool, error)
	HasApprovedLeave(ctx context.Context, userID string, date time.Time) (bool, error)
}

// Service adds the admin-facing holiday management on top of Provider.
type Service interface {
	Provider

	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	ListHolidays(ctx context.Context, year int) ([]HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id string) error
}
