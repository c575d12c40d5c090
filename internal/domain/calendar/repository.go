package calendar

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)

	// ExistsOnDate reports whether a holiday covers the date for the given
	// branch. A global holiday (branch_id IS NULL) matches any branch.
	ExistsOnDate(ctx context.Context, date time.Time, branchID *string) (bool, error)

	List(ctx context.Context, year int) ([]Holiday, error)
	Delete(ctx context.Context, id string) error
}

// LeaveRecordRepository reads the external leave table. The engine never
// writes it.
type LeaveRecordRepository interface {
	HasApprovedLeave(ctx context.Context, userID string, date time.Time) (bool, error)
}
