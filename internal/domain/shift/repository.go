package shift

import (
	"context"
	"time"
)

type TemplateRepository interface {
	Create(ctx context.Context, template ShiftTemplate) (ShiftTemplate, error)
	GetByID(ctx context.Context, id string) (ShiftTemplate, error)
	List(ctx context.Context, activeOnly bool) ([]ShiftTemplate, error)
	Deactivate(ctx context.Context, id string) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment ShiftAssignment) (ShiftAssignment, error)
	GetByID(ctx context.Context, id string) (ShiftAssignment, error)

	// GetActiveForDate returns the user's active assignment whose effective
	// range contains date, or nil when none covers it.
	GetActiveForDate(ctx context.Context, userID string, date time.Time) (*ShiftAssignment, error)

	// ExpireActiveForUser flips the user's current active assignment to
	// expired. Creating a new assignment calls this first so at most one
	// active row exists per user.
	ExpireActiveForUser(ctx context.Context, userID string) error

	ListByUser(ctx context.Context, userID string) ([]ShiftAssignment, error)
}

type ExceptionRepository interface {
	Create(ctx context.Context, exception ShiftException) (ShiftException, error)

	// GetActiveByUserAndDate returns the single active exception for
	// (user, date), or nil when none exists.
	GetActiveByUserAndDate(ctx context.Context, userID string, date time.Time) (*ShiftException, error)

	Revoke(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]ShiftException, error)
}
