package shift

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
)

// ShiftService resolves effective schedules and manages the templates,
// assignments and exceptions that feed the resolution.
type ShiftService interface {
	// Resolve finds the effective work window for (user, date). Resolution
	// order, first match wins: active exception, then active assignment
	// (template merged with custom overrides, recurrence respected), then
	// nothing.
	Resolve(ctx context.Context, userID string, date time.Time) (Resolution, error)

	CreateTemplate(ctx context.Context, actor staff.Actor, req CreateTemplateRequest) (TemplateResponse, error)
	ListTemplates(ctx context.Context, activeOnly bool) ([]TemplateResponse, error)
	DeactivateTemplate(ctx context.Context, actor staff.Actor, id string) error

	// AssignShift creates a new assignment for the user, expiring any prior
	// active one.
	AssignShift(ctx context.Context, actor staff.Actor, req AssignShiftRequest) (AssignmentResponse, error)
	ListAssignments(ctx context.Context, userID string) ([]AssignmentResponse, error)

	RevokeException(ctx context.Context, actor staff.Actor, id string) error
}
