package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
)

// AttendanceService derives a single attendance status per (user, date)
// from the calendar facts, the resolved schedule and the recorded times.
// Holiday beats approved leave, and both beat schedule evaluation.
type AttendanceService interface {
	// CheckIn records the first touch of the day for the acting user.
	CheckIn(ctx context.Context, actor staff.Actor, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut completes the day's record and computes the derived
	// metrics when a schedule exists for the date.
	CheckOut(ctx context.Context, actor staff.Actor, req CheckOutRequest) (AttendanceResponse, error)

	// ManualMark lets a manager record a status for another employee.
	ManualMark(ctx context.Context, actor staff.Actor, req ManualMarkRequest) (AttendanceResponse, error)

	// ProcessDate runs the sweep for a single (user, date) unit. It is
	// idempotent: existing records are left untouched.
	ProcessDate(ctx context.Context, userID string, date time.Time) (ProcessResult, error)

	// RefreshDate re-resolves one (user, date) unit after the schedule
	// changed underneath it. Unlike ProcessDate it rewrites an existing
	// record so its status and derived metrics match the current
	// schedule; with no record it falls back to the sweep behavior.
	RefreshDate(ctx context.Context, userID string, date time.Time) (ProcessResult, error)

	// ProcessBatch sweeps a set of users (all active staff when empty)
	// for one date with a bounded worker pool.
	ProcessBatch(ctx context.Context, actor staff.Actor, req ProcessBatchRequest) (BatchSummary, error)

	GetMyAttendance(ctx context.Context, actor staff.Actor, filter ListFilter) (ListAttendanceResponse, error)
	ListAttendance(ctx context.Context, actor staff.Actor, filter ListFilter) (ListAttendanceResponse, error)
}
