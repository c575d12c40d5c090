package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Create inserts a new record. A uniqueness violation on
	// (user_id, date) is returned as ErrAlreadyRecorded.
	Create(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// CreateIfAbsent inserts with on-conflict-do-nothing semantics and
	// reports whether a row was written. The batch sweep uses this so it
	// never overwrites records created by the interactive path.
	CreateIfAbsent(ctx context.Context, record AttendanceRecord) (bool, error)

	// GetByUserAndDate returns the record for (user, date), or nil when
	// none exists.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*AttendanceRecord, error)

	GetByID(ctx context.Context, id string) (AttendanceRecord, error)
	Update(ctx context.Context, record AttendanceRecord) error
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]AttendanceRecord, int64, error)
	List(ctx context.Context, filter ListFilter) ([]AttendanceRecord, int64, error)
}
