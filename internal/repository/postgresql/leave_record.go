package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
)

type leaveRecordRepository struct {
	db *database.DB
}

func NewLeaveRecordRepository(db *database.DB) calendar.LeaveRecordRepository {
	return &leaveRecordRepository{db: db}
}

// HasApprovedLeave implements calendar.LeaveRecordRepository. Leave records
// are maintained by the leave management system; this side only reads them.
func (l *leaveRecordRepository) HasApprovedLeave(ctx context.Context, userID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_records
			WHERE user_id = $1
			  AND status = 'approved'
			  AND start_date <= $2
			  AND end_date >= $2
		)
	`

	var has bool
	if err := q.QueryRow(ctx, query, userID, date).Scan(&has); err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}

	return has, nil
}
