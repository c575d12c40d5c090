package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedulerequest"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type scheduleRequestRepository struct {
	db *database.DB
}

func NewScheduleRequestRepository(db *database.DB) schedulerequest.RequestRepository {
	return &scheduleRequestRepository{db: db}
}

const scheduleRequestColumns = `
	id, user_id, request_type, scheduled_for,
	requested_start_time, requested_end_time,
	duration_days, program, reason,
	status, rejection_reason, reviewed_by, reviewed_at,
	created_at, updated_at`

func scanScheduleRequest(row pgx.Row) (schedulerequest.ScheduleRequest, error) {
	var r schedulerequest.ScheduleRequest
	err := row.Scan(
		&r.ID, &r.UserID, &r.RequestType, &r.ScheduledFor,
		&r.RequestedStartTime, &r.RequestedEndTime,
		&r.DurationDays, &r.Program, &r.Reason,
		&r.Status, &r.RejectionReason, &r.ReviewedBy, &r.ReviewedAt,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements schedulerequest.RequestRepository.
func (s *scheduleRequestRepository) Create(ctx context.Context, request schedulerequest.ScheduleRequest) (schedulerequest.ScheduleRequest, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO schedule_requests (
			id, user_id, request_type, scheduled_for,
			requested_start_time, requested_end_time,
			duration_days, program, reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.UserID,
		request.RequestType,
		request.ScheduledFor,
		request.RequestedStartTime,
		request.RequestedEndTime,
		request.DurationDays,
		request.Program,
		request.Reason,
		request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return schedulerequest.ScheduleRequest{}, fmt.Errorf("failed to create schedule request: %w", err)
	}

	return request, nil
}

// GetByID implements schedulerequest.RequestRepository.
func (s *scheduleRequestRepository) GetByID(ctx context.Context, id string) (schedulerequest.ScheduleRequest, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + scheduleRequestColumns + `
		FROM schedule_requests
		WHERE id = $1
	`

	request, err := scanScheduleRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedulerequest.ScheduleRequest{}, schedulerequest.ErrRequestNotFound
		}
		return schedulerequest.ScheduleRequest{}, fmt.Errorf("failed to get schedule request: %w", err)
	}

	return request, nil
}

// Transition implements schedulerequest.RequestRepository. The source
// status sits in the WHERE clause, so a request that already moved on is
// simply not updated and the caller sees false.
func (s *scheduleRequestRepository) Transition(ctx context.Context, id string, from, to schedulerequest.RequestStatus, reviewedBy *string, rejectionReason *string) (bool, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE schedule_requests
		SET status = $3,
			reviewed_by = COALESCE($4, reviewed_by),
			reviewed_at = CASE WHEN $4 IS NOT NULL THEN NOW() ELSE reviewed_at END,
			rejection_reason = COALESCE($5, rejection_reason),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	tag, err := q.Exec(ctx, query, id, from, to, reviewedBy, rejectionReason)
	if err != nil {
		return false, fmt.Errorf("failed to transition schedule request: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// List implements schedulerequest.RequestRepository.
func (s *scheduleRequestRepository) List(ctx context.Context, filter schedulerequest.ListFilter) ([]schedulerequest.ScheduleRequest, int64, error) {
	q := GetQuerier(ctx, s.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.From != nil {
		baseWhere += fmt.Sprintf(" AND scheduled_for >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		baseWhere += fmt.Sprintf(" AND scheduled_for <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM schedule_requests WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count schedule requests: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	selectQuery := fmt.Sprintf(`
		SELECT `+scheduleRequestColumns+`
		FROM schedule_requests
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list schedule requests: %w", err)
	}
	defer rows.Close()

	requests := make([]schedulerequest.ScheduleRequest, 0)
	for rows.Next() {
		request, err := scanScheduleRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan schedule request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate schedule requests: %w", err)
	}

	return requests, total, nil
}
