package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftAssignmentRepository struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) shift.AssignmentRepository {
	return &shiftAssignmentRepository{db: db}
}

const shiftAssignmentColumns = `
	id, user_id, shift_template_id,
	custom_start_time, custom_end_time, custom_break_minutes,
	effective_from, effective_to,
	assignment_type, status, created_at, updated_at`

func scanShiftAssignment(row pgx.Row) (shift.ShiftAssignment, error) {
	var a shift.ShiftAssignment
	err := row.Scan(
		&a.ID, &a.UserID, &a.ShiftTemplateID,
		&a.CustomStartTime, &a.CustomEndTime, &a.CustomBreakMinutes,
		&a.EffectiveFrom, &a.EffectiveTo,
		&a.AssignmentType, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements shift.AssignmentRepository.
func (s *shiftAssignmentRepository) Create(ctx context.Context, assignment shift.ShiftAssignment) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO shift_assignments (
			id, user_id, shift_template_id,
			custom_start_time, custom_end_time, custom_break_minutes,
			effective_from, effective_to, assignment_type, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.ID,
		assignment.UserID,
		assignment.ShiftTemplateID,
		assignment.CustomStartTime,
		assignment.CustomEndTime,
		assignment.CustomBreakMinutes,
		assignment.EffectiveFrom,
		assignment.EffectiveTo,
		assignment.AssignmentType,
		assignment.Status,
	).Scan(&assignment.CreatedAt, &assignment.UpdatedAt)

	if err != nil {
		return shift.ShiftAssignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return assignment, nil
}

// GetByID implements shift.AssignmentRepository.
func (s *shiftAssignmentRepository) GetByID(ctx context.Context, id string) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + shiftAssignmentColumns + `
		FROM shift_assignments
		WHERE id = $1
	`

	assignment, err := scanShiftAssignment(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ShiftAssignment{}, shift.ErrAssignmentNotFound
		}
		return shift.ShiftAssignment{}, fmt.Errorf("failed to get shift assignment: %w", err)
	}

	return assignment, nil
}

// GetActiveForDate implements shift.AssignmentRepository.
func (s *shiftAssignmentRepository) GetActiveForDate(ctx context.Context, userID string, date time.Time) (*shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + shiftAssignmentColumns + `
		FROM shift_assignments
		WHERE user_id = $1
		  AND status = 'active'
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to >= $2)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	assignment, err := scanShiftAssignment(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active assignment for date: %w", err)
	}

	return &assignment, nil
}

// ExpireActiveForUser implements shift.AssignmentRepository.
func (s *shiftAssignmentRepository) ExpireActiveForUser(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE shift_assignments
		SET status = 'expired', updated_at = NOW()
		WHERE user_id = $1 AND status = 'active'
	`

	if _, err := q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to expire active assignments: %w", err)
	}

	return nil
}

// ListByUser implements shift.AssignmentRepository.
func (s *shiftAssignmentRepository) ListByUser(ctx context.Context, userID string) ([]shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + shiftAssignmentColumns + `
		FROM shift_assignments
		WHERE user_id = $1
		ORDER BY effective_from DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]shift.ShiftAssignment, 0)
	for rows.Next() {
		assignment, err := scanShiftAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift assignments: %w", err)
	}

	return assignments, nil
}
