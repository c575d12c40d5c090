package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type shiftExceptionRepository struct {
	db *database.DB
}

func NewShiftExceptionRepository(db *database.DB) shift.ExceptionRepository {
	return &shiftExceptionRepository{db: db}
}

const shiftExceptionColumns = `
	id, user_id, exception_date, exception_type,
	new_start_time, new_end_time, new_break_minutes,
	reason, approved_by, status, created_at, updated_at`

func scanShiftException(row pgx.Row) (shift.ShiftException, error) {
	var e shift.ShiftException
	err := row.Scan(
		&e.ID, &e.UserID, &e.ExceptionDate, &e.ExceptionType,
		&e.NewStartTime, &e.NewEndTime, &e.NewBreakMinutes,
		&e.Reason, &e.ApprovedBy, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements shift.ExceptionRepository. A partial unique index on
// (user_id, exception_date) WHERE status = 'active' keeps overrides
// unambiguous; a violation maps to ErrExceptionExists.
func (s *shiftExceptionRepository) Create(ctx context.Context, exception shift.ShiftException) (shift.ShiftException, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO shift_exceptions (
			id, user_id, exception_date, exception_type,
			new_start_time, new_end_time, new_break_minutes,
			reason, approved_by, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		exception.ID,
		exception.UserID,
		exception.ExceptionDate,
		exception.ExceptionType,
		exception.NewStartTime,
		exception.NewEndTime,
		exception.NewBreakMinutes,
		exception.Reason,
		exception.ApprovedBy,
		exception.Status,
	).Scan(&exception.CreatedAt, &exception.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shift.ShiftException{}, shift.ErrExceptionExists
		}
		return shift.ShiftException{}, fmt.Errorf("failed to create shift exception: %w", err)
	}

	return exception, nil
}

// GetActiveByUserAndDate implements shift.ExceptionRepository.
func (s *shiftExceptionRepository) GetActiveByUserAndDate(ctx context.Context, userID string, date time.Time) (*shift.ShiftException, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + shiftExceptionColumns + `
		FROM shift_exceptions
		WHERE user_id = $1
		  AND exception_date = $2
		  AND status = 'active'
		LIMIT 1
	`

	exception, err := scanShiftException(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active exception: %w", err)
	}

	return &exception, nil
}

// Revoke implements shift.ExceptionRepository.
func (s *shiftExceptionRepository) Revoke(ctx context.Context, id string) error {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE shift_exceptions
		SET status = 'revoked', updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to revoke shift exception: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrExceptionNotFound
	}

	return nil
}

// ListByUser implements shift.ExceptionRepository.
func (s *shiftExceptionRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]shift.ShiftException, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + shiftExceptionColumns + `
		FROM shift_exceptions
		WHERE user_id = $1
		  AND exception_date >= $2
		  AND exception_date <= $3
		ORDER BY exception_date
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift exceptions: %w", err)
	}
	defer rows.Close()

	exceptions := make([]shift.ShiftException, 0)
	for rows.Next() {
		exception, err := scanShiftException(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift exception: %w", err)
		}
		exceptions = append(exceptions, exception)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift exceptions: %w", err)
	}

	return exceptions, nil
}
