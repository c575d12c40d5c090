package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) calendar.HolidayRepository {
	return &holidayRepository{db: db}
}

// Create implements calendar.HolidayRepository.
func (h *holidayRepository) Create(ctx context.Context, holiday calendar.Holiday) (calendar.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		INSERT INTO holidays (id, name, date, branch_id, is_mandatory)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		holiday.ID,
		holiday.Name,
		holiday.Date,
		holiday.BranchID,
		holiday.IsMandatory,
	).Scan(&holiday.CreatedAt, &holiday.UpdatedAt)

	if err != nil {
		return calendar.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return holiday, nil
}

// ExistsOnDate implements calendar.HolidayRepository. Company-wide holidays
// (branch_id IS NULL) apply to every branch; branch-scoped ones only match
// their branch.
func (h *holidayRepository) ExistsOnDate(ctx context.Context, date time.Time, branchID *string) (bool, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM holidays
			WHERE date = $1
			  AND (branch_id IS NULL OR branch_id = $2)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, date, branchID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}

	return exists, nil
}

// List implements calendar.HolidayRepository.
func (h *holidayRepository) List(ctx context.Context, year int) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, name, date, branch_id, is_mandatory, created_at, updated_at
		FROM holidays
		WHERE EXTRACT(YEAR FROM date) = $1
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	holidays := make([]calendar.Holiday, 0)
	for rows.Next() {
		var holiday calendar.Holiday
		if err := rows.Scan(
			&holiday.ID, &holiday.Name, &holiday.Date,
			&holiday.BranchID, &holiday.IsMandatory,
			&holiday.CreatedAt, &holiday.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, holiday)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}

	return holidays, nil
}

// Delete implements calendar.HolidayRepository.
func (h *holidayRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, h.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return calendar.ErrHolidayNotFound
	}

	return nil
}
