package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftTemplateRepository struct {
	db *database.DB
}

func NewShiftTemplateRepository(db *database.DB) shift.TemplateRepository {
	return &shiftTemplateRepository{db: db}
}

// recurrence_days is stored as smallint[] holding canonical weekday indices
// (0 = Sunday).
func weekdaysToInts(days []time.Weekday) []int16 {
	out := make([]int16, 0, len(days))
	for _, d := range days {
		out = append(out, int16(d))
	}
	return out
}

func intsToWeekdays(values []int16) []time.Weekday {
	if len(values) == 0 {
		return nil
	}
	out := make([]time.Weekday, 0, len(values))
	for _, v := range values {
		out = append(out, time.Weekday(v))
	}
	return out
}

func scanShiftTemplate(row pgx.Row) (shift.ShiftTemplate, error) {
	var t shift.ShiftTemplate
	var days []int16
	err := row.Scan(
		&t.ID, &t.Name, &t.StartTime, &t.EndTime, &t.BreakMinutes,
		&t.EffectiveFrom, &t.EffectiveTo,
		&t.RecurrencePattern, &days,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return shift.ShiftTemplate{}, err
	}
	t.RecurrenceDays = intsToWeekdays(days)
	return t, nil
}

const shiftTemplateColumns = `
	id, name, start_time, end_time, break_minutes,
	effective_from, effective_to,
	recurrence_pattern, recurrence_days,
	is_active, created_at, updated_at`

// Create implements shift.TemplateRepository.
func (s *shiftTemplateRepository) Create(ctx context.Context, template shift.ShiftTemplate) (shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO shift_templates (
			id, name, start_time, end_time, break_minutes,
			effective_from, effective_to,
			recurrence_pattern, recurrence_days, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE
		) RETURNING is_active, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		template.ID,
		template.Name,
		template.StartTime,
		template.EndTime,
		template.BreakMinutes,
		template.EffectiveFrom,
		template.EffectiveTo,
		template.RecurrencePattern,
		weekdaysToInts(template.RecurrenceDays),
	).Scan(&template.IsActive, &template.CreatedAt, &template.UpdatedAt)

	if err != nil {
		return shift.ShiftTemplate{}, fmt.Errorf("failed to create shift template: %w", err)
	}

	return template, nil
}

// GetByID implements shift.TemplateRepository.
func (s *shiftTemplateRepository) GetByID(ctx context.Context, id string) (shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + shiftTemplateColumns + `
		FROM shift_templates
		WHERE id = $1
	`

	template, err := scanShiftTemplate(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ShiftTemplate{}, shift.ErrTemplateNotFound
		}
		return shift.ShiftTemplate{}, fmt.Errorf("failed to get shift template: %w", err)
	}

	return template, nil
}

// List implements shift.TemplateRepository.
func (s *shiftTemplateRepository) List(ctx context.Context, activeOnly bool) ([]shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + shiftTemplateColumns + `
		FROM shift_templates
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift templates: %w", err)
	}
	defer rows.Close()

	templates := make([]shift.ShiftTemplate, 0)
	for rows.Next() {
		template, err := scanShiftTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift templates: %w", err)
	}

	return templates, nil
}

// Deactivate implements shift.TemplateRepository.
func (s *shiftTemplateRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE shift_templates
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate shift template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrTemplateNotFound
	}

	return nil
}
