package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, user_id, date, status,
	check_in_time, check_out_time,
	check_in_latitude, check_in_longitude,
	check_out_latitude, check_out_longitude,
	location_verified, location_name,
	scheduled_start_time, scheduled_end_time,
	is_late, is_early_departure, actual_working_hours,
	notes, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.Status,
		&rec.CheckInTime, &rec.CheckOutTime,
		&rec.CheckInLatitude, &rec.CheckInLongitude,
		&rec.CheckOutLatitude, &rec.CheckOutLongitude,
		&rec.LocationVerified, &rec.LocationName,
		&rec.ScheduledStartTime, &rec.ScheduledEndTime,
		&rec.IsLate, &rec.IsEarlyDeparture, &rec.ActualWorkingHours,
		&rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements attendance.AttendanceRepository. The unique index on
// (user_id, date) is the duplicate check; a 23505 from the insert maps to
// ErrAlreadyRecorded so concurrent first check-ins cannot both win.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, user_id, date, status,
			check_in_time, check_in_latitude, check_in_longitude,
			location_verified, location_name,
			scheduled_start_time, scheduled_end_time, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.UserID,
		record.Date,
		record.Status,
		record.CheckInTime,
		record.CheckInLatitude,
		record.CheckInLongitude,
		record.LocationVerified,
		record.LocationName,
		record.ScheduledStartTime,
		record.ScheduledEndTime,
		record.Notes,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyRecorded
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, record attendance.AttendanceRecord) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, user_id, date, status,
			scheduled_start_time, scheduled_end_time, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) ON CONFLICT (user_id, date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.Date,
		record.Status,
		record.ScheduledStartTime,
		record.ScheduledEndTime,
		record.Notes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert attendance record: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE user_id = $1 AND date = $2
		LIMIT 1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE id = $1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return rec, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET status = $2,
			check_in_time = $3,
			check_out_time = $4,
			check_in_latitude = $5,
			check_in_longitude = $6,
			check_out_latitude = $7,
			check_out_longitude = $8,
			location_verified = $9,
			location_name = $10,
			scheduled_start_time = $11,
			scheduled_end_time = $12,
			is_late = $13,
			is_early_departure = $14,
			actual_working_hours = $15,
			notes = $16,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.Status,
		record.CheckInTime,
		record.CheckOutTime,
		record.CheckInLatitude,
		record.CheckInLongitude,
		record.CheckOutLatitude,
		record.CheckOutLongitude,
		record.LocationVerified,
		record.LocationName,
		record.ScheduledStartTime,
		record.ScheduledEndTime,
		record.IsLate,
		record.IsEarlyDeparture,
		record.ActualWorkingHours,
		record.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.ListFilter) ([]attendance.AttendanceRecord, int64, error) {
	filter.UserID = &userID
	return a.List(ctx, filter)
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceRecord, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.DateFrom != nil {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendance_records WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
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
		SELECT `+attendanceColumns+`
		FROM attendance_records
		WHERE %s
		ORDER BY date DESC, user_id
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.AttendanceRecord, 0)
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, total, nil
}
