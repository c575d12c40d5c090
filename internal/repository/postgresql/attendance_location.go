package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceLocationRepository struct {
	db *database.DB
}

func NewAttendanceLocationRepository(db *database.DB) geofence.LocationRepository {
	return &attendanceLocationRepository{db: db}
}

const attendanceLocationColumns = `
	id, name, latitude, longitude, radius_meters,
	branch_id, is_active, created_at, updated_at`

func scanAttendanceLocation(row pgx.Row) (geofence.AttendanceLocation, error) {
	var loc geofence.AttendanceLocation
	err := row.Scan(
		&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.RadiusMeters,
		&loc.BranchID, &loc.IsActive, &loc.CreatedAt, &loc.UpdatedAt,
	)
	return loc, err
}

// Create implements geofence.LocationRepository.
func (a *attendanceLocationRepository) Create(ctx context.Context, location geofence.AttendanceLocation) (geofence.AttendanceLocation, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_locations (
			id, name, latitude, longitude, radius_meters, branch_id, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		location.ID,
		location.Name,
		location.Latitude,
		location.Longitude,
		location.RadiusMeters,
		location.BranchID,
		location.IsActive,
	).Scan(&location.CreatedAt, &location.UpdatedAt)

	if err != nil {
		return geofence.AttendanceLocation{}, fmt.Errorf("failed to create attendance location: %w", err)
	}

	return location, nil
}

// GetByID implements geofence.LocationRepository.
func (a *attendanceLocationRepository) GetByID(ctx context.Context, id string) (geofence.AttendanceLocation, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceLocationColumns + `
		FROM attendance_locations
		WHERE id = $1
	`

	location, err := scanAttendanceLocation(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return geofence.AttendanceLocation{}, geofence.ErrLocationNotFound
		}
		return geofence.AttendanceLocation{}, fmt.Errorf("failed to get attendance location: %w", err)
	}

	return location, nil
}

// ListActive implements geofence.LocationRepository. A nil branchID returns
// every active location; otherwise branch-scoped locations for that branch
// plus the unscoped ones.
func (a *attendanceLocationRepository) ListActive(ctx context.Context, branchID *string) ([]geofence.AttendanceLocation, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceLocationColumns + `
		FROM attendance_locations
		WHERE is_active = TRUE
		  AND ($1::text IS NULL OR branch_id IS NULL OR branch_id = $1)
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance locations: %w", err)
	}
	defer rows.Close()

	locations := make([]geofence.AttendanceLocation, 0)
	for rows.Next() {
		location, err := scanAttendanceLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance location: %w", err)
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance locations: %w", err)
	}

	return locations, nil
}

// Deactivate implements geofence.LocationRepository.
func (a *attendanceLocationRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_locations
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate attendance location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return geofence.ErrLocationNotFound
	}

	return nil
}
