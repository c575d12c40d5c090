package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// The staff and branch tables are owned by the staff directory service; the
// engine reads them and never writes.

type staffRepository struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepository{db: db}
}

// GetByID implements staff.StaffRepository.
func (s *staffRepository) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, full_name, branch_id, status, created_at, updated_at
		FROM staff
		WHERE id = $1
	`

	var st staff.Staff
	err := q.QueryRow(ctx, query, id).Scan(
		&st.ID, &st.FullName, &st.BranchID, &st.Status, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff: %w", err)
	}

	return st, nil
}

// ListActiveIDs implements staff.StaffRepository.
func (s *staffRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id
		FROM staff
		WHERE status = 'active'
		ORDER BY id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active staff: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan staff id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff ids: %w", err)
	}

	return ids, nil
}

type branchRepository struct {
	db *database.DB
}

func NewBranchRepository(db *database.DB) staff.BranchRepository {
	return &branchRepository{db: db}
}

// GetByID implements staff.BranchRepository.
func (b *branchRepository) GetByID(ctx context.Context, id string) (staff.Branch, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		SELECT id, name, latitude, longitude, radius_meters,
			   grace_minutes, attendance_mode, timezone,
			   created_at, updated_at
		FROM branches
		WHERE id = $1
	`

	var branch staff.Branch
	err := q.QueryRow(ctx, query, id).Scan(
		&branch.ID, &branch.Name, &branch.Latitude, &branch.Longitude, &branch.RadiusMeters,
		&branch.GraceMinutes, &branch.Mode, &branch.Timezone,
		&branch.CreatedAt, &branch.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return staff.Branch{}, staff.ErrBranchNotFound
		}
		return staff.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	return branch, nil
}
