package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timeoffbank"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type timeOffBankRepository struct {
	db *database.DB
}

func NewTimeOffBankRepository(db *database.DB) timeoffbank.BankRepository {
	return &timeOffBankRepository{db: db}
}

const timeOffBankColumns = `
	id, user_id, program_name,
	total_entitled_days, used_days,
	valid_from, valid_to, created_at, updated_at`

func scanTimeOffBank(row pgx.Row) (timeoffbank.TimeOffBank, error) {
	var b timeoffbank.TimeOffBank
	err := row.Scan(
		&b.ID, &b.UserID, &b.ProgramName,
		&b.TotalEntitledDays, &b.UsedDays,
		&b.ValidFrom, &b.ValidTo, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create implements timeoffbank.BankRepository.
func (t *timeOffBankRepository) Create(ctx context.Context, bank timeoffbank.TimeOffBank) (timeoffbank.TimeOffBank, error) {
	q := GetQuerier(ctx, t.db)

	query := `
		INSERT INTO time_off_banks (
			id, user_id, program_name,
			total_entitled_days, used_days, valid_from, valid_to
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		bank.ID,
		bank.UserID,
		bank.ProgramName,
		bank.TotalEntitledDays,
		bank.UsedDays,
		bank.ValidFrom,
		bank.ValidTo,
	).Scan(&bank.CreatedAt, &bank.UpdatedAt)

	if err != nil {
		return timeoffbank.TimeOffBank{}, fmt.Errorf("failed to create time-off bank: %w", err)
	}

	return bank, nil
}

// BulkCreate implements timeoffbank.BankRepository.
func (t *timeOffBankRepository) BulkCreate(ctx context.Context, banks []timeoffbank.TimeOffBank) (int, error) {
	q := GetQuerier(ctx, t.db)

	query := `
		INSERT INTO time_off_banks (
			id, user_id, program_name,
			total_entitled_days, used_days, valid_from, valid_to
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	count := 0
	for _, bank := range banks {
		if _, err := q.Exec(ctx, query,
			bank.ID,
			bank.UserID,
			bank.ProgramName,
			bank.TotalEntitledDays,
			bank.UsedDays,
			bank.ValidFrom,
			bank.ValidTo,
		); err != nil {
			return count, fmt.Errorf("failed to bulk create time-off banks: %w", err)
		}
		count++
	}

	return count, nil
}

// GetCurrentByUserAndProgram implements timeoffbank.BankRepository.
func (t *timeOffBankRepository) GetCurrentByUserAndProgram(ctx context.Context, userID, program string, asOf time.Time) (*timeoffbank.TimeOffBank, error) {
	q := GetQuerier(ctx, t.db)

	query := `
		SELECT ` + timeOffBankColumns + `
		FROM time_off_banks
		WHERE user_id = $1
		  AND program_name = $2
		  AND valid_from <= $3
		  AND valid_to >= $3
		ORDER BY valid_to
		LIMIT 1
	`

	bank, err := scanTimeOffBank(q.QueryRow(ctx, query, userID, program, asOf))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get time-off bank: %w", err)
	}

	return &bank, nil
}

// ListCurrentByUser implements timeoffbank.BankRepository.
func (t *timeOffBankRepository) ListCurrentByUser(ctx context.Context, userID string, asOf time.Time) ([]timeoffbank.TimeOffBank, error) {
	q := GetQuerier(ctx, t.db)

	query := `
		SELECT ` + timeOffBankColumns + `
		FROM time_off_banks
		WHERE user_id = $1
		  AND valid_to >= $2
		ORDER BY program_name, valid_to
	`

	rows, err := q.Query(ctx, query, userID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off banks: %w", err)
	}
	defer rows.Close()

	banks := make([]timeoffbank.TimeOffBank, 0)
	for rows.Next() {
		bank, err := scanTimeOffBank(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time-off bank: %w", err)
		}
		banks = append(banks, bank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time-off banks: %w", err)
	}

	return banks, nil
}

// Debit implements timeoffbank.BankRepository. The balance check lives in
// the UPDATE predicate so two concurrent approvals cannot jointly overdraw
// the bank; the loser sees zero rows and ErrInsufficientBalance.
func (t *timeOffBankRepository) Debit(ctx context.Context, bankID string, days float64) error {
	q := GetQuerier(ctx, t.db)

	query := `
		UPDATE time_off_banks
		SET used_days = used_days + $2,
			updated_at = NOW()
		WHERE id = $1
		  AND used_days + $2 <= total_entitled_days
	`

	tag, err := q.Exec(ctx, query, bankID, days)
	if err != nil {
		return fmt.Errorf("failed to debit time-off bank: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeoffbank.ErrInsufficientBalance
	}

	return nil
}
