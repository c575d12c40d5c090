package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timeoffbank"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankDebit_GuardedUpdateSucceeds(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewTimeOffBankRepository(db)

	mock.ExpectExec("UPDATE time_off_banks").
		WithArgs("b1", 1.5).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Debit(context.Background(), "b1", 1.5)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBankDebit_ZeroRowsIsInsufficientBalance(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewTimeOffBankRepository(db)

	// The balance predicate rejected the update: either the bank is gone or
	// the debit would overdraw it.
	mock.ExpectExec("UPDATE time_off_banks").
		WithArgs("b1", 5.0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Debit(context.Background(), "b1", 5.0)
	assert.ErrorIs(t, err, timeoffbank.ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBankGetCurrentByUserAndProgram_NoRowsIsNil(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewTimeOffBankRepository(db)

	asOf := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM time_off_banks").
		WithArgs("u1", "annual-leave-2025", asOf).
		WillReturnError(pgx.ErrNoRows)

	bank, err := repo.GetCurrentByUserAndProgram(context.Background(), "u1", "annual-leave-2025", asOf)
	require.NoError(t, err)
	assert.Nil(t, bank)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBankBulkCreate_CountsInserts(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewTimeOffBankRepository(db)

	mock.ExpectExec("INSERT INTO time_off_banks").WithArgs(anyArgs(7)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO time_off_banks").WithArgs(anyArgs(7)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	count, err := repo.BulkCreate(context.Background(), []timeoffbank.TimeOffBank{
		{ID: "b1", UserID: "u1", ProgramName: "annual-leave-2025"},
		{ID: "b2", UserID: "u2", ProgramName: "annual-leave-2025"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
