package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (pgxmock.PgxPoolIface, *database.DB) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, &database.DB{Pool: mock}
}

// anyArgs returns n pgxmock.AnyArg matchers; pgxmock v4 requires an argument
// expectation for every bound parameter, so expectations that do not care
// about values still need placeholders.
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func sampleRecord() attendance.AttendanceRecord {
	return attendance.AttendanceRecord{
		ID:     "a1",
		UserID: "u1",
		Date:   time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Status: attendance.StatusPresent,
	}
}

func TestAttendanceCreate_ReturnsTimestamps(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO attendance_records").
		WithArgs(anyArgs(12)...).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.Create(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, now, created.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceCreate_DuplicateMapsToAlreadyRecorded(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("INSERT INTO attendance_records").
		WithArgs(anyArgs(12)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uniq_attendance_user_date"})

	_, err := repo.Create(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, attendance.ErrAlreadyRecorded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceCreateIfAbsent_ConflictReportsFalse(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance_records").
		WithArgs(anyArgs(7)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	inserted, err := repo.CreateIfAbsent(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.False(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceCreateIfAbsent_InsertReportsTrue(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance_records").
		WithArgs(anyArgs(7)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	inserted, err := repo.CreateIfAbsent(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.True(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceGetByUserAndDate_NoRowsIsNil(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("FROM attendance_records").
		WithArgs("u1", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)).
		WillReturnError(pgx.ErrNoRows)

	rec, err := repo.GetByUserAndDate(context.Background(), "u1", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceUpdate_MissingRowIsNotFound(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("UPDATE attendance_records").
		WithArgs(anyArgs(16)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
