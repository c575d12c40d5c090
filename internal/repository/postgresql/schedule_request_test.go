package postgresql

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedulerequest"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTransition_MatchingStatusMoves(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewScheduleRequestRepository(db)

	reviewer := "m1"
	mock.ExpectExec("UPDATE schedule_requests").
		WithArgs("r1", schedulerequest.StatusPending, schedulerequest.StatusApproved, &reviewer, (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.Transition(context.Background(), "r1", schedulerequest.StatusPending, schedulerequest.StatusApproved, &reviewer, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestTransition_StaleStatusReportsFalse(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewScheduleRequestRepository(db)

	mock.ExpectExec("UPDATE schedule_requests").
		WithArgs(anyArgs(5)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.Transition(context.Background(), "r1", schedulerequest.StatusPending, schedulerequest.StatusCancelled, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestGetByID_NoRowsIsNotFound(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewScheduleRequestRepository(db)

	mock.ExpectQuery("FROM schedule_requests").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, schedulerequest.ErrRequestNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
