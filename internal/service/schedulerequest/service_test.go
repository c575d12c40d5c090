package schedulerequest

import (
	"context"
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedulerequest"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timeoffbank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRequestRepo struct {
	requests map[string]schedulerequest.ScheduleRequest
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[string]schedulerequest.ScheduleRequest)}
}

func (s *stubRequestRepo) Create(ctx context.Context, request schedulerequest.ScheduleRequest) (schedulerequest.ScheduleRequest, error) {
	s.requests[request.ID] = request
	return request, nil
}

func (s *stubRequestRepo) GetByID(ctx context.Context, id string) (schedulerequest.ScheduleRequest, error) {
	r, ok := s.requests[id]
	if !ok {
		return schedulerequest.ScheduleRequest{}, schedulerequest.ErrRequestNotFound
	}
	return r, nil
}

func (s *stubRequestRepo) Transition(ctx context.Context, id string, from, to schedulerequest.RequestStatus, reviewedBy *string, rejectionReason *string) (bool, error) {
	r, ok := s.requests[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	if reviewedBy != nil {
		r.ReviewedBy = reviewedBy
		now := time.Now().UTC()
		r.ReviewedAt = &now
	}
	if rejectionReason != nil {
		r.RejectionReason = rejectionReason
	}
	s.requests[id] = r
	return true, nil
}

func (s *stubRequestRepo) List(ctx context.Context, filter schedulerequest.ListFilter) ([]schedulerequest.ScheduleRequest, int64, error) {
	var out []schedulerequest.ScheduleRequest
	for _, r := range s.requests {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

type stubBankRepo struct {
	banks map[string]*timeoffbank.TimeOffBank // keyed by userID + "|" + program
}

func bankKey(userID, program string) string { return userID + "|" + program }

func (s *stubBankRepo) Create(ctx context.Context, bank timeoffbank.TimeOffBank) (timeoffbank.TimeOffBank, error) {
	return bank, nil
}

func (s *stubBankRepo) BulkCreate(ctx context.Context, banks []timeoffbank.TimeOffBank) (int, error) {
	return len(banks), nil
}

func (s *stubBankRepo) GetCurrentByUserAndProgram(ctx context.Context, userID, program string, asOf time.Time) (*timeoffbank.TimeOffBank, error) {
	bank, ok := s.banks[bankKey(userID, program)]
	if !ok || !bank.Current(asOf) {
		return nil, nil
	}
	return bank, nil
}

func (s *stubBankRepo) ListCurrentByUser(ctx context.Context, userID string, asOf time.Time) ([]timeoffbank.TimeOffBank, error) {
	return nil, nil
}

func (s *stubBankRepo) Debit(ctx context.Context, bankID string, days float64) error {
	for _, bank := range s.banks {
		if bank.ID == bankID && bank.UsedDays+days <= bank.TotalEntitledDays {
			bank.UsedDays += days
			return nil
		}
	}
	return timeoffbank.ErrInsufficientBalance
}

type stubExceptionRepo struct {
	exceptions []shift.ShiftException
}

func (s *stubExceptionRepo) Create(ctx context.Context, exception shift.ShiftException) (shift.ShiftException, error) {
	s.exceptions = append(s.exceptions, exception)
	return exception, nil
}

func (s *stubExceptionRepo) GetActiveByUserAndDate(ctx context.Context, userID string, date time.Time) (*shift.ShiftException, error) {
	for i := range s.exceptions {
		e := &s.exceptions[i]
		if e.UserID == userID && e.ExceptionDate.Equal(date) && e.Status == shift.ExceptionStatusActive {
			return e, nil
		}
	}
	return nil, nil
}

func (s *stubExceptionRepo) Revoke(ctx context.Context, id string) error { return nil }

func (s *stubExceptionRepo) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]shift.ShiftException, error) {
	return s.exceptions, nil
}

// stubSweeper records the re-resolution calls made after an approval
// commits.
type stubSweeper struct {
	refreshed []string // userID + "|" + date
}

func (s *stubSweeper) CheckIn(ctx context.Context, actor staff.Actor, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, nil
}

func (s *stubSweeper) CheckOut(ctx context.Context, actor staff.Actor, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, nil
}

func (s *stubSweeper) ManualMark(ctx context.Context, actor staff.Actor, req attendance.ManualMarkRequest) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, nil
}

func (s *stubSweeper) ProcessDate(ctx context.Context, userID string, date time.Time) (attendance.ProcessResult, error) {
	return attendance.ProcessResult{UserID: userID, Outcome: attendance.OutcomeNoSchedule}, nil
}

func (s *stubSweeper) RefreshDate(ctx context.Context, userID string, date time.Time) (attendance.ProcessResult, error) {
	s.refreshed = append(s.refreshed, userID+"|"+date.Format("2006-01-02"))
	return attendance.ProcessResult{UserID: userID, Outcome: attendance.OutcomeUpdated}, nil
}

func (s *stubSweeper) ProcessBatch(ctx context.Context, actor staff.Actor, req attendance.ProcessBatchRequest) (attendance.BatchSummary, error) {
	return attendance.BatchSummary{}, nil
}

func (s *stubSweeper) GetMyAttendance(ctx context.Context, actor staff.Actor, filter attendance.ListFilter) (attendance.ListAttendanceResponse, error) {
	return attendance.ListAttendanceResponse{}, nil
}

func (s *stubSweeper) ListAttendance(ctx context.Context, actor staff.Actor, filter attendance.ListFilter) (attendance.ListAttendanceResponse, error) {
	return attendance.ListAttendanceResponse{}, nil
}

type requestFixture struct {
	requests   *stubRequestRepo
	banks      *stubBankRepo
	exceptions *stubExceptionRepo
	sweeper    *stubSweeper
	svc        schedulerequest.RequestService
}

func cloneBanks(src map[string]*timeoffbank.TimeOffBank) map[string]*timeoffbank.TimeOffBank {
	out := make(map[string]*timeoffbank.TimeOffBank, len(src))
	for k, v := range src {
		bank := *v
		out[k] = &bank
	}
	return out
}

func newRequestFixture() *requestFixture {
	f := &requestFixture{
		requests:   newStubRequestRepo(),
		banks:      &stubBankRepo{banks: make(map[string]*timeoffbank.TimeOffBank)},
		exceptions: &stubExceptionRepo{},
		sweeper:    &stubSweeper{},
	}
	// Snapshot-and-restore gives the stubs transaction semantics: a failed
	// step rolls every repository back to its pre-call state.
	runner := func(ctx context.Context, fn func(txCtx context.Context) error) error {
		requests := maps.Clone(f.requests.requests)
		banks := cloneBanks(f.banks.banks)
		exceptions := slices.Clone(f.exceptions.exceptions)
		if err := fn(ctx); err != nil {
			f.requests.requests = requests
			f.banks.banks = banks
			f.exceptions.exceptions = exceptions
			return err
		}
		return nil
	}
	f.svc = NewRequestService(runner, f.requests, f.banks, f.exceptions, f.sweeper)
	return f
}

var (
	employee = staff.Actor{UserID: "u1", Role: staff.RoleEmployee}
	manager  = staff.Actor{UserID: "m1", Role: staff.RoleManager}
)

func seedRequest(f *requestFixture, status schedulerequest.RequestStatus) schedulerequest.ScheduleRequest {
	scheduledFor := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	request := schedulerequest.ScheduleRequest{
		ID:           "r1",
		UserID:       "u1",
		RequestType:  schedulerequest.TypeTimeOff,
		ScheduledFor: &scheduledFor,
		Reason:       "family event",
		Status:       status,
	}
	f.requests.requests[request.ID] = request
	return request
}

func TestSubmit_TimeOffRequest(t *testing.T) {
	f := newRequestFixture()
	scheduledFor := "2025-06-10"

	resp, err := f.svc.Submit(context.Background(), employee, schedulerequest.SubmitRequest{
		RequestType:  "time_off_request",
		ScheduledFor: &scheduledFor,
		Reason:       "family event",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "u1", resp.UserID)
	require.NotNil(t, resp.ScheduledFor)
	assert.Equal(t, "2025-06-10", *resp.ScheduledFor)
}

func TestSubmit_CompTimeWithoutBank(t *testing.T) {
	f := newRequestFixture()
	program := "overtime-2025"

	_, err := f.svc.Submit(context.Background(), employee, schedulerequest.SubmitRequest{
		RequestType:  "compensatory_time_use",
		DurationDays: 1,
		Program:      &program,
	})
	assert.ErrorIs(t, err, timeoffbank.ErrBankNotFound)
}

func TestSubmit_CompTimeInsufficientBalance(t *testing.T) {
	f := newRequestFixture()
	program := "overtime-2025"
	f.banks.banks[bankKey("u1", program)] = &timeoffbank.TimeOffBank{
		ID:                "b1",
		UserID:            "u1",
		ProgramName:       program,
		TotalEntitledDays: 2,
		UsedDays:          1.5,
		ValidFrom:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:           time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	scheduledFor := "2025-06-10"

	_, err := f.svc.Submit(context.Background(), employee, schedulerequest.SubmitRequest{
		RequestType:  "compensatory_time_use",
		ScheduledFor: &scheduledFor,
		DurationDays: 1,
		Program:      &program,
	})
	assert.ErrorIs(t, err, timeoffbank.ErrInsufficientBalance)
}

func TestSubmit_CompTimeWithBalance(t *testing.T) {
	f := newRequestFixture()
	program := "overtime-2025"
	f.banks.banks[bankKey("u1", program)] = &timeoffbank.TimeOffBank{
		ID:                "b1",
		UserID:            "u1",
		ProgramName:       program,
		TotalEntitledDays: 2,
		UsedDays:          0.5,
		ValidFrom:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:           time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	scheduledFor := "2025-06-10"

	resp, err := f.svc.Submit(context.Background(), employee, schedulerequest.SubmitRequest{
		RequestType:  "compensatory_time_use",
		ScheduledFor: &scheduledFor,
		DurationDays: 1,
		Program:      &program,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestSubmit_ScheduleChangeRequiresTimes(t *testing.T) {
	f := newRequestFixture()

	_, err := f.svc.Submit(context.Background(), employee, schedulerequest.SubmitRequest{
		RequestType: "schedule_change",
	})
	require.Error(t, err)
}

func TestApprove_RequiresManager(t *testing.T) {
	f := newRequestFixture()
	seedRequest(f, schedulerequest.StatusPending)

	_, err := f.svc.Approve(context.Background(), employee, "r1")
	assert.ErrorIs(t, err, staff.ErrNotPermitted)
}

func TestApprove_NotFound(t *testing.T) {
	f := newRequestFixture()

	_, err := f.svc.Approve(context.Background(), manager, "missing")
	assert.ErrorIs(t, err, schedulerequest.ErrRequestNotFound)
}

func TestApprove_TerminalState(t *testing.T) {
	f := newRequestFixture()
	seedRequest(f, schedulerequest.StatusRejected)

	_, err := f.svc.Approve(context.Background(), manager, "r1")
	assert.ErrorIs(t, err, schedulerequest.ErrInvalidRequestState)
}

func TestApprove_TimeOffCreatesDayOffException(t *testing.T) {
	f := newRequestFixture()
	seedRequest(f, schedulerequest.StatusPending)

	resp, err := f.svc.Approve(context.Background(), manager, "r1")
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, "m1", *resp.ReviewedBy)

	require.Len(t, f.exceptions.exceptions, 1)
	exc := f.exceptions.exceptions[0]
	assert.Equal(t, shift.ExceptionDayOff, exc.ExceptionType)
	assert.Equal(t, "u1", exc.UserID)
	assert.Equal(t, "2025-06-10", exc.ExceptionDate.Format("2006-01-02"))

	// The affected date is re-resolved after the commit so an existing
	// record picks up the day off.
	assert.Equal(t, []string{"u1|2025-06-10"}, f.sweeper.refreshed)
}

func TestApprove_CompTimeDebitsBankAtomically(t *testing.T) {
	f := newRequestFixture()
	program := "overtime-2025"
	f.banks.banks[bankKey("u1", program)] = &timeoffbank.TimeOffBank{
		ID:                "b1",
		UserID:            "u1",
		ProgramName:       program,
		TotalEntitledDays: 3,
		UsedDays:          1,
		ValidFrom:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:           time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	scheduledFor := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	f.requests.requests["r1"] = schedulerequest.ScheduleRequest{
		ID:           "r1",
		UserID:       "u1",
		RequestType:  schedulerequest.TypeCompensatoryTimeUse,
		ScheduledFor: &scheduledFor,
		DurationDays: 1.5,
		Program:      &program,
		Status:       schedulerequest.StatusPending,
	}

	resp, err := f.svc.Approve(context.Background(), manager, "r1")
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)

	assert.Equal(t, 2.5, f.banks.banks[bankKey("u1", program)].UsedDays)
	require.Len(t, f.exceptions.exceptions, 1)
	assert.Equal(t, shift.ExceptionDayOff, f.exceptions.exceptions[0].ExceptionType)
}

func TestApprove_DebitFailureRollsBackEverything(t *testing.T) {
	f := newRequestFixture()
	program := "overtime-2025"
	// The balance shrank after submission; the in-transaction debit must
	// fail and undo the transition and the exception.
	f.banks.banks[bankKey("u1", program)] = &timeoffbank.TimeOffBank{
		ID:                "b1",
		UserID:            "u1",
		ProgramName:       program,
		TotalEntitledDays: 2,
		UsedDays:          1.5,
		ValidFrom:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:           time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	scheduledFor := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	f.requests.requests["r1"] = schedulerequest.ScheduleRequest{
		ID:           "r1",
		UserID:       "u1",
		RequestType:  schedulerequest.TypeCompensatoryTimeUse,
		ScheduledFor: &scheduledFor,
		DurationDays: 1,
		Program:      &program,
		Status:       schedulerequest.StatusPending,
	}

	_, err := f.svc.Approve(context.Background(), manager, "r1")
	assert.ErrorIs(t, err, timeoffbank.ErrInsufficientBalance)

	assert.Equal(t, schedulerequest.StatusPending, f.requests.requests["r1"].Status)
	assert.Empty(t, f.exceptions.exceptions)
	assert.Equal(t, 1.5, f.banks.banks[bankKey("u1", program)].UsedDays)
	assert.Empty(t, f.sweeper.refreshed)
}

func TestApprove_FlexibleArrangementCreatesNoException(t *testing.T) {
	f := newRequestFixture()
	scheduledFor := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	f.requests.requests["r1"] = schedulerequest.ScheduleRequest{
		ID:           "r1",
		UserID:       "u1",
		RequestType:  schedulerequest.TypeFlexibleArrangement,
		ScheduledFor: &scheduledFor,
		Status:       schedulerequest.StatusPending,
	}

	resp, err := f.svc.Approve(context.Background(), manager, "r1")
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Empty(t, f.exceptions.exceptions)
}

func TestReject_Pending(t *testing.T) {
	f := newRequestFixture()
	seedRequest(f, schedulerequest.StatusPending)
	reason := "short staffed that week"

	resp, err := f.svc.Reject(context.Background(), manager, "r1", schedulerequest.RejectRequest{Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, reason, *resp.RejectionReason)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, "m1", *resp.ReviewedBy)
}

func TestReject_AlreadyDecided(t *testing.T) {
	f := newRequestFixture()
	seedRequest(f, schedulerequest.StatusApproved)

	_, err := f.svc.Reject(context.Background(), manager, "r1", schedulerequest.RejectRequest{})
	assert.ErrorIs(t, err, schedulerequest.ErrInvalidRequestState)
}

func TestReject_NotFound(t *testing.T) {
	f := newRequestFixture()

	_, err := f.svc.Reject(context.Background(), manager, "missing", schedulerequest.RejectRequest{})
	assert.ErrorIs(t, err, schedulerequest.ErrRequestNotFound)
}

func TestCancel_ByRequester(t *testing.T) {
	f := newRequestFixture()
	seedRequest(f, schedulerequest.StatusPending)

	resp, err := f.svc.Cancel(context.Background(), employee, "r1")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestCancel_ByOtherEmployee(t *testing.T) {
	f := newRequestFixture()
	seedRequest(f, schedulerequest.StatusPending)

	other := staff.Actor{UserID: "u2", Role: staff.RoleEmployee}
	_, err := f.svc.Cancel(context.Background(), other, "r1")
	assert.ErrorIs(t, err, staff.ErrNotPermitted)
}

func TestCancel_AfterDecision(t *testing.T) {
	f := newRequestFixture()
	seedRequest(f, schedulerequest.StatusApproved)

	_, err := f.svc.Cancel(context.Background(), employee, "r1")
	assert.ErrorIs(t, err, schedulerequest.ErrInvalidRequestState)
}

func TestGet_OwnerAndManagerOnly(t *testing.T) {
	f := newRequestFixture()
	seedRequest(f, schedulerequest.StatusPending)

	_, err := f.svc.Get(context.Background(), employee, "r1")
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), manager, "r1")
	require.NoError(t, err)

	other := staff.Actor{UserID: "u2", Role: staff.RoleEmployee}
	_, err = f.svc.Get(context.Background(), other, "r1")
	assert.ErrorIs(t, err, staff.ErrNotPermitted)
}

func TestList_EmployeeSeesOwnOnly(t *testing.T) {
	f := newRequestFixture()
	seedRequest(f, schedulerequest.StatusPending)
	f.requests.requests["r2"] = schedulerequest.ScheduleRequest{
		ID:     "r2",
		UserID: "u2",
		Status: schedulerequest.StatusPending,
	}

	resp, err := f.svc.List(context.Background(), employee, schedulerequest.ListFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, "u1", resp.Requests[0].UserID)

	resp, err = f.svc.List(context.Background(), manager, schedulerequest.ListFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, resp.Requests, 2)
}

func TestBuildException_FollowsRequestType(t *testing.T) {
	scheduledFor := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	start := "12:00"
	end := "20:00"

	// A time-off request stays a day off even when the submitter filled in
	// clock times.
	request := schedulerequest.ScheduleRequest{
		ID:                 "r1",
		UserID:             "u1",
		RequestType:        schedulerequest.TypeTimeOff,
		ScheduledFor:       &scheduledFor,
		RequestedStartTime: &start,
		RequestedEndTime:   &end,
	}
	exc, ok := buildException(request, "m1")
	require.True(t, ok)
	assert.Equal(t, shift.ExceptionDayOff, exc.ExceptionType)
	assert.Nil(t, exc.NewStartTime)

	request.RequestType = schedulerequest.TypeScheduleChange
	exc, ok = buildException(request, "m1")
	require.True(t, ok)
	assert.Equal(t, shift.ExceptionSpecialSchedule, exc.ExceptionType)
	require.NotNil(t, exc.NewStartTime)
	assert.Equal(t, "12:00", *exc.NewStartTime)
	require.NotNil(t, exc.NewEndTime)
	assert.Equal(t, "20:00", *exc.NewEndTime)

	request.RequestType = schedulerequest.TypeCompensatoryTimeUse
	exc, ok = buildException(request, "m1")
	require.True(t, ok)
	assert.Equal(t, shift.ExceptionDayOff, exc.ExceptionType)

	for _, rt := range []schedulerequest.RequestType{schedulerequest.TypeShiftSwap, schedulerequest.TypeFlexibleArrangement} {
		request.RequestType = rt
		_, ok = buildException(request, "m1")
		assert.False(t, ok)
	}
}
