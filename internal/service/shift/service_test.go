package shift

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTemplateRepo struct {
	templates map[string]shift.ShiftTemplate
}

func (s *stubTemplateRepo) Create(ctx context.Context, t shift.ShiftTemplate) (shift.ShiftTemplate, error) {
	if s.templates == nil {
		s.templates = make(map[string]shift.ShiftTemplate)
	}
	s.templates[t.ID] = t
	return t, nil
}

func (s *stubTemplateRepo) GetByID(ctx context.Context, id string) (shift.ShiftTemplate, error) {
	t, ok := s.templates[id]
	if !ok {
		return shift.ShiftTemplate{}, shift.ErrTemplateNotFound
	}
	return t, nil
}

func (s *stubTemplateRepo) List(ctx context.Context, activeOnly bool) ([]shift.ShiftTemplate, error) {
	out := make([]shift.ShiftTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		if activeOnly && !t.IsActive {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *stubTemplateRepo) Deactivate(ctx context.Context, id string) error {
	t, ok := s.templates[id]
	if !ok {
		return shift.ErrTemplateNotFound
	}
	t.IsActive = false
	s.templates[id] = t
	return nil
}

type stubAssignmentRepo struct {
	active *shift.ShiftAssignment
}

func (s *stubAssignmentRepo) Create(ctx context.Context, a shift.ShiftAssignment) (shift.ShiftAssignment, error) {
	s.active = &a
	return a, nil
}

func (s *stubAssignmentRepo) GetByID(ctx context.Context, id string) (shift.ShiftAssignment, error) {
	if s.active == nil || s.active.ID != id {
		return shift.ShiftAssignment{}, shift.ErrAssignmentNotFound
	}
	return *s.active, nil
}

func (s *stubAssignmentRepo) GetActiveForDate(ctx context.Context, userID string, date time.Time) (*shift.ShiftAssignment, error) {
	if s.active == nil || s.active.UserID != userID || !s.active.Covers(date) {
		return nil, nil
	}
	return s.active, nil
}

func (s *stubAssignmentRepo) ExpireActiveForUser(ctx context.Context, userID string) error {
	s.active = nil
	return nil
}

func (s *stubAssignmentRepo) ListByUser(ctx context.Context, userID string) ([]shift.ShiftAssignment, error) {
	if s.active == nil {
		return nil, nil
	}
	return []shift.ShiftAssignment{*s.active}, nil
}

type stubExceptionRepo struct {
	exception *shift.ShiftException
}

func (s *stubExceptionRepo) Create(ctx context.Context, e shift.ShiftException) (shift.ShiftException, error) {
	s.exception = &e
	return e, nil
}

func (s *stubExceptionRepo) GetActiveByUserAndDate(ctx context.Context, userID string, date time.Time) (*shift.ShiftException, error) {
	if s.exception == nil || s.exception.UserID != userID || !s.exception.ExceptionDate.Equal(date) {
		return nil, nil
	}
	return s.exception, nil
}

func (s *stubExceptionRepo) Revoke(ctx context.Context, id string) error {
	if s.exception == nil || s.exception.ID != id {
		return shift.ErrExceptionNotFound
	}
	s.exception = nil
	return nil
}

func (s *stubExceptionRepo) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]shift.ShiftException, error) {
	return nil, nil
}

func newTestShiftService(templates *stubTemplateRepo, assignments *stubAssignmentRepo, exceptions *stubExceptionRepo) shift.ShiftService {
	return NewShiftService(nil, templates, assignments, exceptions)
}

func strPtr(s string) *string    { return &s }
func intPtr(i int) *int          { return &i }
func datePtr(t time.Time) *time.Time { return &t }

var (
	monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // a Monday
	sunday = time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
)

func TestResolve_DayOffExceptionWins(t *testing.T) {
	assignments := &stubAssignmentRepo{active: &shift.ShiftAssignment{
		UserID:          "u1",
		CustomStartTime: strPtr("09:00"),
		CustomEndTime:   strPtr("17:00"),
		EffectiveFrom:   monday.AddDate(0, -1, 0),
		Status:          shift.AssignmentStatusActive,
	}}
	exceptions := &stubExceptionRepo{exception: &shift.ShiftException{
		ID:            "e1",
		UserID:        "u1",
		ExceptionDate: monday,
		ExceptionType: shift.ExceptionDayOff,
		Status:        shift.ExceptionStatusActive,
	}}

	svc := newTestShiftService(&stubTemplateRepo{}, assignments, exceptions)

	res, err := svc.Resolve(context.Background(), "u1", monday)
	require.NoError(t, err)
	assert.False(t, res.Working())
	assert.Equal(t, shift.SourceDayOff, res.Source)
}

func TestResolve_SpecialScheduleException(t *testing.T) {
	exceptions := &stubExceptionRepo{exception: &shift.ShiftException{
		ID:            "e2",
		UserID:        "u1",
		ExceptionDate: monday,
		ExceptionType: shift.ExceptionSpecialSchedule,
		NewStartTime:  strPtr("12:00"),
		NewEndTime:    strPtr("20:00"),
		NewBreakMinutes: intPtr(30),
		Status:        shift.ExceptionStatusActive,
	}}

	svc := newTestShiftService(&stubTemplateRepo{}, &stubAssignmentRepo{}, exceptions)

	res, err := svc.Resolve(context.Background(), "u1", monday)
	require.NoError(t, err)
	require.True(t, res.Working())
	assert.Equal(t, shift.SourceException, res.Source)
	assert.Equal(t, "12:00", res.Schedule.StartTime)
	assert.Equal(t, "20:00", res.Schedule.EndTime)
	assert.Equal(t, 30, res.Schedule.BreakMinutes)
}

func TestResolve_AssignmentMergesTemplateAndOverrides(t *testing.T) {
	templates := &stubTemplateRepo{templates: map[string]shift.ShiftTemplate{
		"t1": {
			ID:           "t1",
			Name:         "Day Shift",
			StartTime:    "09:00",
			EndTime:      "17:00",
			BreakMinutes: 60,
			IsActive:     true,
		},
	}}
	assignments := &stubAssignmentRepo{active: &shift.ShiftAssignment{
		ID:              "a1",
		UserID:          "u1",
		ShiftTemplateID: strPtr("t1"),
		CustomStartTime: strPtr("10:00"),
		EffectiveFrom:   monday.AddDate(0, -1, 0),
		Status:          shift.AssignmentStatusActive,
	}}

	svc := newTestShiftService(templates, assignments, &stubExceptionRepo{})

	res, err := svc.Resolve(context.Background(), "u1", monday)
	require.NoError(t, err)
	require.True(t, res.Working())
	assert.Equal(t, shift.SourceAssignment, res.Source)
	assert.Equal(t, "10:00", res.Schedule.StartTime, "custom start overrides template")
	assert.Equal(t, "17:00", res.Schedule.EndTime, "end time falls through to template")
	assert.Equal(t, 60, res.Schedule.BreakMinutes)
}

func TestResolve_RecurrenceExcludesWeekday(t *testing.T) {
	templates := &stubTemplateRepo{templates: map[string]shift.ShiftTemplate{
		"t1": {
			ID:             "t1",
			StartTime:      "09:00",
			EndTime:        "17:00",
			RecurrenceDays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
			IsActive:       true,
		},
	}}
	assignments := &stubAssignmentRepo{active: &shift.ShiftAssignment{
		ID:              "a1",
		UserID:          "u1",
		ShiftTemplateID: strPtr("t1"),
		EffectiveFrom:   sunday.AddDate(0, -1, 0),
		Status:          shift.AssignmentStatusActive,
	}}

	svc := newTestShiftService(templates, assignments, &stubExceptionRepo{})

	res, err := svc.Resolve(context.Background(), "u1", sunday)
	require.NoError(t, err)
	assert.False(t, res.Working())
	assert.Equal(t, shift.SourceNonWorkingDay, res.Source)

	res, err = svc.Resolve(context.Background(), "u1", monday)
	require.NoError(t, err)
	assert.True(t, res.Working())
	assert.Equal(t, shift.SourceAssignment, res.Source)
}

func TestResolve_NoAssignmentIsUnscheduled(t *testing.T) {
	svc := newTestShiftService(&stubTemplateRepo{}, &stubAssignmentRepo{}, &stubExceptionRepo{})

	res, err := svc.Resolve(context.Background(), "u1", monday)
	require.NoError(t, err)
	assert.False(t, res.Working())
	assert.Equal(t, shift.SourceUnscheduled, res.Source)
}

func TestResolve_MissingTemplateIsUnscheduled(t *testing.T) {
	assignments := &stubAssignmentRepo{active: &shift.ShiftAssignment{
		ID:              "a1",
		UserID:          "u1",
		ShiftTemplateID: strPtr("missing"),
		EffectiveFrom:   monday.AddDate(0, -1, 0),
		Status:          shift.AssignmentStatusActive,
	}}

	svc := newTestShiftService(&stubTemplateRepo{}, assignments, &stubExceptionRepo{})

	res, err := svc.Resolve(context.Background(), "u1", monday)
	require.NoError(t, err)
	assert.Equal(t, shift.SourceUnscheduled, res.Source)
}

func TestResolve_TemplateOutsideEffectiveRange(t *testing.T) {
	templates := &stubTemplateRepo{templates: map[string]shift.ShiftTemplate{
		"t1": {
			ID:            "t1",
			StartTime:     "09:00",
			EndTime:       "17:00",
			EffectiveFrom: datePtr(monday.AddDate(0, 1, 0)),
			IsActive:      true,
		},
	}}
	assignments := &stubAssignmentRepo{active: &shift.ShiftAssignment{
		ID:              "a1",
		UserID:          "u1",
		ShiftTemplateID: strPtr("t1"),
		EffectiveFrom:   monday.AddDate(0, -1, 0),
		Status:          shift.AssignmentStatusActive,
	}}

	svc := newTestShiftService(templates, assignments, &stubExceptionRepo{})

	res, err := svc.Resolve(context.Background(), "u1", monday)
	require.NoError(t, err)
	assert.Equal(t, shift.SourceUnscheduled, res.Source)
}

func TestCreateTemplate_RequiresManager(t *testing.T) {
	svc := newTestShiftService(&stubTemplateRepo{}, &stubAssignmentRepo{}, &stubExceptionRepo{})

	_, err := svc.CreateTemplate(context.Background(), staff.Actor{UserID: "u1", Role: staff.RoleEmployee}, shift.CreateTemplateRequest{
		Name:              "Day",
		StartTime:         "09:00",
		EndTime:           "17:00",
		RecurrencePattern: "weekly",
	})
	assert.ErrorIs(t, err, staff.ErrNotPermitted)
}

func TestCreateTemplate_NormalizesRecurrenceDays(t *testing.T) {
	templates := &stubTemplateRepo{}
	svc := newTestShiftService(templates, &stubAssignmentRepo{}, &stubExceptionRepo{})

	resp, err := svc.CreateTemplate(context.Background(), staff.Actor{UserID: "m1", Role: staff.RoleManager}, shift.CreateTemplateRequest{
		Name:              "Weekday",
		StartTime:         "09:00",
		EndTime:           "17:00",
		RecurrencePattern: "weekly",
		RecurrenceDays:    []string{"Mon", "tuesday", "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday"}, resp.RecurrenceDays)
}
