package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHolidayRepo struct {
	holidays []calendar.Holiday
}

func (s *stubHolidayRepo) Create(ctx context.Context, holiday calendar.Holiday) (calendar.Holiday, error) {
	s.holidays = append(s.holidays, holiday)
	return holiday, nil
}

func (s *stubHolidayRepo) ExistsOnDate(ctx context.Context, date time.Time, branchID *string) (bool, error) {
	for _, h := range s.holidays {
		if !h.Date.Equal(date) {
			continue
		}
		if h.BranchID == nil {
			return true, nil
		}
		if branchID != nil && *h.BranchID == *branchID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubHolidayRepo) List(ctx context.Context, year int) ([]calendar.Holiday, error) {
	var out []calendar.Holiday
	for _, h := range s.holidays {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *stubHolidayRepo) Delete(ctx context.Context, id string) error {
	for i, h := range s.holidays {
		if h.ID == id {
			s.holidays = append(s.holidays[:i], s.holidays[i+1:]...)
			return nil
		}
	}
	return calendar.ErrHolidayNotFound
}

type stubLeaveRepo struct {
	approved map[string]bool // userID + "|" + date
}

func (s *stubLeaveRepo) HasApprovedLeave(ctx context.Context, userID string, date time.Time) (bool, error) {
	return s.approved[userID+"|"+date.Format("2006-01-02")], nil
}

func TestIsHoliday_GlobalAndBranchScoped(t *testing.T) {
	branchA := "6f9619ff-8b86-4d01-b42d-00cf4fc964ff"
	branchB := "7f9619ff-8b86-4d01-b42d-00cf4fc964ff"
	repo := &stubHolidayRepo{holidays: []calendar.Holiday{
		{ID: "h1", Name: "Independence Day", Date: time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC)},
		{ID: "h2", Name: "Branch Anniversary", Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), BranchID: &branchA},
	}}
	svc := NewCalendarService(repo, &stubLeaveRepo{})

	// Global holiday matches regardless of branch.
	is, err := svc.IsHoliday(context.Background(), time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	assert.True(t, is)

	is, err = svc.IsHoliday(context.Background(), time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), &branchA)
	require.NoError(t, err)
	assert.True(t, is)

	is, err = svc.IsHoliday(context.Background(), time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), &branchB)
	require.NoError(t, err)
	assert.False(t, is)
}

func TestHasApprovedLeave(t *testing.T) {
	leaves := &stubLeaveRepo{approved: map[string]bool{
		"u1|2025-06-10": true,
	}}
	svc := NewCalendarService(&stubHolidayRepo{}, leaves)

	has, err := svc.HasApprovedLeave(context.Background(), "u1", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, has)

	has, err = svc.HasApprovedLeave(context.Background(), "u1", time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCreateHoliday_Validation(t *testing.T) {
	svc := NewCalendarService(&stubHolidayRepo{}, &stubLeaveRepo{})

	_, err := svc.CreateHoliday(context.Background(), calendar.CreateHolidayRequest{
		Name: "",
		Date: "17-08-2025",
	})
	require.Error(t, err)
}

func TestCreateHoliday_Succeeds(t *testing.T) {
	repo := &stubHolidayRepo{}
	svc := NewCalendarService(repo, &stubLeaveRepo{})

	resp, err := svc.CreateHoliday(context.Background(), calendar.CreateHolidayRequest{
		Name:        "Independence Day",
		Date:        "2025-08-17",
		IsMandatory: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "2025-08-17", resp.Date)
	assert.Len(t, repo.holidays, 1)
}

func TestListHolidays_FiltersByYear(t *testing.T) {
	repo := &stubHolidayRepo{holidays: []calendar.Holiday{
		{ID: "h1", Date: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{ID: "h2", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewCalendarService(repo, &stubLeaveRepo{})

	holidays, err := svc.ListHolidays(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "h2", holidays[0].ID)
}

func TestDeleteHoliday_NotFound(t *testing.T) {
	svc := NewCalendarService(&stubHolidayRepo{}, &stubLeaveRepo{})

	err := svc.DeleteHoliday(context.Background(), "missing")
	assert.ErrorIs(t, err, calendar.ErrHolidayNotFound)
}
