package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/google/uuid"
)

type CalendarServiceImpl struct {
	calendar.HolidayRepository
	calendar.LeaveRecordRepository
}

func NewCalendarService(holidayRepo calendar.HolidayRepository, leaveRepo calendar.LeaveRecordRepository) calendar.Service {
	return &CalendarServiceImpl{
		HolidayRepository:     holidayRepo,
		LeaveRecordRepository: leaveRepo,
	}
}

// IsHoliday implements calendar.Provider.
func (c *CalendarServiceImpl) IsHoliday(ctx context.Context, date time.Time, branchID *string) (bool, error) {
	exists, err := c.HolidayRepository.ExistsOnDate(ctx, date, branchID)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return exists, nil
}

// HasApprovedLeave implements calendar.Provider.
func (c *CalendarServiceImpl) HasApprovedLeave(ctx context.Context, userID string, date time.Time) (bool, error) {
	has, err := c.LeaveRecordRepository.HasApprovedLeave(ctx, userID, date)
	if err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	return has, nil
}

// CreateHoliday implements calendar.Service.
func (c *CalendarServiceImpl) CreateHoliday(ctx context.Context, req calendar.CreateHolidayRequest) (calendar.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return calendar.HolidayResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	holiday := calendar.Holiday{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Date:        date,
		BranchID:    req.BranchID,
		IsMandatory: req.IsMandatory,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	created, err := c.HolidayRepository.Create(ctx, holiday)
	if err != nil {
		return calendar.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return mapHolidayToResponse(created), nil
}

// ListHolidays implements calendar.Service.
func (c *CalendarServiceImpl) ListHolidays(ctx context.Context, year int) ([]calendar.HolidayResponse, error) {
	holidays, err := c.HolidayRepository.List(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]calendar.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, mapHolidayToResponse(h))
	}
	return responses, nil
}

// DeleteHoliday implements calendar.Service.
func (c *CalendarServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	if err := c.HolidayRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, calendar.ErrHolidayNotFound) {
			return calendar.ErrHolidayNotFound
		}
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

func mapHolidayToResponse(h calendar.Holiday) calendar.HolidayResponse {
	return calendar.HolidayResponse{
		ID:          h.ID,
		Name:        h.Name,
		Date:        h.Date.Format("2006-01-02"),
		BranchID:    h.BranchID,
		IsMandatory: h.IsMandatory,
	}
}
