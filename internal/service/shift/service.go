package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	"github.com/google/uuid"
)

type ShiftServiceImpl struct {
	db *database.DB
	shift.TemplateRepository
	shift.AssignmentRepository
	shift.ExceptionRepository
}

func NewShiftService(
	db *database.DB,
	templateRepo shift.TemplateRepository,
	assignmentRepo shift.AssignmentRepository,
	exceptionRepo shift.ExceptionRepository,
) shift.ShiftService {
	return &ShiftServiceImpl{
		db:                   db,
		TemplateRepository:   templateRepo,
		AssignmentRepository: assignmentRepo,
		ExceptionRepository:  exceptionRepo,
	}
}

// Resolve implements shift.ShiftService. First match wins: an active
// exception beats the standing assignment, the standing assignment beats
// no information.
func (s *ShiftServiceImpl) Resolve(ctx context.Context, userID string, date time.Time) (shift.Resolution, error) {
	exception, err := s.ExceptionRepository.GetActiveByUserAndDate(ctx, userID, date)
	if err != nil {
		return shift.Resolution{}, fmt.Errorf("failed to look up shift exception: %w", err)
	}
	if exception != nil {
		return resolveFromException(*exception), nil
	}

	assignment, err := s.AssignmentRepository.GetActiveForDate(ctx, userID, date)
	if err != nil {
		return shift.Resolution{}, fmt.Errorf("failed to look up shift assignment: %w", err)
	}
	if assignment == nil {
		return shift.Resolution{Source: shift.SourceUnscheduled}, nil
	}

	return s.resolveFromAssignment(ctx, *assignment, date)
}

func resolveFromException(exc shift.ShiftException) shift.Resolution {
	if exc.ExceptionType == shift.ExceptionDayOff {
		return shift.Resolution{Source: shift.SourceDayOff}
	}

	schedule := shift.Schedule{}
	if exc.NewStartTime != nil {
		schedule.StartTime = *exc.NewStartTime
	}
	if exc.NewEndTime != nil {
		schedule.EndTime = *exc.NewEndTime
	}
	if exc.NewBreakMinutes != nil {
		schedule.BreakMinutes = *exc.NewBreakMinutes
	}
	return shift.Resolution{Schedule: &schedule, Source: shift.SourceException}
}

// resolveFromAssignment merges the assignment's custom fields over the
// referenced template and applies the recurrence check.
func (s *ShiftServiceImpl) resolveFromAssignment(ctx context.Context, asg shift.ShiftAssignment, date time.Time) (shift.Resolution, error) {
	schedule := shift.Schedule{}
	var recurrenceDays []time.Weekday

	if asg.ShiftTemplateID != nil {
		template, err := s.TemplateRepository.GetByID(ctx, *asg.ShiftTemplateID)
		if err != nil {
			if errors.Is(err, shift.ErrTemplateNotFound) {
				return shift.Resolution{Source: shift.SourceUnscheduled}, nil
			}
			return shift.Resolution{}, fmt.Errorf("failed to load shift template: %w", err)
		}

		if template.EffectiveFrom != nil && date.Before(*template.EffectiveFrom) {
			return shift.Resolution{Source: shift.SourceUnscheduled}, nil
		}
		if template.EffectiveTo != nil && date.After(*template.EffectiveTo) {
			return shift.Resolution{Source: shift.SourceUnscheduled}, nil
		}

		schedule.StartTime = template.StartTime
		schedule.EndTime = template.EndTime
		schedule.BreakMinutes = template.BreakMinutes
		recurrenceDays = template.RecurrenceDays
	}

	// Custom fields on the assignment override the template values.
	if asg.CustomStartTime != nil {
		schedule.StartTime = *asg.CustomStartTime
	}
	if asg.CustomEndTime != nil {
		schedule.EndTime = *asg.CustomEndTime
	}
	if asg.CustomBreakMinutes != nil {
		schedule.BreakMinutes = *asg.CustomBreakMinutes
	}

	if schedule.StartTime == "" || schedule.EndTime == "" {
		return shift.Resolution{Source: shift.SourceUnscheduled}, nil
	}

	if len(recurrenceDays) > 0 {
		weekday := date.Weekday()
		member := false
		for _, d := range recurrenceDays {
			if d == weekday {
				member = true
				break
			}
		}
		if !member {
			return shift.Resolution{Source: shift.SourceNonWorkingDay}, nil
		}
	}

	return shift.Resolution{Schedule: &schedule, Source: shift.SourceAssignment}, nil
}

// CreateTemplate implements shift.ShiftService.
func (s *ShiftServiceImpl) CreateTemplate(ctx context.Context, actor staff.Actor, req shift.CreateTemplateRequest) (shift.TemplateResponse, error) {
	if !actor.CanManageAttendance() {
		return shift.TemplateResponse{}, staff.ErrNotPermitted
	}
	if err := req.Validate(); err != nil {
		return shift.TemplateResponse{}, err
	}

	days, err := shift.NormalizeRecurrenceDays(req.RecurrenceDays)
	if err != nil {
		return shift.TemplateResponse{}, err
	}

	template := shift.ShiftTemplate{
		ID:                uuid.NewString(),
		Name:              req.Name,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		BreakMinutes:      req.BreakMinutes,
		RecurrencePattern: shift.RecurrencePattern(req.RecurrencePattern),
		RecurrenceDays:    days,
		IsActive:          true,
	}
	if req.EffectiveFrom != nil {
		from, _ := time.Parse("2006-01-02", *req.EffectiveFrom)
		template.EffectiveFrom = &from
	}
	if req.EffectiveTo != nil {
		to, _ := time.Parse("2006-01-02", *req.EffectiveTo)
		template.EffectiveTo = &to
	}

	created, err := s.TemplateRepository.Create(ctx, template)
	if err != nil {
		return shift.TemplateResponse{}, fmt.Errorf("failed to create shift template: %w", err)
	}

	return mapTemplateToResponse(created), nil
}

// ListTemplates implements shift.ShiftService.
func (s *ShiftServiceImpl) ListTemplates(ctx context.Context, activeOnly bool) ([]shift.TemplateResponse, error) {
	templates, err := s.TemplateRepository.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift templates: %w", err)
	}

	responses := make([]shift.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		responses = append(responses, mapTemplateToResponse(t))
	}
	return responses, nil
}

// DeactivateTemplate implements shift.ShiftService. Templates referenced by
// assignments are deactivated, never hard-deleted.
func (s *ShiftServiceImpl) DeactivateTemplate(ctx context.Context, actor staff.Actor, id string) error {
	if !actor.CanManageAttendance() {
		return staff.ErrNotPermitted
	}
	if err := s.TemplateRepository.Deactivate(ctx, id); err != nil {
		if errors.Is(err, shift.ErrTemplateNotFound) {
			return shift.ErrTemplateNotFound
		}
		return fmt.Errorf("failed to deactivate shift template: %w", err)
	}
	return nil
}

// AssignShift implements shift.ShiftService. Expiring the previous active
// assignment and creating the new one happen in one transaction so the
// at-most-one-active invariant holds even if the process dies in between.
func (s *ShiftServiceImpl) AssignShift(ctx context.Context, actor staff.Actor, req shift.AssignShiftRequest) (shift.AssignmentResponse, error) {
	if !actor.CanManageAttendance() {
		return shift.AssignmentResponse{}, staff.ErrNotPermitted
	}
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}

	if req.ShiftTemplateID != nil {
		if _, err := s.TemplateRepository.GetByID(ctx, *req.ShiftTemplateID); err != nil {
			if errors.Is(err, shift.ErrTemplateNotFound) {
				return shift.AssignmentResponse{}, shift.ErrTemplateNotFound
			}
			return shift.AssignmentResponse{}, fmt.Errorf("failed to load shift template: %w", err)
		}
	}

	effectiveFrom, _ := time.Parse("2006-01-02", req.EffectiveFrom)
	assignment := shift.ShiftAssignment{
		ID:                 uuid.NewString(),
		UserID:             req.UserID,
		ShiftTemplateID:    req.ShiftTemplateID,
		CustomStartTime:    req.CustomStartTime,
		CustomEndTime:      req.CustomEndTime,
		CustomBreakMinutes: req.CustomBreakMinutes,
		EffectiveFrom:      effectiveFrom,
		AssignmentType:     shift.AssignmentType(req.AssignmentType),
		Status:             shift.AssignmentStatusActive,
	}
	if req.EffectiveTo != nil {
		to, _ := time.Parse("2006-01-02", *req.EffectiveTo)
		assignment.EffectiveTo = &to
	}

	var created shift.ShiftAssignment
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.AssignmentRepository.ExpireActiveForUser(txCtx, req.UserID); err != nil {
			return fmt.Errorf("failed to expire previous assignment: %w", err)
		}
		var err error
		created, err = s.AssignmentRepository.Create(txCtx, assignment)
		if err != nil {
			return fmt.Errorf("failed to create shift assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	return mapAssignmentToResponse(created), nil
}

// ListAssignments implements shift.ShiftService.
func (s *ShiftServiceImpl) ListAssignments(ctx context.Context, userID string) ([]shift.AssignmentResponse, error) {
	assignments, err := s.AssignmentRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}

	responses := make([]shift.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, mapAssignmentToResponse(a))
	}
	return responses, nil
}

// RevokeException implements shift.ShiftService.
func (s *ShiftServiceImpl) RevokeException(ctx context.Context, actor staff.Actor, id string) error {
	if !actor.CanManageAttendance() {
		return staff.ErrNotPermitted
	}
	if err := s.ExceptionRepository.Revoke(ctx, id); err != nil {
		if errors.Is(err, shift.ErrExceptionNotFound) {
			return shift.ErrExceptionNotFound
		}
		return fmt.Errorf("failed to revoke shift exception: %w", err)
	}
	return nil
}

func mapTemplateToResponse(t shift.ShiftTemplate) shift.TemplateResponse {
	days := make([]string, 0, len(t.RecurrenceDays))
	for _, d := range t.RecurrenceDays {
		days = append(days, d.String())
	}

	resp := shift.TemplateResponse{
		ID:                t.ID,
		Name:              t.Name,
		StartTime:         t.StartTime,
		EndTime:           t.EndTime,
		BreakMinutes:      t.BreakMinutes,
		RecurrencePattern: string(t.RecurrencePattern),
		RecurrenceDays:    days,
		IsActive:          t.IsActive,
	}
	if t.EffectiveFrom != nil {
		from := t.EffectiveFrom.Format("2006-01-02")
		resp.EffectiveFrom = &from
	}
	if t.EffectiveTo != nil {
		to := t.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &to
	}
	return resp
}

func mapAssignmentToResponse(a shift.ShiftAssignment) shift.AssignmentResponse {
	resp := shift.AssignmentResponse{
		ID:                 a.ID,
		UserID:             a.UserID,
		ShiftTemplateID:    a.ShiftTemplateID,
		CustomStartTime:    a.CustomStartTime,
		CustomEndTime:      a.CustomEndTime,
		CustomBreakMinutes: a.CustomBreakMinutes,
		EffectiveFrom:      a.EffectiveFrom.Format("2006-01-02"),
		AssignmentType:     string(a.AssignmentType),
		Status:             string(a.Status),
	}
	if a.EffectiveTo != nil {
		to := a.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &to
	}
	return resp
}
