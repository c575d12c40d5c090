package schedulerequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedulerequest"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timeoffbank"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/google/uuid"
)

type RequestServiceImpl struct {
	tx database.TxRunner
	schedulerequest.RequestRepository
	bankRepo      timeoffbank.BankRepository
	exceptionRepo shift.ExceptionRepository
	sweeper       attendance.AttendanceService
}

func NewRequestService(
	tx database.TxRunner,
	requestRepo schedulerequest.RequestRepository,
	bankRepo timeoffbank.BankRepository,
	exceptionRepo shift.ExceptionRepository,
	sweeper attendance.AttendanceService,
) schedulerequest.RequestService {
	return &RequestServiceImpl{
		tx:                tx,
		RequestRepository: requestRepo,
		bankRepo:          bankRepo,
		exceptionRepo:     exceptionRepo,
		sweeper:           sweeper,
	}
}

// Submit implements schedulerequest.RequestService.
func (s *RequestServiceImpl) Submit(ctx context.Context, actor staff.Actor, req schedulerequest.SubmitRequest) (schedulerequest.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return schedulerequest.RequestResponse{}, err
	}

	var scheduledFor *time.Time
	if req.ScheduledFor != nil {
		parsed, _ := time.Parse("2006-01-02", *req.ScheduledFor)
		scheduledFor = &parsed
	}

	// Balance is checked at creation so employees learn about an overdrawn
	// bank immediately, not days later at review time. The approval path
	// re-checks inside its transaction anyway.
	if schedulerequest.RequestType(req.RequestType) == schedulerequest.TypeCompensatoryTimeUse {
		asOf := time.Now().UTC()
		if scheduledFor != nil {
			asOf = *scheduledFor
		}
		bank, err := s.bankRepo.GetCurrentByUserAndProgram(ctx, actor.UserID, *req.Program, asOf)
		if err != nil {
			return schedulerequest.RequestResponse{}, fmt.Errorf("failed to check bank balance: %w", err)
		}
		if bank == nil {
			return schedulerequest.RequestResponse{}, timeoffbank.ErrBankNotFound
		}
		if bank.AvailableDays() < req.DurationDays {
			return schedulerequest.RequestResponse{}, timeoffbank.ErrInsufficientBalance
		}
	}

	request := schedulerequest.ScheduleRequest{
		ID:                 uuid.NewString(),
		UserID:             actor.UserID,
		RequestType:        schedulerequest.RequestType(req.RequestType),
		ScheduledFor:       scheduledFor,
		RequestedStartTime: req.RequestedStartTime,
		RequestedEndTime:   req.RequestedEndTime,
		DurationDays:       req.DurationDays,
		Program:            req.Program,
		Reason:             req.Reason,
		Status:             schedulerequest.StatusPending,
	}

	created, err := s.RequestRepository.Create(ctx, request)
	if err != nil {
		return schedulerequest.RequestResponse{}, fmt.Errorf("failed to create schedule request: %w", err)
	}

	return mapRequestToResponse(created), nil
}

// Approve implements schedulerequest.RequestService. Exception creation and
// the bank debit commit atomically with the status transition; if any step
// fails the request stays pending.
func (s *RequestServiceImpl) Approve(ctx context.Context, actor staff.Actor, id string) (schedulerequest.RequestResponse, error) {
	if !actor.CanManageAttendance() {
		return schedulerequest.RequestResponse{}, staff.ErrNotPermitted
	}

	request, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, schedulerequest.ErrRequestNotFound) {
			return schedulerequest.RequestResponse{}, schedulerequest.ErrRequestNotFound
		}
		return schedulerequest.RequestResponse{}, fmt.Errorf("failed to load schedule request: %w", err)
	}
	if request.Status.Terminal() {
		return schedulerequest.RequestResponse{}, schedulerequest.ErrInvalidRequestState
	}

	err = s.tx(ctx, func(txCtx context.Context) error {
		ok, err := s.RequestRepository.Transition(txCtx, id, schedulerequest.StatusPending, schedulerequest.StatusApproved, &actor.UserID, nil)
		if err != nil {
			return fmt.Errorf("failed to transition schedule request: %w", err)
		}
		if !ok {
			return schedulerequest.ErrInvalidRequestState
		}

		if request.ScheduledFor != nil {
			if exception, ok := buildException(request, actor.UserID); ok {
				if _, err := s.exceptionRepo.Create(txCtx, exception); err != nil {
					return fmt.Errorf("failed to create shift exception: %w", err)
				}
			}
		}

		if request.RequestType == schedulerequest.TypeCompensatoryTimeUse {
			asOf := time.Now().UTC()
			if request.ScheduledFor != nil {
				asOf = *request.ScheduledFor
			}
			bank, err := s.bankRepo.GetCurrentByUserAndProgram(txCtx, request.UserID, *request.Program, asOf)
			if err != nil {
				return fmt.Errorf("failed to load bank: %w", err)
			}
			if bank == nil {
				return timeoffbank.ErrBankNotFound
			}
			if err := s.bankRepo.Debit(txCtx, bank.ID, request.DurationDays); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return schedulerequest.RequestResponse{}, err
	}

	// Re-resolution of the affected date is best-effort: the approval has
	// already committed, so a failure here only leaves the record stale
	// until someone looks. RefreshDate rewrites an existing record, which
	// the sweep would have skipped.
	if request.ScheduledFor != nil {
		if _, err := s.sweeper.RefreshDate(ctx, request.UserID, *request.ScheduledFor); err != nil {
			slog.Warn("post-approval re-resolution failed",
				"request_id", request.ID,
				"user_id", request.UserID,
				"date", request.ScheduledFor.Format("2006-01-02"),
				"error", err,
			)
		}
	}

	approved, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return schedulerequest.RequestResponse{}, fmt.Errorf("failed to reload schedule request: %w", err)
	}
	return mapRequestToResponse(approved), nil
}

// buildException maps an approved request onto the shift exception it
// materializes, keyed by request type. Time-off and compensatory-time
// approvals take the whole day off; schedule changes carry the requested
// clock times. Shift swaps and flexible arrangements change no single
// date, so they produce no exception.
func buildException(request schedulerequest.ScheduleRequest, approvedBy string) (shift.ShiftException, bool) {
	exception := shift.ShiftException{
		ID:            uuid.NewString(),
		UserID:        request.UserID,
		ExceptionDate: *request.ScheduledFor,
		Reason:        request.Reason,
		ApprovedBy:    &approvedBy,
		Status:        shift.ExceptionStatusActive,
	}

	switch request.RequestType {
	case schedulerequest.TypeTimeOff, schedulerequest.TypeCompensatoryTimeUse:
		exception.ExceptionType = shift.ExceptionDayOff
	case schedulerequest.TypeScheduleChange:
		exception.ExceptionType = shift.ExceptionSpecialSchedule
		exception.NewStartTime = request.RequestedStartTime
		exception.NewEndTime = request.RequestedEndTime
	default:
		return shift.ShiftException{}, false
	}

	return exception, true
}

// Reject implements schedulerequest.RequestService.
func (s *RequestServiceImpl) Reject(ctx context.Context, actor staff.Actor, id string, req schedulerequest.RejectRequest) (schedulerequest.RequestResponse, error) {
	if !actor.CanManageAttendance() {
		return schedulerequest.RequestResponse{}, staff.ErrNotPermitted
	}

	ok, err := s.RequestRepository.Transition(ctx, id, schedulerequest.StatusPending, schedulerequest.StatusRejected, &actor.UserID, req.Reason)
	if err != nil {
		return schedulerequest.RequestResponse{}, fmt.Errorf("failed to transition schedule request: %w", err)
	}
	if !ok {
		return s.transitionConflict(ctx, id)
	}

	rejected, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return schedulerequest.RequestResponse{}, fmt.Errorf("failed to reload schedule request: %w", err)
	}
	return mapRequestToResponse(rejected), nil
}

// Cancel implements schedulerequest.RequestService.
func (s *RequestServiceImpl) Cancel(ctx context.Context, actor staff.Actor, id string) (schedulerequest.RequestResponse, error) {
	request, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, schedulerequest.ErrRequestNotFound) {
			return schedulerequest.RequestResponse{}, schedulerequest.ErrRequestNotFound
		}
		return schedulerequest.RequestResponse{}, fmt.Errorf("failed to load schedule request: %w", err)
	}

	if request.UserID != actor.UserID && !actor.CanManageAttendance() {
		return schedulerequest.RequestResponse{}, staff.ErrNotPermitted
	}

	ok, err := s.RequestRepository.Transition(ctx, id, schedulerequest.StatusPending, schedulerequest.StatusCancelled, nil, nil)
	if err != nil {
		return schedulerequest.RequestResponse{}, fmt.Errorf("failed to transition schedule request: %w", err)
	}
	if !ok {
		return schedulerequest.RequestResponse{}, schedulerequest.ErrInvalidRequestState
	}

	cancelled, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return schedulerequest.RequestResponse{}, fmt.Errorf("failed to reload schedule request: %w", err)
	}
	return mapRequestToResponse(cancelled), nil
}

// transitionConflict distinguishes "never existed" from "already decided"
// after a zero-row transition.
func (s *RequestServiceImpl) transitionConflict(ctx context.Context, id string) (schedulerequest.RequestResponse, error) {
	if _, err := s.RequestRepository.GetByID(ctx, id); err != nil {
		if errors.Is(err, schedulerequest.ErrRequestNotFound) {
			return schedulerequest.RequestResponse{}, schedulerequest.ErrRequestNotFound
		}
		return schedulerequest.RequestResponse{}, fmt.Errorf("failed to load schedule request: %w", err)
	}
	return schedulerequest.RequestResponse{}, schedulerequest.ErrInvalidRequestState
}

// Get implements schedulerequest.RequestService.
func (s *RequestServiceImpl) Get(ctx context.Context, actor staff.Actor, id string) (schedulerequest.RequestResponse, error) {
	request, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, schedulerequest.ErrRequestNotFound) {
			return schedulerequest.RequestResponse{}, schedulerequest.ErrRequestNotFound
		}
		return schedulerequest.RequestResponse{}, fmt.Errorf("failed to load schedule request: %w", err)
	}

	if request.UserID != actor.UserID && !actor.CanManageAttendance() {
		return schedulerequest.RequestResponse{}, staff.ErrNotPermitted
	}

	return mapRequestToResponse(request), nil
}

// List implements schedulerequest.RequestService. Employees only see their
// own requests regardless of the filter.
func (s *RequestServiceImpl) List(ctx context.Context, actor staff.Actor, filter schedulerequest.ListFilter) (schedulerequest.ListRequestResponse, error) {
	if !actor.CanManageAttendance() {
		filter.UserID = &actor.UserID
	}

	requests, total, err := s.RequestRepository.List(ctx, filter)
	if err != nil {
		return schedulerequest.ListRequestResponse{}, fmt.Errorf("failed to list schedule requests: %w", err)
	}

	responses := make([]schedulerequest.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, mapRequestToResponse(r))
	}

	return schedulerequest.ListRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   responses,
	}, nil
}

func mapRequestToResponse(r schedulerequest.ScheduleRequest) schedulerequest.RequestResponse {
	var scheduledFor *string
	if r.ScheduledFor != nil {
		formatted := r.ScheduledFor.Format("2006-01-02")
		scheduledFor = &formatted
	}

	return schedulerequest.RequestResponse{
		ID:                 r.ID,
		UserID:             r.UserID,
		RequestType:        string(r.RequestType),
		ScheduledFor:       scheduledFor,
		RequestedStartTime: r.RequestedStartTime,
		RequestedEndTime:   r.RequestedEndTime,
		DurationDays:       r.DurationDays,
		Program:            r.Program,
		Reason:             r.Reason,
		Status:             string(r.Status),
		RejectionReason:    r.RejectionReason,
		ReviewedBy:         r.ReviewedBy,
	}
}
