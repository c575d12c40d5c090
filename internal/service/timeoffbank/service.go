package timeoffbank

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timeoffbank"
	"github.com/google/uuid"
)

type BankServiceImpl struct {
	timeoffbank.BankRepository
}

func NewBankService(bankRepo timeoffbank.BankRepository) timeoffbank.BankService {
	return &BankServiceImpl{BankRepository: bankRepo}
}

// Create implements timeoffbank.BankService.
func (s *BankServiceImpl) Create(ctx context.Context, actor staff.Actor, req timeoffbank.CreateBankRequest) (timeoffbank.BankResponse, error) {
	if !actor.CanManageAttendance() {
		return timeoffbank.BankResponse{}, staff.ErrNotPermitted
	}
	if err := req.Validate(); err != nil {
		return timeoffbank.BankResponse{}, err
	}

	created, err := s.BankRepository.Create(ctx, bankFromRequest(req))
	if err != nil {
		return timeoffbank.BankResponse{}, fmt.Errorf("failed to create time-off bank: %w", err)
	}

	return mapBankToResponse(created), nil
}

// BulkCreate implements timeoffbank.BankService. Used for annual grants
// across the whole workforce.
func (s *BankServiceImpl) BulkCreate(ctx context.Context, actor staff.Actor, req timeoffbank.BulkCreateBankRequest) (int, error) {
	if !actor.CanManageAttendance() {
		return 0, staff.ErrNotPermitted
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}

	banks := make([]timeoffbank.TimeOffBank, 0, len(req.Banks))
	for _, b := range req.Banks {
		banks = append(banks, bankFromRequest(b))
	}

	count, err := s.BankRepository.BulkCreate(ctx, banks)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk create time-off banks: %w", err)
	}
	return count, nil
}

// GetBalance implements timeoffbank.BankService. Employees may only read
// their own balance.
func (s *BankServiceImpl) GetBalance(ctx context.Context, actor staff.Actor, userID string) (timeoffbank.BalanceResponse, error) {
	if userID != actor.UserID && !actor.CanManageAttendance() {
		return timeoffbank.BalanceResponse{}, staff.ErrNotPermitted
	}

	banks, err := s.BankRepository.ListCurrentByUser(ctx, userID, time.Now().UTC())
	if err != nil {
		return timeoffbank.BalanceResponse{}, fmt.Errorf("failed to get bank balance: %w", err)
	}

	responses := make([]timeoffbank.BankResponse, 0, len(banks))
	for _, b := range banks {
		responses = append(responses, mapBankToResponse(b))
	}

	return timeoffbank.BalanceResponse{UserID: userID, Banks: responses}, nil
}

func bankFromRequest(req timeoffbank.CreateBankRequest) timeoffbank.TimeOffBank {
	validFrom, _ := time.Parse("2006-01-02", req.ValidFrom)
	validTo, _ := time.Parse("2006-01-02", req.ValidTo)

	return timeoffbank.TimeOffBank{
		ID:                uuid.NewString(),
		UserID:            req.UserID,
		ProgramName:       req.ProgramName,
		TotalEntitledDays: req.TotalEntitledDays,
		UsedDays:          0,
		ValidFrom:         validFrom,
		ValidTo:           validTo,
	}
}

func mapBankToResponse(b timeoffbank.TimeOffBank) timeoffbank.BankResponse {
	return timeoffbank.BankResponse{
		ID:                b.ID,
		UserID:            b.UserID,
		ProgramName:       b.ProgramName,
		TotalEntitledDays: b.TotalEntitledDays,
		UsedDays:          b.UsedDays,
		AvailableDays:     b.AvailableDays(),
		ValidFrom:         b.ValidFrom.Format("2006-01-02"),
		ValidTo:           b.ValidTo.Format("2006-01-02"),
	}
}
