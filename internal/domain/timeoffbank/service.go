package timeoffbank

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
)

// BankService manages entitlement banks. Debits are not exposed here; they
// happen inside the schedule-request approval transaction via the
// repository.
type BankService interface {
	Create(ctx context.Context, actor staff.Actor, req CreateBankRequest) (BankResponse, error)
	BulkCreate(ctx context.Context, actor staff.Actor, req BulkCreateBankRequest) (int, error)

	// GetBalance returns the user's current (non-expired) banks with
	// derived available days.
	GetBalance(ctx context.Context, actor staff.Actor, userID string) (BalanceResponse, error)
}
