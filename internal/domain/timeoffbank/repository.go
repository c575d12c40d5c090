package timeoffbank

import (
	"context"
	"time"
)

type BankRepository interface {
	Create(ctx context.Context, bank TimeOffBank) (TimeOffBank, error)
	BulkCreate(ctx context.Context, banks []TimeOffBank) (int, error)

	// GetCurrentByUserAndProgram returns the user's bank for the program
	// whose validity window covers asOf, or nil when none does.
	GetCurrentByUserAndProgram(ctx context.Context, userID, program string, asOf time.Time) (*TimeOffBank, error)

	// ListCurrentByUser returns the user's non-expired banks.
	ListCurrentByUser(ctx context.Context, userID string, asOf time.Time) ([]TimeOffBank, error)

	// Debit adds days to used_days. The update only applies while
	// used_days + days <= total_entitled_days; when no row qualifies the
	// call fails with ErrInsufficientBalance, so two concurrent approvals
	// cannot jointly overdraw the bank.
	Debit(ctx context.Context, bankID string, days float64) error
}
