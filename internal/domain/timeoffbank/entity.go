package timeoffbank

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeOffBank is a per-employee, per-program entitlement ledger row.
// used_days never exceeds total_entitled_days; the debit path enforces
// this in the UPDATE predicate, not by clamping. Expired banks are
// excluded from balance queries but never deleted.
type TimeOffBank struct {
	ID                string
	UserID            string
	ProgramName       string
	TotalEntitledDays float64
	UsedDays          float64
	ValidFrom         time.Time
	ValidTo           time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AvailableDays returns entitled minus used, computed with decimal
// arithmetic so repeated half-day debits cannot drift.
func (b TimeOffBank) AvailableDays() float64 {
	avail := decimal.NewFromFloat(b.TotalEntitledDays).Sub(decimal.NewFromFloat(b.UsedDays))
	f, _ := avail.Float64()
	return f
}

// Current reports whether the bank is usable as of the given day.
func (b TimeOffBank) Current(asOf time.Time) bool {
	return !b.ValidTo.Before(asOf)
}
