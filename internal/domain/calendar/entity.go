package calendar

import "time"

// Holiday is a calendar day off. BranchID nil means the holiday applies to
// every branch.
type Holiday struct {
	ID          string
	Name        string
	Date        time.Time
	BranchID    *string
	IsMandatory bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LeaveRecord is the read-only projection of the external leave workflow.
// Only approved rows are visible to this engine.
type LeaveRecord struct {
	ID        string
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	Status    string
}
