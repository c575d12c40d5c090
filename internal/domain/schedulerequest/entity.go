package schedulerequest

import "time"

type RequestType string

const (
	TypeTimeOff             RequestType = "time_off_request"
	TypeScheduleChange      RequestType = "schedule_change"
	TypeShiftSwap           RequestType = "shift_swap"
	TypeFlexibleArrangement RequestType = "flexible_arrangement"
	TypeCompensatoryTimeUse RequestType = "compensatory_time_use"
)

var RequestTypeValues = []string{
	string(TypeTimeOff),
	string(TypeScheduleChange),
	string(TypeShiftSwap),
	string(TypeFlexibleArrangement),
	string(TypeCompensatoryTimeUse),
}

type RequestStatus string

const (
	StatusPending     RequestStatus = "pending"
	StatusApproved    RequestStatus = "approved"
	StatusRejected    RequestStatus = "rejected"
	StatusCancelled   RequestStatus = "cancelled"
	StatusImplemented RequestStatus = "implemented"
)

// Terminal reports whether no further transition is allowed from s.
// Transitions are one-directional: pending is the only state that can move.
func (s RequestStatus) Terminal() bool {
	return s != StatusPending
}

// ScheduleRequest is an employee-initiated change to future scheduling.
// ScheduledFor drives downstream exception creation; requests without it
// are informational only.
type ScheduleRequest struct {
	ID                 string
	UserID             string
	RequestType        RequestType
	ScheduledFor       *time.Time
	RequestedStartTime *string
	RequestedEndTime   *string
	DurationDays       float64
	Program            *string
	Reason             string
	Status             RequestStatus
	RejectionReason    *string
	ReviewedBy         *string
	ReviewedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
