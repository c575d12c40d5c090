package schedulerequest

import (
	"context"
	"time"
)

type RequestRepository interface {
	Create(ctx context.Context, request ScheduleRequest) (ScheduleRequest, error)
	GetByID(ctx context.Context, id string) (ScheduleRequest, error)

	// Transition moves the request from one status to another and records
	// the reviewer. It reports false when the row was not in the expected
	// source status, which is how one-directional transitions are enforced
	// under concurrency.
	Transition(ctx context.Context, id string, from, to RequestStatus, reviewedBy *string, rejectionReason *string) (bool, error)

	List(ctx context.Context, filter ListFilter) ([]ScheduleRequest, int64, error)
}

type ListFilter struct {
	UserID *string
	Status *RequestStatus
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}
