package schedulerequest

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
)

// RequestService is the schedule-request state machine. Approval
// materializes shift exceptions and time-off debits in one transaction;
// re-resolution of the affected attendance date runs after commit and is
// best-effort.
type RequestService interface {
	// Submit creates a pending request for the acting user. A
	// compensatory_time_use request is rejected here, at creation, when
	// the bank balance cannot cover it.
	Submit(ctx context.Context, actor staff.Actor, req SubmitRequest) (RequestResponse, error)

	Approve(ctx context.Context, actor staff.Actor, id string) (RequestResponse, error)
	Reject(ctx context.Context, actor staff.Actor, id string, req RejectRequest) (RequestResponse, error)

	// Cancel is allowed for the requester or a manager, only while the
	// request is pending.
	Cancel(ctx context.Context, actor staff.Actor, id string) (RequestResponse, error)

	Get(ctx context.Context, actor staff.Actor, id string) (RequestResponse, error)
	List(ctx context.Context, actor staff.Actor, filter ListFilter) (ListRequestResponse, error)
}
