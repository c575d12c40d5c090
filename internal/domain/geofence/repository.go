package geofence

import "context"

type LocationRepository interface {
	Create(ctx context.Context, location AttendanceLocation) (AttendanceLocation, error)
	GetByID(ctx context.Context, id string) (AttendanceLocation, error)

	// ListActive returns active locations scoped to the branch plus the
	// branch-agnostic ones. A nil branchID returns branch-agnostic
	// locations only.
	ListActive(ctx context.Context, branchID *string) ([]AttendanceLocation, error)

	Deactivate(ctx context.Context, id string) error
}
