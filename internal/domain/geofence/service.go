package geofence

import "context"

// Verifier decides whether a coordinate falls inside a zone. Verification
// is advisory: lookup failures are logged and reported as unverified, they
// never fail the calling operation. Absent coordinates are always
// unverified.
type Verifier interface {
	Verify(ctx context.Context, zone Zone, coords *Coordinates) Result
}

// Service adds admin management of attendance locations on top of Verifier.
type Service interface {
	Verifier

	CreateLocation(ctx context.Context, req CreateLocationRequest) (LocationResponse, error)
	ListLocations(ctx context.Context, branchID *string) ([]LocationResponse, error)
	DeactivateLocation(ctx context.Context, id string) error
}
