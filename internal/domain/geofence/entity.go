package geofence

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AttendanceLocation is a named geofenced check-in point. BranchID nil
// means the location is usable by any branch.
type AttendanceLocation struct {
	ID           string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	BranchID     *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Zone describes the area a check-in is verified against. For branch_based
// mode Center/RadiusMeters define a single circle; for multiple_locations
// mode the active attendance locations (filtered to BranchID plus
// branch-agnostic ones) are consulted instead.
type Zone struct {
	Mode         staff.AttendanceMode
	Center       *Coordinates
	RadiusMeters int
	BranchID     *string
}

// Result records the advisory outcome of a verification. A false Verified
// never blocks check-in or check-out.
type Result struct {
	Verified     bool
	LocationName *string
}
