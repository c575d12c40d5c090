package staff

import "time"

// AttendanceMode determines how check-in locations are verified for a
// branch's employees.
type AttendanceMode string

const (
	ModeBranchBased       AttendanceMode = "branch_based"
	ModeMultipleLocations AttendanceMode = "multiple_locations"
	ModeFlexible          AttendanceMode = "flexible"
)

var AttendanceModeValues = []string{
	string(ModeBranchBased),
	string(ModeMultipleLocations),
	string(ModeFlexible),
}

// Staff is the read-only projection of the external staff directory. The
// engine never mutates these rows.
type Staff struct {
	ID        string
	FullName  string
	BranchID  *string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Branch carries the branch-level attendance settings. Geographic fields are
// optional; a branch without coordinates cannot verify branch_based
// check-ins.
type Branch struct {
	ID           string
	Name         string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *int
	GraceMinutes *int
	Mode         *AttendanceMode
	Timezone     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BranchAttendanceConfig is the resolved, fully-defaulted settings value
// handed to the resolvers. Resolvers never look settings up themselves.
type BranchAttendanceConfig struct {
	Mode         AttendanceMode
	RadiusMeters int
	GraceMinutes int
}

// AttendanceConfig merges the branch's settings over engine-wide defaults.
func (b *Branch) AttendanceConfig(defaults BranchAttendanceConfig) BranchAttendanceConfig {
	cfg := defaults
	if b == nil {
		return cfg
	}
	if b.Mode != nil {
		cfg.Mode = *b.Mode
	}
	if b.RadiusMeters != nil && *b.RadiusMeters > 0 {
		cfg.RadiusMeters = *b.RadiusMeters
	}
	if b.GraceMinutes != nil {
		cfg.GraceMinutes = *b.GraceMinutes
	}
	return cfg
}
