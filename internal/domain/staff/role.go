package staff

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleOwner    Role = "owner"
)

// Actor identifies the authenticated caller of an operation. It is built
// from the identity layer's token claims at the transport boundary and
// passed down explicitly.
type Actor struct {
	UserID string
	Role   Role
}

// CanManageAttendance reports whether the actor may approve requests, mark
// attendance for other employees, or run batch sweeps.
func (a Actor) CanManageAttendance() bool {
	return a.Role == RoleManager || a.Role == RoleOwner
}
