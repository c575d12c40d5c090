package staff

import "context"

// StaffRepository reads the externally owned staff directory.
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (Staff, error)

	// ListActiveIDs returns the IDs of all active staff, used by the
	// nightly batch sweep when no explicit user set is given.
	ListActiveIDs(ctx context.Context) ([]string, error)
}

// BranchRepository reads the externally owned branch directory.
type BranchRepository interface {
	GetByID(ctx context.Context, id string) (Branch, error)
}
