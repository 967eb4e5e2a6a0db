package user

type Role string

const (
	RoleAdmin    Role = "admin"    // Organisation-wide access
	RoleManager  Role = "manager"  // Branch-scoped approver
	RoleEmployee Role = "employee" // Regular employee
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

// RequestingUser is the authenticated caller threaded into every service call.
// ID is the caller's employee id.
type RequestingUser struct {
	ID       string
	Role     Role
	BranchID string
}

// IsAdmin checks if the caller has organisation-wide access
func (u RequestingUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if the caller is a branch manager (admins excluded)
func (u RequestingUser) IsManager() bool {
	return u.Role == RoleManager
}

// IsEmployee checks if the caller is a regular employee
func (u RequestingUser) IsEmployee() bool {
	return u.Role == RoleEmployee
}

// CanApprove checks if the caller may review registrations and payroll
func (u RequestingUser) CanApprove() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// HasBranch reports whether the caller is assigned to a branch.
func (u RequestingUser) HasBranch() bool {
	return u.BranchID != ""
}

// InBranch reports whether branchID is the caller's branch.
func (u RequestingUser) InBranch(branchID string) bool {
	return u.BranchID != "" && u.BranchID == branchID
}
