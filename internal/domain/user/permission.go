package user

type Permission string

const (
	// Shift registrations
	PermissionRegistrationCreate Permission = "registration.create"
	PermissionRegistrationReview Permission = "registration.review"

	// Attendance
	PermissionAttendanceCheckIn Permission = "attendance.check_in"

	// Payroll
	PermissionPayrollManage Permission = "payroll.manage"
	PermissionPayrollDelete Permission = "payroll.delete"
	PermissionPayrollPay    Permission = "payroll.pay"

	// Violations
	PermissionViolationManage Permission = "violation.manage"
	PermissionViolationDelete Permission = "violation.delete"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionRegistrationCreate,
		PermissionRegistrationReview,
		PermissionAttendanceCheckIn,
		PermissionPayrollManage,
		PermissionPayrollDelete,
		PermissionPayrollPay,
		PermissionViolationManage,
		PermissionViolationDelete,
	},
	RoleManager: {
		PermissionRegistrationCreate,
		PermissionRegistrationReview,
		PermissionAttendanceCheckIn,
		PermissionPayrollManage,
		PermissionViolationManage,
	},
	RoleEmployee: {
		PermissionRegistrationCreate,
		PermissionAttendanceCheckIn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
