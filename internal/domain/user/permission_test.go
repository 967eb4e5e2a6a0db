package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionPayrollPay))
	assert.False(t, HasPermission(RoleManager, PermissionPayrollPay))
	assert.True(t, HasPermission(RoleManager, PermissionRegistrationReview))
	assert.False(t, HasPermission(RoleEmployee, PermissionRegistrationReview))
	assert.True(t, HasPermission(RoleEmployee, PermissionAttendanceCheckIn))
	assert.False(t, HasPermission(Role("owner"), PermissionAttendanceCheckIn))
}

func TestRequestingUserScope(t *testing.T) {
	manager := RequestingUser{ID: "m1", Role: RoleManager, BranchID: "b1"}
	assert.True(t, manager.CanApprove())
	assert.True(t, manager.InBranch("b1"))
	assert.False(t, manager.InBranch("b2"))

	orphan := RequestingUser{ID: "e1", Role: RoleEmployee}
	assert.False(t, orphan.HasBranch())
	assert.False(t, orphan.InBranch(""))
	assert.False(t, orphan.CanApprove())
}
