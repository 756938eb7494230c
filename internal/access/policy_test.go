package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPageAllowed(t *testing.T) {
	tests := []struct {
		role Role
		page Page
		want bool
	}{
		{RoleAdmin, PageDashboard, true},
		{RoleHR, PageDashboard, true},
		{RoleEmployee, PageDashboard, true},
		{RoleEmployee, PageAttendance, true},
		{RoleAdmin, PageEmployees, true},
		{RoleHR, PageEmployees, true},
		{RoleEmployee, PageEmployees, false},
		{RoleAdmin, PageDepartments, true},
		{RoleHR, PageDepartments, true},
		{RoleEmployee, PageDepartments, false},
		{Role(""), PageDashboard, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.page), func(t *testing.T) {
			assert.Equal(t, tt.want, IsPageAllowed(tt.role, tt.page))
		})
	}
}

func TestCanManage(t *testing.T) {
	assert.True(t, CanManage(RoleHR, EntityEmployee))
	assert.True(t, CanManage(RoleAdmin, EntityEmployee))
	assert.False(t, CanManage(RoleEmployee, EntityEmployee))

	assert.False(t, CanManage(RoleHR, EntityDepartment), "department management is admin only")
	assert.True(t, CanManage(RoleAdmin, EntityDepartment))

	assert.True(t, CanManage(RoleHR, EntityAttendance))
	assert.False(t, CanManage(RoleEmployee, EntityAttendance))
}

func TestPageAndActionLayersAreDistinct(t *testing.T) {
	policy := DefaultPolicy()

	require.True(t, policy.IsPageAllowed(RoleHR, PageDepartments))
	require.False(t, policy.Can(RoleHR, EntityDepartment, ActionUpdate))
	require.True(t, policy.Can(RoleHR, EntityDepartment, ActionView))
}

func TestAttendanceViewIsOpenToEveryone(t *testing.T) {
	policy := DefaultPolicy()
	for _, role := range Roles() {
		assert.True(t, policy.Can(role, EntityAttendance, ActionView), role)
	}
	assert.False(t, policy.Can(RoleEmployee, EntityAttendance, ActionCheckIn))
}

func TestCheckPageReturnsDeniedError(t *testing.T) {
	policy := DefaultPolicy()

	err := policy.CheckPage(RoleEmployee, PageEmployees)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccessDenied))

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, PageEmployees, denied.Page)
	assert.Equal(t, "access denied: Employee may not open Employees", err.Error())

	assert.NoError(t, policy.CheckPage(RoleHR, PageEmployees))
}

func TestCheckActionDescribesAnonymousCallers(t *testing.T) {
	err := DefaultPolicy().CheckAction("", EntityEmployee, ActionDelete)
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, "access denied: anonymous may not delete Employee", err.Error())
}

func TestAllowedPages(t *testing.T) {
	policy := DefaultPolicy()

	assert.Equal(t, []Page{PageDashboard, PageEmployees, PageDepartments, PageAttendance}, policy.AllowedPages(RoleAdmin))
	assert.Equal(t, []Page{PageDashboard, PageAttendance}, policy.AllowedPages(RoleEmployee))
	assert.Empty(t, policy.AllowedPages(Role("Guest")))
}

func TestPermissions(t *testing.T) {
	perms := DefaultPolicy().Permissions(RoleHR)

	assert.Equal(t, RoleHR, perms.Role)
	assert.True(t, perms.Manage[EntityEmployee])
	assert.False(t, perms.Manage[EntityDepartment])
	assert.True(t, perms.CheckIn)
}

func TestParseRoleAndPage(t *testing.T) {
	role, err := ParseRole(" hr ")
	require.NoError(t, err)
	assert.Equal(t, RoleHR, role)

	_, err = ParseRole("manager")
	assert.Error(t, err)

	page, err := ParsePage("departments")
	require.NoError(t, err)
	assert.Equal(t, PageDepartments, page)
}
