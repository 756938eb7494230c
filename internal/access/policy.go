// Package access maps roles to the pages, management actions, and record
// fields they may use.
//
// Two layers are encoded separately. Page rules decide whether a view may be
// opened at all; action rules decide whether a record may be created, updated,
// or deleted once the view is open. Department management is stricter than the
// Departments page: HR can open the page but only Admin can change it.
package access

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrAccessDenied is matched by every DeniedError.
var ErrAccessDenied = errors.New("access: denied")

// Role identifies the kind of account acting on the system.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleHR       Role = "HR"
	RoleEmployee Role = "Employee"
)

// Roles lists every known role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleHR, RoleEmployee}
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// ParseRole resolves a role name case-insensitively.
func ParseRole(value string) (Role, error) {
	trimmed := strings.TrimSpace(value)
	for _, role := range Roles() {
		if strings.EqualFold(trimmed, string(role)) {
			return role, nil
		}
	}
	return "", fmt.Errorf("access: unknown role %q", value)
}

// Page identifies a top-level view.
type Page string

const (
	PageDashboard   Page = "Dashboard"
	PageEmployees   Page = "Employees"
	PageDepartments Page = "Departments"
	PageAttendance  Page = "Attendance"
)

// Pages lists every page in navigation order.
func Pages() []Page {
	return []Page{PageDashboard, PageEmployees, PageDepartments, PageAttendance}
}

// ParsePage resolves a page name case-insensitively.
func ParsePage(value string) (Page, error) {
	trimmed := strings.TrimSpace(value)
	for _, page := range Pages() {
		if strings.EqualFold(trimmed, string(page)) {
			return page, nil
		}
	}
	return "", fmt.Errorf("access: unknown page %q", value)
}

// Entity identifies a managed record collection.
type Entity string

const (
	EntityEmployee   Entity = "Employee"
	EntityDepartment Entity = "Department"
	EntityAttendance Entity = "Attendance"
)

// Action identifies an operation on an entity.
type Action string

const (
	ActionView     Action = "view"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionCheckIn  Action = "check_in"
	ActionCheckOut Action = "check_out"
)

type actionKey struct {
	entity Entity
	action Action
}

// Policy holds allow-lists for pages and actions. Every role that may open
// the Employees page sees every employee field.
type Policy struct {
	pages  map[Page][]Role
	manage map[actionKey][]Role
}

// DefaultPolicy returns the role rules of the application.
func DefaultPolicy() *Policy {
	everyone := []Role{RoleAdmin, RoleHR, RoleEmployee}
	staff := []Role{RoleAdmin, RoleHR}
	admins := []Role{RoleAdmin}

	p := &Policy{
		pages: map[Page][]Role{
			PageDashboard:   everyone,
			PageEmployees:   staff,
			PageDepartments: staff,
			PageAttendance:  everyone,
		},
		manage: make(map[actionKey][]Role),
	}

	p.allow(EntityEmployee, ActionView, staff)
	p.allow(EntityEmployee, ActionCreate, staff)
	p.allow(EntityEmployee, ActionUpdate, staff)
	p.allow(EntityEmployee, ActionDelete, staff)

	p.allow(EntityDepartment, ActionView, staff)
	p.allow(EntityDepartment, ActionCreate, admins)
	p.allow(EntityDepartment, ActionUpdate, admins)
	p.allow(EntityDepartment, ActionDelete, admins)

	p.allow(EntityAttendance, ActionView, everyone)
	p.allow(EntityAttendance, ActionCreate, staff)
	p.allow(EntityAttendance, ActionCheckIn, staff)
	p.allow(EntityAttendance, ActionCheckOut, staff)

	return p
}

func (p *Policy) allow(entity Entity, action Action, roles []Role) {
	p.manage[actionKey{entity: entity, action: action}] = roles
}

// IsPageAllowed reports whether role may open page.
func (p *Policy) IsPageAllowed(role Role, page Page) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.pages[page], role)
}

// Can reports whether role may perform action on entity.
func (p *Policy) Can(role Role, entity Entity, action Action) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.manage[actionKey{entity: entity, action: action}], role)
}

// CanManage reports whether role may create, update, and delete records of
// entity. For attendance this is the quick check-in permission.
func (p *Policy) CanManage(role Role, entity Entity) bool {
	if entity == EntityAttendance {
		return p.Can(role, entity, ActionCheckIn)
	}
	return p.Can(role, entity, ActionCreate) &&
		p.Can(role, entity, ActionUpdate) &&
		p.Can(role, entity, ActionDelete)
}

// AllowedPages returns the pages role may open, in navigation order.
func (p *Policy) AllowedPages(role Role) []Page {
	out := make([]Page, 0, len(p.pages))
	for _, page := range Pages() {
		if p.IsPageAllowed(role, page) {
			out = append(out, page)
		}
	}
	return out
}

// Permissions summarises everything a role may do.
type Permissions struct {
	Role    Role
	Pages   []Page
	Manage  map[Entity]bool
	CheckIn bool
}

// Permissions returns the full permission set of role.
func (p *Policy) Permissions(role Role) Permissions {
	perms := Permissions{
		Role:    role,
		Pages:   p.AllowedPages(role),
		Manage:  make(map[Entity]bool, 3),
		CheckIn: p.Can(role, EntityAttendance, ActionCheckIn),
	}
	for _, entity := range []Entity{EntityEmployee, EntityDepartment, EntityAttendance} {
		perms.Manage[entity] = p.CanManage(role, entity)
	}
	return perms
}

// CheckPage returns a *DeniedError when role may not open page.
func (p *Policy) CheckPage(role Role, page Page) error {
	if p.IsPageAllowed(role, page) {
		return nil
	}
	return &DeniedError{Role: role, Page: page}
}

// CheckAction returns a *DeniedError when role may not perform action on entity.
func (p *Policy) CheckAction(role Role, entity Entity, action Action) error {
	if p.Can(role, entity, action) {
		return nil
	}
	return &DeniedError{Role: role, Entity: entity, Action: action}
}

var defaultPolicy = DefaultPolicy()

// IsPageAllowed reports whether role may open page under the default policy.
func IsPageAllowed(role Role, page Page) bool {
	return defaultPolicy.IsPageAllowed(role, page)
}

// CanManage reports whether role may manage entity under the default policy.
func CanManage(role Role, entity Entity) bool {
	return defaultPolicy.CanManage(role, entity)
}

// DeniedError describes a refused page or action.
type DeniedError struct {
	Role   Role
	Page   Page
	Entity Entity
	Action Action
}

func (e *DeniedError) Error() string {
	if e == nil {
		return ""
	}
	role := string(e.Role)
	if role == "" {
		role = "anonymous"
	}
	if e.Page != "" {
		return fmt.Sprintf("access denied: %s may not open %s", role, e.Page)
	}
	return fmt.Sprintf("access denied: %s may not %s %s", role, e.Action, e.Entity)
}

// Is makes errors.Is(err, ErrAccessDenied) match.
func (e *DeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}
