package rbac

import "strings"

// Action identifies one permission-gated operation in the dashboard.
type Action string

const (
	ActionAgentsView    Action = "agents.view"
	ActionAgentsCreate  Action = "agents.create"
	ActionAgentsEdit    Action = "agents.edit"
	ActionAgentsDelete  Action = "agents.delete"
	ActionMembersView   Action = "members.view"
	ActionMembersInvite Action = "members.invite"
	ActionMembersManage Action = "members.manage"
	ActionBillingView   Action = "billing.view"
	ActionBillingManage Action = "billing.manage"
	ActionOrgSettings   Action = "org.settings"
	ActionOrgTransfer   Action = "org.transfer"
)

// Actions lists every cataloged action.
func Actions() []Action {
	return []Action{
		ActionAgentsView, ActionAgentsCreate, ActionAgentsEdit, ActionAgentsDelete,
		ActionMembersView, ActionMembersInvite, ActionMembersManage,
		ActionBillingView, ActionBillingManage,
		ActionOrgSettings, ActionOrgTransfer,
	}
}

// permissionMatrix is the fixed (action, role) grant table. Anything not
// listed here is denied; there is no wildcard and no fallthrough.
var permissionMatrix = map[Action]map[Role]bool{
	ActionAgentsView:    {RoleMember: true, RoleAdmin: true, RoleOwner: true},
	ActionAgentsCreate:  {RoleAdmin: true, RoleOwner: true},
	ActionAgentsEdit:    {RoleAdmin: true, RoleOwner: true},
	ActionAgentsDelete:  {RoleAdmin: true, RoleOwner: true},
	ActionMembersView:   {RoleMember: true, RoleAdmin: true, RoleOwner: true},
	ActionMembersInvite: {RoleAdmin: true, RoleOwner: true},
	ActionMembersManage: {RoleAdmin: true, RoleOwner: true},
	ActionBillingView:   {RoleOwner: true},
	ActionBillingManage: {RoleOwner: true},
	ActionOrgSettings:   {RoleAdmin: true, RoleOwner: true},
	ActionOrgTransfer:   {RoleOwner: true},
}

// HasPermission reports whether role may perform action. Unknown actions
// and unknown roles are denied.
func HasPermission(role Role, action Action) bool {
	grants, ok := permissionMatrix[action]
	if !ok {
		return false
	}
	return grants[role]
}

// IsActionDisabled is the UI-facing inverse of HasPermission, used to drive
// disabled-state on buttons and menu entries.
func IsActionDisabled(role Role, action Action) bool {
	return !HasPermission(role, action)
}

// CanWrite reports whether role may modify organization resources.
func CanWrite(role Role) bool {
	return role.AtLeast(RoleAdmin)
}

// CanAccessBilling reports whether role may see billing pages and data.
func CanAccessBilling(role Role) bool {
	return role == RoleOwner
}

// IsPreviewMode reports whether the dashboard should render read-only
// affordances for this role. Always the negation of CanWrite.
func IsPreviewMode(role Role) bool {
	return !CanWrite(role)
}

// CanCreateMember reports whether the acting role may create or modify a
// member-role membership.
func CanCreateMember(acting Role) bool {
	return acting.AtLeast(RoleAdmin)
}

// CanCreateAdmin reports whether the acting role may create or modify an
// admin-role membership. Only the owner outranks admin.
func CanCreateAdmin(acting Role) bool {
	return acting == RoleOwner
}

// CanTransferOwnership reports whether the acting role may initiate the
// ownership transfer role swap.
func CanTransferOwnership(acting Role) bool {
	return acting == RoleOwner
}

// CanAssign reports whether the acting role may assign target to another
// membership. A role assigns only strictly lower privilege; owner cannot be
// assigned directly at all, only reached through the transfer swap, since
// each organization has exactly one owner.
func CanAssign(acting, target Role) bool {
	if !acting.Valid() || !target.Valid() || target == RoleOwner {
		return false
	}
	return target < acting
}

// AssignableRoles returns the set of roles acting may assign to others,
// ascending by privilege.
func AssignableRoles(acting Role) []Role {
	var out []Role
	for _, r := range Roles() {
		if CanAssign(acting, r) {
			out = append(out, r)
		}
	}
	return out
}

// routeGuard pairs a protected route prefix with the minimum role required
// to enter it.
type routeGuard struct {
	prefix  string
	minRole Role
}

// protectedRoutes is an explicit deny-list: only prefixes listed here are
// gated, everything else is reachable by any authenticated member. Ordering
// does not matter, the longest matching prefix wins.
var protectedRoutes = []routeGuard{
	{prefix: "/dashboard/facturacion", minRole: RoleOwner},
	{prefix: "/dashboard/usuarios", minRole: RoleAdmin},
	{prefix: "/dashboard/configuracion", minRole: RoleAdmin},
}

// CanAccessRoute matches path against the protected-prefix table and checks
// role against the strictest (longest) matching entry. Matching is
// case-sensitive on whole path segments and ignores trailing slashes.
func CanAccessRoute(role Role, path string) bool {
	path = strings.TrimRight(path, "/")
	best := -1
	for i, g := range protectedRoutes {
		if !matchesPrefix(path, g.prefix) {
			continue
		}
		if best == -1 || len(g.prefix) > len(protectedRoutes[best].prefix) {
			best = i
		}
	}
	if best == -1 {
		return true
	}
	return role.AtLeast(protectedRoutes[best].minRole)
}

// matchesPrefix reports whether path equals prefix or sits below it as a
// path segment ("/a/b" matches "/a" but "/ab" does not).
func matchesPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
