package rbac

import "testing"

func TestHasPermission_FailClosedOnUnknownAction(t *testing.T) {
	for _, role := range Roles() {
		if HasPermission(role, Action("does.not.exist")) {
			t.Errorf("unknown action granted to %v", role)
		}
	}
	if HasPermission(RoleOwner, Action("")) {
		t.Error("empty action granted to owner")
	}
}

func TestHasPermission_FailClosedOnUnknownRole(t *testing.T) {
	for _, action := range Actions() {
		if HasPermission(RoleNone, action) {
			t.Errorf("RoleNone granted %q", action)
		}
		if HasPermission(Role(42), action) {
			t.Errorf("invalid role granted %q", action)
		}
	}
}

func TestHasPermission_OwnerHasEverything(t *testing.T) {
	for _, action := range Actions() {
		if !HasPermission(RoleOwner, action) {
			t.Errorf("owner denied %q", action)
		}
	}
}

func TestHasPermission_MemberIsReadOnly(t *testing.T) {
	allowed := map[Action]bool{
		ActionAgentsView:  true,
		ActionMembersView: true,
	}
	for _, action := range Actions() {
		if HasPermission(RoleMember, action) != allowed[action] {
			t.Errorf("HasPermission(member, %q) = %v, want %v", action, !allowed[action], allowed[action])
		}
	}
}

func TestHasPermission_AdminScope(t *testing.T) {
	denied := map[Action]bool{
		ActionBillingView:   true,
		ActionBillingManage: true,
		ActionOrgTransfer:   true,
	}
	for _, action := range Actions() {
		want := !denied[action]
		if HasPermission(RoleAdmin, action) != want {
			t.Errorf("HasPermission(admin, %q) = %v, want %v", action, !want, want)
		}
	}
}

// IsActionDisabled must be the exact negation of HasPermission over the
// whole matrix, including unknown roles.
func TestIsActionDisabled_MatchesHasPermissionExhaustively(t *testing.T) {
	roles := append(Roles(), RoleNone, Role(42))
	for _, role := range roles {
		for _, action := range Actions() {
			if IsActionDisabled(role, action) != !HasPermission(role, action) {
				t.Errorf("IsActionDisabled(%v, %q) inconsistent with HasPermission", role, action)
			}
		}
	}
}

func TestIsPreviewMode_NegatesCanWrite(t *testing.T) {
	roles := append(Roles(), RoleNone, Role(42))
	for _, role := range roles {
		if IsPreviewMode(role) != !CanWrite(role) {
			t.Errorf("IsPreviewMode(%v) inconsistent with CanWrite", role)
		}
	}
}

func TestCanWrite(t *testing.T) {
	if CanWrite(RoleMember) {
		t.Error("member should not write")
	}
	if !CanWrite(RoleAdmin) || !CanWrite(RoleOwner) {
		t.Error("admin and owner should write")
	}
}

func TestCanAccessBilling_OwnerOnly(t *testing.T) {
	if !CanAccessBilling(RoleOwner) {
		t.Error("owner should access billing")
	}
	if CanAccessBilling(RoleAdmin) || CanAccessBilling(RoleMember) || CanAccessBilling(RoleNone) {
		t.Error("only owner should access billing")
	}
}

func TestCanCreateAdmin(t *testing.T) {
	if !CanCreateAdmin(RoleOwner) {
		t.Error("owner should create admins")
	}
	if CanCreateAdmin(RoleAdmin) || CanCreateAdmin(RoleMember) {
		t.Error("only owner should create admins")
	}
}

func TestCanCreateMember(t *testing.T) {
	if !CanCreateMember(RoleOwner) || !CanCreateMember(RoleAdmin) {
		t.Error("owner and admin should create members")
	}
	if CanCreateMember(RoleMember) || CanCreateMember(RoleNone) {
		t.Error("member should not create members")
	}
}

func TestCanTransferOwnership_OwnerOnly(t *testing.T) {
	if !CanTransferOwnership(RoleOwner) {
		t.Error("owner should transfer ownership")
	}
	if CanTransferOwnership(RoleAdmin) || CanTransferOwnership(RoleMember) {
		t.Error("only owner should transfer ownership")
	}
}

func TestAssignableRoles(t *testing.T) {
	if got := AssignableRoles(RoleMember); len(got) != 0 {
		t.Errorf("AssignableRoles(member) = %v, want empty", got)
	}

	got := AssignableRoles(RoleAdmin)
	if len(got) != 1 || got[0] != RoleMember {
		t.Errorf("AssignableRoles(admin) = %v, want [member]", got)
	}

	got = AssignableRoles(RoleOwner)
	if len(got) != 2 || got[0] != RoleMember || got[1] != RoleAdmin {
		t.Errorf("AssignableRoles(owner) = %v, want [member admin]", got)
	}
}

func TestCanAssign_OwnerRoleNeverAssignable(t *testing.T) {
	for _, acting := range Roles() {
		if CanAssign(acting, RoleOwner) {
			t.Errorf("CanAssign(%v, owner) = true, owner moves only via transfer", acting)
		}
	}
}

func TestCanAssign_InvalidRoles(t *testing.T) {
	if CanAssign(RoleNone, RoleMember) {
		t.Error("invalid acting role should assign nothing")
	}
	if CanAssign(RoleOwner, RoleNone) {
		t.Error("invalid target role should not be assignable")
	}
}

func TestCanAccessRoute_BillingRequiresOwner(t *testing.T) {
	path := "/dashboard/facturacion"
	if !CanAccessRoute(RoleOwner, path) {
		t.Error("owner denied billing route")
	}
	if CanAccessRoute(RoleAdmin, path) {
		t.Error("admin allowed billing route")
	}
	if CanAccessRoute(RoleMember, path) {
		t.Error("member allowed billing route")
	}
}

func TestCanAccessRoute_UsersRequiresAdmin(t *testing.T) {
	path := "/dashboard/usuarios"
	if !CanAccessRoute(RoleOwner, path) || !CanAccessRoute(RoleAdmin, path) {
		t.Error("admin and owner should access users route")
	}
	if CanAccessRoute(RoleMember, path) {
		t.Error("member allowed users route")
	}
}

func TestCanAccessRoute_UnprotectedAllowed(t *testing.T) {
	for _, path := range []string{"/dashboard", "/dashboard/agentes", "/", "/anything"} {
		if !CanAccessRoute(RoleMember, path) {
			t.Errorf("member denied unprotected path %q", path)
		}
	}
}

func TestCanAccessRoute_TrailingSlashInsensitive(t *testing.T) {
	if CanAccessRoute(RoleMember, "/dashboard/facturacion/") {
		t.Error("trailing slash bypassed billing guard")
	}
	if CanAccessRoute(RoleMember, "/dashboard/usuarios/") {
		t.Error("trailing slash bypassed users guard")
	}
}

func TestCanAccessRoute_SubpathsGuarded(t *testing.T) {
	if CanAccessRoute(RoleAdmin, "/dashboard/facturacion/invoices/3") {
		t.Error("billing subpath accessible to admin")
	}
	if !CanAccessRoute(RoleAdmin, "/dashboard/usuarios/42") {
		t.Error("users subpath denied to admin")
	}
}

func TestCanAccessRoute_SegmentBoundary(t *testing.T) {
	// A prefix match must respect segment boundaries: "facturacion-x" is a
	// different, unprotected route.
	if !CanAccessRoute(RoleMember, "/dashboard/facturacion-reports") {
		t.Error("segment boundary not respected for similar route name")
	}
}

func TestCanAccessRoute_CaseSensitive(t *testing.T) {
	if !CanAccessRoute(RoleMember, "/dashboard/Facturacion") {
		t.Error("matching should be case-sensitive, differently cased path is unprotected")
	}
}

func TestCanAccessRoute_InvalidRoleDeniedOnGuardedPaths(t *testing.T) {
	if CanAccessRoute(RoleNone, "/dashboard/usuarios") {
		t.Error("RoleNone allowed on guarded route")
	}
}
