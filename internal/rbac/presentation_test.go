package rbac

import "testing"

func TestGetRoleLabel_TotalOverValidRoles(t *testing.T) {
	want := map[Role]string{
		RoleOwner:  "Propietario",
		RoleAdmin:  "Administrador",
		RoleMember: "Miembro",
	}
	for role, label := range want {
		if got := GetRoleLabel(role); got != label {
			t.Errorf("GetRoleLabel(%v) = %q, want %q", role, got, label)
		}
	}
}

func TestGetRoleLabel_UnknownFallsBack(t *testing.T) {
	if got := GetRoleLabel(RoleNone); got != "Desconocido" {
		t.Errorf("GetRoleLabel(RoleNone) = %q, want fallback", got)
	}
	if got := GetRoleLabel(Role(99)); got != "Desconocido" {
		t.Errorf("GetRoleLabel(99) = %q, want fallback", got)
	}
}

func TestGetRoleBadgeColor_TotalOverValidRoles(t *testing.T) {
	want := map[Role]string{
		RoleOwner:  "purple",
		RoleAdmin:  "blue",
		RoleMember: "gray",
	}
	for role, color := range want {
		if got := GetRoleBadgeColor(role); got != color {
			t.Errorf("GetRoleBadgeColor(%v) = %q, want %q", role, got, color)
		}
	}
}

func TestGetRoleBadgeColor_UnknownFallsBack(t *testing.T) {
	if got := GetRoleBadgeColor(Role(99)); got != "gray" {
		t.Errorf("GetRoleBadgeColor(99) = %q, want gray", got)
	}
}

func TestGetPermissionErrorMessage_NeverEmpty(t *testing.T) {
	for _, action := range Actions() {
		if GetPermissionErrorMessage(action) == "" {
			t.Errorf("empty message for %q", action)
		}
	}
}

func TestGetPermissionErrorMessage_UnknownFallsBack(t *testing.T) {
	got := GetPermissionErrorMessage(Action("nope"))
	if got != "No tienes permiso para realizar esta acción" {
		t.Errorf("unexpected fallback message %q", got)
	}
}
