package rbac

import (
	"errors"
	"testing"
)

func TestParseRole_ValidRoles(t *testing.T) {
	cases := map[string]Role{
		"member": RoleMember,
		"admin":  RoleAdmin,
		"owner":  RoleOwner,
	}
	for s, want := range cases {
		got, err := ParseRole(s)
		if err != nil {
			t.Errorf("ParseRole(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("ParseRole(%q) = %v, want %v", s, got, want)
		}
		if got.String() != s {
			t.Errorf("Role.String() = %q, want %q", got.String(), s)
		}
	}
}

func TestParseRole_InvitedIsNotARole(t *testing.T) {
	got, err := ParseRole("invited")
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("ParseRole(invited) err = %v, want ErrUnknownRole", err)
	}
	if got != RoleNone {
		t.Errorf("ParseRole(invited) = %v, want RoleNone", got)
	}
}

func TestParseRole_Unknown(t *testing.T) {
	for _, s := range []string{"", "OWNER", "Admin", "superuser", "root"} {
		got, err := ParseRole(s)
		if err == nil {
			t.Errorf("ParseRole(%q): expected error", s)
		}
		if got != RoleNone {
			t.Errorf("ParseRole(%q) = %v, want RoleNone", s, got)
		}
	}
}

func TestRole_Ordering(t *testing.T) {
	if !(RoleMember < RoleAdmin && RoleAdmin < RoleOwner) {
		t.Fatal("privilege order member < admin < owner violated")
	}
}

func TestRole_AtLeast(t *testing.T) {
	if !RoleOwner.AtLeast(RoleMember) {
		t.Error("owner should be at least member")
	}
	if !RoleAdmin.AtLeast(RoleAdmin) {
		t.Error("admin should be at least admin")
	}
	if RoleMember.AtLeast(RoleAdmin) {
		t.Error("member should not be at least admin")
	}
	if RoleNone.AtLeast(RoleMember) {
		t.Error("the zero role should never satisfy a minimum")
	}
	// An out-of-range value above owner must not pass either.
	if Role(99).AtLeast(RoleMember) {
		t.Error("invalid role above owner should not satisfy a minimum")
	}
}

func TestRoles_AscendingOrder(t *testing.T) {
	roles := Roles()
	if len(roles) != 3 {
		t.Fatalf("Roles() returned %d roles, want 3", len(roles))
	}
	for i := 1; i < len(roles); i++ {
		if roles[i-1] >= roles[i] {
			t.Errorf("Roles() not ascending at index %d", i)
		}
	}
}
