package tenant

import (
	"errors"
	"testing"
	"time"

	"voicehub/internal/rbac"
)

func memberships(names ...string) []OrgMembership {
	out := make([]OrgMembership, 0, len(names))
	for i, name := range names {
		out = append(out, OrgMembership{
			OrganizationID:   uint(i + 1),
			OrganizationName: name,
			Role:             rbac.RoleMember,
			JoinedAt:         time.Date(2025, 1, len(names)-i, 0, 0, 0, 0, time.UTC),
		})
	}
	return out
}

func TestResolveActiveOrganization_EmptyList(t *testing.T) {
	_, err := ResolveActiveOrganization(nil, 0)
	if !errors.Is(err, ErrNoMemberships) {
		t.Fatalf("err = %v, want ErrNoMemberships", err)
	}

	_, err = ResolveActiveOrganization([]OrgMembership{}, 5)
	if !errors.Is(err, ErrNoMemberships) {
		t.Fatalf("err with preference = %v, want ErrNoMemberships", err)
	}
}

func TestResolveActiveOrganization_NoPreferenceReturnsFirst(t *testing.T) {
	list := memberships("A", "B", "C")

	res, err := ResolveActiveOrganization(list, 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Membership.OrganizationName != "A" {
		t.Errorf("resolved %q, want first entry A", res.Membership.OrganizationName)
	}
	if res.Provenance != ProvenanceDefault {
		t.Errorf("provenance = %q, want default", res.Provenance)
	}
}

func TestResolveActiveOrganization_PreferenceWinsRegardlessOfPosition(t *testing.T) {
	list := memberships("A", "B", "C")

	for _, want := range list {
		res, err := ResolveActiveOrganization(list, want.OrganizationID)
		if err != nil {
			t.Fatalf("resolve(%d): %v", want.OrganizationID, err)
		}
		if res.Membership.OrganizationID != want.OrganizationID {
			t.Errorf("resolved org %d, want %d", res.Membership.OrganizationID, want.OrganizationID)
		}
		if res.Provenance != ProvenancePreference {
			t.Errorf("provenance = %q, want preference", res.Provenance)
		}
	}
}

func TestResolveActiveOrganization_StalePreferenceFallsBack(t *testing.T) {
	list := memberships("A", "B")

	res, err := ResolveActiveOrganization(list, 999)
	if err != nil {
		t.Fatalf("stale preference must not error: %v", err)
	}
	if res.Membership.OrganizationName != "A" {
		t.Errorf("resolved %q, want fallback to first entry A", res.Membership.OrganizationName)
	}
	if res.Provenance != ProvenanceDefault {
		t.Errorf("provenance = %q, want default after fallback", res.Provenance)
	}
}

func TestResolveActiveOrganization_SingleMembership(t *testing.T) {
	list := memberships("A")

	res, err := ResolveActiveOrganization(list, 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Membership.OrganizationName != "A" {
		t.Errorf("resolved %q, want A", res.Membership.OrganizationName)
	}
}

// The resolver must never select outside the supplied list, whatever the
// preference claims.
func TestResolveActiveOrganization_NeverSelectsOutsideMemberships(t *testing.T) {
	list := memberships("A", "B", "C")

	for pref := uint(0); pref < 50; pref++ {
		res, err := ResolveActiveOrganization(list, pref)
		if err != nil {
			t.Fatalf("resolve(pref=%d): %v", pref, err)
		}
		found := false
		for _, m := range list {
			if m.OrganizationID == res.Membership.OrganizationID {
				found = true
			}
		}
		if !found {
			t.Fatalf("resolved org %d not in membership list", res.Membership.OrganizationID)
		}
	}
}

func TestResolveActiveOrganization_DoesNotMutateInput(t *testing.T) {
	list := memberships("A", "B")
	first := list[0]

	if _, err := ResolveActiveOrganization(list, 2); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if list[0] != first {
		t.Error("resolver mutated its input")
	}
}
