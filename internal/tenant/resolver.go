package tenant

import (
	"errors"
	"time"

	"voicehub/internal/rbac"
)

// ErrNoMemberships is returned when resolution is attempted for a user that
// belongs to no organization. Callers should route the user into onboarding,
// not retry.
var ErrNoMemberships = errors.New("user has no organization memberships")

// OrgMembership is the resolver's view of one membership: the organization
// plus the role the user holds in it.
type OrgMembership struct {
	OrganizationID   uint
	OrganizationName string
	OrganizationSlug string
	Role             rbac.Role
	JoinedAt         time.Time
}

// Provenance records how the active organization was chosen.
type Provenance string

const (
	// ProvenancePreference means the stored preference matched a membership.
	ProvenancePreference Provenance = "preference"
	// ProvenanceDefault means the first membership was used, either because
	// no preference was stored or because the stored one no longer matches.
	ProvenanceDefault Provenance = "default"
)

// Resolution is the outcome of resolving the active organization for one
// request. It is recomputed per request and never persisted.
type Resolution struct {
	Membership OrgMembership
	Provenance Provenance
}

// ResolveActiveOrganization picks exactly one active organization from the
// user's memberships. preferredID is the stored preference (0 when absent)
// and is treated as an untrusted hint: it selects an organization only if it
// matches one of the supplied memberships. A stale or tampered preference
// falls back silently to the first membership, since being removed from a
// previously selected organization is a normal situation, not an error.
//
// The first-entry default relies on the ordering contract of the supplied
// list (the membership store returns most-recently-joined first). This
// function performs no I/O and never selects outside memberships.
func ResolveActiveOrganization(memberships []OrgMembership, preferredID uint) (Resolution, error) {
	if len(memberships) == 0 {
		return Resolution{}, ErrNoMemberships
	}
	if preferredID != 0 {
		for _, m := range memberships {
			if m.OrganizationID == preferredID {
				return Resolution{Membership: m, Provenance: ProvenancePreference}, nil
			}
		}
	}
	return Resolution{Membership: memberships[0], Provenance: ProvenanceDefault}, nil
}
