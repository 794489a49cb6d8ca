package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"voicehub/internal/model"
	"voicehub/internal/rbac"
	"voicehub/internal/tenant"
)

// ErrOwnershipTransfer is returned when the two-row role swap could not be
// applied atomically. The membership set is unchanged when this is returned;
// callers should surface it as a retryable operational error.
var ErrOwnershipTransfer = errors.New("ownership transfer failed")

// ErrMembershipNotFound is returned when a lookup matches no membership.
var ErrMembershipNotFound = errors.New("membership not found")

// MembershipStore is the authoritative membership collaborator consumed by
// the resolver and the member-management handlers.
type MembershipStore interface {
	// MembershipsForUser returns the user's memberships ordered by
	// joined_at descending. The ordering is part of the contract: the
	// active-organization resolver defaults to the first entry.
	MembershipsForUser(ctx context.Context, userID uint) ([]tenant.OrgMembership, error)

	// RoleForUserInOrg returns the role userID holds in orgID, or
	// ErrMembershipNotFound.
	RoleForUserInOrg(ctx context.Context, userID, orgID uint) (rbac.Role, error)

	// TransferOwnership demotes the current owner of orgID to admin and
	// promotes toUserID to owner, both or neither. The target must already
	// hold a membership in the organization.
	TransferOwnership(ctx context.Context, orgID, fromUserID, toUserID uint) error
}

// GormMembershipStore is the postgres-backed MembershipStore.
type GormMembershipStore struct {
	db *gorm.DB
}

func NewMembershipStore(db *gorm.DB) *GormMembershipStore {
	return &GormMembershipStore{db: db}
}

func (s *GormMembershipStore) MembershipsForUser(ctx context.Context, userID uint) ([]tenant.OrgMembership, error) {
	var rows []model.Membership
	err := s.db.WithContext(ctx).
		Preload("Organization").
		Where("user_id = ?", userID).
		Order("joined_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	memberships := make([]tenant.OrgMembership, 0, len(rows))
	for _, row := range rows {
		// An unparseable role maps to RoleNone, which grants nothing.
		role, _ := rbac.ParseRole(row.Role)
		memberships = append(memberships, tenant.OrgMembership{
			OrganizationID:   row.OrganizationID,
			OrganizationName: row.Organization.Name,
			OrganizationSlug: row.Organization.Slug,
			Role:             role,
			JoinedAt:         row.JoinedAt,
		})
	}
	return memberships, nil
}

func (s *GormMembershipStore) RoleForUserInOrg(ctx context.Context, userID, orgID uint) (rbac.Role, error) {
	var row model.Membership
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rbac.RoleNone, ErrMembershipNotFound
	}
	if err != nil {
		return rbac.RoleNone, fmt.Errorf("lookup membership: %w", err)
	}
	return rbac.ParseRole(row.Role)
}

// TransferOwnership swaps the owner role inside a single transaction. Each
// update must touch exactly one row; anything else rolls back, so the
// organization never observes zero or two owners.
func (s *GormMembershipStore) TransferOwnership(ctx context.Context, orgID, fromUserID, toUserID uint) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: %v", ErrOwnershipTransfer, tx.Error)
	}

	promote := tx.Model(&model.Membership{}).
		Where("organization_id = ? AND user_id = ? AND role IN ('admin', 'member')", orgID, toUserID).
		Update("role", rbac.RoleOwner.String())
	if promote.Error != nil || promote.RowsAffected != 1 {
		tx.Rollback()
		return fmt.Errorf("%w: target is not a transferable member", ErrOwnershipTransfer)
	}

	demote := tx.Model(&model.Membership{}).
		Where("organization_id = ? AND user_id = ? AND role = 'owner'", orgID, fromUserID).
		Update("role", rbac.RoleAdmin.String())
	if demote.Error != nil || demote.RowsAffected != 1 {
		tx.Rollback()
		return fmt.Errorf("%w: acting user is not the owner", ErrOwnershipTransfer)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%w: %v", ErrOwnershipTransfer, err)
	}
	return nil
}
