package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"voicehub/internal/model"
	"voicehub/internal/rbac"
	"voicehub/internal/store"
	"voicehub/pkg/database"
	"voicehub/pkg/logger"
	"voicehub/prometheus"
)

// MemberHandler serves membership management routes. Every mutation is
// checked against the acting user's role in the target organization, never
// against a role claimed by the client.
type MemberHandler struct {
	Memberships store.MembershipStore
}

func NewMemberHandler(memberships store.MembershipStore) *MemberHandler {
	return &MemberHandler{Memberships: memberships}
}

// actingRole resolves the caller's role in the path organization. Returns
// RoleNone with a handled response when the caller is not a member.
func (h *MemberHandler) actingRole(c echo.Context) (rbac.Role, uint, uint, bool) {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		return rbac.RoleNone, 0, 0, false
	}

	orgID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid organization ID", zap.Error(err))
		c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
		return rbac.RoleNone, 0, 0, false
	}

	role, err := h.Memberships.RoleForUserInOrg(c.Request().Context(), userID, uint(orgID))
	if err != nil {
		log.Warn("Caller is not a member of organization",
			zap.Uint("user_id", userID),
			zap.Uint64("organization_id", orgID))
		c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		return rbac.RoleNone, 0, 0, false
	}

	return role, userID, uint(orgID), true
}

// ListMembers returns the members of an organization with display metadata.
func (h *MemberHandler) ListMembers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("list_members")

	role, _, orgID, ok := h.actingRole(c)
	if !ok {
		return nil
	}

	if !rbac.HasPermission(role, rbac.ActionMembersView) {
		prometheus.RecordPermissionDenied(string(rbac.ActionMembersView), role.String())
		return c.JSON(http.StatusForbidden, echo.Map{"error": rbac.GetPermissionErrorMessage(rbac.ActionMembersView)})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var rows []model.Membership
	if result := database.GetDB().Preload("User").
		Where("organization_id = ?", orgID).
		Order("joined_at ASC").
		Find(&rows); result.Error != nil {
		log.Error("Failed to list members", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list members"})
	}

	type memberResponse struct {
		UserID     uint      `json:"user_id"`
		Email      string    `json:"email"`
		Name       string    `json:"name"`
		Role       string    `json:"role"`
		RoleLabel  string    `json:"role_label"`
		BadgeColor string    `json:"badge_color"`
		JoinedAt   time.Time `json:"joined_at"`
	}

	response := make([]memberResponse, 0, len(rows))
	for _, row := range rows {
		memberRole, _ := rbac.ParseRole(row.Role)
		response = append(response, memberResponse{
			UserID:     row.UserID,
			Email:      row.User.Email,
			Name:       row.User.Name,
			Role:       memberRole.String(),
			RoleLabel:  rbac.GetRoleLabel(memberRole),
			BadgeColor: rbac.GetRoleBadgeColor(memberRole),
			JoinedAt:   row.JoinedAt,
		})
	}

	return c.JSON(http.StatusOK, response)
}

// AddMember adds an existing user to the organization with a role the
// acting role is allowed to assign.
func (h *MemberHandler) AddMember(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("add_member")

	actingRole, _, orgID, ok := h.actingRole(c)
	if !ok {
		return nil
	}

	var req struct {
		Email string `json:"email"`
		Role  string `json:"role,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse add member request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	if req.Role == "" {
		req.Role = rbac.RoleMember.String()
	}

	targetRole, err := rbac.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	if !rbac.HasPermission(actingRole, rbac.ActionMembersInvite) || !rbac.CanAssign(actingRole, targetRole) {
		log.Warn("Unauthorized attempt to add member",
			zap.String("acting_role", actingRole.String()),
			zap.String("target_role", targetRole.String()),
			zap.Uint("organization_id", orgID))
		prometheus.RecordPermissionDenied(string(rbac.ActionMembersInvite), actingRole.String())
		return c.JSON(http.StatusForbidden, echo.Map{"error": rbac.GetPermissionErrorMessage(rbac.ActionMembersInvite)})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if result := database.GetDB().Where("email = ?", req.Email).First(&user); result.Error != nil {
		log.Warn("User not found", zap.String("email", req.Email))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	var existing model.Membership
	result := database.GetDB().Where("user_id = ? AND organization_id = ?", user.ID, orgID).First(&existing)
	if result.Error == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "user is already a member"})
	}

	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	membership := model.Membership{
		UserID:         user.ID,
		OrganizationID: orgID,
		Role:           targetRole.String(),
		JoinedAt:       time.Now(),
	}

	if result := tx.Create(&membership); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to add member", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add member"})
	}

	// First membership completes the user's onboarding.
	if result := tx.Model(&model.User{}).Where("id = ? AND status = ?", user.ID, model.UserStatusInvited).
		Update("status", model.UserStatusActive); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to update user status", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add member"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction commit failed"})
	}

	// A notification for the added user shows up in their dashboard header.
	notification := model.Notification{
		UserID:         user.ID,
		OrganizationID: orgID,
		Title:          "Te han añadido a una organización",
		Body:           "Ahora eres " + rbac.GetRoleLabel(targetRole) + " de esta organización.",
	}
	if result := database.GetDB().Create(&notification); result.Error != nil {
		log.Warn("Failed to create notification", zap.Error(result.Error))
	}

	log.Info("Member added",
		zap.Uint("organization_id", orgID),
		zap.String("email", req.Email),
		zap.String("role", targetRole.String()))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Member added successfully",
		"membership": membership,
	})
}

// UpdateMemberRole changes an existing member's role, constrained by the
// assignable-role rule. The owner role is never assigned here; it moves only
// through TransferOwnership.
func (h *MemberHandler) UpdateMemberRole(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("update_member_role")

	actingRole, actingUserID, orgID, ok := h.actingRole(c)
	if !ok {
		return nil
	}

	targetUserID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse role update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	targetRole, err := rbac.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	if uint(targetUserID) == actingUserID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot change own role"})
	}

	if !rbac.HasPermission(actingRole, rbac.ActionMembersManage) || !rbac.CanAssign(actingRole, targetRole) {
		prometheus.RecordPermissionDenied(string(rbac.ActionMembersManage), actingRole.String())
		return c.JSON(http.StatusForbidden, echo.Map{"error": rbac.GetPermissionErrorMessage(rbac.ActionMembersManage)})
	}

	currentRole, err := h.Memberships.RoleForUserInOrg(c.Request().Context(), uint(targetUserID), orgID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
	}
	if currentRole == rbac.RoleOwner {
		// The owner's role only changes through the transfer swap.
		return c.JSON(http.StatusForbidden, echo.Map{"error": rbac.GetPermissionErrorMessage(rbac.ActionOrgTransfer)})
	}
	// The target's current role must also be strictly lower than the acting
	// role: an admin manages members, not peer admins.
	if !rbac.CanAssign(actingRole, currentRole) {
		prometheus.RecordPermissionDenied(string(rbac.ActionMembersManage), actingRole.String())
		return c.JSON(http.StatusForbidden, echo.Map{"error": rbac.GetPermissionErrorMessage(rbac.ActionMembersManage)})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var membership model.Membership
	if result := database.GetDB().Where("user_id = ? AND organization_id = ?", targetUserID, orgID).First(&membership); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
	}

	membership.Role = targetRole.String()
	if err := database.GetDB().Save(&membership).Error; err != nil {
		log.Error("Failed to update member role", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update role"})
	}

	log.Info("Member role updated",
		zap.Uint("organization_id", orgID),
		zap.Uint64("user_id", targetUserID),
		zap.String("role", targetRole.String()))

	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Role updated successfully",
		"membership": membership,
	})
}

// RemoveMember removes a member from the organization. The owner cannot be
// removed.
func (h *MemberHandler) RemoveMember(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("remove_member")

	actingRole, _, orgID, ok := h.actingRole(c)
	if !ok {
		return nil
	}

	targetUserID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	if !rbac.HasPermission(actingRole, rbac.ActionMembersManage) {
		prometheus.RecordPermissionDenied(string(rbac.ActionMembersManage), actingRole.String())
		return c.JSON(http.StatusForbidden, echo.Map{"error": rbac.GetPermissionErrorMessage(rbac.ActionMembersManage)})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var membership model.Membership
	if result := database.GetDB().Where("user_id = ? AND organization_id = ?", targetUserID, orgID).First(&membership); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
	}

	targetCurrentRole, _ := rbac.ParseRole(membership.Role)
	if targetCurrentRole == rbac.RoleOwner {
		log.Warn("Attempted to remove organization owner",
			zap.Uint("organization_id", orgID),
			zap.Uint64("owner_user_id", targetUserID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot remove the organization owner"})
	}

	// An admin may not remove another admin, only members.
	if !rbac.CanAssign(actingRole, targetCurrentRole) {
		prometheus.RecordPermissionDenied(string(rbac.ActionMembersManage), actingRole.String())
		return c.JSON(http.StatusForbidden, echo.Map{"error": rbac.GetPermissionErrorMessage(rbac.ActionMembersManage)})
	}

	if result := database.GetDB().Delete(&membership); result.Error != nil {
		log.Error("Failed to remove member", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove member"})
	}

	log.Info("Member removed",
		zap.Uint("organization_id", orgID),
		zap.Uint64("user_id", targetUserID))

	return c.JSON(http.StatusOK, echo.Map{"message": "Member removed successfully"})
}

// TransferOwnership swaps the owner role to a target member atomically. On
// a store failure the membership set is unchanged and the error is surfaced
// as retryable.
func (h *MemberHandler) TransferOwnership(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("transfer")

	actingRole, actingUserID, orgID, ok := h.actingRole(c)
	if !ok {
		return nil
	}

	if !rbac.CanTransferOwnership(actingRole) {
		prometheus.RecordPermissionDenied(string(rbac.ActionOrgTransfer), actingRole.String())
		return c.JSON(http.StatusForbidden, echo.Map{"error": rbac.GetPermissionErrorMessage(rbac.ActionOrgTransfer)})
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse transfer request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}

	if req.UserID == actingUserID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot transfer ownership to yourself"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.Memberships.TransferOwnership(c.Request().Context(), orgID, actingUserID, req.UserID); err != nil {
		if errors.Is(err, store.ErrOwnershipTransfer) {
			log.Error("Ownership transfer failed", zap.Error(err),
				zap.Uint("organization_id", orgID),
				zap.Uint("target_user_id", req.UserID))
			return c.JSON(http.StatusConflict, echo.Map{
				"error":     "ownership transfer failed, no changes were applied",
				"retryable": true,
			})
		}
		log.Error("Ownership transfer error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ownership transfer failed"})
	}

	log.Info("Ownership transferred",
		zap.Uint("organization_id", orgID),
		zap.Uint("from_user_id", actingUserID),
		zap.Uint("to_user_id", req.UserID))

	return c.JSON(http.StatusOK, echo.Map{"message": "Ownership transferred successfully"})
}
