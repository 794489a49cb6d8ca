package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"voicehub/internal/model"
	"voicehub/internal/rbac"
	"voicehub/internal/store"
	"voicehub/internal/tenant"
	"voicehub/pkg/database"
	"voicehub/pkg/jwtutil"
	"voicehub/pkg/logger"
	"voicehub/prometheus"
)

// OrgHandler serves organization lifecycle and active-organization routes.
type OrgHandler struct {
	Memberships store.MembershipStore
}

func NewOrgHandler(memberships store.MembershipStore) *OrgHandler {
	return &OrgHandler{Memberships: memberships}
}

// CreateOrganization provisions a new organization with the caller as owner.
// Creating a first organization completes onboarding: the user status moves
// from "invited" to "active" and the new organization becomes the stored
// preference.
func (h *OrgHandler) CreateOrganization(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("create")

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		prometheus.RecordAuthError("unauthorized_org_creation")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Name     string `json:"name"`
		Settings string `json:"settings,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	org := model.Organization{
		Name:     req.Name,
		Slug:     slugify(req.Name),
		Settings: req.Settings,
		Active:   true,
	}

	if result := tx.Create(&org); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create organization", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "organization creation failed"})
	}

	membership := model.Membership{
		UserID:         userID,
		OrganizationID: org.ID,
		Role:           rbac.RoleOwner.String(),
		JoinedAt:       time.Now(),
	}

	if result := tx.Create(&membership); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create owner membership", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "membership creation failed"})
	}

	// First membership completes onboarding.
	if result := tx.Model(&model.User{}).Where("id = ?", userID).Update("status", model.UserStatusActive); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to update user status", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user update failed"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction commit failed"})
	}

	tenant.PersistActiveOrganization(c, org.ID)

	log.Info("Organization created",
		zap.String("name", org.Name),
		zap.Uint("id", org.ID),
		zap.Uint("owner_user_id", userID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Organization created successfully",
		"organization": org,
	})
}

// ListOrganizations returns the caller's organizations with role and join
// date, most recently joined first.
func (h *OrgHandler) ListOrganizations(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("list")

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	list, err := h.Memberships.MembershipsForUser(c.Request().Context(), userID)
	if err != nil {
		log.Error("Failed to retrieve organizations", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve organizations"})
	}

	type orgResponse struct {
		ID        uint      `json:"id"`
		Name      string    `json:"name"`
		Slug      string    `json:"slug"`
		Role      string    `json:"role"`
		RoleLabel string    `json:"role_label"`
		JoinedAt  time.Time `json:"joined_at"`
	}

	response := make([]orgResponse, 0, len(list))
	for _, m := range list {
		response = append(response, orgResponse{
			ID:        m.OrganizationID,
			Name:      m.OrganizationName,
			Slug:      m.OrganizationSlug,
			Role:      m.Role.String(),
			RoleLabel: rbac.GetRoleLabel(m.Role),
			JoinedAt:  m.JoinedAt,
		})
	}

	return c.JSON(http.StatusOK, response)
}

// GetActiveOrganization resolves and returns the active organization for the
// current request, including how it was chosen.
func (h *OrgHandler) GetActiveOrganization(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	list, err := h.Memberships.MembershipsForUser(c.Request().Context(), userID)
	if err != nil {
		log.Error("Failed to load memberships", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load memberships"})
	}

	resolution, err := tenant.ResolveActiveOrganization(list, tenant.ReadPreference(c))
	if errors.Is(err, tenant.ErrNoMemberships) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":            "no organization memberships",
			"needs_onboarding": true,
		})
	}
	if err != nil {
		log.Error("Failed to resolve active organization", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve organization"})
	}

	active := resolution.Membership
	return c.JSON(http.StatusOK, echo.Map{
		"organization": map[string]interface{}{
			"id":   active.OrganizationID,
			"name": active.OrganizationName,
			"slug": active.OrganizationSlug,
		},
		"role":       active.Role.String(),
		"provenance": string(resolution.Provenance),
	})
}

// SwitchOrganization changes the active organization. Membership is
// verified against the live list before the preference is stored, and a
// fresh JWT with the new organization context is returned.
func (h *OrgHandler) SwitchOrganization(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.OrgSwitchCounter.Inc()
	prometheus.RecordOrgOperation("switch")

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	email, ok := c.Get("email").(string)
	if !ok {
		log.Error("Failed to get email from context")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "email missing from context"})
	}

	var req struct {
		OrganizationID uint `json:"organization_id"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization switch request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.OrganizationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization_id is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	list, err := h.Memberships.MembershipsForUser(c.Request().Context(), userID)
	if err != nil {
		log.Error("Failed to load memberships", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load memberships"})
	}

	var target *tenant.OrgMembership
	for i := range list {
		if list[i].OrganizationID == req.OrganizationID {
			target = &list[i]
			break
		}
	}
	if target == nil {
		log.Warn("Unauthorized organization switch attempt",
			zap.Uint("user_id", userID),
			zap.Uint("organization_id", req.OrganizationID))
		prometheus.RecordAuthError("org_access_denied")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied to requested organization"})
	}

	orgID := target.OrganizationID
	token, err := jwtutil.GenerateTokenWithOrg(email, userID, &orgID, target.OrganizationName, target.Role.String())
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	// Store the preference only once the switch fully succeeded.
	tenant.PersistActiveOrganization(c, target.OrganizationID)

	prometheus.IncreaseActiveTokens()
	log.Info("User switched organization",
		zap.String("email", email),
		zap.Uint("user_id", userID),
		zap.Uint("organization_id", target.OrganizationID))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"organization": map[string]interface{}{
			"id":   target.OrganizationID,
			"name": target.OrganizationName,
			"role": target.Role.String(),
		},
	})
}

// GetOrganization returns organization details for members of it.
func (h *OrgHandler) GetOrganization(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("access")

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid organization ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.Memberships.RoleForUserInOrg(c.Request().Context(), userID, uint(id)); err != nil {
		log.Warn("Unauthorized organization access attempt",
			zap.Uint("requesting_user_id", userID),
			zap.Uint64("organization_id", id))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	var org model.Organization
	if result := database.GetDB().First(&org, id); result.Error != nil {
		log.Error("Organization not found", zap.Uint64("id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "organization not found"})
	}

	return c.JSON(http.StatusOK, org)
}

// slugify converts a display name to a URL-safe slug.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = fmt.Sprintf("org-%d", time.Now().UnixNano())
	}
	return slug
}
