package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"voicehub/internal/rbac"
	"voicehub/internal/tenant"
	"voicehub/pkg/logger"
)

// GetSession returns the dashboard-shell bootstrap payload for the current
// request: active organization, role metadata and the full permission map,
// so the UI can render the sidebar, badges and disabled states without
// guessing at authorization rules.
func GetSession(c echo.Context) error {
	log := logger.FromContext(c)

	role, ok := c.Get("active_role").(rbac.Role)
	if !ok {
		log.Error("Session requested without active role in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	orgID, _ := c.Get("active_org_id").(uint)
	orgName, _ := c.Get("active_org_name").(string)
	provenance, _ := c.Get("org_provenance").(tenant.Provenance)

	permissions := make(map[string]bool, len(rbac.Actions()))
	for _, action := range rbac.Actions() {
		permissions[string(action)] = rbac.HasPermission(role, action)
	}

	assignable := make([]string, 0, 2)
	for _, r := range rbac.AssignableRoles(role) {
		assignable = append(assignable, r.String())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"organization": map[string]interface{}{
			"id":         orgID,
			"name":       orgName,
			"provenance": string(provenance),
		},
		"role": map[string]interface{}{
			"name":        role.String(),
			"label":       rbac.GetRoleLabel(role),
			"badge_color": rbac.GetRoleBadgeColor(role),
		},
		"permissions":      permissions,
		"assignable_roles": assignable,
		"can_write":        rbac.CanWrite(role),
		"can_billing":      rbac.CanAccessBilling(role),
		"preview_mode":     rbac.IsPreviewMode(role),
	})
}

// CheckRouteAccess answers whether the caller's active role may enter a
// dashboard route. The UI calls this before client-side navigation into
// protected sections.
func CheckRouteAccess(c echo.Context) error {
	log := logger.FromContext(c)

	role, ok := c.Get("active_role").(rbac.Role)
	if !ok {
		log.Error("Route access check without active role in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	path := c.QueryParam("path")
	if path == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "path is required"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"path":    path,
		"allowed": rbac.CanAccessRoute(role, path),
	})
}
