package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"voicehub/internal/rbac"
	"voicehub/internal/store"
	"voicehub/internal/tenant"
	"voicehub/pkg/logger"
	"voicehub/prometheus"
)

// ActiveOrgMiddleware resolves the active organization for the request from
// the live membership list and the preference cookie, and stores the result
// in the echo context. The resolution happens fresh on every request; the
// cookie value alone never grants access to an organization.
//
// Context keys set: "active_org_id" (uint), "active_org_name" (string),
// "active_role" (rbac.Role), "org_provenance" (tenant.Provenance).
func ActiveOrgMiddleware(memberships store.MembershipStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			userID, ok := c.Get("user_id").(uint)
			if !ok {
				log.Error("Failed to get user ID from context")
				prometheus.RecordAuthError("missing_user_context")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			list, err := memberships.MembershipsForUser(c.Request().Context(), userID)
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

			c.Set("active_org_id", resolution.Membership.OrganizationID)
			c.Set("active_org_name", resolution.Membership.OrganizationName)
			c.Set("active_role", resolution.Membership.Role)
			c.Set("org_provenance", resolution.Provenance)

			return next(c)
		}
	}
}

// RouteGuardMiddleware rejects requests whose path requires a higher role
// than the one held in the active organization. Paths outside the protected
// table pass through.
func RouteGuardMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		role, ok := c.Get("active_role").(rbac.Role)
		if !ok {
			log.Error("Route guard reached without active role in context")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}

		path := c.Request().URL.Path
		if !rbac.CanAccessRoute(role, path) {
			log.Warn("Route access denied",
				zap.String("path", path),
				zap.String("role", role.String()))
			prometheus.RecordPermissionDenied("route:"+path, role.String())
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}

		return next(c)
	}
}

// RequirePermission gates a handler behind one matrix action for the role
// held in the active organization.
func RequirePermission(action rbac.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			role, ok := c.Get("active_role").(rbac.Role)
			if !ok {
				log.Error("Permission check reached without active role in context")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			if !rbac.HasPermission(role, action) {
				log.Warn("Permission denied",
					zap.String("action", string(action)),
					zap.String("role", role.String()))
				prometheus.RecordPermissionDenied(string(action), role.String())
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": rbac.GetPermissionErrorMessage(action),
				})
			}

			return next(c)
		}
	}
}
