package tenant

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// PreferenceCookieName is the durable client-side active-organization
// preference. The value is only a hint; it is revalidated against the live
// membership list on every read by ResolveActiveOrganization.
const PreferenceCookieName = "voicehub_active_org"

// preferenceMaxAge keeps the preference across sessions.
const preferenceMaxAge = 365 * 24 * time.Hour

// ReadPreference returns the stored organization preference for the current
// request, or 0 when absent or unparseable.
func ReadPreference(c echo.Context) uint {
	cookie, err := c.Cookie(PreferenceCookieName)
	if err != nil {
		return 0
	}
	id, err := strconv.ParseUint(cookie.Value, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// PersistActiveOrganization stores orgID as the client's preference. No
// membership validation happens here; the next read revalidates. The cookie
// is kept out of reach of page scripts and cross-site requests.
func PersistActiveOrganization(c echo.Context, orgID uint) {
	c.SetCookie(&http.Cookie{
		Name:     PreferenceCookieName,
		Value:    strconv.FormatUint(uint64(orgID), 10),
		Path:     "/",
		MaxAge:   int(preferenceMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Request().TLS != nil || c.Scheme() == "https",
	})
}

// ClearPreference removes the stored preference.
func ClearPreference(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     PreferenceCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Request().TLS != nil || c.Scheme() == "https",
	})
}
