package tenant

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestPersistActiveOrganization_CookieAttributes(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/orgs/switch", nil)
	c, rec := newTestContext(t, req)

	PersistActiveOrganization(c, 42)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != PreferenceCookieName {
		t.Errorf("name = %q, want %q", cookie.Name, PreferenceCookieName)
	}
	if cookie.Value != "42" {
		t.Errorf("value = %q, want 42", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("cookie must be httpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("sameSite = %v, want Lax", cookie.SameSite)
	}
	if cookie.Path != "/" {
		t.Errorf("path = %q, want /", cookie.Path)
	}
	if cookie.MaxAge < 300*24*3600 {
		t.Errorf("maxAge = %d, want roughly a year", cookie.MaxAge)
	}
	if cookie.Secure {
		t.Error("cookie should not be secure on a plain-http request")
	}
}

func TestPersistActiveOrganization_SecureOverHTTPS(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "https://voicehub.example/api/orgs/switch", nil)
	c, rec := newTestContext(t, req)

	PersistActiveOrganization(c, 7)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if !cookies[0].Secure {
		t.Error("cookie must be secure over https")
	}
}

func TestReadPreference_Roundtrip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/orgs/active", nil)
	req.AddCookie(&http.Cookie{Name: PreferenceCookieName, Value: "17"})
	c, _ := newTestContext(t, req)

	if got := ReadPreference(c); got != 17 {
		t.Errorf("ReadPreference = %d, want 17", got)
	}
}

func TestReadPreference_MissingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/orgs/active", nil)
	c, _ := newTestContext(t, req)

	if got := ReadPreference(c); got != 0 {
		t.Errorf("ReadPreference = %d, want 0 for missing cookie", got)
	}
}

func TestReadPreference_GarbageValue(t *testing.T) {
	for _, value := range []string{"", "abc", "-1", "1e9x", "9999999999999999999999"} {
		req := httptest.NewRequest(http.MethodGet, "/api/orgs/active", nil)
		req.AddCookie(&http.Cookie{Name: PreferenceCookieName, Value: value})
		c, _ := newTestContext(t, req)

		if got := ReadPreference(c); got != 0 {
			t.Errorf("ReadPreference(%q) = %d, want 0", value, got)
		}
	}
}

func TestClearPreference_Expires(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	c, rec := newTestContext(t, req)

	ClearPreference(c)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Errorf("maxAge = %d, want negative to expire", cookies[0].MaxAge)
	}
}
