package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetSessionCookieAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "", "tok123", true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != DefaultCookieName || c.Value != "tok123" {
		t.Fatalf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Fatal("cookie not http-only")
	}
	if !c.Secure {
		t.Fatal("cookie not secure")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("samesite = %v, want lax", c.SameSite)
	}
	if c.Path != "/" {
		t.Fatalf("path = %q, want /", c.Path)
	}
	// Session-scoped: no Max-Age, no Expires.
	if c.MaxAge != 0 || !c.Expires.IsZero() {
		t.Fatalf("cookie is not session-scoped: max-age=%d expires=%v", c.MaxAge, c.Expires)
	}
}

func TestClearSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSessionCookie(rec, "ag_session")

	c := rec.Result().Cookies()[0]
	if c.Value != "" || c.MaxAge != -1 {
		t.Fatalf("cookie not cleared: value=%q max-age=%d", c.Value, c.MaxAge)
	}
	if c.Path != "/" || !c.HttpOnly {
		t.Fatal("clear cookie attributes must match set attributes")
	}
}

func TestFromRequestPrefersCookie(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "from-cookie"})
	r.Header.Set("Authorization", "Bearer from-header")

	raw, ok := FromRequest(r, "")
	if !ok || raw != "from-cookie" {
		t.Fatalf("got (%q, %v)", raw, ok)
	}
}

func TestFromRequestBearerFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer from-header")

	raw, ok := FromRequest(r, "")
	if !ok || raw != "from-header" {
		t.Fatalf("got (%q, %v)", raw, ok)
	}

	bare := httptest.NewRequest("GET", "/", nil)
	if _, ok := FromRequest(bare, ""); ok {
		t.Fatal("token found on bare request")
	}
}
