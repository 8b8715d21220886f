package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portiva/portiva/internal/shared"
)

func TestSessionCookieMiddlewareIssuesCookie(t *testing.T) {
	cfg := &Config{SessionCookie: "portiva_sid", SessionTTL: time.Hour}

	var seenSID string
	handler := SessionCookieMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSID = shared.SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/decision", nil))

	require.NotEmpty(t, seenSID)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "portiva_sid", cookie.Name)
	assert.Equal(t, seenSID, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.Secure)
}

func TestSessionCookieMiddlewareReusesExistingCookie(t *testing.T) {
	cfg := &Config{SessionCookie: "portiva_sid", SessionTTL: time.Hour}

	var seenSID string
	handler := SessionCookieMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSID = shared.SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/decision", nil)
	req.AddCookie(&http.Cookie{Name: "portiva_sid", Value: "existing-session"})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "existing-session", seenSID)
	assert.Empty(t, rr.Result().Cookies())
}

func TestSessionCookieMiddlewareSecureInProduction(t *testing.T) {
	cfg := &Config{AppEnv: "production", SessionCookie: "portiva_sid", SessionTTL: time.Hour}

	handler := SessionCookieMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}
