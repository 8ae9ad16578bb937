// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookit/internal/core"
)

type stubVerifier struct {
	identity *Identity
	err      error
	gotToken string
}

func (s *stubVerifier) VerifySession(_ context.Context, token string) (*Identity, error) {
	s.gotToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func okHandler(t *testing.T, wantID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantID != "" {
			assert.Equal(t, wantID, GetUserID(r.Context()))
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestExtractTokenBearerHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc123")

	assert.Equal(t, "abc123", ExtractToken(r))
}

func TestExtractTokenFallsBackToCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})

	assert.Equal(t, "cookie-token", ExtractToken(r))
}

func TestExtractTokenHeaderBeatsCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})

	assert.Equal(t, "header-token", ExtractToken(r))
}

func TestAuthenticatorMissingToken(t *testing.T) {
	verifier := &stubVerifier{}
	handler := Authenticator(verifier)(okHandler(t, ""))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, verifier.gotToken)
}

func TestAuthenticatorAttachesIdentity(t *testing.T) {
	verifier := &stubVerifier{
		identity: &Identity{ID: "user-1", Role: "user"},
	}
	handler := Authenticator(verifier)(okHandler(t, "user-1"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer good-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good-token", verifier.gotToken)
}

func TestAuthenticatorExpiredToken(t *testing.T) {
	verifier := &stubVerifier{err: core.ErrTokenExpired}
	handler := Authenticator(verifier)(okHandler(t, ""))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer stale-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
}

func withIdentity(r *http.Request, identity *Identity) *http.Request {
	ctx := context.WithValue(r.Context(), IdentityKey, identity)
	return r.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole("admin", "guide")(okHandler(t, ""))

	tests := []struct {
		name     string
		identity *Identity
		want     int
	}{
		{"no identity", nil, http.StatusUnauthorized},
		{"wrong role", &Identity{ID: "u1", Role: "user"}, http.StatusForbidden},
		{"allowed role", &Identity{ID: "u2", Role: "guide"}, http.StatusOK},
		{"admin", &Identity{ID: "u3", Role: "admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.identity != nil {
				r = withIdentity(r, tt.identity)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRoleForbiddenMessage(t *testing.T) {
	handler := RequireRole("admin")(okHandler(t, ""))

	r := withIdentity(
		httptest.NewRequest(http.MethodDelete, "/tours/1", nil),
		&Identity{ID: "u1", Role: "user"},
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(),
		"you don't have permission to perform this action")
}
