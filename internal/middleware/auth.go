// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/bookit/internal/core"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"

	// SessionCookieName mirrors the issued token into the browser.
	SessionCookieName = "jwt"
)

// Identity is the authenticated account attached to the request
// context once every authentication step has passed.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// SessionVerifier runs the full session check: token signature and
// expiry, account existence and active flag, stale-token invalidation
// after password changes.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*Identity, error)
}

// Authenticator walks a request from bare token to attached identity.
// Every failure along the way answers 401; role checks come later and
// answer 403.
func Authenticator(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("please login first"),
				)
				return
			}

			identity, err := verifier.VerifySession(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole whitelists roles for a route subtree. Must run after
// Authenticator.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())

			if identity == nil {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if _, ok := roleSet[identity.Role]; !ok {
				core.JSONError(
					w,
					core.ForbiddenError(
						"you don't have permission to perform this action",
					),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken looks in the Authorization header first, then falls
// back to the session cookie.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	case errors.Is(err, core.ErrNotFound):
		core.JSONError(w, core.UnauthorizedError("this user no longer exists"))
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.ID
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetIdentity(ctx) != nil
}
