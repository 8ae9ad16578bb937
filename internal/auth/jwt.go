// AngelaMos | 2026
// jwt.go

package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/bookit/internal/config"
	"github.com/carterperez-dev/bookit/internal/core"
)

const (
	tokenTypeSession = "session"
	tokenTypeReset   = "reset"
)

// JWTManager issues and verifies the two token kinds the API uses:
// session tokens carrying the account id, and short-lived password
// reset tokens bound to an email address.
type JWTManager struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	publicJWKS jwk.Set
	config     config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	privateKeyPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	privateKey, err := jwk.ParseKey(privateKeyPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	if setErr := privateKey.Set(jwk.AlgorithmKey, jwa.ES256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	keyID := uuid.New().String()[:8]
	if setErr := privateKey.Set(jwk.KeyIDKey, keyID); setErr != nil {
		return nil, fmt.Errorf("set key id: %w", setErr)
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	if setErr := publicKey.Set(jwk.KeyUsageKey, "sig"); setErr != nil {
		return nil, fmt.Errorf("set key usage: %w", setErr)
	}

	publicJWKS := jwk.NewSet()
	if addErr := publicJWKS.AddKey(publicKey); addErr != nil {
		return nil, fmt.Errorf("add key to set: %w", addErr)
	}

	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		publicJWKS: publicJWKS,
		config:     cfg,
	}, nil
}

func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	jwkPrivate, err := jwk.Import(privateKey)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}

	keyID := uuid.New().String()[:8]
	if setErr := jwkPrivate.Set(jwk.KeyIDKey, keyID); setErr != nil {
		return fmt.Errorf("set key id: %w", setErr)
	}
	if setErr := jwkPrivate.Set(jwk.AlgorithmKey, jwa.ES256()); setErr != nil {
		return fmt.Errorf("set algorithm: %w", setErr)
	}

	privatePEM, err := jwk.Pem(jwkPrivate)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}

	if writeErr := os.WriteFile(privateKeyPath, privatePEM, 0o600); writeErr != nil {
		return fmt.Errorf("write private key: %w", writeErr)
	}

	jwkPublic, err := jwkPrivate.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	publicPEM, err := jwk.Pem(jwkPublic)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}

	//nolint:gosec // G306: public key is intentionally world-readable
	if writeErr := os.WriteFile(publicKeyPath, publicPEM, 0o644); writeErr != nil {
		return fmt.Errorf("write public key: %w", writeErr)
	}

	return nil
}

// SessionClaims is what a verified session token proves: who, and
// since when. IssuedAt drives stale-token invalidation after password
// changes.
type SessionClaims struct {
	UserID   string
	IssuedAt time.Time
}

func (m *JWTManager) CreateSessionToken(userID string) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(m.config.SessionExpire)).
		NotBefore(now).
		Claim("type", tokenTypeSession).
		Build()
	if err != nil {
		return "", fmt.Errorf("build session token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.privateKey))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return string(signed), nil
}

func (m *JWTManager) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	token, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != tokenTypeSession {
		return nil, fmt.Errorf(
			"verify token: not a session token: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	issuedAt, ok := token.IssuedAt()
	if !ok {
		return nil, fmt.Errorf(
			"verify token: missing issued-at: %w",
			core.ErrTokenInvalid,
		)
	}

	return &SessionClaims{UserID: subject, IssuedAt: issuedAt}, nil
}

func (m *JWTManager) CreateResetToken(email string) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		IssuedAt(now).
		Expiration(now.Add(m.config.ResetExpire)).
		NotBefore(now).
		Claim("email", email).
		Claim("type", tokenTypeReset).
		Build()
	if err != nil {
		return "", fmt.Errorf("build reset token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.privateKey))
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}

	return string(signed), nil
}

// VerifyResetToken returns the email a valid reset token is bound to.
// A session token is never accepted here, and vice versa.
func (m *JWTManager) VerifyResetToken(tokenString string) (string, error) {
	token, err := m.parse(tokenString)
	if err != nil {
		return "", err
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != tokenTypeReset {
		return "", fmt.Errorf(
			"verify token: not a reset token: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	if err := token.Get("email", &email); err != nil || email == "" {
		return "", fmt.Errorf(
			"verify token: missing email claim: %w",
			core.ErrTokenInvalid,
		)
	}

	return email, nil
}

func (m *JWTManager) parse(tokenString string) (jwt.Token, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	return token, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

func (m *JWTManager) SessionExpire() time.Duration {
	return m.config.SessionExpire
}

func (m *JWTManager) GetJWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.publicJWKS); err != nil {
			http.Error(
				w,
				"Internal Server Error",
				http.StatusInternalServerError,
			)
			return
		}
	}
}

func (m *JWTManager) GetKeyID() string {
	var kid string
	//nolint:errcheck // key ID always set during NewJWTManager init
	_ = m.privateKey.Get(jwk.KeyIDKey, &kid)
	return kid
}
