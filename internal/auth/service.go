// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/bookit/internal/config"
	"github.com/carterperez-dev/bookit/internal/core"
	"github.com/carterperez-dev/bookit/internal/middleware"
)

// UserInfo is the account view the auth service works with. The user
// package adapts its entity into this shape so auth never touches the
// users collection directly.
type UserInfo struct {
	ID                string
	Name              string
	Email             string
	Photo             string
	Role              string
	PasswordHash      string
	PasswordChangedAt *time.Time
	CreatedAt         time.Time
}

// ChangedPasswordAfter reports whether the password changed at or after
// the given token issue time, which invalidates the token.
func (u *UserInfo) ChangedPasswordAfter(issuedAt time.Time) bool {
	return u.PasswordChangedAt != nil && !u.PasswordChangedAt.Before(issuedAt)
}

// UserProvider is the account store the auth service depends on.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, name, email, passwordHash string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
}

// Mailer sends account mail. Delivery failures never fail the request.
type Mailer interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

type Service struct {
	users  UserProvider
	jwt    *JWTManager
	mailer Mailer
	config *config.Config
	logger *slog.Logger
}

func NewService(users UserProvider, jwt *JWTManager, mailer Mailer, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		jwt:    jwt,
		mailer: mailer,
		config: cfg,
		logger: logger.With("component", "auth"),
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.users.Create(ctx, strings.TrimSpace(req.Name), email, passwordHash)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, core.ValidationError("an account with this email already exists")
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	token, err := s.jwt.CreateSessionToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("creating session token: %w", err)
	}

	go func() {
		mailCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mailer.SendWelcome(mailCtx, user.Email, user.Name); err != nil {
			s.logger.Warn("welcome email failed", "email", user.Email, "error", err)
		}
	}()

	return &AuthResponse{Token: token, User: toUserView(user)}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, core.ValidationError("please provide email and password")
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil && !core.IsNotFound(err) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	var hash *string
	if user != nil {
		hash = &user.PasswordHash
	}

	valid, err := core.VerifyPasswordTimingSafe(req.Password, hash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !valid || user == nil {
		return nil, core.UnauthorizedError("incorrect email or password")
	}

	token, err := s.jwt.CreateSessionToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("creating session token: %w", err)
	}

	return &AuthResponse{Token: token, User: toUserView(user)}, nil
}

// VerifySession resolves a session token to the authenticated identity.
// Tokens issued before the account's last password change are rejected.
func (s *Service) VerifySession(ctx context.Context, token string) (*middleware.Identity, error) {
	claims, err := s.jwt.VerifySessionToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	if user.ChangedPasswordAfter(claims.IssuedAt) {
		return nil, core.UnauthorizedError("password changed recently, please login again")
	}

	return &middleware.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (s *Service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if core.IsNotFound(err) {
			return core.NewAppError(core.ErrNotFound, "there is no user with that email address", http.StatusNotFound, "NOT_FOUND")
		}
		return fmt.Errorf("looking up user: %w", err)
	}

	token, err := s.jwt.CreateResetToken(user.Email)
	if err != nil {
		return fmt.Errorf("creating reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", s.config.App.BaseURL, token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		s.logger.Error("password reset email failed", "email", user.Email, "error", err)
		return core.NewAppError(err, "there was an error sending the email, try again later", http.StatusInternalServerError, "EMAIL_FAILED")
	}

	return nil
}

// ResetPassword consumes a reset token and installs a new password. The
// recorded change time is backdated one second so the session token
// issued here is not itself invalidated by the stale-token check.
func (s *Service) ResetPassword(ctx context.Context, token string, req ResetPasswordRequest) (*AuthResponse, error) {
	email, err := s.jwt.VerifyResetToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, core.TokenInvalidError()
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	changedAt := time.Now().Add(-time.Second)
	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash, changedAt); err != nil {
		return nil, fmt.Errorf("updating password: %w", err)
	}

	sessionToken, err := s.jwt.CreateSessionToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("creating session token: %w", err)
	}

	return &AuthResponse{Token: sessionToken, User: toUserView(user)}, nil
}

func (s *Service) UpdatePassword(ctx context.Context, userID string, req UpdatePasswordRequest) (*AuthResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, core.UnauthorizedError("this user no longer exists")
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	valid, err := core.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !valid {
		return nil, core.UnauthorizedError("your current password is wrong")
	}

	passwordHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	changedAt := time.Now().Add(-time.Second)
	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash, changedAt); err != nil {
		return nil, fmt.Errorf("updating password: %w", err)
	}

	token, err := s.jwt.CreateSessionToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("creating session token: %w", err)
	}

	user.PasswordChangedAt = &changedAt
	return &AuthResponse{Token: token, User: toUserView(user)}, nil
}

// NewSessionCookie builds the "jwt" cookie carrying a session token.
func (s *Service) NewSessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.config.JWT.CookieExpire),
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}
