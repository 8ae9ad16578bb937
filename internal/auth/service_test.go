// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookit/internal/config"
	"github.com/carterperez-dev/bookit/internal/core"
)

type fakeUserStore struct {
	byID    map[string]*UserInfo
	byEmail map[string]*UserInfo
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[string]*UserInfo),
		byEmail: make(map[string]*UserInfo),
	}
}

func (s *fakeUserStore) add(u *UserInfo) {
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*UserInfo, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (s *fakeUserStore) Create(_ context.Context, name, email, passwordHash string) (*UserInfo, error) {
	if _, ok := s.byEmail[email]; ok {
		return nil, core.ErrDuplicateKey
	}
	u := &UserInfo{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Role:         "user",
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.add(u)
	return u, nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	u, ok := s.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.PasswordChangedAt = &changedAt
	return nil
}

type fakeMailer struct {
	mu       sync.Mutex
	welcomes int
	resets   int
	resetURL string
}

func (m *fakeMailer) SendWelcome(_ context.Context, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes++
	return nil
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, _, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	m.resetURL = resetURL
	return nil
}

func (m *fakeMailer) welcomeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.welcomes
}

func (m *fakeMailer) lastResetURL() (string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetURL, m.resets
}

func newTestService(t *testing.T) (*Service, *fakeUserStore, *fakeMailer) {
	t.Helper()

	manager := newTestManager(t, baseJWTConfig())
	store := newFakeUserStore()
	mailer := &fakeMailer{}
	cfg := &config.Config{}
	cfg.App.BaseURL = "http://localhost:8000"
	cfg.JWT.CookieExpire = 24 * time.Hour

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, manager, mailer, cfg, logger), store, mailer
}

func seedUser(t *testing.T, store *fakeUserStore, email, password string) *UserInfo {
	t.Helper()

	hash, err := core.HashPassword(password)
	require.NoError(t, err)
	u := &UserInfo{
		ID:           uuid.New().String(),
		Name:         "Test User",
		Email:        email,
		Role:         "user",
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	store.add(u)
	return u
}

func TestSignupIssuesSessionAndHidesCredentials(t *testing.T) {
	svc, _, mailer := newTestService(t)

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Name:            "Fresh User",
		Email:           "Fresh@Example.COM",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "fresh@example.com", resp.User.Email)

	// The welcome mail is fire-and-forget.
	assert.Eventually(t, func() bool { return mailer.welcomeCount() == 1 },
		time.Second, 10*time.Millisecond)

	// The issued token must open a real session.
	identity, err := svc.VerifySession(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.ID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedUser(t, store, "taken@example.com", "correct-horse")

	_, err := svc.Signup(context.Background(), SignupRequest{
		Name:            "Second User",
		Email:           "taken@example.com",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestLoginSuccess(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedUser(t, store, "jonas@example.com", "pass1234")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jonas@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "jonas@example.com", resp.User.Email)
}

func TestLoginMissingCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "jonas@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedUser(t, store, "jonas@example.com", "pass1234")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jonas@example.com",
		Password: "wrongpass",
	})
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "pass1234",
	})
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestVerifySessionHappyPath(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := seedUser(t, store, "jonas@example.com", "pass1234")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jonas@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	identity, err := svc.VerifySession(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, "user", identity.Role)
}

func TestVerifySessionRejectsStaleToken(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := seedUser(t, store, "jonas@example.com", "pass1234")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jonas@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	// Password changed after the token was issued.
	changedAt := time.Now().Add(2 * time.Second)
	hash, err := core.HashPassword("newpass123")
	require.NoError(t, err)
	require.NoError(t, store.UpdatePassword(context.Background(), user.ID, hash, changedAt))

	_, err = svc.VerifySession(context.Background(), resp.Token)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestVerifySessionDeletedUser(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := seedUser(t, store, "jonas@example.com", "pass1234")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jonas@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	delete(store.byID, user.ID)
	delete(store.byEmail, user.Email)

	_, err = svc.VerifySession(context.Background(), resp.Token)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, store, mailer := newTestService(t)
	user := seedUser(t, store, "jonas@example.com", "pass1234")

	err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{
		Email: "jonas@example.com",
	})
	require.NoError(t, err)
	resetURL, resets := mailer.lastResetURL()
	require.Equal(t, 1, resets)
	require.Contains(t, resetURL, "/api/v1/users/resetPassword/")

	parts := resetURL[len("http://localhost:8000/api/v1/users/resetPassword/"):]
	resp, err := svc.ResetPassword(context.Background(), parts, ResetPasswordRequest{
		Password:        "newpass123",
		PasswordConfirm: "newpass123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// The freshly issued session token must survive the stale check.
	_, err = svc.VerifySession(context.Background(), resp.Token)
	require.NoError(t, err)

	// Old password no longer works, new one does.
	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "jonas@example.com",
		Password: "pass1234",
	})
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jonas@example.com",
		Password: "newpass123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, login.User.ID)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, mailer := newTestService(t)

	err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{
		Email: "nobody@example.com",
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, resets := mailer.lastResetURL()
	assert.Zero(t, resets)
}

func TestUpdatePasswordWrongCurrent(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := seedUser(t, store, "jonas@example.com", "pass1234")

	_, err := svc.UpdatePassword(context.Background(), user.ID, UpdatePasswordRequest{
		Password:           "wrongpass",
		NewPassword:        "newpass123",
		NewPasswordConfirm: "newpass123",
	})
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestSessionCookieAttributes(t *testing.T) {
	svc, _, _ := newTestService(t)

	cookie := svc.NewSessionCookie("token-value")
	assert.Equal(t, "jwt", cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
}
