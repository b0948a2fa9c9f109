package identity

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]*User)}
}

func (m *memUsers) Create(_ context.Context, u *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, e.ErrEmailTaken
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, e.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, e.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) ConfirmEmail(_ context.Context, token string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ConfirmationToken != nil && *u.ConfirmationToken == token {
			u.EmailConfirmed = true
			u.ConfirmationToken = nil
			cp := *u
			return &cp, nil
		}
	}
	return nil, e.ErrInvalidConfirmation
}

type memRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[id] = ttl
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok, nil
}

func newTestService(requireConfirmation bool) (*Service, *memUsers, *memRevocations) {
	authCfg := &cfg.AuthCfg{
		JWTSecret:                []byte(strings.Repeat("s", 32)),
		Issuer:                   "test",
		SessionTTL:               time.Hour,
		RequireEmailConfirmation: requireConfirmation,
		MinPasswordLength:        6,
	}
	users := newMemUsers()
	revocations := &memRevocations{revoked: make(map[string]time.Duration)}
	tokens := NewTokenIssuer(authCfg.JWTSecret, authCfg.Issuer, authCfg.SessionTTL)
	return NewService(users, revocations, tokens, authCfg, logger.NewNopLogger()), users, revocations
}

func signUpReq() *SignUpReq {
	phone := " 9800000000 "
	return &SignUpReq{Email: " Ram@Example.com ", Password: "secret1", FullName: "Ram", Phone: &phone}
}

func TestSignUpWithConfirmation(t *testing.T) {
	svc, _, _ := newTestService(true)
	ctx := context.Background()

	res, err := svc.SignUp(ctx, signUpReq())
	require.NoError(t, err)
	assert.True(t, res.NeedsEmailConfirmation)
	assert.Nil(t, res.Session)
	require.NotEmpty(t, res.ConfirmationToken)

	_, err = svc.SignInWithPassword(ctx, "ram@example.com", "secret1")
	assert.ErrorIs(t, err, e.ErrEmailNotConfirmed)

	session, err := svc.ConfirmEmail(ctx, res.ConfirmationToken)
	require.NoError(t, err)
	assert.Equal(t, "ram@example.com", session.User.Email)
	assert.Nil(t, session.User.PasswordHash)

	_, err = svc.ConfirmEmail(ctx, res.ConfirmationToken)
	assert.ErrorIs(t, err, e.ErrInvalidConfirmation)

	session, err = svc.SignInWithPassword(ctx, "RAM@example.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, session.User.Phone)
	assert.Equal(t, "9800000000", *session.User.Phone)
}

func TestSignUpWithoutConfirmation(t *testing.T) {
	svc, _, _ := newTestService(false)

	res, err := svc.SignUp(context.Background(), signUpReq())
	require.NoError(t, err)
	assert.False(t, res.NeedsEmailConfirmation)
	require.NotNil(t, res.Session)
	assert.NotEmpty(t, res.Session.AccessToken)

	_, err = svc.SignUp(context.Background(), signUpReq())
	assert.ErrorIs(t, err, e.ErrEmailTaken)
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := newTestService(false)

	tests := []struct {
		name   string
		mutate func(r *SignUpReq)
		err    error
		field  string
	}{
		{"bad email", func(r *SignUpReq) { r.Email = "not-an-email" }, e.ErrInvalidEmail, "email"},
		{"display name email", func(r *SignUpReq) { r.Email = "Ram <ram@example.com>" }, e.ErrInvalidEmail, "email"},
		{"short password", func(r *SignUpReq) { r.Password = "123" }, e.ErrPasswordTooShort, "password"},
		{"no name", func(r *SignUpReq) { r.FullName = " " }, e.ErrFullNameRequired, "full_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := signUpReq()
			tt.mutate(req)

			_, err := svc.SignUp(context.Background(), req)
			require.ErrorIs(t, err, tt.err)
			var fieldErr *e.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestService(false)
	_, err := svc.SignUp(context.Background(), signUpReq())
	require.NoError(t, err)

	_, err = svc.SignInWithPassword(context.Background(), "ram@example.com", "wrong-password")
	assert.ErrorIs(t, err, e.ErrInvalidCredentials)

	_, err = svc.SignInWithPassword(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, e.ErrInvalidCredentials)
}

func TestGetSessionAndSignOut(t *testing.T) {
	svc, _, revocations := newTestService(false)
	ctx := context.Background()
	res, err := svc.SignUp(ctx, signUpReq())
	require.NoError(t, err)
	token := res.Session.AccessToken

	session, err := svc.GetSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, res.Session.User.ID, session.User.ID)

	require.NoError(t, svc.SignOut(ctx, token))
	assert.Contains(t, revocations.revoked, res.Session.TokenID)

	_, err = svc.GetSession(ctx, token)
	assert.ErrorIs(t, err, e.ErrSessionExpired)

	assert.NoError(t, svc.SignOut(ctx, "garbage"), "sign out of an unknown token is a no-op")
}

func TestGetSessionRejectsForeignTokens(t *testing.T) {
	svc, _, _ := newTestService(false)
	res, err := svc.SignUp(context.Background(), signUpReq())
	require.NoError(t, err)

	other := NewTokenIssuer([]byte(strings.Repeat("x", 32)), "test", time.Hour)
	forged, err := other.Issue(res.Session.User)
	require.NoError(t, err)

	_, err = svc.GetSession(context.Background(), forged.AccessToken)
	assert.ErrorIs(t, err, e.ErrUnauthenticated)

	_, err = svc.GetSession(context.Background(), "")
	assert.ErrorIs(t, err, e.ErrUnauthenticated)
}

func TestExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer([]byte(strings.Repeat("s", 32)), "test", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	session, err := issuer.Issue(&User{ID: uuid.New(), Email: "a@b.c"})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(session.AccessToken)
	assert.ErrorIs(t, err, e.ErrSessionExpired)
}

func TestOnAuthStateChange(t *testing.T) {
	svc, _, _ := newTestService(false)
	ctx := context.Background()

	var events []AuthEventType
	unsubscribe := svc.OnAuthStateChange(func(ev AuthEvent) {
		events = append(events, ev.Type)
	})

	res, err := svc.SignUp(ctx, signUpReq())
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, res.Session.AccessToken))

	unsubscribe()
	unsubscribe()
	_, err = svc.SignInWithPassword(ctx, "ram@example.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, []AuthEventType{SignedIn, SignedOut}, events)
}
