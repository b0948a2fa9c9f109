package session

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/identity"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
)

// Identity — часть сервиса идентификации, нужная менеджеру сессий.
type Identity interface {
	GetSession(ctx context.Context, token string) (*identity.Session, error)
	SignOut(ctx context.Context, token string) error
	OnAuthStateChange(listener func(identity.AuthEvent)) (unsubscribe func())
}

// Manager строит контексты сессий и следит за уведомлениями сервиса идентификации.
type Manager struct {
	identity    Identity
	profiles    usecase.ProfileRepository
	logger      logger.Logger
	unsubscribe func()
}

func NewManager(identity Identity, profiles usecase.ProfileRepository, logger logger.Logger) *Manager {
	return &Manager{
		identity: identity,
		profiles: profiles,
		logger:   logger,
	}
}

// Start подписывается на входы: профиль создаётся при первом появлении пользователя.
func (m *Manager) Start() {
	m.unsubscribe = m.identity.OnAuthStateChange(m.handleAuthEvent)
}

// Stop отписывается от уведомлений.
func (m *Manager) Stop(_ context.Context) error {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}

	return nil
}

// Initialize проверяет токен и собирает контекст сессии с профилем.
func (m *Manager) Initialize(ctx context.Context, token string) (*Context, error) {
	const op = "session.Manager.Initialize"

	if token == "" {
		return Anonymous(), nil
	}

	s, err := m.identity.GetSession(ctx, token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	profile, err := m.loadProfile(ctx, s.User)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &Context{Session: s, Profile: profile}, nil
}

// Refresh перечитывает профиль, например после смены роли.
func (m *Manager) Refresh(ctx context.Context, c *Context) (*Context, error) {
	const op = "session.Manager.Refresh"

	if !c.Authenticated() {
		return Anonymous(), nil
	}

	profile, err := m.profiles.GetByID(ctx, c.Profile.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &Context{Session: c.Session, Profile: profile}, nil
}

// Teardown завершает сессию и возвращает анонимный контекст.
func (m *Manager) Teardown(ctx context.Context, c *Context) (*Context, error) {
	const op = "session.Manager.Teardown"

	if c.Authenticated() {
		if err := m.identity.SignOut(ctx, c.Session.AccessToken); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	return Anonymous(), nil
}

// loadProfile читает профиль без блокировок. Вставка нужна только пользователю,
// которого ещё не видели.
func (m *Manager) loadProfile(ctx context.Context, user *identity.User) (*domain.Profile, error) {
	profile, err := m.profiles.GetByID(ctx, user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, e.ErrProfileNotFound) {
		return nil, err
	}

	return m.ensureProfile(ctx, user)
}

func (m *Manager) ensureProfile(ctx context.Context, user *identity.User) (*domain.Profile, error) {
	return m.profiles.Ensure(ctx, domain.NewProfile(user.ID, user.FullName, user.Phone))
}

func (m *Manager) handleAuthEvent(event identity.AuthEvent) {
	switch event.Type {
	case identity.SignedIn:
		if event.Session == nil || event.Session.User == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if _, err := m.ensureProfile(ctx, event.Session.User); err != nil {
			m.logger.Warnf("profile upsert on sign-in failed: user=%s: %v", event.UserID, err)
		}
	case identity.SignedOut:
		m.logger.Debugf("user signed out: %s", event.UserID)
	}
}
