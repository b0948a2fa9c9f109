package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service — сервис идентификации: регистрация, вход, проверка и отзыв сессий.
type Service struct {
	users       UserRepository
	revocations RevocationStore
	tokens      *TokenIssuer
	cfg         *cfg.AuthCfg
	logger      logger.Logger

	mu        sync.RWMutex
	listeners map[int]func(AuthEvent)
	nextID    int
	now       func() time.Time
}

func NewService(
	users UserRepository,
	revocations RevocationStore,
	tokens *TokenIssuer,
	cfg *cfg.AuthCfg,
	logger logger.Logger,
) *Service {
	return &Service{
		users:       users,
		revocations: revocations,
		tokens:      tokens,
		cfg:         cfg,
		logger:      logger,
		listeners:   make(map[int]func(AuthEvent)),
		now:         time.Now,
	}
}

// SignUp регистрирует пользователя. Если требуется подтверждение email,
// сессия не выдаётся и NeedsEmailConfirmation=true.
func (s *Service) SignUp(ctx context.Context, req *SignUpReq) (*SignUpResult, error) {
	const op = "identity.Service.SignUp"

	email, err := s.validateSignUp(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	user := &User{
		ID:             uuid.New(),
		Email:          email,
		PasswordHash:   hash,
		FullName:       strings.TrimSpace(req.FullName),
		Phone:          normalizePhone(req.Phone),
		EmailConfirmed: !s.cfg.RequireEmailConfirmation,
		CreatedAt:      s.now().UTC(),
	}

	var confirmation string
	if s.cfg.RequireEmailConfirmation {
		confirmation, err = newConfirmationToken()
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		user.ConfirmationToken = &confirmation
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if s.cfg.RequireEmailConfirmation {
		s.logger.Infof("user %s registered, awaiting email confirmation", created.ID)
		return &SignUpResult{NeedsEmailConfirmation: true, ConfirmationToken: confirmation}, nil
	}

	session, err := s.startSession(created)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &SignUpResult{Session: session}, nil
}

// SignInWithPassword проверяет пароль и выдаёт сессию.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	const op = "identity.Service.SignInWithPassword"

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, e.ErrUserNotFound) {
			return nil, e.Wrap(op, e.ErrInvalidCredentials)
		}
		return nil, e.Wrap(op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	if !user.EmailConfirmed {
		return nil, e.Wrap(op, e.ErrEmailNotConfirmed)
	}

	session, err := s.startSession(user)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return session, nil
}

// ConfirmEmail подтверждает email по токену из письма и сразу выдаёт сессию.
func (s *Service) ConfirmEmail(ctx context.Context, token string) (*Session, error) {
	const op = "identity.Service.ConfirmEmail"

	if strings.TrimSpace(token) == "" {
		return nil, e.Wrap(op, e.ErrInvalidConfirmation)
	}

	user, err := s.users.ConfirmEmail(ctx, token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	session, err := s.startSession(user)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return session, nil
}

// GetSession проверяет токен и возвращает текущую сессию.
func (s *Service) GetSession(ctx context.Context, token string) (*Session, error) {
	const op = "identity.Service.GetSession"

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if revoked {
		return nil, e.Wrap(op, e.ErrSessionExpired)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, e.ErrUserNotFound) {
			return nil, e.Wrap(op, e.ErrUnauthenticated)
		}
		return nil, e.Wrap(op, err)
	}

	return &Session{
		AccessToken: token,
		TokenID:     claims.TokenID,
		User:        user.Public(),
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// SignOut отзывает токен до конца его срока. Просроченный или чужой токен не считается ошибкой.
func (s *Service) SignOut(ctx context.Context, token string) error {
	const op = "identity.Service.SignOut"

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl > 0 {
		if err := s.revocations.Revoke(ctx, claims.TokenID, ttl); err != nil {
			return e.Wrap(op, err)
		}
	}

	s.notify(AuthEvent{Type: SignedOut, UserID: claims.UserID})
	return nil
}

// OnAuthStateChange подписывает listener на входы и выходы. Возвращает функцию отписки.
func (s *Service) OnAuthStateChange(listener func(AuthEvent)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Service) startSession(user *User) (*Session, error) {
	session, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.notify(AuthEvent{Type: SignedIn, Session: session, UserID: user.ID})
	return session, nil
}

func (s *Service) notify(event AuthEvent) {
	s.mu.RLock()
	listeners := make([]func(AuthEvent), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(event)
	}
}

func (s *Service) validateSignUp(req *SignUpReq) (string, error) {
	email := normalizeEmail(req.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", e.NewFieldError("email", e.ErrInvalidEmail)
	}

	if len(req.Password) < s.cfg.MinPasswordLength {
		return "", e.NewFieldError("password", e.ErrPasswordTooShort)
	}

	if strings.TrimSpace(req.FullName) == "" {
		return "", e.NewFieldError("full_name", e.ErrFullNameRequired)
	}

	return email, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}

	p := strings.TrimSpace(*phone)
	if p == "" {
		return nil
	}

	return &p
}

func newConfirmationToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
