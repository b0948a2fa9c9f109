package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const signingMethod = "HS256"

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenIssuer выпускает и проверяет токены сессий HS256.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue подписывает новый токен для пользователя.
func (t *TokenIssuer) Issue(user *User) (*Session, error) {
	now := t.now().UTC()
	expiresAt := now.Add(t.ttl)
	tokenID := uuid.NewString()

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID.String(),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: user.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return nil, e.Wrap("sign session token", err)
	}

	return &Session{
		AccessToken: signed,
		TokenID:     tokenID,
		User:        user.Public(),
		ExpiresAt:   expiresAt,
	}, nil
}

// TokenClaims — проверенные поля токена.
type TokenClaims struct {
	UserID    uuid.UUID
	TokenID   string
	Email     string
	ExpiresAt time.Time
}

// Parse проверяет подпись, издателя и срок действия.
func (t *TokenIssuer) Parse(token string) (*TokenClaims, error) {
	if token == "" {
		return nil, e.ErrUnauthenticated
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.ID == "" {
		return nil, e.Wrap("malformed session token", e.ErrUnauthenticated)
	}

	return &TokenClaims{
		UserID:    userID,
		TokenID:   claims.ID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return e.Wrap(err.Error(), e.ErrSessionExpired)
	}

	return e.Wrap(fmt.Sprintf("invalid session token: %v", err), e.ErrUnauthenticated)
}
