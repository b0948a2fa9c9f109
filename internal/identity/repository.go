package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserRepository interface {
	// Create возвращает e.ErrEmailTaken, если email уже занят.
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// ConfirmEmail подтверждает email по одноразовому токену и гасит токен.
	ConfirmEmail(ctx context.Context, token string) (*User, error)
}

// RevocationStore хранит отозванные токены до истечения их срока.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
