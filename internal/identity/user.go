package identity

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись сервиса идентификации.
type User struct {
	ID                uuid.UUID
	Email             string
	PasswordHash      []byte
	FullName          string
	Phone             *string
	EmailConfirmed    bool
	ConfirmationToken *string
	CreatedAt         time.Time
}

// Public возвращает копию без секретов.
func (u *User) Public() *User {
	return &User{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Phone:          u.Phone,
		EmailConfirmed: u.EmailConfirmed,
		CreatedAt:      u.CreatedAt,
	}
}

// Session — выданный токен доступа и его владелец.
type Session struct {
	AccessToken string
	TokenID     string
	User        *User
	ExpiresAt   time.Time
}

// SignUpReq — данные формы регистрации.
type SignUpReq struct {
	Email    string
	Password string
	FullName string
	Phone    *string
}

// SignUpResult: Session пуст, пока email не подтверждён.
type SignUpResult struct {
	Session                *Session
	NeedsEmailConfirmation bool
	ConfirmationToken      string
}

type AuthEventType string

const (
	SignedIn  AuthEventType = "SIGNED_IN"
	SignedOut AuthEventType = "SIGNED_OUT"
)

// AuthEvent — уведомление подписчикам OnAuthStateChange.
type AuthEvent struct {
	Type    AuthEventType
	Session *Session // nil для SignedOut
	UserID  uuid.UUID
}
