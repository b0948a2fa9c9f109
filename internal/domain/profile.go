package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile — проекция пользователя из сервиса идентификации. ID совпадает с id пользователя.
type Profile struct {
	ID        uuid.UUID
	FullName  string
	Phone     *string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile создаёт профиль по умолчанию для первого входа: роль customer.
func NewProfile(id uuid.UUID, fullName string, phone *string) *Profile {
	return &Profile{
		ID:       id,
		FullName: fullName,
		Phone:    phone,
		Role:     RoleCustomer,
	}
}

func (p *Profile) Actor() Actor {
	return NewActor(p.ID, p.Role)
}
