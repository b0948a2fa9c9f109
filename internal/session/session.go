// Package session держит явный контекст сессии запроса: пользователь и его профиль.
package session

import (
	"context"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/identity"
)

// Context — состояние сессии. Нулевое значение означает анонимного посетителя.
type Context struct {
	Session *identity.Session
	Profile *domain.Profile
}

// Anonymous — контекст без пользователя.
func Anonymous() *Context {
	return &Context{}
}

func (c *Context) Authenticated() bool {
	return c != nil && c.Session != nil && c.Profile != nil
}

func (c *Context) IsAdmin() bool {
	return c.Authenticated() && c.Profile.Role == domain.RoleAdmin
}

func (c *Context) IsStaff() bool {
	return c.Authenticated() && c.Profile.Role == domain.RoleStaff
}

// CanManageCatalog — доступ к админ-панели.
func (c *Context) CanManageCatalog() bool {
	return c.Authenticated() && c.Profile.Role.CanManageCatalog()
}

func (c *Context) Actor() domain.Actor {
	if !c.Authenticated() {
		return domain.Actor{Role: domain.RoleCustomer}
	}

	return c.Profile.Actor()
}

type ctxKey struct{}

// WithContext кладёт контекст сессии в context.Context запроса.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext возвращает контекст сессии или анонимный.
func FromContext(ctx context.Context) *Context {
	if c, ok := ctx.Value(ctxKey{}).(*Context); ok && c != nil {
		return c
	}

	return Anonymous()
}
