package domain

import (
	"strings"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
)

// Role — роль пользователя в профиле.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	default:
		return false
	}
}

// CanManageCatalog сообщает, открыта ли роли админ-панель.
func (r Role) CanManageCatalog() bool {
	return r == RoleAdmin || r == RoleStaff
}

func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", e.Wrap(s, e.ErrInvalidRole)
	}

	return role, nil
}

// Roles — набор ролей, которым разрешено действие.
type Roles []Role

func (rs Roles) Has(r Role) bool {
	for _, role := range rs {
		if role == r {
			return true
		}
	}

	return false
}

func (rs Roles) String() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}

	return strings.Join(parts, ",")
}

// ParseRoles разбирает список ролей через запятую: "admin,staff".
func ParseRoles(s string) (Roles, error) {
	var roles Roles
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}

		role, err := ParseRole(part)
		if err != nil {
			return nil, err
		}
		if !roles.Has(role) {
			roles = append(roles, role)
		}
	}

	if len(roles) == 0 {
		return nil, e.Wrap("empty role list", e.ErrInvalidRole)
	}

	return roles, nil
}
