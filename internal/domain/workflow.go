package domain

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/google/uuid"
)

// Action — операция над товаром, проходящая через проверку ролей.
type Action string

const (
	ActionCreate      Action = "create"
	ActionEdit        Action = "edit"
	ActionApprove     Action = "approve"
	ActionToggleStock Action = "toggle_stock"
	ActionDelete      Action = "delete"
)

// Actor — тот, кто выполняет действие.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func NewActor(userID uuid.UUID, role Role) Actor {
	return Actor{UserID: userID, Role: role}
}

// Policy задаёт, каким ролям разрешены действия с товарами.
// Одобрение всегда остаётся за admin и не настраивается.
type Policy struct {
	StockToggleRoles Roles
	DeleteRoles      Roles
}

// DefaultPolicy разрешает переключать наличие admin и staff, а удалять только admin.
func DefaultPolicy() Policy {
	return Policy{
		StockToggleRoles: Roles{RoleAdmin, RoleStaff},
		DeleteRoles:      Roles{RoleAdmin},
	}
}

// Authorize проверяет, может ли роль выполнить действие.
func (p Policy) Authorize(role Role, action Action) error {
	var allowed bool
	switch action {
	case ActionCreate, ActionEdit:
		allowed = role.CanManageCatalog()
	case ActionApprove:
		allowed = role == RoleAdmin
	case ActionToggleStock:
		allowed = p.StockToggleRoles.Has(role)
	case ActionDelete:
		allowed = p.DeleteRoles.Has(role)
	}

	if !allowed {
		return e.Wrap(fmt.Sprintf("role %q cannot %s", role, action), e.ErrForbidden)
	}

	return nil
}

// NextStatus возвращает статус после действия. Обратного перехода live -> draft нет.
func NextStatus(current ProductStatus, action Action) (ProductStatus, error) {
	switch {
	case action == ActionApprove && current == StatusDraft:
		return StatusLive, nil
	case action == ActionToggleStock && current == StatusLive:
		return StatusOutOfStock, nil
	case action == ActionToggleStock && current == StatusOutOfStock:
		return StatusLive, nil
	case action == ActionEdit:
		return current, nil
	}

	return "", e.Wrap(fmt.Sprintf("%s from %s", action, current), e.ErrInvalidTransition)
}

// Approve переводит черновик в live и одновременно проставляет одобрившего и время.
func (p *Product) Approve(approver Actor, at time.Time) error {
	if err := DefaultPolicy().Authorize(approver.Role, ActionApprove); err != nil {
		return err
	}

	next, err := NextStatus(p.Status, ActionApprove)
	if err != nil {
		return err
	}

	approvedBy := approver.UserID
	approvedAt := at.UTC()
	p.Status = next
	p.ApprovedBy = &approvedBy
	p.ApprovedAt = &approvedAt

	return nil
}

// ToggleStock переключает live <-> out_of_stock, не трогая поля одобрения.
func (p *Product) ToggleStock() error {
	next, err := NextStatus(p.Status, ActionToggleStock)
	if err != nil {
		return err
	}

	p.Status = next
	return nil
}
