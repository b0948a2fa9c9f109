package domain

import (
	"strings"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
)

// ProductStatus — этап жизненного цикла товара.
type ProductStatus string

const (
	StatusDraft      ProductStatus = "draft"        // ожидает одобрения администратора
	StatusLive       ProductStatus = "live"         // виден в витрине
	StatusOutOfStock ProductStatus = "out_of_stock" // виден только в админке
)

// ProductStatuses перечисляет все статусы в порядке отображения.
var ProductStatuses = []ProductStatus{StatusDraft, StatusLive, StatusOutOfStock}

func (s ProductStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusLive, StatusOutOfStock:
		return true
	default:
		return false
	}
}

func (s ProductStatus) String() string {
	return string(s)
}

// ParseProductStatus разбирает статус, отклоняя неизвестные значения.
func ParseProductStatus(s string) (ProductStatus, error) {
	status := ProductStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", e.Wrap(s, e.ErrInvalidStatus)
	}

	return status, nil
}
