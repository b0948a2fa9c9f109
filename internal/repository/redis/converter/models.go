package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRedisModel — JSON-представление товара в кэше выборок.
type ProductRedisModel struct {
	ID          uuid.UUID        `json:"id"`
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	OfferPrice  *decimal.Decimal `json:"offer_price,omitempty"`
	Images      []string         `json:"images"`
	Tags        []string         `json:"tags"`
	Status      string           `json:"status"`
	CreatedBy   uuid.UUID        `json:"created_by"`
	ApprovedBy  *uuid.UUID       `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time       `json:"approved_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"`
}
