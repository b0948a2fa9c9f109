package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/google/uuid"
)

// FeaturedType — вид промо-блока.
type FeaturedType string

const (
	FeaturedBanner  FeaturedType = "banner"
	FeaturedProduct FeaturedType = "featured_product"
	FeaturedOffer   FeaturedType = "offer"
)

func ParseFeaturedType(s string) (FeaturedType, error) {
	t := FeaturedType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case FeaturedBanner, FeaturedProduct, FeaturedOffer:
		return t, nil
	default:
		return "", e.Wrap(s, e.ErrInvalidFeaturedType)
	}
}

// FeaturedItem — проекция для промо-блоков витрины, без собственного workflow.
type FeaturedItem struct {
	ID           uuid.UUID
	ProductID    *uuid.UUID
	Title        string
	Subtitle     *string
	ImageURL     *string
	Type         FeaturedType
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
}

// SortFeaturedItems упорядочивает по display_order, при равенстве по id.
func SortFeaturedItems(items []FeaturedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DisplayOrder != items[j].DisplayOrder {
			return items[i].DisplayOrder < items[j].DisplayOrder
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}
