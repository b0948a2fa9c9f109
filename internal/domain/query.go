package domain

import (
	"sort"
	"strings"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/google/uuid"
)

// FilterAll — значение фильтра "без ограничения" в запросах витрины и админки.
const FilterAll = "all"

// FeaturedLimit — сколько товаров показывает блок новинок на главной.
const FeaturedLimit = 6

// StatusFilter — требование к статусу: конкретный статус или all.
type StatusFilter string

const StatusFilterAll StatusFilter = FilterAll

// ParseStatusFilter разбирает фильтр статуса админки. Пустое значение означает all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, FilterAll) {
		return StatusFilterAll, nil
	}

	status, err := ParseProductStatus(s)
	if err != nil {
		return "", err
	}

	return StatusFilter(status), nil
}

// Status возвращает конкретный статус, если фильтр его задаёт.
func (f StatusFilter) Status() (ProductStatus, bool) {
	if f == "" || f == StatusFilterAll {
		return "", false
	}

	return ProductStatus(f), true
}

// ProductQuery — спецификация выборки товаров. Нулевые поля означают отсутствие фильтра.
type ProductQuery struct {
	Status     StatusFilter
	CategoryID *uuid.UUID
	Tag        string
	Limit      int // 0: без ограничения
}

// PublicQuery — запрос витрины: статус всегда live.
func PublicQuery(categoryID *uuid.UUID, tag string) ProductQuery {
	return ProductQuery{
		Status:     StatusFilter(StatusLive),
		CategoryID: categoryID,
		Tag:        ParseTagFilter(tag),
	}
}

// FeaturedQuery — последние live-товары для главной страницы.
func FeaturedQuery() ProductQuery {
	return ProductQuery{
		Status: StatusFilter(StatusLive),
		Limit:  FeaturedLimit,
	}
}

// AdminQuery — запрос списка товаров в админке.
func AdminQuery(status StatusFilter) ProductQuery {
	return ProductQuery{Status: status}
}

// IsPublic сообщает, что запрос ограничен live-товарами.
func (q ProductQuery) IsPublic() bool {
	status, ok := q.Status.Status()
	return ok && status == StatusLive
}

// ParseCategoryFilter разбирает идентификатор категории; "" и "all": без фильтра.
func ParseCategoryFilter(s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, FilterAll) {
		return nil, nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return nil, e.NewFieldError("category", e.ErrInvalidID)
	}

	return &id, nil
}

// ParseTagFilter нормализует тег; "all": без фильтра.
func ParseTagFilter(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, FilterAll) {
		return ""
	}

	return s
}

// Matches — тот же предикат, что и SQL-выборка репозитория.
func (q ProductQuery) Matches(p *Product) bool {
	if status, ok := q.Status.Status(); ok && p.Status != status {
		return false
	}

	if q.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *q.CategoryID) {
		return false
	}

	if q.Tag != "" && !p.HasTag(q.Tag) {
		return false
	}

	return true
}

// Apply выполняет запрос над срезом в памяти: фильтр, сортировка по новизне, лимит.
func (q ProductQuery) Apply(products []Product) []Product {
	result := make([]Product, 0, len(products))
	for i := range products {
		if q.Matches(&products[i]) {
			result = append(result, products[i])
		}
	}

	SortByRecency(result)

	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}

	return result
}

// SortByRecency сортирует по created_at по убыванию, при равенстве по id по убыванию.
func SortByRecency(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() > b.ID.String()
	})
}
