package usecase

import (
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/google/uuid"
)

// READ MODELS

// ListState — результат чтения списка для витрины и админки.
// Ошибка чтения не доходит до вызывающего: вместо неё Failed=true и пустой Items.
type ListState[T any] struct {
	Items   []T
	Loading bool
	Failed  bool
}

func NewListState[T any](items []T) ListState[T] {
	if items == nil {
		items = []T{}
	}

	return ListState[T]{Items: items}
}

func FailedListState[T any]() ListState[T] {
	return ListState[T]{Items: []T{}, Failed: true}
}

// CatalogStats — счётчики для дашборда админки.
type CatalogStats struct {
	Total      int
	Draft      int
	Live       int
	OutOfStock int
}

func NewCatalogStats(counts map[domain.ProductStatus]int) *CatalogStats {
	stats := &CatalogStats{
		Draft:      counts[domain.StatusDraft],
		Live:       counts[domain.StatusLive],
		OutOfStock: counts[domain.StatusOutOfStock],
	}
	stats.Total = stats.Draft + stats.Live + stats.OutOfStock

	return stats
}

// GetProductsRes — ответ на пакетный запрос товаров по идентификаторам.
type GetProductsRes struct {
	Products         []domain.Product
	NotFoundProducts []uuid.UUID
}

func NewGetProductsRes(products []domain.Product, notFound []uuid.UUID) *GetProductsRes {
	return &GetProductsRes{
		Products:         products,
		NotFoundProducts: notFound,
	}
}

// IMAGES

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type, определённый по содержимому
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

// UploadImagesReq — запрос на загрузку изображений товара.
// ProductKey — идентификатор товара или временный ключ для ещё не созданного товара.
type UploadImagesReq struct {
	ProductKey string
	Images     []ProductImage
}

func NewUploadImagesReq(productKey string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		ProductKey: productKey,
		Images:     images,
	}
}

// UploadImagesRes — публичные URL загруженных файлов в порядке запроса.
type UploadImagesRes struct {
	URLs []string
	Keys []string
}

func NewUploadImagesRes(urls, keys []string) *UploadImagesRes {
	return &UploadImagesRes{
		URLs: urls,
		Keys: keys,
	}
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	EventProductCreated      OutboxEventType = "product.created"
	EventProductUpdated      OutboxEventType = "product.updated"
	EventProductApproved     OutboxEventType = "product.approved"
	EventProductStockToggled OutboxEventType = "product.stock_toggled"
	EventProductDeleted      OutboxEventType = "product.deleted"
	EventCategoryCreated     OutboxEventType = "category.created"
	EventCategoryUpdated     OutboxEventType = "category.updated"
	EventCategoryDeleted     OutboxEventType = "category.deleted"
)

// OutboxEvent — событие каталога, записанное в одной транзакции с изменением.
// Payload содержит только JSON-совместимые значения.
type OutboxEvent struct {
	ID          int64
	EventID     uuid.UUID
	EventType   OutboxEventType
	AggregateID uuid.UUID
	ActorID     uuid.UUID
	Payload     map[string]any
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

func NewOutboxEvent(eventType OutboxEventType, aggregateID uuid.UUID, actor domain.Actor, payload map[string]any) *OutboxEvent {
	return &OutboxEvent{
		EventID:     uuid.New(),
		EventType:   eventType,
		AggregateID: aggregateID,
		ActorID:     actor.UserID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	}
}

// productPayload снимок товара для события.
func productPayload(p *domain.Product) map[string]any {
	payload := map[string]any{
		"id":         p.ID.String(),
		"name":       p.Name,
		"price":      p.Price.String(),
		"status":     string(p.Status),
		"created_by": p.CreatedBy.String(),
		"images":     toAnySlice(p.Images),
		"tags":       toAnySlice(p.Tags),
	}
	if p.CategoryID != nil {
		payload["category_id"] = p.CategoryID.String()
	}
	if p.OfferPrice != nil {
		payload["offer_price"] = p.OfferPrice.String()
	}
	if p.ApprovedBy != nil {
		payload["approved_by"] = p.ApprovedBy.String()
	}
	if p.ApprovedAt != nil {
		payload["approved_at"] = p.ApprovedAt.Format(time.RFC3339Nano)
	}

	return payload
}

func categoryPayload(c *domain.Category) map[string]any {
	return map[string]any{
		"id":            c.ID.String(),
		"name":          c.Name,
		"slug":          c.Slug,
		"display_order": c.DisplayOrder,
	}
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
