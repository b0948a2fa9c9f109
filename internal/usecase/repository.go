package usecase

import (
	"context"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// UpdateStatus сохраняет только статус и поля одобрения.
	UpdateStatus(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// GetForUpdate блокирует строку до конца текущей транзакции.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID, q domain.ProductQuery) ([]domain.Product, error)
	List(ctx context.Context, q domain.ProductQuery, withCreator bool) ([]domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[domain.ProductStatus]int, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type FeaturedRepository interface {
	ListActive(ctx context.Context) ([]domain.FeaturedItem, error)
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	// Ensure атомарно создаёт профиль, если его нет, и возвращает актуальную запись.
	Ensure(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReturnToPending(ctx context.Context, id int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	// KeyFromURL возвращает ключ объекта, если URL указывает на бакет изображений.
	KeyFromURL(url string) (string, bool)
}

// ListingCache — одноразовая проекция публичных выборок.
type ListingCache interface {
	// GetProducts возвращает выборку и поколение кэша, в котором её искали.
	GetProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, bool, error)
	// SetProducts пишет выборку только если поколение version всё ещё текущее.
	SetProducts(ctx context.Context, version int64, q domain.ProductQuery, products []domain.Product) error
	Invalidate(ctx context.Context) error
}
