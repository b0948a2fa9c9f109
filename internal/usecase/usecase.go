package usecase

import (
	"context"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/google/uuid"
)

// CatalogUC — публичные чтения витрины.
type CatalogUC interface {
	ListProducts(ctx context.Context, q domain.ProductQuery) ListState[domain.Product]
	FeaturedProducts(ctx context.Context) ListState[domain.Product]
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetProducts(ctx context.Context, ids []uuid.UUID) (*GetProductsRes, error)
	ListCategories(ctx context.Context) ListState[domain.Category]
	ListFeaturedItems(ctx context.Context) ListState[domain.FeaturedItem]
}

// ProductUC — операции админки над товарами.
type ProductUC interface {
	ListProducts(ctx context.Context, actor domain.Actor, status domain.StatusFilter) (ListState[domain.Product], error)
	Stats(ctx context.Context, actor domain.Actor) (*CatalogStats, error)
	GetProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, actor domain.Actor, in *domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor domain.Actor, id uuid.UUID, in *domain.ProductInput) (*domain.Product, error)
	ApproveProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Product, error)
	ToggleStock(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	UploadImages(ctx context.Context, actor domain.Actor, req *UploadImagesReq) (*UploadImagesRes, error)
}

type CategoryUC interface {
	CreateCategory(ctx context.Context, actor domain.Actor, in *domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, actor domain.Actor, id uuid.UUID, in *domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}
