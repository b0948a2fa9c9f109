package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/DRSN-tech/giftshop-backend/internal/usecase"

// CatalogUseCase обслуживает публичные чтения витрины.
// Ошибки чтения списков логируются, пишутся в span и превращаются в ListState с Failed=true.
type CatalogUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	featuredRepo FeaturedRepository
	cache        ListingCache
	logger       logger.Logger
	tracer       trace.Tracer
}

func NewCatalogUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	featuredRepo FeaturedRepository,
	cache ListingCache,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		featuredRepo: featuredRepo,
		cache:        cache,
		logger:       logger,
		tracer:       otel.Tracer(tracerName),
	}
}

// ListProducts выполняет запрос витрины. Статус принудительно live.
func (c *CatalogUseCase) ListProducts(ctx context.Context, q domain.ProductQuery) ListState[domain.Product] {
	q.Status = domain.StatusFilter(domain.StatusLive)
	return c.listProducts(ctx, "CatalogUseCase.ListProducts", q)
}

// FeaturedProducts — последние live-товары для главной.
func (c *CatalogUseCase) FeaturedProducts(ctx context.Context) ListState[domain.Product] {
	return c.listProducts(ctx, "CatalogUseCase.FeaturedProducts", domain.FeaturedQuery())
}

func (c *CatalogUseCase) listProducts(ctx context.Context, op string, q domain.ProductQuery) ListState[domain.Product] {
	ctx, span := c.tracer.Start(ctx, op, trace.WithAttributes(queryAttributes(q)...))
	defer span.End()

	// Поколение кэша фиксируется до чтения из базы: если между чтением и записью
	// выборку инвалидируют, запись уйдёт в устаревшее поколение и будет отброшена.
	cached, version, hit, err := c.cache.GetProducts(ctx, q)
	cacheable := err == nil
	if err != nil {
		c.logger.Warnf("Listing cache read failed: %v", err)
	}
	if hit {
		span.SetAttributes(attribute.Bool("catalog.cache_hit", true), attribute.Int("catalog.count", len(cached)))
		return NewListState(cached)
	}

	products, err := c.productRepo.List(ctx, q, false)
	if err != nil {
		c.recordFailure(span, op, err)
		return FailedListState[domain.Product]()
	}

	span.SetAttributes(attribute.Bool("catalog.cache_hit", false), attribute.Int("catalog.count", len(products)))

	if cacheable {
		// Фоновое наполнение кэша
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := c.cache.SetProducts(bgCtx, version, q, products); err != nil {
				c.logger.Warnf("Failed to cache listing in background: %v", e.Wrap(op, err))
			}
		}()
	}

	return NewListState(products)
}

// GetProduct возвращает карточку товара. Не-live товары для витрины не существуют.
func (c *CatalogUseCase) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !product.IsPublic() {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	return product, nil
}

// GetProducts возвращает live-товары по идентификаторам в порядке запроса.
func (c *CatalogUseCase) GetProducts(ctx context.Context, ids []uuid.UUID) (*GetProductsRes, error) {
	const op = "CatalogUseCase.GetProducts"

	if len(ids) == 0 {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	found, err := c.productRepo.GetByIDs(ctx, ids, domain.PublicQuery(nil, ""))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	byID := make(map[uuid.UUID]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	result := make([]domain.Product, 0, len(ids))
	notFound := make([]uuid.UUID, 0)
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			result = append(result, p)
		} else {
			notFound = append(notFound, id)
		}
	}

	return NewGetProductsRes(result, notFound), nil
}

func (c *CatalogUseCase) ListCategories(ctx context.Context) ListState[domain.Category] {
	const op = "CatalogUseCase.ListCategories"
	ctx, span := c.tracer.Start(ctx, op)
	defer span.End()

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		c.recordFailure(span, op, err)
		return FailedListState[domain.Category]()
	}

	domain.SortCategories(categories)
	return NewListState(categories)
}

func (c *CatalogUseCase) ListFeaturedItems(ctx context.Context) ListState[domain.FeaturedItem] {
	const op = "CatalogUseCase.ListFeaturedItems"
	ctx, span := c.tracer.Start(ctx, op)
	defer span.End()

	items, err := c.featuredRepo.ListActive(ctx)
	if err != nil {
		c.recordFailure(span, op, err)
		return FailedListState[domain.FeaturedItem]()
	}

	domain.SortFeaturedItems(items)
	return NewListState(items)
}

func (c *CatalogUseCase) recordFailure(span trace.Span, op string, err error) {
	c.logger.Errorf(err, "%s: read failed, returning empty list", op)
	span.RecordError(err)
	span.SetStatus(codes.Error, "catalog read failed")
}

func queryAttributes(q domain.ProductQuery) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("catalog.status", string(q.Status)),
		attribute.String("catalog.tag", q.Tag),
		attribute.Int("catalog.limit", q.Limit),
	}
	if q.CategoryID != nil {
		attrs = append(attrs, attribute.String("catalog.category_id", q.CategoryID.String()))
	}

	return attrs
}
