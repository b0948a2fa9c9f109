package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

func catalogProduct(name string, status domain.ProductStatus, ageHours int, tags ...string) domain.Product {
	return domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Status:    status,
		Tags:      tags,
		Images:    []string{name + ".jpg"},
		CreatedAt: epoch.Add(-time.Duration(ageHours) * time.Hour),
	}
}

func newCatalog(repo *fakeProductRepo, categories *fakeCategoryRepo, featured *fakeFeaturedRepo, cache *fakeCache) *CatalogUseCase {
	return NewCatalogUC(repo, categories, featured, cache, logger.NewNopLogger())
}

func TestListProductsNewArrival(t *testing.T) {
	repo := newFakeProductRepo(
		catalogProduct("old", domain.StatusLive, 30, "New Arrival"),
		catalogProduct("draft", domain.StatusDraft, 1, "New Arrival"),
		catalogProduct("other-tag", domain.StatusLive, 2, "Limited Stock"),
		catalogProduct("fresh", domain.StatusLive, 3, "New Arrival"),
		catalogProduct("oos", domain.StatusOutOfStock, 4, "New Arrival"),
	)
	uc := newCatalog(repo, newFakeCategoryRepo(), &fakeFeaturedRepo{}, newFakeCache())

	state := uc.ListProducts(context.Background(), domain.PublicQuery(nil, "New Arrival"))

	require.False(t, state.Failed)
	require.Len(t, state.Items, 2)
	assert.Equal(t, "fresh", state.Items[0].Name)
	assert.Equal(t, "old", state.Items[1].Name)
}

func TestListProductsForcesLiveStatus(t *testing.T) {
	repo := newFakeProductRepo(
		catalogProduct("draft", domain.StatusDraft, 1),
		catalogProduct("oos", domain.StatusOutOfStock, 2),
		catalogProduct("live", domain.StatusLive, 3),
	)
	uc := newCatalog(repo, newFakeCategoryRepo(), &fakeFeaturedRepo{}, newFakeCache())

	state := uc.ListProducts(context.Background(), domain.AdminQuery(domain.StatusFilterAll))

	require.Len(t, state.Items, 1)
	assert.Equal(t, "live", state.Items[0].Name)
}

func TestListProductsDegradesOnFailure(t *testing.T) {
	repo := newFakeProductRepo()
	repo.listErr = errStorageDown
	uc := newCatalog(repo, newFakeCategoryRepo(), &fakeFeaturedRepo{}, newFakeCache())

	state := uc.ListProducts(context.Background(), domain.PublicQuery(nil, ""))

	assert.Equal(t, ListState[domain.Product]{Items: []domain.Product{}, Loading: false, Failed: true}, state)
}

func TestListProductsServesFromCache(t *testing.T) {
	cached := []domain.Product{catalogProduct("cached", domain.StatusLive, 1)}
	cache := newFakeCache()
	q := domain.PublicQuery(nil, "")
	require.NoError(t, cache.SetProducts(context.Background(), 0, q, cached))

	repo := newFakeProductRepo()
	repo.listErr = errStorageDown
	uc := newCatalog(repo, newFakeCategoryRepo(), &fakeFeaturedRepo{}, cache)

	state := uc.ListProducts(context.Background(), q)

	assert.False(t, state.Failed)
	assert.Equal(t, cached, state.Items)
}

func TestListingInvalidatedDuringReadIsNotCached(t *testing.T) {
	bear := catalogProduct("bear", domain.StatusLive, 1)
	repo := newFakeProductRepo(bear)
	cache := newFakeCache()
	cache.stored = make(chan struct{}, 1)
	uc := newCatalog(repo, newFakeCategoryRepo(), &fakeFeaturedRepo{}, cache)
	q := domain.PublicQuery(nil, "")

	// Товар снимают с продажи сразу после того, как витрина прочитала базу.
	repo.listHook = func() {
		repo.listHook = nil
		repo.setStatus(bear.ID, domain.StatusOutOfStock)
		require.NoError(t, cache.Invalidate(context.Background()))
	}

	state := uc.ListProducts(context.Background(), q)
	require.Len(t, state.Items, 1)

	select {
	case <-cache.stored:
	case <-time.After(time.Second):
		t.Fatal("listing was not written to the cache")
	}
	assert.Zero(t, cache.size())

	state = uc.ListProducts(context.Background(), q)
	assert.False(t, state.Failed)
	assert.Empty(t, state.Items)
}

func TestListProductsIgnoresCacheErrors(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errStorageDown
	repo := newFakeProductRepo(catalogProduct("live", domain.StatusLive, 1))
	uc := newCatalog(repo, newFakeCategoryRepo(), &fakeFeaturedRepo{}, cache)

	state := uc.ListProducts(context.Background(), domain.PublicQuery(nil, ""))

	assert.False(t, state.Failed)
	assert.Len(t, state.Items, 1)
}

func TestFeaturedProductsLimit(t *testing.T) {
	var products []domain.Product
	for i := 0; i < 9; i++ {
		products = append(products, catalogProduct(string(rune('a'+i)), domain.StatusLive, i))
	}
	uc := newCatalog(newFakeProductRepo(products...), newFakeCategoryRepo(), &fakeFeaturedRepo{}, newFakeCache())

	state := uc.FeaturedProducts(context.Background())

	assert.Len(t, state.Items, domain.FeaturedLimit)
}

func TestGetProductHidesNonLive(t *testing.T) {
	draft := catalogProduct("draft", domain.StatusDraft, 1)
	live := catalogProduct("live", domain.StatusLive, 1)
	uc := newCatalog(newFakeProductRepo(draft, live), newFakeCategoryRepo(), &fakeFeaturedRepo{}, newFakeCache())

	_, err := uc.GetProduct(context.Background(), draft.ID)
	assert.ErrorIs(t, err, e.ErrProductNotFound)

	got, err := uc.GetProduct(context.Background(), live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)
}

func TestGetProductsReportsMissing(t *testing.T) {
	draft := catalogProduct("draft", domain.StatusDraft, 1)
	live := catalogProduct("live", domain.StatusLive, 1)
	unknown := uuid.New()
	uc := newCatalog(newFakeProductRepo(draft, live), newFakeCategoryRepo(), &fakeFeaturedRepo{}, newFakeCache())

	res, err := uc.GetProducts(context.Background(), []uuid.UUID{unknown, live.ID, draft.ID})
	require.NoError(t, err)

	require.Len(t, res.Products, 1)
	assert.Equal(t, live.ID, res.Products[0].ID)
	assert.Equal(t, []uuid.UUID{unknown, draft.ID}, res.NotFoundProducts)

	_, err = uc.GetProducts(context.Background(), nil)
	assert.ErrorIs(t, err, e.ErrMissingFields)
}

func TestListCategoriesOrdered(t *testing.T) {
	categories := newFakeCategoryRepo(
		domain.Category{ID: uuid.New(), Name: "second", DisplayOrder: 2},
		domain.Category{ID: uuid.New(), Name: "first", DisplayOrder: 1},
	)
	uc := newCatalog(newFakeProductRepo(), categories, &fakeFeaturedRepo{}, newFakeCache())

	state := uc.ListCategories(context.Background())
	require.Len(t, state.Items, 2)
	assert.Equal(t, "first", state.Items[0].Name)

	categories.listErr = errStorageDown
	state = uc.ListCategories(context.Background())
	assert.True(t, state.Failed)
	assert.Empty(t, state.Items)
}

func TestListFeaturedItemsDegrades(t *testing.T) {
	uc := newCatalog(newFakeProductRepo(), newFakeCategoryRepo(), &fakeFeaturedRepo{err: errStorageDown}, newFakeCache())

	state := uc.ListFeaturedItems(context.Background())

	assert.True(t, state.Failed)
	assert.NotNil(t, state.Items)
}
