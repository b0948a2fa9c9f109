package domain

import (
	"testing"
	"time"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixture(name string, status ProductStatus, ageHours int, category *uuid.UUID, tags ...string) Product {
	return Product{
		ID:         uuid.New(),
		Name:       name,
		Status:     status,
		CategoryID: category,
		Tags:       tags,
		Images:     []string{name + ".jpg"},
		CreatedAt:  base.Add(-time.Duration(ageHours) * time.Hour),
	}
}

func names(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestPublicQueryNewArrivalScenario(t *testing.T) {
	products := []Product{
		fixture("old-live-new", StatusLive, 48, nil, "New Arrival"),
		fixture("draft-new", StatusDraft, 1, nil, "New Arrival"),
		fixture("live-birthday", StatusLive, 2, nil, "Perfect for Birthday"),
		fixture("fresh-live-new", StatusLive, 3, nil, "Kids Favorite", "New Arrival"),
		fixture("oos-new", StatusOutOfStock, 4, nil, "New Arrival"),
	}

	got := PublicQuery(nil, "New Arrival").Apply(products)

	assert.Equal(t, []string{"fresh-live-new", "old-live-new"}, names(got))
}

func TestPublicQueryNeverReturnsNonLive(t *testing.T) {
	cat := uuid.New()
	products := []Product{
		fixture("a", StatusDraft, 1, &cat, "x"),
		fixture("b", StatusOutOfStock, 2, &cat, "x"),
		fixture("c", StatusLive, 3, &cat, "x"),
		fixture("d", StatusLive, 4, nil),
	}

	queries := []ProductQuery{
		PublicQuery(nil, ""),
		PublicQuery(&cat, ""),
		PublicQuery(nil, "x"),
		PublicQuery(&cat, "x"),
		FeaturedQuery(),
	}

	for _, q := range queries {
		for _, p := range q.Apply(products) {
			assert.Equal(t, StatusLive, p.Status)
		}
	}
}

func TestAllFiltersEqualUnfiltered(t *testing.T) {
	products := []Product{
		fixture("a", StatusLive, 5, nil),
		fixture("b", StatusLive, 1, nil, "New Arrival"),
		fixture("c", StatusLive, 3, nil, "Limited Stock"),
	}

	catFilter, err := ParseCategoryFilter(FilterAll)
	require.NoError(t, err)

	filtered := PublicQuery(catFilter, FilterAll).Apply(products)
	unfiltered := ProductQuery{Status: StatusFilter(StatusLive)}.Apply(products)

	assert.Equal(t, names(unfiltered), names(filtered))
	assert.Equal(t, []string{"b", "c", "a"}, names(filtered))
}

func TestCategoryFilterIsExactMatch(t *testing.T) {
	bears, gifts := uuid.New(), uuid.New()
	products := []Product{
		fixture("bear", StatusLive, 1, &bears),
		fixture("gift", StatusLive, 2, &gifts),
		fixture("orphan", StatusLive, 3, nil),
	}

	got := PublicQuery(&bears, "").Apply(products)
	assert.Equal(t, []string{"bear"}, names(got))
}

func TestFeaturedQueryCapsAtSix(t *testing.T) {
	var products []Product
	for i := 0; i < 10; i++ {
		products = append(products, fixture(string(rune('a'+i)), StatusLive, i, nil))
	}

	got := FeaturedQuery().Apply(products)
	require.Len(t, got, FeaturedLimit)
	assert.Equal(t, "a", got[0].Name)
}

func TestAdminQueryStatuses(t *testing.T) {
	products := []Product{
		fixture("d", StatusDraft, 1, nil),
		fixture("l", StatusLive, 2, nil),
		fixture("o", StatusOutOfStock, 3, nil),
	}

	all, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Len(t, AdminQuery(all).Apply(products), 3)

	draft, err := ParseStatusFilter("draft")
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, names(AdminQuery(draft).Apply(products)))

	_, err = ParseStatusFilter("deleted")
	assert.ErrorIs(t, err, e.ErrInvalidStatus)
}

func TestParseCategoryFilter(t *testing.T) {
	id, err := ParseCategoryFilter("")
	assert.NoError(t, err)
	assert.Nil(t, id)

	_, err = ParseCategoryFilter("not-a-uuid")
	assert.ErrorIs(t, err, e.ErrInvalidID)

	want := uuid.New()
	id, err = ParseCategoryFilter(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, *id)
}
