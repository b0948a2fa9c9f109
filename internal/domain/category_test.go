package domain

import (
	"testing"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Teddy Bears":        "teddy-bears",
		"  Gifts & Flowers!": "gifts-flowers",
		"Kids 2026":          "kids-2026",
		"---":                "",
	}

	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestNewCategory(t *testing.T) {
	desc := "  "
	c, err := NewCategory(&CategoryInput{Name: "Teddy Bears", Description: &desc, DisplayOrder: 2})
	require.NoError(t, err)
	assert.Equal(t, "teddy-bears", c.Slug)
	assert.Nil(t, c.Description)

	_, err = NewCategory(&CategoryInput{Name: ""})
	assert.ErrorIs(t, err, e.ErrCategoryNameRequired)

	_, err = NewCategory(&CategoryInput{Name: "Bears", Slug: "Bad Slug"})
	assert.ErrorIs(t, err, e.ErrInvalidSlug)
}

func TestSortCategories(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	c := uuid.MustParse("00000000-0000-0000-0000-00000000000c")

	categories := []Category{
		{ID: c, Name: "c", DisplayOrder: 1},
		{ID: b, Name: "b", DisplayOrder: 0},
		{ID: a, Name: "a", DisplayOrder: 1},
	}

	SortCategories(categories)

	assert.Equal(t, "b", categories[0].Name)
	assert.Equal(t, "a", categories[1].Name)
	assert.Equal(t, "c", categories[2].Name)
}
