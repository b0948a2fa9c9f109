package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Category описывает категорию товаров
type Category struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	Description  *string
	DisplayOrder int
	CreatedAt    time.Time
}

// CategoryInput — редактируемые поля категории.
type CategoryInput struct {
	Name         string
	Slug         string
	Description  *string
	DisplayOrder int
}

// NewCategory собирает категорию; пустой slug выводится из названия.
func NewCategory(in *CategoryInput) (*Category, error) {
	c := &Category{ID: uuid.New()}
	if err := c.Apply(in); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Category) Apply(in *CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return e.NewFieldError("name", e.ErrCategoryNameRequired)
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugPattern.MatchString(slug) {
		return e.NewFieldError("slug", e.ErrInvalidSlug)
	}

	var description *string
	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != "" {
			description = &d
		}
	}

	c.Name = name
	c.Slug = slug
	c.Description = description
	c.DisplayOrder = in.DisplayOrder

	return nil
}

// Slugify переводит название в URL-безопасный slug: "Teddy Bears!" -> "teddy-bears".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// SortCategories упорядочивает по display_order, при равенстве по id.
func SortCategories(categories []Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].DisplayOrder != categories[j].DisplayOrder {
			return categories[i].DisplayOrder < categories[j].DisplayOrder
		}
		return categories[i].ID.String() < categories[j].ID.String()
	})
}
