package pgdb

import (
	"context"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const categoryColumns = `id, name, slug, description, display_order, created_at`

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

// Create сохраняет категорию. Занятый slug возвращает e.ErrSlugTaken.
func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	model := c.conv.ToModel(category)
	query := `
		INSERT INTO categories (id, name, slug, description, display_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns

	row := tr.QuerierFromCtx(ctx, c.pool).QueryRow(ctx, query,
		model.ID, model.Name, model.Slug, model.Description, model.DisplayOrder,
	)

	created, err := c.scan(row)
	if err != nil {
		return nil, mapCategoryWriteErr(err)
	}

	return created, nil
}

func (c *CategoryRepo) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	model := c.conv.ToModel(category)
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, display_order = $5
		WHERE id = $1
		RETURNING ` + categoryColumns

	row := tr.QuerierFromCtx(ctx, c.pool).QueryRow(ctx, query,
		model.ID, model.Name, model.Slug, model.Description, model.DisplayOrder,
	)

	updated, err := c.scan(row)
	if err != nil {
		return nil, mapCategoryWriteErr(err)
	}

	return updated, nil
}

func (c *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	category, err := c.scan(tr.QuerierFromCtx(ctx, c.pool).QueryRow(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return category, nil
}

// List возвращает категории по display_order.
func (c *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY display_order, id`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Category, 0)
	for rows.Next() {
		category, err := c.scan(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *category)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// Delete удаляет категорию; у товаров category_id обнуляется внешним ключом ON DELETE SET NULL.
func (c *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := tr.QuerierFromCtx(ctx, c.pool).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
	}

	return nil
}

func (c *CategoryRepo) scan(row pgx.Row) (*domain.Category, error) {
	var model converter.CategoryModel
	if err := row.Scan(
		&model.ID, &model.Name, &model.Slug, &model.Description, &model.DisplayOrder, &model.CreatedAt,
	); err != nil {
		return nil, err
	}

	return c.conv.ToEntity(&model), nil
}

func mapCategoryWriteErr(err error) error {
	switch {
	case notFound(err):
		return e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
	case postgresDuplicate(err):
		return e.Wrap(whereami.WhereAmI(), e.NewFieldError("slug", e.ErrSlugTaken))
	default:
		return e.Wrap(whereami.WhereAmI(), err)
	}
}
