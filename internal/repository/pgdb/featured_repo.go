package pgdb

import (
	"context"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// FeaturedRepo читает промо-блоки витрины.
type FeaturedRepo struct {
	pool *pgxpool.Pool
	conv converter.FeaturedItemConverter
}

func NewFeaturedRepo(pool *pgxpool.Pool, conv converter.FeaturedItemConverter) *FeaturedRepo {
	return &FeaturedRepo{pool: pool, conv: conv}
}

func (f *FeaturedRepo) ListActive(ctx context.Context) ([]domain.FeaturedItem, error) {
	query := `
		SELECT id, product_id, title, subtitle, image_url, type, display_order, is_active, created_at
		FROM featured_items
		WHERE is_active
		ORDER BY display_order, id
	`

	rows, err := f.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.FeaturedItem, 0)
	for rows.Next() {
		var model converter.FeaturedItemModel
		if err := rows.Scan(
			&model.ID, &model.ProductID, &model.Title, &model.Subtitle, &model.ImageURL,
			&model.Type, &model.DisplayOrder, &model.IsActive, &model.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *f.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
