package pgdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `
	p.id, p.category_id, p.name, p.description, p.price::text, p.offer_price::text,
	p.images, p.tags, p.status, p.created_by, p.approved_by, p.approved_at,
	p.created_at, p.updated_at`

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create сохраняет новый товар. Несуществующая категория возвращает e.ErrCategoryNotFound.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)

	query := `
		INSERT INTO products AS p (
			id, category_id, name, description, price, offer_price,
			images, tags, status, created_by
		) VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8, $9, $10)
		RETURNING ` + productColumns

	row := tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query,
		model.ID, model.CategoryID, model.Name, model.Description, model.Price, model.OfferPrice,
		model.Images, model.Tags, model.Status, model.CreatedBy,
	)

	created, err := p.scan(row, false)
	if err != nil {
		return nil, mapProductWriteErr(err)
	}

	return created, nil
}

// Update перезаписывает редактируемые поля. Статус и поля одобрения не меняются.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)

	query := `
		UPDATE products AS p SET
			category_id = $2,
			name = $3,
			description = $4,
			price = $5::numeric,
			offer_price = $6::numeric,
			images = $7,
			tags = $8,
			updated_at = NOW()
		WHERE p.id = $1
		RETURNING ` + productColumns

	row := tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query,
		model.ID, model.CategoryID, model.Name, model.Description, model.Price, model.OfferPrice,
		model.Images, model.Tags,
	)

	updated, err := p.scan(row, false)
	if err != nil {
		return nil, mapProductWriteErr(err)
	}

	return updated, nil
}

// UpdateStatus сохраняет статус и поля одобрения.
func (p *ProductRepo) UpdateStatus(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET status = $2, approved_by = $3, approved_at = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tr.QuerierFromCtx(ctx, p.pool).Exec(ctx, query,
		product.ID, string(product.Status), product.ApprovedBy, product.ApprovedAt,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`

	product, err := p.scan(tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, id), false)
	if err != nil {
		if notFound(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return product, nil
}

// GetForUpdate читает товар с блокировкой строки; вызывается только внутри транзакции.
func (p *ProductRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1 FOR UPDATE`

	product, err := p.scan(tx.QueryRow(ctx, query, id), false)
	if err != nil {
		if notFound(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return product, nil
}

// GetByIDs возвращает найденные товары, удовлетворяющие запросу q.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID, q domain.ProductQuery) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	query, args := buildListQuery(q, false, ids)
	return p.query(ctx, query, args, false)
}

// List выполняет запрос каталога. withCreator добавляет имя создателя из profiles.
func (p *ProductRepo) List(ctx context.Context, q domain.ProductQuery, withCreator bool) ([]domain.Product, error) {
	query, args := buildListQuery(q, withCreator, nil)
	return p.query(ctx, query, args, withCreator)
}

func (p *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := tr.QuerierFromCtx(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// CountByStatus возвращает количество товаров в каждом статусе.
func (p *ProductRepo) CountByStatus(ctx context.Context) (map[domain.ProductStatus]int, error) {
	rows, err := p.pool.Query(ctx, `SELECT status, COUNT(*) FROM products GROUP BY status`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	counts := make(map[domain.ProductStatus]int, len(domain.ProductStatuses))
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		counts[domain.ProductStatus(status)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return counts, nil
}

func (p *ProductRepo) query(ctx context.Context, query string, args []any, withCreator bool) ([]domain.Product, error) {
	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		product, err := p.scan(rows, withCreator)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (p *ProductRepo) scan(row pgx.Row, withCreator bool) (*domain.Product, error) {
	var model converter.ProductModel
	dest := []any{
		&model.ID, &model.CategoryID, &model.Name, &model.Description, &model.Price, &model.OfferPrice,
		&model.Images, &model.Tags, &model.Status, &model.CreatedBy, &model.ApprovedBy, &model.ApprovedAt,
		&model.CreatedAt, &model.UpdatedAt,
	}
	if withCreator {
		dest = append(dest, &model.CreatorName)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	return p.conv.ToEntity(&model)
}

// buildListQuery собирает SELECT по спецификации выборки.
// Порядок всегда created_at DESC, id DESC: новые товары первыми, порядок стабилен.
func buildListQuery(q domain.ProductQuery, withCreator bool, ids []uuid.UUID) (string, []any) {
	var (
		sb    strings.Builder
		where []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sb.WriteString("SELECT")
	sb.WriteString(productColumns)
	if withCreator {
		sb.WriteString(", pr.full_name")
	}
	sb.WriteString("\nFROM products p")
	if withCreator {
		sb.WriteString("\nLEFT JOIN profiles pr ON pr.id = p.created_by")
	}

	if ids != nil {
		where = append(where, "p.id = ANY("+arg(ids)+")")
	}
	if status, ok := q.Status.Status(); ok {
		where = append(where, "p.status = "+arg(string(status)))
	}
	if q.CategoryID != nil {
		where = append(where, "p.category_id = "+arg(*q.CategoryID))
	}
	if q.Tag != "" {
		where = append(where, "p.tags @> ARRAY["+arg(q.Tag)+"]::text[]")
	}

	if len(where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	sb.WriteString("\nORDER BY p.created_at DESC, p.id DESC")

	if q.Limit > 0 {
		sb.WriteString("\nLIMIT " + arg(q.Limit))
	}

	return sb.String(), args
}

func mapProductWriteErr(err error) error {
	switch {
	case notFound(err):
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	case postgresForeignKey(err):
		return e.Wrap(whereami.WhereAmI(), e.NewFieldError("category_id", e.ErrCategoryNotFound))
	default:
		return e.Wrap(whereami.WhereAmI(), err)
	}
}
