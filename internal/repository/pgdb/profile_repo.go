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

const profileColumns = `id, full_name, phone, role, created_at, updated_at`

type ProfileRepo struct {
	pool *pgxpool.Pool
	conv converter.ProfileConverter
}

func NewProfileRepo(pool *pgxpool.Pool, conv converter.ProfileConverter) *ProfileRepo {
	return &ProfileRepo{pool: pool, conv: conv}
}

func (p *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	profile, err := p.scan(tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProfileNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return profile, nil
}

// Ensure создаёт профиль при первом входе. Существующая запись не меняется и не блокируется:
// роль назначает только администратор, напрямую в базе.
func (p *ProfileRepo) Ensure(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	model := p.conv.ToModel(profile)

	query := `
		WITH inserted AS (
			INSERT INTO profiles (id, full_name, phone, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
			RETURNING ` + profileColumns + `
		)
		SELECT ` + profileColumns + ` FROM inserted
		UNION ALL
		SELECT ` + profileColumns + ` FROM profiles WHERE id = $1
		LIMIT 1`

	ensured, err := p.scan(tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query,
		model.ID, model.FullName, model.Phone, model.Role,
	))
	if err == nil {
		return ensured, nil
	}
	if !notFound(err) {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Строку вставила параллельная транзакция, которую снимок запроса ещё не видел
	return p.GetByID(ctx, profile.ID)
}

func (p *ProfileRepo) scan(row pgx.Row) (*domain.Profile, error) {
	var model converter.ProfileModel
	if err := row.Scan(
		&model.ID, &model.FullName, &model.Phone, &model.Role, &model.CreatedAt, &model.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return p.conv.ToEntity(&model), nil
}
