package pgdb

import (
	"context"

	"github.com/DRSN-tech/giftshop-backend/internal/identity"
	"github.com/DRSN-tech/giftshop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const userColumns = `id, email, password_hash, full_name, phone, email_confirmed, confirmation_token, created_at`

// UserRepo хранит учётные записи сервиса идентификации.
type UserRepo struct {
	pool *pgxpool.Pool
	conv converter.UserConverter
}

func NewUserRepo(pool *pgxpool.Pool, conv converter.UserConverter) *UserRepo {
	return &UserRepo{pool: pool, conv: conv}
}

func (u *UserRepo) Create(ctx context.Context, user *identity.User) (*identity.User, error) {
	model := u.conv.ToModel(user)
	query := `
		INSERT INTO users (id, email, password_hash, full_name, phone, email_confirmed, confirmation_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	created, err := u.scan(tr.QuerierFromCtx(ctx, u.pool).QueryRow(ctx, query,
		model.ID, model.Email, model.PasswordHash, model.FullName, model.Phone,
		model.EmailConfirmed, model.ConfirmationToken,
	))
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.NewFieldError("email", e.ErrEmailTaken))
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return created, nil
}

func (u *UserRepo) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	return u.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (u *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return u.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// ConfirmEmail подтверждает email и гасит одноразовый токен.
func (u *UserRepo) ConfirmEmail(ctx context.Context, token string) (*identity.User, error) {
	query := `
		UPDATE users
		SET email_confirmed = TRUE, confirmation_token = NULL
		WHERE confirmation_token = $1
		RETURNING ` + userColumns

	user, err := u.scan(tr.QuerierFromCtx(ctx, u.pool).QueryRow(ctx, query, token))
	if err != nil {
		if notFound(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidConfirmation)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return user, nil
}

func (u *UserRepo) getOne(ctx context.Context, query string, arg any) (*identity.User, error) {
	user, err := u.scan(tr.QuerierFromCtx(ctx, u.pool).QueryRow(ctx, query, arg))
	if err != nil {
		if notFound(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return user, nil
}

func (u *UserRepo) scan(row pgx.Row) (*identity.User, error) {
	var model converter.UserModel
	if err := row.Scan(
		&model.ID, &model.Email, &model.PasswordHash, &model.FullName, &model.Phone,
		&model.EmailConfirmed, &model.ConfirmationToken, &model.CreatedAt,
	); err != nil {
		return nil, err
	}

	return u.conv.ToEntity(&model), nil
}
