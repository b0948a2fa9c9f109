package usecase

import (
	"context"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/google/uuid"
)

// CategoryUseCase управляет категориями из админки.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	tx           Transactor
	cache        ListingCache
	policy       domain.Policy
	logger       logger.Logger
}

func NewCategoryUC(
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	tx Transactor,
	cache ListingCache,
	policy domain.Policy,
	logger logger.Logger,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		tx:           tx,
		cache:        cache,
		policy:       policy,
		logger:       logger,
	}
}

func (c *CategoryUseCase) CreateCategory(ctx context.Context, actor domain.Actor, in *domain.CategoryInput) (*domain.Category, error) {
	const op = "CategoryUseCase.CreateCategory"

	if err := c.policy.Authorize(actor.Role, domain.ActionCreate); err != nil {
		return nil, e.Wrap(op, err)
	}

	category, err := domain.NewCategory(in)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var created *domain.Category
	err = c.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err = c.categoryRepo.Create(ctx, category)
		if err != nil {
			return err
		}

		_, err = c.outboxRepo.Create(ctx, NewOutboxEvent(EventCategoryCreated, created.ID, actor, categoryPayload(created)))
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

func (c *CategoryUseCase) UpdateCategory(ctx context.Context, actor domain.Actor, id uuid.UUID, in *domain.CategoryInput) (*domain.Category, error) {
	const op = "CategoryUseCase.UpdateCategory"

	if err := c.policy.Authorize(actor.Role, domain.ActionEdit); err != nil {
		return nil, e.Wrap(op, err)
	}

	var updated *domain.Category
	err := c.tx.WithinTx(ctx, func(ctx context.Context) error {
		category, err := c.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := category.Apply(in); err != nil {
			return err
		}

		updated, err = c.categoryRepo.Update(ctx, category)
		if err != nil {
			return err
		}

		_, err = c.outboxRepo.Create(ctx, NewOutboxEvent(EventCategoryUpdated, updated.ID, actor, categoryPayload(updated)))
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

// DeleteCategory удаляет категорию; у товаров ссылка обнуляется, сами товары остаются.
func (c *CategoryUseCase) DeleteCategory(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	const op = "CategoryUseCase.DeleteCategory"

	if err := c.policy.Authorize(actor.Role, domain.ActionDelete); err != nil {
		return e.Wrap(op, err)
	}

	err := c.tx.WithinTx(ctx, func(ctx context.Context) error {
		category, err := c.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := c.categoryRepo.Delete(ctx, id); err != nil {
			return err
		}

		_, err = c.outboxRepo.Create(ctx, NewOutboxEvent(EventCategoryDeleted, id, actor, categoryPayload(category)))
		return err
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	// Отфильтрованные по категории выборки больше не актуальны
	if err := c.cache.Invalidate(ctx); err != nil {
		c.logger.Warnf("Failed to invalidate listing cache: %v", e.Wrap(op, err))
	}

	return nil
}
