package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ProductUseCase реализует операции админки над товарами: CRUD и workflow статусов.
// Каждое изменение пишется вместе с событием outbox в одной транзакции.
type ProductUseCase struct {
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	tx          Transactor
	imagesInfra ImagesInfra
	cache       ListingCache
	policy      domain.Policy
	logger      logger.Logger
	group       singleflight.Group
	now         func() time.Time
}

func NewProductUC(
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	tx Transactor,
	imagesInfra ImagesInfra,
	cache ListingCache,
	policy domain.Policy,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		tx:          tx,
		imagesInfra: imagesInfra,
		cache:       cache,
		policy:      policy,
		logger:      logger,
		now:         time.Now,
	}
}

// ListProducts — список товаров админки в любом статусе, с именем создателя.
func (p *ProductUseCase) ListProducts(ctx context.Context, actor domain.Actor, status domain.StatusFilter) (ListState[domain.Product], error) {
	const op = "ProductUseCase.ListProducts"

	if err := requireCatalogAccess(actor); err != nil {
		return FailedListState[domain.Product](), e.Wrap(op, err)
	}

	products, err := p.productRepo.List(ctx, domain.AdminQuery(status), true)
	if err != nil {
		p.logger.Errorf(err, "%s: read failed, returning empty list", op)
		return FailedListState[domain.Product](), nil
	}

	return NewListState(products), nil
}

// Stats считает товары по статусам для дашборда.
func (p *ProductUseCase) Stats(ctx context.Context, actor domain.Actor) (*CatalogStats, error) {
	const op = "ProductUseCase.Stats"

	if err := requireCatalogAccess(actor); err != nil {
		return nil, e.Wrap(op, err)
	}

	counts, err := p.productRepo.CountByStatus(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCatalogStats(counts), nil
}

func (p *ProductUseCase) GetProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	if err := requireCatalogAccess(actor); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// CreateProduct сохраняет новый товар как черновик, независимо от роли создателя.
func (p *ProductUseCase) CreateProduct(ctx context.Context, actor domain.Actor, in *domain.ProductInput) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := p.policy.Authorize(actor.Role, domain.ActionCreate); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Валидация до любых обращений к хранилищу
	if err := in.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	key := submissionKey(actor, domain.ActionCreate, in.Fingerprint())
	return p.collapse(ctx, key, func(ctx context.Context) (*domain.Product, error) {
		var created *domain.Product
		err := p.tx.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			created, err = p.productRepo.Create(ctx, domain.NewProduct(in, actor.UserID))
			if err != nil {
				return err
			}

			return p.writeEvent(ctx, EventProductCreated, created.ID, actor, productPayload(created))
		})
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		p.logger.Infof("product created: id=%s by=%s", created.ID, actor.UserID)
		return created, nil
	})
}

// UpdateProduct меняет редактируемые поля; статус и создатель остаются прежними.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, actor domain.Actor, id uuid.UUID, in *domain.ProductInput) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := p.policy.Authorize(actor.Role, domain.ActionEdit); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := in.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	key := submissionKey(actor, domain.ActionEdit, id.String()+":"+in.Fingerprint())
	return p.collapse(ctx, key, func(ctx context.Context) (*domain.Product, error) {
		var updated *domain.Product
		err := p.tx.WithinTx(ctx, func(ctx context.Context) error {
			product, err := p.productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}

			product.Apply(in)
			updated, err = p.productRepo.Update(ctx, product)
			if err != nil {
				return err
			}

			return p.writeEvent(ctx, EventProductUpdated, updated.ID, actor, productPayload(updated))
		})
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		p.invalidateListings(ctx, op)
		return updated, nil
	})
}

// ApproveProduct публикует черновик. Только admin.
func (p *ProductUseCase) ApproveProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Product, error) {
	const op = "ProductUseCase.ApproveProduct"

	if err := p.policy.Authorize(actor.Role, domain.ActionApprove); err != nil {
		return nil, e.Wrap(op, err)
	}

	return p.transition(ctx, op, actor, id, domain.ActionApprove, EventProductApproved, func(product *domain.Product) error {
		return product.Approve(actor, p.now())
	})
}

// ToggleStock переключает live <-> out_of_stock.
func (p *ProductUseCase) ToggleStock(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Product, error) {
	const op = "ProductUseCase.ToggleStock"

	if err := p.policy.Authorize(actor.Role, domain.ActionToggleStock); err != nil {
		return nil, e.Wrap(op, err)
	}

	return p.transition(ctx, op, actor, id, domain.ActionToggleStock, EventProductStockToggled, func(product *domain.Product) error {
		return product.ToggleStock()
	})
}

// transition выполняет смену статуса под блокировкой строки и пишет событие.
func (p *ProductUseCase) transition(
	ctx context.Context,
	op string,
	actor domain.Actor,
	id uuid.UUID,
	action domain.Action,
	eventType OutboxEventType,
	apply func(product *domain.Product) error,
) (*domain.Product, error) {
	key := submissionKey(actor, action, id.String())
	return p.collapse(ctx, key, func(ctx context.Context) (*domain.Product, error) {
		var product *domain.Product
		err := p.tx.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			product, err = p.productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}

			if err := apply(product); err != nil {
				return err
			}

			if err := p.productRepo.UpdateStatus(ctx, product); err != nil {
				return err
			}

			return p.writeEvent(ctx, eventType, product.ID, actor, productPayload(product))
		})
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		p.logger.Infof("product %s: id=%s status=%s by=%s", action, product.ID, product.Status, actor.UserID)
		p.invalidateListings(ctx, op)
		return product, nil
	})
}

// DeleteProduct удаляет товар безвозвратно. Событие outbox остаётся как след удаления,
// изображения удаляются из хранилища в фоне.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	const op = "ProductUseCase.DeleteProduct"

	if err := p.policy.Authorize(actor.Role, domain.ActionDelete); err != nil {
		return e.Wrap(op, err)
	}

	key := submissionKey(actor, domain.ActionDelete, id.String())
	_, err := p.collapse(ctx, key, func(ctx context.Context) (*domain.Product, error) {
		var deleted *domain.Product
		err := p.tx.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			deleted, err = p.productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}

			if err := p.productRepo.Delete(ctx, id); err != nil {
				return err
			}

			return p.writeEvent(ctx, EventProductDeleted, id, actor, productPayload(deleted))
		})
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		p.logger.Infof("product deleted: id=%s by=%s", id, actor.UserID)
		p.invalidateListings(ctx, op)
		p.imagesInfra.CleanupImages(deleted.Images)
		return deleted, nil
	})

	return err
}

// UploadImages загружает файлы формы товара и возвращает их публичные URL.
func (p *ProductUseCase) UploadImages(ctx context.Context, actor domain.Actor, req *UploadImagesReq) (*UploadImagesRes, error) {
	const op = "ProductUseCase.UploadImages"

	if err := p.policy.Authorize(actor.Role, domain.ActionCreate); err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(req.Images) == 0 {
		return nil, e.Wrap(op, e.NewFieldError("images", e.ErrNoImages))
	}

	if req.ProductKey == "" {
		req.ProductKey = uuid.NewString()
	}

	res, err := p.imagesInfra.UploadImages(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

func (p *ProductUseCase) writeEvent(
	ctx context.Context,
	eventType OutboxEventType,
	aggregateID uuid.UUID,
	actor domain.Actor,
	payload map[string]any,
) error {
	_, err := p.outboxRepo.Create(ctx, NewOutboxEvent(eventType, aggregateID, actor, payload))
	return err
}

// invalidateListings сбрасывает кэш выборок после коммита. Ошибка не прерывает операцию.
func (p *ProductUseCase) invalidateListings(ctx context.Context, op string) {
	if err := p.cache.Invalidate(ctx); err != nil {
		p.logger.Warnf("Failed to invalidate listing cache: %v", e.Wrap(op, err))
	}
}

// collapse схлопывает одновременные одинаковые отправки одного пользователя в одну операцию.
// Ключ включает отпечаток тела запроса, поэтому разные правки выполняются каждая своей операцией.
// Общая операция не зависит от отмены контекста первого вызывающего.
func (p *ProductUseCase) collapse(
	ctx context.Context,
	key string,
	fn func(ctx context.Context) (*domain.Product, error),
) (*domain.Product, error) {
	shared := context.WithoutCancel(ctx)
	v, err, _ := p.group.Do(key, func() (any, error) {
		return fn(shared)
	})
	if err != nil {
		return nil, err
	}

	product := *v.(*domain.Product)
	return &product, nil
}

func submissionKey(actor domain.Actor, action domain.Action, target string) string {
	return fmt.Sprintf("%s:%s:%s", actor.UserID, action, target)
}

func requireCatalogAccess(actor domain.Actor) error {
	if !actor.Role.CanManageCatalog() {
		return e.Wrap(fmt.Sprintf("role %q", actor.Role), e.ErrForbidden)
	}

	return nil
}
