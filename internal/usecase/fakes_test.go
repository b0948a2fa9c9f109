package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/google/uuid"
)

var errStorageDown = errors.New("storage unavailable")

type fakeProductRepo struct {
	mu         sync.Mutex
	products   map[uuid.UUID]domain.Product
	creators   map[uuid.UUID]string
	listErr    error
	creates    int
	createGate chan struct{}
	listHook   func()
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{
		products: make(map[uuid.UUID]domain.Product),
		creators: make(map[uuid.UUID]string),
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	r.creates++
	gate := r.createGate
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	out := *p
	return &out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return nil, e.ErrProductNotFound
	}
	r.products[p.ID] = *p
	out := *p
	return &out, nil
}

func (r *fakeProductRepo) UpdateStatus(ctx context.Context, p *domain.Product) error {
	_, err := r.Update(ctx, p)
	return err
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID, q domain.ProductQuery) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok && q.Matches(&p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) List(_ context.Context, q domain.ProductQuery, withCreator bool) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	all := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if withCreator {
			p.CreatorName = r.creators[p.CreatedBy]
		}
		all = append(all, p)
	}
	res := q.Apply(all)
	if r.listHook != nil {
		r.mu.Unlock()
		r.listHook()
		r.mu.Lock()
	}
	return res, nil
}

func (r *fakeProductRepo) createCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates
}

func (r *fakeProductRepo) setStatus(id uuid.UUID, status domain.ProductStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[id]
	p.Status = status
	r.products[id] = p
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) CountByStatus(_ context.Context) (map[domain.ProductStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.ProductStatus]int)
	for _, p := range r.products {
		counts[p.Status]++
	}
	return counts, nil
}

func (r *fakeProductRepo) get(id uuid.UUID) domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id]
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]domain.Category
	listErr    error
}

func newFakeCategoryRepo(categories ...domain.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: make(map[uuid.UUID]domain.Category)}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Slug == c.Slug {
			return nil, e.ErrSlugTaken
		}
	}
	r.categories[c.ID] = *c
	out := *c
	return &out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[c.ID] = *c
	out := *c
	return &out, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

type fakeFeaturedRepo struct {
	items []domain.FeaturedItem
	err   error
}

func (r *fakeFeaturedRepo) ListActive(_ context.Context) ([]domain.FeaturedItem, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]domain.FeaturedItem(nil), r.items...), nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (o *fakeOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	event.ID = int64(len(o.events) + 1)
	o.events = append(o.events, event)
	return event, nil
}

func (o *fakeOutbox) GetAndMarkAsProcessing(_ context.Context, _ int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (o *fakeOutbox) MarkAsProcessed(_ context.Context, _ int64) error { return nil }

func (o *fakeOutbox) ReturnToPending(_ context.Context, _ int64) error { return nil }

func (o *fakeOutbox) types() []OutboxEventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]OutboxEventType, len(o.events))
	for i, ev := range o.events {
		out[i] = ev.EventType
	}
	return out
}

// fakeTx откатывает изменения outbox при ошибке, имитируя транзакцию.
type fakeTx struct {
	mu     sync.Mutex
	outbox *fakeOutbox
	calls  int
}

func (t *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	var before int
	if t.outbox != nil {
		t.outbox.mu.Lock()
		before = len(t.outbox.events)
		t.outbox.mu.Unlock()
	}

	err := fn(ctx)
	if err != nil && t.outbox != nil {
		t.outbox.mu.Lock()
		t.outbox.events = t.outbox.events[:before]
		t.outbox.mu.Unlock()
	}
	return err
}

type fakeCache struct {
	mu          sync.Mutex
	version     int64
	entries     map[string][]domain.Product
	invalidated int
	getErr      error
	stored      chan struct{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]domain.Product)}
}

func cacheKey(version int64, q domain.ProductQuery) string {
	cat := ""
	if q.CategoryID != nil {
		cat = q.CategoryID.String()
	}
	return fmt.Sprintf("%d|%s|%s|%s", version, q.Status, cat, q.Tag)
}

func (c *fakeCache) GetProducts(_ context.Context, q domain.ProductQuery) ([]domain.Product, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	p, ok := c.entries[cacheKey(c.version, q)]
	return p, c.version, ok, nil
}

// SetProducts повторяет поведение Redis-скрипта: запись в устаревшее поколение отбрасывается.
func (c *fakeCache) SetProducts(_ context.Context, version int64, q domain.ProductQuery, products []domain.Product) error {
	c.mu.Lock()
	if version == c.version {
		c.entries[cacheKey(version, q)] = products
	}
	stored := c.stored
	c.mu.Unlock()

	if stored != nil {
		stored <- struct{}{}
	}
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.version++
	return nil
}

func (c *fakeCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type fakeImages struct {
	mu      sync.Mutex
	cleaned [][]string
	res     *UploadImagesRes
	err     error
}

func (f *fakeImages) UploadImages(_ context.Context, _ *UploadImagesReq) (*UploadImagesRes, error) {
	return f.res, f.err
}

func (f *fakeImages) CleanupImages(urls []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = append(f.cleaned, urls)
}
