package http

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/identity"
	"github.com/DRSN-tech/giftshop-backend/internal/session"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/google/uuid"
)

type fakeCatalog struct {
	state     usecase.ListState[domain.Product]
	products  map[uuid.UUID]*domain.Product
	lastQuery domain.ProductQuery
}

func (f *fakeCatalog) ListProducts(_ context.Context, q domain.ProductQuery) usecase.ListState[domain.Product] {
	f.lastQuery = q
	return f.state
}

func (f *fakeCatalog) FeaturedProducts(_ context.Context) usecase.ListState[domain.Product] {
	return f.state
}

func (f *fakeCatalog) GetProduct(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, e.Wrap("fakeCatalog.GetProduct", e.ErrProductNotFound)
	}
	return p, nil
}

func (f *fakeCatalog) GetProducts(_ context.Context, ids []uuid.UUID) (*usecase.GetProductsRes, error) {
	var found []domain.Product
	var missing []uuid.UUID
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			found = append(found, *p)
			continue
		}
		missing = append(missing, id)
	}
	return usecase.NewGetProductsRes(found, missing), nil
}

func (f *fakeCatalog) ListCategories(_ context.Context) usecase.ListState[domain.Category] {
	return usecase.NewListState([]domain.Category{{ID: uuid.New(), Name: "Teddy", Slug: "teddy"}})
}

func (f *fakeCatalog) ListFeaturedItems(_ context.Context) usecase.ListState[domain.FeaturedItem] {
	return usecase.FailedListState[domain.FeaturedItem]()
}

type fakeProducts struct {
	mu       sync.Mutex
	created  []*domain.ProductInput
	actors   []domain.Actor
	uploaded *usecase.UploadImagesReq
	err      error
}

func (f *fakeProducts) record(actor domain.Actor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actors = append(f.actors, actor)
}

func (f *fakeProducts) ListProducts(_ context.Context, actor domain.Actor, _ domain.StatusFilter) (usecase.ListState[domain.Product], error) {
	f.record(actor)
	return usecase.NewListState[domain.Product](nil), nil
}

func (f *fakeProducts) Stats(_ context.Context, actor domain.Actor) (*usecase.CatalogStats, error) {
	f.record(actor)
	return &usecase.CatalogStats{Total: 3, Draft: 1, Live: 2}, nil
}

func (f *fakeProducts) GetProduct(_ context.Context, _ domain.Actor, id uuid.UUID) (*domain.Product, error) {
	return nil, e.ErrProductNotFound
}

func (f *fakeProducts) CreateProduct(_ context.Context, actor domain.Actor, in *domain.ProductInput) (*domain.Product, error) {
	f.record(actor)
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return domain.NewProduct(in, actor.UserID), nil
}

func (f *fakeProducts) UpdateProduct(_ context.Context, _ domain.Actor, _ uuid.UUID, _ *domain.ProductInput) (*domain.Product, error) {
	return nil, e.ErrProductNotFound
}

func (f *fakeProducts) ApproveProduct(_ context.Context, actor domain.Actor, _ uuid.UUID) (*domain.Product, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, e.Wrap("fakeProducts.ApproveProduct", e.ErrForbidden)
	}
	return nil, e.ErrInvalidTransition
}

func (f *fakeProducts) ToggleStock(_ context.Context, _ domain.Actor, _ uuid.UUID) (*domain.Product, error) {
	return nil, e.ErrInvalidTransition
}

func (f *fakeProducts) DeleteProduct(_ context.Context, _ domain.Actor, _ uuid.UUID) error {
	return nil
}

func (f *fakeProducts) UploadImages(_ context.Context, _ domain.Actor, req *usecase.UploadImagesReq) (*usecase.UploadImagesRes, error) {
	f.uploaded = req
	urls := make([]string, len(req.Images))
	for i, img := range req.Images {
		urls[i] = "https://cdn/products/" + img.Name
	}
	return usecase.NewUploadImagesRes(urls, urls), nil
}

type fakeCategories struct{}

func (fakeCategories) CreateCategory(_ context.Context, _ domain.Actor, in *domain.CategoryInput) (*domain.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, e.NewFieldError("name", e.ErrCategoryNameRequired)
	}
	return domain.NewCategory(in)
}

func (fakeCategories) UpdateCategory(_ context.Context, _ domain.Actor, _ uuid.UUID, _ *domain.CategoryInput) (*domain.Category, error) {
	return nil, e.ErrCategoryNotFound
}

func (fakeCategories) DeleteCategory(_ context.Context, actor domain.Actor, _ uuid.UUID) error {
	if actor.Role != domain.RoleAdmin {
		return e.ErrForbidden
	}
	return nil
}

// fakeSessions выдаёт контекст по заранее известным токенам.
type fakeSessions struct {
	byToken   map[string]*session.Context
	tornDown  int
	refreshed int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byToken: make(map[string]*session.Context)}
}

func (f *fakeSessions) add(token string, role domain.Role) *session.Context {
	id := uuid.New()
	sc := &session.Context{
		Session: &identity.Session{
			AccessToken: token,
			TokenID:     token,
			User:        &identity.User{ID: id, Email: string(role) + "@example.com", FullName: string(role)},
			ExpiresAt:   time.Now().Add(time.Hour),
		},
		Profile: &domain.Profile{ID: id, FullName: string(role), Role: role},
	}
	f.byToken[token] = sc
	return sc
}

func (f *fakeSessions) Initialize(_ context.Context, token string) (*session.Context, error) {
	sc, ok := f.byToken[token]
	if !ok {
		return nil, e.ErrUnauthenticated
	}
	return sc, nil
}

func (f *fakeSessions) Refresh(_ context.Context, c *session.Context) (*session.Context, error) {
	f.refreshed++
	return c, nil
}

func (f *fakeSessions) Teardown(_ context.Context, _ *session.Context) (*session.Context, error) {
	f.tornDown++
	return session.Anonymous(), nil
}

type fakeIdentity struct {
	sessions *fakeSessions
	confirm  bool
}

func (f *fakeIdentity) SignUp(_ context.Context, req *identity.SignUpReq) (*identity.SignUpResult, error) {
	if f.confirm {
		return &identity.SignUpResult{NeedsEmailConfirmation: true, ConfirmationToken: "confirm-me"}, nil
	}
	sc := f.sessions.add("tok-new", domain.RoleCustomer)
	return &identity.SignUpResult{Session: sc.Session}, nil
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*identity.Session, error) {
	if email != "staff@example.com" || password != "secret1" {
		return nil, e.Wrap("fakeIdentity.SignInWithPassword", e.ErrInvalidCredentials)
	}
	return f.sessions.byToken["tok-staff"].Session, nil
}

func (f *fakeIdentity) ConfirmEmail(_ context.Context, token string) (*identity.Session, error) {
	if token != "confirm-me" {
		return nil, e.ErrInvalidConfirmation
	}
	return f.sessions.add("tok-confirmed", domain.RoleCustomer).Session, nil
}
