package http

import (
	_ "github.com/DRSN-tech/giftshop-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/DRSN-tech/giftshop-backend/internal/orderlink"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Deps — всё, что нужно обработчикам HTTP API.
type Deps struct {
	Catalog    usecase.CatalogUC
	Products   usecase.ProductUC
	Categories usecase.CategoryUC
	Identity   Identity
	Sessions   SessionManager
	OrderLinks *orderlink.Formatter
	Cookies    *TokenCookies
	Uploads    *cfg.MinIOCfg
}

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(deps *Deps) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(middleware.Recoverer)
	r.router.Use(requestLogger(r.logger))

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(withSession(deps.Sessions, deps.Cookies, r.logger))

		registerCatalogRoutes(v1, NewCatalogHandler(deps.Catalog, deps.OrderLinks, r.logger))
		registerAuthRoutes(v1, NewAuthHandler(deps.Identity, deps.Sessions, deps.Cookies, r.logger))

		v1.Route("/admin", func(adm chi.Router) {
			adm.Use(requireCatalogRole)

			registerAdminRoutes(adm, NewAdminHandler(deps.Products, deps.Uploads, r.logger))
			registerCategoryRoutes(adm, NewCategoryHandler(deps.Categories, r.logger))
		})
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Get("/featured", h.featuredProducts)
		pr.Post("/batch", h.getProducts)
		pr.Get("/{id}", h.getProduct)
		pr.Get("/{id}/order-link", h.orderLink)
	})

	router.Get("/categories", h.listCategories)
	router.Get("/featured-items", h.listFeaturedItems)
	router.Get("/tags", h.suggestedTags)
	router.Get("/contact", h.contact)
	router.Get("/order-link", h.enquiryLink)
}

func registerAuthRoutes(router chi.Router, h *AuthHandler) {
	router.Route("/auth", func(auth chi.Router) {
		auth.Post("/sign-up", h.signUp)
		auth.Post("/sign-in", h.signIn)
		auth.Post("/confirm", h.confirmEmail)
		auth.Post("/sign-out", h.signOut)
		auth.Get("/session", h.currentSession)
		auth.With(requireAuth).Post("/refresh", h.refreshSession)
	})
}

func registerAdminRoutes(router chi.Router, h *AdminHandler) {
	router.Get("/stats", h.stats)
	router.Post("/images", h.uploadImages)

	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Post("/", h.createProduct)
		pr.Get("/{id}", h.getProduct)
		pr.Put("/{id}", h.updateProduct)
		pr.Delete("/{id}", h.deleteProduct)
		pr.Post("/{id}/approve", h.approveProduct)
		pr.Post("/{id}/toggle-stock", h.toggleStock)
	})
}

func registerCategoryRoutes(router chi.Router, h *CategoryHandler) {
	router.Route("/categories", func(cat chi.Router) {
		cat.Post("/", h.createCategory)
		cat.Put("/{id}", h.updateCategory)
		cat.Delete("/{id}", h.deleteCategory)
	})
}
