package http

import (
	"net/http"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/orderlink"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/google/uuid"
)

// CatalogHandler обслуживает публичную витрину.
type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	orderLinks     *orderlink.Formatter
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, orderLinks *orderlink.Formatter, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, orderLinks: orderLinks, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров витрины
//	@Description	Только live-товары, новые первыми. Ошибка хранилища возвращается как failed=true.
//	@Tags			catalog
//	@Produce		json
//	@Param			category	query		string	false	"ID категории или all"
//	@Param			tag			query		string	false	"Тег или all"
//	@Success		200			{object}	listResponse[productResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Router			/products [get]
func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	categoryID, err := domain.ParseCategoryFilter(r.URL.Query().Get("category"))
	if err != nil {
		WriteError(w, err)
		return
	}

	state := h.catalogUsecase.ListProducts(r.Context(), domain.PublicQuery(categoryID, r.URL.Query().Get("tag")))
	WriteSuccess(w, http.StatusOK, toListResponse(state, toProductResponse))
}

// featuredProducts
//
//	@Summary	Новинки для главной страницы
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{object}	listResponse[productResponse]
//	@Router		/products/featured [get]
func (h *CatalogHandler) featuredProducts(w http.ResponseWriter, r *http.Request) {
	state := h.catalogUsecase.FeaturedProducts(r.Context())
	WriteSuccess(w, http.StatusOK, toListResponse(state, toProductResponse))
}

// getProduct
//
//	@Summary	Карточка товара
//	@Tags		catalog
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	productResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := h.catalogUsecase.GetProduct(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// getProducts
//
//	@Summary	Пакетное получение товаров
//	@Tags		catalog
//	@Accept		json
//	@Produce	json
//	@Param		request	body		batchProductsRequest	true	"Идентификаторы"
//	@Success	200		{object}	batchProductsResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/products/batch [post]
func (h *CatalogHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	var req batchProductsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			WriteError(w, e.NewFieldError("ids", e.ErrInvalidID))
			return
		}
		ids = append(ids, id)
	}

	res, err := h.catalogUsecase.GetProducts(r.Context(), ids)
	if err != nil {
		WriteError(w, err)
		return
	}

	products := make([]productResponse, len(res.Products))
	for i := range res.Products {
		products[i] = toProductResponse(&res.Products[i])
	}
	notFound := res.NotFoundProducts
	if notFound == nil {
		notFound = []uuid.UUID{}
	}

	WriteSuccess(w, http.StatusOK, batchProductsResponse{Products: products, NotFoundProducts: notFound})
}

// orderLink
//
//	@Summary	Ссылка на заказ товара в WhatsApp
//	@Tags		catalog
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	orderLinkResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id}/order-link [get]
func (h *CatalogHandler) orderLink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := h.catalogUsecase.GetProduct(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	item := orderlink.ItemFromProduct(product)
	WriteSuccess(w, http.StatusOK, orderLinkResponse{
		Message: h.orderLinks.Message(item),
		Link:    h.orderLinks.Link(item),
	})
}

// enquiryLink
//
//	@Summary	Ссылка на общий вопрос в WhatsApp
//	@Tags		shop
//	@Produce	json
//	@Success	200	{object}	orderLinkResponse
//	@Router		/order-link [get]
func (h *CatalogHandler) enquiryLink(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, orderLinkResponse{
		Message: h.orderLinks.Message(nil),
		Link:    h.orderLinks.Link(nil),
	})
}

// listCategories
//
//	@Summary	Категории
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{object}	listResponse[categoryResponse]
//	@Router		/categories [get]
func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	state := h.catalogUsecase.ListCategories(r.Context())
	WriteSuccess(w, http.StatusOK, toListResponse(state, toCategoryResponse))
}

// listFeaturedItems
//
//	@Summary	Промо-блоки главной страницы
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{object}	listResponse[featuredItemResponse]
//	@Router		/featured-items [get]
func (h *CatalogHandler) listFeaturedItems(w http.ResponseWriter, r *http.Request) {
	state := h.catalogUsecase.ListFeaturedItems(r.Context())
	WriteSuccess(w, http.StatusOK, toListResponse(state, toFeaturedItemResponse))
}

// contact
//
//	@Summary	Контакты магазина
//	@Tags		shop
//	@Produce	json
//	@Success	200	{object}	contactResponse
//	@Router		/contact [get]
func (h *CatalogHandler) contact(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, toContactResponse(h.orderLinks.Contact()))
}

// suggestedTags
//
//	@Summary	Теги, которые предлагает форма товара
//	@Tags		shop
//	@Produce	json
//	@Success	200	{array}	string
//	@Router		/tags [get]
func (h *CatalogHandler) suggestedTags(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, domain.SuggestedTags)
}
