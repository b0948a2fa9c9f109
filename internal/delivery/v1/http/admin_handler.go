package http

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/infrastructure"
	"github.com/DRSN-tech/giftshop-backend/internal/session"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
)

// AdminHandler обслуживает админку товаров. Все маршруты за requireCatalogRole.
type AdminHandler struct {
	productUsecase usecase.ProductUC
	uploads        *cfg.MinIOCfg
	logger         logger.Logger
}

func NewAdminHandler(productUsecase usecase.ProductUC, uploads *cfg.MinIOCfg, logger logger.Logger) *AdminHandler {
	return &AdminHandler{productUsecase: productUsecase, uploads: uploads, logger: logger}
}

// listProducts
//
//	@Summary	Товары в админке
//	@Tags		admin
//	@Produce	json
//	@Param		status	query		string	false	"draft, live, out_of_stock или all"
//	@Success	200		{object}	listResponse[productResponse]
//	@Failure	401		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/admin/products [get]
func (h *AdminHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		WriteError(w, err)
		return
	}

	state, err := h.productUsecase.ListProducts(r.Context(), actor(r), status)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toListResponse(state, toProductResponse))
}

// stats
//
//	@Summary	Счётчики товаров по статусам
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	statsResponse
//	@Router		/admin/stats [get]
func (h *AdminHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.productUsecase.Stats(r.Context(), actor(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, statsResponse{
		Total:      stats.Total,
		Draft:      stats.Draft,
		Live:       stats.Live,
		OutOfStock: stats.OutOfStock,
	})
}

// getProduct
//
//	@Summary	Товар в любом статусе
//	@Tags		admin
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	productResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/products/{id} [get]
func (h *AdminHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := h.productUsecase.GetProduct(r.Context(), actor(r), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// createProduct
//
//	@Summary		Новый товар
//	@Description	Товар всегда создаётся в статусе draft и ждёт одобрения администратора.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		productRequest	true	"Товар"
//	@Success		201		{object}	productResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/admin/products [post]
func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeProduct(w, r)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := h.productUsecase.CreateProduct(r.Context(), actor(r), in)
	if err != nil {
		h.logFailure(err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// updateProduct
//
//	@Summary	Редактирование товара
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"ID товара"
//	@Param		request	body		productRequest	true	"Товар"
//	@Success	200		{object}	productResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/admin/products/{id} [put]
func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	in, err := h.decodeProduct(w, r)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := h.productUsecase.UpdateProduct(r.Context(), actor(r), id, in)
	if err != nil {
		h.logFailure(err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// approveProduct
//
//	@Summary	Одобрение черновика
//	@Tags		admin
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	productResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/admin/products/{id}/approve [post]
func (h *AdminHandler) approveProduct(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.productUsecase.ApproveProduct)
}

// toggleStock
//
//	@Summary	Переключение live / out_of_stock
//	@Tags		admin
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	productResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/admin/products/{id}/toggle-stock [post]
func (h *AdminHandler) toggleStock(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.productUsecase.ToggleStock)
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		admin
//	@Param		id	path	string	true	"ID товара"
//	@Success	204
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/products/{id} [delete]
func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.productUsecase.DeleteProduct(r.Context(), actor(r), id); err != nil {
		h.logFailure(err)
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// uploadImages
//
//	@Summary		Загрузка изображений товара
//	@Description	JPEG, PNG или WebP до 5MB. URL возвращаются в порядке файлов.
//	@Tags			admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			product_key	formData	string	false	"ID товара или временный ключ"
//	@Param			images		formData	file	true	"Изображения"
//	@Success		201			{object}	uploadImagesResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		413			{object}	ErrorResponse
//	@Failure		415			{object}	ErrorResponse
//	@Router			/admin/images [post]
func (h *AdminHandler) uploadImages(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 32 << 20

	maxTotal := int64(h.uploads.MaxImagesPerUpload)*h.uploads.MaxImageSize + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxTotal)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	images, err := h.parseImages(r.MultipartForm.File["images"])
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	req := usecase.NewUploadImagesReq(strings.TrimSpace(r.FormValue("product_key")), images)
	res, err := h.productUsecase.UploadImages(r.Context(), actor(r), req)
	if err != nil {
		h.logFailure(err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, uploadImagesResponse{URLs: res.URLs})
}

func (h *AdminHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Product, error),
) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := fn(r.Context(), actor(r), id)
	if err != nil {
		h.logFailure(err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

func (h *AdminHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (*domain.ProductInput, error) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}

	return req.toInput()
}

func (h *AdminHandler) parseImages(files []*multipart.FileHeader) ([]usecase.ProductImage, error) {
	if len(files) == 0 {
		return nil, e.NewFieldError("images", e.ErrNoImages)
	}
	if h.uploads.MaxImagesPerUpload > 0 && len(files) > h.uploads.MaxImagesPerUpload {
		return nil, e.NewFieldError("images", e.ErrTooManyImages)
	}

	images := make([]usecase.ProductImage, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh, h.uploads.MaxImageSize)
		if err != nil {
			return nil, err
		}

		mimeType, err := infrastructure.DetectImageMIME(data)
		if err != nil {
			return nil, e.NewFieldError("images", err)
		}

		images = append(images, *usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename))
	}

	return images, nil
}

// logFailure пишет в лог только неожиданные ошибки; ошибки клиента видны в ответе.
func (h *AdminHandler) logFailure(err error) {
	if code, _, _ := ToHTTPResponse(err); code >= http.StatusInternalServerError {
		h.logger.Errorf(err, "admin request failed")
	}
}

func actor(r *http.Request) domain.Actor {
	return session.FromContext(r.Context()).Actor()
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return e.NewFieldError("images", e.ErrFileTooLarge)
		}
		return e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
	}

	return nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if maxSize > 0 && fh.Size > maxSize {
		return nil, e.NewFieldError("images", e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}
