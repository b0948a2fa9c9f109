package http

import (
	"net/http"

	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
)

type CategoryHandler struct {
	categoryUsecase usecase.CategoryUC
	logger          logger.Logger
}

func NewCategoryHandler(categoryUsecase usecase.CategoryUC, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUsecase: categoryUsecase, logger: logger}
}

// createCategory
//
//	@Summary	Новая категория
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		request	body		categoryRequest	true	"Категория"
//	@Success	201		{object}	categoryResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse	"Slug занят"
//	@Router		/admin/categories [post]
func (h *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	category, err := h.categoryUsecase.CreateCategory(r.Context(), actor(r), req.toInput())
	if err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Infof("category %s created", category.Slug)
	WriteSuccess(w, http.StatusCreated, toCategoryResponse(category))
}

// updateCategory
//
//	@Summary	Редактирование категории
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"ID категории"
//	@Param		request	body		categoryRequest	true	"Категория"
//	@Success	200		{object}	categoryResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/admin/categories/{id} [put]
func (h *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	category, err := h.categoryUsecase.UpdateCategory(r.Context(), actor(r), id, req.toInput())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

// deleteCategory
//
//	@Summary		Удаление категории
//	@Description	Товары категории остаются без категории.
//	@Tags			admin
//	@Param			id	path	string	true	"ID категории"
//	@Success		204
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/admin/categories/{id} [delete]
func (h *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.categoryUsecase.DeleteCategory(r.Context(), actor(r), id); err != nil {
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
