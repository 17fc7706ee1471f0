package handlers

import (
	"net/http"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/service"
	"github.com/moon90/rms-admin/pkg/logger"
)

// ProductHandler обрабатывает запросы к ресурсу складских позиций
type ProductHandler struct {
	BaseHandler
	service *service.ProductService
}

// NewProductHandler создает новый экземпляр ProductHandler
func NewProductHandler(service *service.ProductService, logger logger.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List возвращает страницу складских позиций
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := h.GetListParams(r)

	page, err := h.service.List(r.Context(), params.Filter, params.Page, params.PageSize)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithPaged(w, r, page)
}

// Get возвращает складскую позицию по ID
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "OK", product)
}

// Create создает новую складскую позицию
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductCreateRequest
	if err := h.ParseJSON(r, &req); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	details, err := h.ValidateRequest(req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}
	if details != nil {
		h.RespondWithValidationErrors(w, r, details)
		return
	}

	product, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, "Product created", product)
}

// Update обновляет данные складской позиции
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	var req domain.ProductUpdateRequest
	if err := h.ParseJSON(r, &req); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	details, err := h.ValidateRequest(req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}
	if details != nil {
		h.RespondWithValidationErrors(w, r, details)
		return
	}

	product, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Product updated", product)
}

// SetStatus включает или отключает складскую позицию
func (h *ProductHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	var req domain.StatusRequest
	if err := h.ParseJSON(r, &req); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	details, err := h.ValidateRequest(req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}
	if details != nil {
		h.RespondWithValidationErrors(w, r, details)
		return
	}

	if err := h.service.SetStatus(r.Context(), id, *req.Status); err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Product status updated", nil)
}

// Delete удаляет складскую позицию
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Product deleted", nil)
}

// GetIngredients возвращает состав продукта
func (h *ProductHandler) GetIngredients(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	rows, err := h.service.GetIngredients(r.Context(), id)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "OK", rows)
}

// ReplaceIngredients целиком заменяет состав продукта
func (h *ProductHandler) ReplaceIngredients(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	var rows []domain.CompositionRow
	if err := h.ParseJSON(r, &rows); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	for _, row := range rows {
		details, err := h.ValidateRequest(row)
		if err != nil {
			h.RespondWithAppError(w, r, err)
			return
		}
		if details != nil {
			h.RespondWithValidationErrors(w, r, details)
			return
		}
	}

	if err := h.service.ReplaceIngredients(r.Context(), id, rows); err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Product composition updated", nil)
}
