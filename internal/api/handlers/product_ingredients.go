package handlers

import (
	"net/http"
	"strconv"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/internal/service"
	"github.com/moon90/rms-admin/pkg/logger"
)

// ProductIngredientHandler обрабатывает запросы к списочному ресурсу
// «состав блюд»
type ProductIngredientHandler struct {
	BaseHandler
	service *service.ProductIngredientService
}

// NewProductIngredientHandler создает новый экземпляр ProductIngredientHandler
func NewProductIngredientHandler(service *service.ProductIngredientService, logger logger.Logger) *ProductIngredientHandler {
	return &ProductIngredientHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List возвращает страницу строк состава
func (h *ProductIngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	params := h.GetListParams(r)

	filter := repository.ProductIngredientFilter{ListFilter: params.Filter}
	if v := r.URL.Query().Get("productID"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			filter.ProductID = &parsed
		}
	}

	page, err := h.service.List(r.Context(), filter, params.Page, params.PageSize)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithPaged(w, r, page)
}

// Get возвращает строку состава по ID
func (h *ProductIngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	row, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "OK", row)
}

// Create создает новую строку состава
func (h *ProductIngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductIngredientCreateRequest
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

	row, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, "Product ingredient created", row)
}

// Update обновляет строку состава
func (h *ProductIngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	var req domain.ProductIngredientUpdateRequest
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

	row, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Product ingredient updated", row)
}

// Delete удаляет строку состава
func (h *ProductIngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Product ingredient deleted", nil)
}
