package handlers

import (
	"net/http"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/service"
	"github.com/moon90/rms-admin/pkg/logger"
)

// IngredientHandler обрабатывает запросы к ресурсу ингредиентов
type IngredientHandler struct {
	BaseHandler
	service *service.IngredientService
}

// NewIngredientHandler создает новый экземпляр IngredientHandler
func NewIngredientHandler(service *service.IngredientService, logger logger.Logger) *IngredientHandler {
	return &IngredientHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List возвращает страницу ингредиентов
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	params := h.GetListParams(r)

	page, err := h.service.List(r.Context(), params.Filter, params.Page, params.PageSize)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithPaged(w, r, page)
}

// Get возвращает ингредиент по ID
func (h *IngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	ingredient, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "OK", ingredient)
}

// Create создает новый ингредиент
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.IngredientCreateRequest
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

	ingredient, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, "Ingredient created", ingredient)
}

// Update обновляет данные ингредиента
func (h *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	var req domain.IngredientUpdateRequest
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

	ingredient, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Ingredient updated", ingredient)
}

// SetStatus включает или отключает ингредиент
func (h *IngredientHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
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

	h.RespondWithSuccess(w, r, "Ingredient status updated", nil)
}

// Delete удаляет ингредиент
func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Ingredient deleted", nil)
}
