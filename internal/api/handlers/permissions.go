package handlers

import (
	"net/http"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/service"
	"github.com/moon90/rms-admin/pkg/logger"
)

// PermissionHandler обрабатывает запросы к ресурсу разрешений
type PermissionHandler struct {
	BaseHandler
	service *service.PermissionService
}

// NewPermissionHandler создает новый экземпляр PermissionHandler
func NewPermissionHandler(service *service.PermissionService, logger logger.Logger) *PermissionHandler {
	return &PermissionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List возвращает страницу разрешений
func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	params := h.GetListParams(r)

	page, err := h.service.List(r.Context(), params.Filter, params.Page, params.PageSize)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithPaged(w, r, page)
}

// Get возвращает разрешение по ID
func (h *PermissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	permission, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "OK", permission)
}

// Create создает новое разрешение
func (h *PermissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.PermissionCreateRequest
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

	permission, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, "Permission created", permission)
}

// Update обновляет данные разрешения
func (h *PermissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	var req domain.PermissionUpdateRequest
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

	permission, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Permission updated", permission)
}

// SetStatus включает или отключает разрешение
func (h *PermissionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
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

	h.RespondWithSuccess(w, r, "Permission status updated", nil)
}

// Delete удаляет разрешение
func (h *PermissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Permission deleted", nil)
}
