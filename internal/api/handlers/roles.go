package handlers

import (
	"net/http"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/service"
	"github.com/moon90/rms-admin/pkg/logger"
)

// AssignPermissionsRequest - тело пакетного назначения либо отзыва
// разрешений: массив целочисленных идентификаторов
type AssignPermissionsRequest []int

// RoleHandler обрабатывает запросы к ресурсу ролей
type RoleHandler struct {
	BaseHandler
	service *service.RoleService
}

// NewRoleHandler создает новый экземпляр RoleHandler
func NewRoleHandler(service *service.RoleService, logger logger.Logger) *RoleHandler {
	return &RoleHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List возвращает страницу ролей
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	params := h.GetListParams(r)

	page, err := h.service.List(r.Context(), params.Filter, params.Page, params.PageSize)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithPaged(w, r, page)
}

// Get возвращает роль по ID
func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	role, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "OK", role)
}

// Create создает новую роль
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.RoleCreateRequest
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

	role, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, "Role created", role)
}

// Update обновляет данные роли
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	var req domain.RoleUpdateRequest
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

	role, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Role updated", role)
}

// SetStatus включает или отключает роль
func (h *RoleHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
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

	h.RespondWithSuccess(w, r, "Role status updated", nil)
}

// Delete удаляет роль
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Role deleted", nil)
}

// GetPermissions возвращает разрешения роли
func (h *RoleHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	permissions, err := h.service.GetPermissions(r.Context(), id)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "OK", permissions)
}

// AssignPermissions пакетно назначает роли разрешения
func (h *RoleHandler) AssignPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	var req AssignPermissionsRequest
	if err := h.ParseJSON(r, &req); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.AssignPermissions(r.Context(), id, req); err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Permissions assigned", nil)
}

// UnassignPermissions пакетно отзывает разрешения у роли
func (h *RoleHandler) UnassignPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	var req AssignPermissionsRequest
	if err := h.ParseJSON(r, &req); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UnassignPermissions(r.Context(), id, req); err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Permissions unassigned", nil)
}
