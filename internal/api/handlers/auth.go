package handlers

import (
	"net/http"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/service"
	"github.com/moon90/rms-admin/pkg/logger"
)

// AuthHandler обрабатывает запросы аутентификации
type AuthHandler struct {
	BaseHandler
	userService *service.UserService
}

// NewAuthHandler создает новый экземпляр AuthHandler
func NewAuthHandler(userService *service.UserService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// Login выполняет вход пользователя
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
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

	response, err := h.userService.Login(r.Context(), req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Login successful", response)
}

// Refresh обновляет пару токенов
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshTokenRequest
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

	response, err := h.userService.RefreshToken(r.Context(), req)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "Tokens refreshed", response)
}
