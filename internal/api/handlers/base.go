package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/moon90/rms-admin/internal/api/middleware"
	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

// Response представляет стандартный конверт ответа API
type Response struct {
	IsSuccess bool         `json:"isSuccess"`
	Message   string       `json:"message"`
	Data      interface{}  `json:"data,omitempty"`
	Details   []FieldError `json:"details,omitempty"`
}

// FieldError представляет одну ошибку валидации поля
type FieldError struct {
	PropertyName string `json:"propertyName"`
	ErrorMessage string `json:"errorMessage"`
}

// ListParams содержит разобранные параметры списочного запроса
type ListParams struct {
	Page     int
	PageSize int
	Filter   repository.ListFilter
}

// Допустимые размеры страницы; прочие значения приводятся к значению
// по умолчанию
var allowedPageSizes = map[int]bool{5: true, 10: true, 25: true, 50: true}

const defaultPageSize = 10

// BaseHandler содержит общие методы для всех обработчиков
type BaseHandler struct {
	Logger    logger.Logger
	Validator *validator.Validate
}

// NewBaseHandler создает новый экземпляр BaseHandler
func NewBaseHandler(logger logger.Logger) BaseHandler {
	return BaseHandler{
		Logger:    logger,
		Validator: validator.New(),
	}
}

// Respond отправляет ответ с указанным кодом статуса
func (h *BaseHandler) Respond(w http.ResponseWriter, r *http.Request, statusCode int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.Logger.Error("Failed to encode response", err)
	}
}

// RespondWithSuccess отправляет успешный ответ
func (h *BaseHandler) RespondWithSuccess(w http.ResponseWriter, r *http.Request, message string, data interface{}) {
	h.Respond(w, r, http.StatusOK, Response{
		IsSuccess: true,
		Message:   message,
		Data:      data,
	})
}

// RespondWithCreated отправляет ответ о созданном ресурсе
func (h *BaseHandler) RespondWithCreated(w http.ResponseWriter, r *http.Request, message string, data interface{}) {
	h.Respond(w, r, http.StatusCreated, Response{
		IsSuccess: true,
		Message:   message,
		Data:      data,
	})
}

// RespondWithPaged отправляет страницу списка
func (h *BaseHandler) RespondWithPaged(w http.ResponseWriter, r *http.Request, page *domain.PagedResponse) {
	h.RespondWithSuccess(w, r, "OK", page)
}

// RespondWithError отправляет ответ с ошибкой
func (h *BaseHandler) RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	h.Respond(w, r, statusCode, Response{
		IsSuccess: false,
		Message:   message,
	})
}

// RespondWithAppError преобразует ошибку приложения в ответ API
func (h *BaseHandler) RespondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.FromError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("Request failed", err, map[string]interface{}{
			"path":   r.URL.Path,
			"method": r.Method,
		})
	}
	h.RespondWithError(w, r, appErr.StatusCode, appErr.Message)
}

// RespondWithValidationErrors отправляет ответ с ошибками валидации полей
func (h *BaseHandler) RespondWithValidationErrors(w http.ResponseWriter, r *http.Request, details []FieldError) {
	h.Respond(w, r, http.StatusBadRequest, Response{
		IsSuccess: false,
		Message:   "Validation failed",
		Details:   details,
	})
}

// ParseJSON разбирает JSON из тела запроса
func (h *BaseHandler) ParseJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// ValidateRequest проверяет валидность структуры запроса
func (h *BaseHandler) ValidateRequest(data interface{}) ([]FieldError, error) {
	if err := h.Validator.Struct(data); err != nil {
		var details []FieldError
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				details = append(details, FieldError{
					PropertyName: lowerFirst(fieldErr.Field()),
					ErrorMessage: getErrorMsg(fieldErr),
				})
			}
			return details, nil
		}
		return nil, err
	}
	return nil, nil
}

// GetListParams извлекает параметры списочного запроса
func (h *BaseHandler) GetListParams(r *http.Request) ListParams {
	query := r.URL.Query()

	page := 1
	if v := query.Get("pageNumber"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}

	pageSize := defaultPageSize
	if v := query.Get("pageSize"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && allowedPageSizes[parsed] {
			pageSize = parsed
		}
	}

	filter := repository.ListFilter{}

	if v := strings.TrimSpace(query.Get("searchQuery")); v != "" {
		filter.Search = &v
	}

	if v := query.Get("sortColumn"); v != "" {
		filter.OrderBy = &v
	}

	if v := query.Get("sortDirection"); v == "asc" || v == "desc" {
		filter.OrderDir = &v
	}

	if v := query.Get("status"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			filter.Status = &parsed
		}
	}

	return ListParams{
		Page:     page,
		PageSize: pageSize,
		Filter:   filter,
	}
}

// GetIDParam извлекает целочисленный параметр id из URL
func (h *BaseHandler) GetIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest("Invalid ID")
	}
	return id, nil
}

// GetUserIDFromContext извлекает ID пользователя из контекста запроса
func (h *BaseHandler) GetUserIDFromContext(r *http.Request) (int, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return 0, apperrors.Unauthorized("")
	}
	return userID, nil
}

// lowerFirst переводит имя поля Go в camelCase-имя JSON-поля
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Функция для получения человекочитаемого сообщения об ошибке валидации
func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum length is %s", err.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", err.Param())
	case "gt":
		return fmt.Sprintf("Value must be greater than %s", err.Param())
	case "gte":
		return fmt.Sprintf("Value must be at least %s", err.Param())
	case "oneof":
		return fmt.Sprintf("Value must be one of: %s", err.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s' with value '%v'", err.Tag(), err.Value())
	}
}
