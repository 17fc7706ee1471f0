package handlers

import (
	"net/http"
	"strconv"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/internal/service"
	"github.com/moon90/rms-admin/pkg/logger"
)

// StockHandler обрабатывает запросы к ресурсу складских операций
type StockHandler struct {
	BaseHandler
	service *service.StockService
}

// NewStockHandler создает новый экземпляр StockHandler
func NewStockHandler(service *service.StockService, logger logger.Logger) *StockHandler {
	return &StockHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List возвращает страницу складских операций
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	params := h.GetListParams(r)

	filter := repository.StockFilter{ListFilter: params.Filter}
	if v := r.URL.Query().Get("productID"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			filter.ProductID = &parsed
		}
	}
	if v := r.URL.Query().Get("type"); v != "" {
		t := domain.StockTransactionType(v)
		if t == domain.StockIn || t == domain.StockOut || t == domain.StockAdjustment {
			filter.Type = &t
		}
	}

	page, err := h.service.List(r.Context(), filter, params.Page, params.PageSize)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithPaged(w, r, page)
}

// Get возвращает складскую операцию по ID
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	transaction, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "OK", transaction)
}

// Create создает складскую операцию
func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := h.GetUserIDFromContext(r)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	var req domain.StockTransactionCreateRequest
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

	transaction, err := h.service.Create(r.Context(), req, userID)
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, "Stock transaction created", transaction)
}
