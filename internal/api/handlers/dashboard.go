package handlers

import (
	"net/http"

	"github.com/moon90/rms-admin/internal/service"
	"github.com/moon90/rms-admin/pkg/logger"
)

// DashboardHandler обрабатывает запросы виджетов дашборда
type DashboardHandler struct {
	BaseHandler
	stockService *service.StockService
}

// NewDashboardHandler создает новый экземпляр DashboardHandler
func NewDashboardHandler(stockService *service.StockService, logger logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:  NewBaseHandler(logger),
		stockService: stockService,
	}
}

// LowStock возвращает позиции с остатком не выше порога дозаказа
func (h *DashboardHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.stockService.LowStock(r.Context())
	if err != nil {
		h.RespondWithAppError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, "OK", items)
}
