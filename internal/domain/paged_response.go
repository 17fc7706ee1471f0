package domain

// PagedResponse представляет одну страницу списка для API
type PagedResponse struct {
	Items        interface{} `json:"items"`        // Записи текущей страницы
	TotalRecords int         `json:"totalRecords"` // Общее количество записей
	Page         int         `json:"page"`         // Текущая страница
	PageSize     int         `json:"pageSize"`     // Размер страницы
	TotalPages   int         `json:"totalPages"`   // Общее количество страниц
}

// StatusRequest представляет запрос на включение или отключение записи
type StatusRequest struct {
	Status *bool `json:"status" validate:"required"`
}

// NewPagedResponse собирает страницу списка с посчитанным числом страниц
func NewPagedResponse(items interface{}, total, page, pageSize int) *PagedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &PagedResponse{
		Items:        items,
		TotalRecords: total,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
	}
}
