package repository

// ListFilter содержит общие параметры выборки списка: поиск, фильтр по
// статусу, сортировку и пагинацию. Конкретные репозитории дополняют его
// собственными полями
type ListFilter struct {
	Search   *string `json:"search,omitempty"`
	Status   *bool   `json:"status,omitempty"`
	OrderBy  *string `json:"order_by,omitempty"`
	OrderDir *string `json:"order_dir,omitempty"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
}
