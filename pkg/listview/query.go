package listview

import (
	"net/url"
	"strconv"
)

// SortDirection определяет направление сортировки
type SortDirection string

const (
	// SortAsc - сортировка по возрастанию
	SortAsc SortDirection = "asc"
	// SortDesc - сортировка по убыванию
	SortDesc SortDirection = "desc"
)

// Допустимые размеры страницы
var allowedPageSizes = map[int]bool{5: true, 10: true, 25: true, 50: true}

// DefaultPageSize используется, когда размер страницы не задан или недопустим
const DefaultPageSize = 10

// Query описывает параметры одной выборки списка: страница, размер страницы,
// поисковая строка, сортировка и фильтр по статусу
type Query struct {
	PageNumber    int
	PageSize      int
	SearchQuery   string
	SortColumn    string
	SortDirection SortDirection
	StatusFilter  *bool
}

// DefaultQuery возвращает параметры свежесмонтированного экрана:
// первая страница, сортировка по возрастанию, пустой фильтр
func DefaultQuery() Query {
	return Query{
		PageNumber:    1,
		PageSize:      DefaultPageSize,
		SortDirection: SortAsc,
	}
}

// normalize приводит параметры к допустимым значениям
func (q *Query) normalize() {
	if q.PageNumber < 1 {
		q.PageNumber = 1
	}
	if !allowedPageSizes[q.PageSize] {
		q.PageSize = DefaultPageSize
	}
	if q.SortDirection != SortAsc && q.SortDirection != SortDesc {
		q.SortDirection = SortAsc
	}
}

// TotalPages возвращает количество страниц для известного числа записей;
// минимум одна страница, чтобы клэмп никогда не уводил за пределы
func (q Query) TotalPages(totalRecords int) int {
	if totalRecords <= 0 {
		return 1
	}
	pages := (totalRecords + q.PageSize - 1) / q.PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Values кодирует параметры запроса в query string по контракту бэкенда
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("pageNumber", strconv.Itoa(q.PageNumber))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.SearchQuery != "" {
		v.Set("searchQuery", q.SearchQuery)
	}
	if q.SortColumn != "" {
		v.Set("sortColumn", q.SortColumn)
		v.Set("sortDirection", string(q.SortDirection))
	}
	if q.StatusFilter != nil {
		v.Set("status", strconv.FormatBool(*q.StatusFilter))
	}
	return v
}

// Page представляет один снимок списка: записи текущей страницы и общее
// количество записей; снимок полностью замещается следующей успешной выборкой
type Page[T any] struct {
	Items        []T
	TotalRecords int
}
