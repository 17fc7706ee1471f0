package listview

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultDebounce - период тишины, после которого введенная поисковая строка
// начинает управлять выборкой
const DefaultDebounce = 300 * time.Millisecond

// Fetcher загружает одну страницу у внешнего источника данных
type Fetcher[T any] func(ctx context.Context, q Query) (Page[T], error)

// ControllerConfig содержит настройки контроллера списка
type ControllerConfig struct {
	// SortColumns - список колонок, по которым бэкенд умеет сортировать;
	// SetSort по неизвестной колонке игнорируется
	SortColumns []string
	// DefaultSort задает колонку сортировки свежего экрана
	DefaultSort string
	// Debounce переопределяет период тишины поиска; ноль означает DefaultDebounce
	Debounce time.Duration
}

// Controller владеет состоянием одного списочного экрана: параметрами
// выборки, текущим снимком страницы и флагом загрузки. Все выборки идут
// через привязанный Fetcher. Каждому запросу присваивается порядковый
// номер; ответы с номером меньше последнего отправленного отбрасываются,
// поэтому устаревший ответ не может затереть более новый
type Controller[T any] struct {
	mu       sync.Mutex
	fetch    Fetcher[T]
	notifier Notifier
	columns  map[string]bool
	debounce time.Duration

	query         Query
	pendingSearch string
	searchTimer   *time.Timer

	seq      uint64
	inFlight int
	page     Page[T]
	failed   bool
}

// NewController создает контроллер с параметрами свежего экрана
func NewController[T any](fetch Fetcher[T], notifier Notifier, cfg ControllerConfig) *Controller[T] {
	columns := make(map[string]bool, len(cfg.SortColumns))
	for _, col := range cfg.SortColumns {
		columns[col] = true
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	query := DefaultQuery()
	if cfg.DefaultSort != "" && columns[cfg.DefaultSort] {
		query.SortColumn = cfg.DefaultSort
	}

	return &Controller[T]{
		fetch:    fetch,
		notifier: notifier,
		columns:  columns,
		debounce: debounce,
		query:    query,
	}
}

// Query возвращает текущие параметры выборки
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Items возвращает записи текущей страницы
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.Items
}

// TotalRecords возвращает общее число записей по последней успешной выборке
func (c *Controller[T]) TotalRecords() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.TotalRecords
}

// TotalPages возвращает число страниц по последней успешной выборке
func (c *Controller[T]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.TotalPages(c.page.TotalRecords)
}

// Loading сообщает, выполняется ли сейчас выборка
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

// Failed сообщает, завершилась ли последняя выборка ошибкой
func (c *Controller[T]) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

// PendingSearch возвращает поисковую строку для немедленного отображения в
// поле ввода; выборкой она начнет управлять только после периода тишины
func (c *Controller[T]) PendingSearch() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingSearch
}

// SetPage переходит на страницу n; остальные параметры не меняются
func (c *Controller[T]) SetPage(ctx context.Context, n int) {
	c.mu.Lock()
	if n < 1 {
		n = 1
	}
	c.query.PageNumber = n
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SetPageSize меняет размер страницы и возвращается на первую страницу
func (c *Controller[T]) SetPageSize(ctx context.Context, n int) {
	c.mu.Lock()
	c.query.PageSize = n
	c.query.PageNumber = 1
	c.query.normalize()
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SetSort сортирует по колонке; повторный вызов по той же колонке меняет
// направление на противоположное. Неизвестные колонки игнорируются
func (c *Controller[T]) SetSort(ctx context.Context, column string) {
	c.mu.Lock()
	if !c.columns[column] {
		c.mu.Unlock()
		return
	}
	if c.query.SortColumn == column {
		if c.query.SortDirection == SortAsc {
			c.query.SortDirection = SortDesc
		} else {
			c.query.SortDirection = SortAsc
		}
	} else {
		c.query.SortColumn = column
		c.query.SortDirection = SortAsc
	}
	c.query.PageNumber = 1
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SetStatusFilter меняет фильтр по статусу (nil - без фильтра) и
// возвращается на первую страницу
func (c *Controller[T]) SetStatusFilter(ctx context.Context, status *bool) {
	c.mu.Lock()
	c.query.StatusFilter = status
	c.query.PageNumber = 1
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SetSearch запоминает введенную строку и перезапускает таймер тишины;
// выборку запустит только последнее значение в пределах периода тишины
func (c *Controller[T]) SetSearch(ctx context.Context, text string) {
	c.mu.Lock()
	c.pendingSearch = text
	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
	c.searchTimer = time.AfterFunc(c.debounce, func() {
		c.commitSearch(ctx)
	})
	c.mu.Unlock()
}

// commitSearch применяет отложенную поисковую строку и запускает выборку
func (c *Controller[T]) commitSearch(ctx context.Context) {
	c.mu.Lock()
	c.query.SearchQuery = c.pendingSearch
	c.query.PageNumber = 1
	c.mu.Unlock()
	c.Refresh(ctx)
}

// Close останавливает таймер отложенного поиска
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
}

// Refresh выполняет выборку с текущими параметрами. Ответ замещает снимок
// страницы целиком; при ошибке снимок очищается, сообщение уходит в
// Notifier, повторных попыток нет. Если выборка попала за последнюю
// страницу, номер страницы приводится к последней и выборка повторяется
func (c *Controller[T]) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.query.normalize()
	q := c.query
	c.seq++
	seq := c.seq
	c.inFlight++
	c.mu.Unlock()

	page, err := c.fetch(ctx, q)

	c.mu.Lock()
	c.inFlight--

	// Отбрасываем устаревший ответ: после нас отправляли более новый запрос
	if seq < c.seq {
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.page = Page[T]{}
		c.failed = true
		c.mu.Unlock()
		c.notifyError(err)
		return
	}

	c.failed = false
	c.page = page

	// Клэмп: запрошенная страница оказалась за последней
	last := q.TotalPages(page.TotalRecords)
	if q.PageNumber > last && len(page.Items) == 0 && page.TotalRecords > 0 {
		c.query.PageNumber = last
		c.mu.Unlock()
		c.Refresh(ctx)
		return
	}
	c.mu.Unlock()
}

// notifyError поднимает сообщение сервера либо общий текст
func (c *Controller[T]) notifyError(err error) {
	if c.notifier == nil {
		return
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		c.notifier.Error(apiErr.Message)
		return
	}
	c.notifier.Error("Failed to load data")
}
