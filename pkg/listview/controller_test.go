package listview

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestControllerDefaults(t *testing.T) {
	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		return Page[int]{}, nil
	}
	c := NewController(fetch, nil, ControllerConfig{
		SortColumns: []string{"name", "createdDate"},
		DefaultSort: "name",
	})

	q := c.Query()
	if q.PageNumber != 1 {
		t.Fatalf("expected page 1, got %d", q.PageNumber)
	}
	if q.PageSize != DefaultPageSize {
		t.Fatalf("expected page size %d, got %d", DefaultPageSize, q.PageSize)
	}
	if q.SortColumn != "name" || q.SortDirection != SortAsc {
		t.Fatalf("unexpected default sort: %s %s", q.SortColumn, q.SortDirection)
	}
}

func TestControllerRefreshReplacesSnapshot(t *testing.T) {
	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		return Page[int]{Items: []int{1, 2, 3}, TotalRecords: 3}, nil
	}
	c := NewController(fetch, nil, ControllerConfig{})

	c.Refresh(context.Background())

	if got := c.Items(); len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	if c.TotalRecords() != 3 {
		t.Fatalf("expected 3 total records, got %d", c.TotalRecords())
	}
	if c.Loading() {
		t.Fatalf("loading should be false after refresh completes")
	}
}

func TestControllerStaleResponseDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
			return Page[int]{Items: []int{1}, TotalRecords: 1}, nil
		}
		return Page[int]{Items: []int{2}, TotalRecords: 1}, nil
	}
	c := NewController(fetch, nil, ControllerConfig{})

	done := make(chan struct{})
	go func() {
		c.Refresh(context.Background())
		close(done)
	}()
	<-started

	// A newer fetch completes while the first one is still in flight
	c.Refresh(context.Background())
	close(release)
	<-done

	items := c.Items()
	if len(items) != 1 || items[0] != 2 {
		t.Fatalf("stale response overwrote newer snapshot: %v", items)
	}
}

func TestControllerPageClamp(t *testing.T) {
	var pages []int
	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		pages = append(pages, q.PageNumber)
		if q.PageNumber > 2 {
			return Page[int]{Items: nil, TotalRecords: 12}, nil
		}
		return Page[int]{Items: []int{1, 2}, TotalRecords: 12}, nil
	}
	c := NewController(fetch, nil, ControllerConfig{})

	c.SetPage(context.Background(), 5)

	if got := c.Query().PageNumber; got != 2 {
		t.Fatalf("expected clamp to page 2, got %d", got)
	}
	if len(pages) != 2 || pages[0] != 5 || pages[1] != 2 {
		t.Fatalf("unexpected fetch sequence: %v", pages)
	}
	if len(c.Items()) != 2 {
		t.Fatalf("expected items from the clamped page")
	}
}

func TestControllerSmallPagesClamp(t *testing.T) {
	total := 23
	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		start := (q.PageNumber - 1) * q.PageSize
		if start >= total {
			return Page[int]{Items: nil, TotalRecords: total}, nil
		}
		count := total - start
		if count > q.PageSize {
			count = q.PageSize
		}
		return Page[int]{Items: make([]int, count), TotalRecords: total}, nil
	}
	c := NewController(fetch, nil, ControllerConfig{})

	c.SetPageSize(context.Background(), 5)
	if got := c.TotalPages(); got != 5 {
		t.Fatalf("expected 5 pages for 23 records, got %d", got)
	}

	c.SetPage(context.Background(), 6)
	if got := c.Query().PageNumber; got != 5 {
		t.Fatalf("expected clamp to last page 5, got %d", got)
	}
	if got := len(c.Items()); got != 3 {
		t.Fatalf("last page should hold 3 records, got %d", got)
	}
}

func TestControllerStatusFilterRefetchesOnce(t *testing.T) {
	var calls []Query
	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		calls = append(calls, q)
		return Page[int]{Items: []int{1}, TotalRecords: 1}, nil
	}
	c := NewController(fetch, nil, ControllerConfig{})

	inactive := false
	c.SetStatusFilter(context.Background(), &inactive)

	if len(calls) != 1 {
		t.Fatalf("expected exactly one refetch, got %d", len(calls))
	}
	if calls[0].StatusFilter == nil || *calls[0].StatusFilter {
		t.Fatalf("status=false must reach the fetcher, got %+v", calls[0].StatusFilter)
	}
	if calls[0].PageNumber != 1 {
		t.Fatalf("filter change should reset to page 1, got %d", calls[0].PageNumber)
	}
}

func TestControllerSortToggle(t *testing.T) {
	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		return Page[int]{}, nil
	}
	c := NewController(fetch, nil, ControllerConfig{
		SortColumns: []string{"name", "price"},
	})

	c.SetSort(context.Background(), "name")
	if q := c.Query(); q.SortColumn != "name" || q.SortDirection != SortAsc {
		t.Fatalf("first sort should be ascending, got %s %s", q.SortColumn, q.SortDirection)
	}

	c.SetSort(context.Background(), "name")
	if q := c.Query(); q.SortDirection != SortDesc {
		t.Fatalf("second sort on same column should flip direction, got %s", q.SortDirection)
	}

	c.SetSort(context.Background(), "price")
	if q := c.Query(); q.SortColumn != "price" || q.SortDirection != SortAsc {
		t.Fatalf("new column should reset to ascending, got %s %s", q.SortColumn, q.SortDirection)
	}

	c.SetSort(context.Background(), "nosuchcolumn")
	if q := c.Query(); q.SortColumn != "price" {
		t.Fatalf("unknown column should be ignored, got %s", q.SortColumn)
	}
}

func TestControllerSortResetsPage(t *testing.T) {
	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		return Page[int]{Items: []int{1}, TotalRecords: 100}, nil
	}
	c := NewController(fetch, nil, ControllerConfig{SortColumns: []string{"name"}})

	c.SetPage(context.Background(), 3)
	c.SetSort(context.Background(), "name")

	if got := c.Query().PageNumber; got != 1 {
		t.Fatalf("sort change should return to page 1, got %d", got)
	}
}

func TestControllerPageSizeNormalized(t *testing.T) {
	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		return Page[int]{}, nil
	}
	c := NewController(fetch, nil, ControllerConfig{})

	c.SetPageSize(context.Background(), 25)
	if got := c.Query().PageSize; got != 25 {
		t.Fatalf("expected page size 25, got %d", got)
	}

	c.SetPageSize(context.Background(), 17)
	if got := c.Query().PageSize; got != DefaultPageSize {
		t.Fatalf("disallowed page size should fall back to %d, got %d", DefaultPageSize, got)
	}
}

func TestControllerSearchDebounce(t *testing.T) {
	var searches []string
	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		searches = append(searches, q.SearchQuery)
		return Page[int]{}, nil
	}
	c := NewController(fetch, nil, ControllerConfig{Debounce: 50 * time.Millisecond})
	defer c.Close()

	ctx := context.Background()
	c.SetSearch(ctx, "p")
	c.SetSearch(ctx, "pi")
	c.SetSearch(ctx, "pizza")

	if got := c.PendingSearch(); got != "pizza" {
		t.Fatalf("pending search should reflect latest input, got %q", got)
	}

	time.Sleep(200 * time.Millisecond)

	// Query acquires the controller lock, ordering the read of searches
	// after the timer goroutine's fetch
	if got := c.Query().SearchQuery; got != "pizza" {
		t.Fatalf("only the final input should drive the query, got %q", got)
	}
	if len(searches) != 1 || searches[0] != "pizza" {
		t.Fatalf("only the final input should trigger a fetch, got %v", searches)
	}
	if got := c.Query().PageNumber; got != 1 {
		t.Fatalf("search should return to page 1, got %d", got)
	}
}

func TestControllerFetchErrorClearsSnapshot(t *testing.T) {
	notifier := &recordingNotifier{}
	fail := false
	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		if fail {
			return Page[int]{}, &APIError{Message: "Server exploded"}
		}
		return Page[int]{Items: []int{1}, TotalRecords: 1}, nil
	}
	c := NewController(fetch, notifier, ControllerConfig{})

	c.Refresh(context.Background())
	if len(c.Items()) != 1 {
		t.Fatalf("expected one item before failure")
	}

	fail = true
	c.Refresh(context.Background())

	if !c.Failed() {
		t.Fatalf("failed flag should be set")
	}
	if len(c.Items()) != 0 {
		t.Fatalf("snapshot should be cleared on failure")
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "Server exploded" {
		t.Fatalf("server message should be surfaced, got %v", notifier.errors)
	}

	fail = false
	c.Refresh(context.Background())
	if c.Failed() {
		t.Fatalf("failed flag should clear after a successful fetch")
	}
}

func TestControllerGenericErrorMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	fetch := func(ctx context.Context, q Query) (Page[int], error) {
		return Page[int]{}, errors.New("dial tcp: connection refused")
	}
	c := NewController(fetch, notifier, ControllerConfig{})

	c.Refresh(context.Background())

	if len(notifier.errors) != 1 || notifier.errors[0] != "Failed to load data" {
		t.Fatalf("transport errors should show the generic message, got %v", notifier.errors)
	}
}

type recordingNotifier struct {
	successes []string
	errors    []string
	infos     []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }
func (n *recordingNotifier) Info(msg string)    { n.infos = append(n.infos, msg) }
