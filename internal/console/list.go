package console

import (
	"context"
	"errors"
	"sync"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/query"
	"github.com/jwalitptl/admin-console/internal/selection"
)

// FetchFunc loads one page of a list with the given filter.
type FetchFunc[T any, F any] func(ctx context.Context, p model.ListParams, f F) (model.Page[T], error)

// ListView is the rendered state of a list page.
type ListView[T any, F any] struct {
	Items      []T              `json:"items"`
	Pagination model.Pagination `json:"pagination"`
	Page       int              `json:"page"`
	Filter     F                `json:"filter"`
	Selected   []string         `json:"selected"`
	Selection  selection.State  `json:"selection"`
	Loading    bool             `json:"loading"`
	Error      string           `json:"error,omitempty"`
}

// listResult is one applied response with the page and filter it was
// requested for, so a view never pairs rows with another request's filter.
type listResult[T any, F any] struct {
	model.Page[T]
	page   int
	filter F
}

// List is the shared controller behind every paginated, filterable page.
// UI state is guarded by mu; fetches run outside it.
type List[T model.Entity, F any] struct {
	family string
	limit  int
	fetch  FetchFunc[T, F]
	params func(F) map[string]string

	mu     sync.Mutex
	page   int
	filter F

	sel   *selection.Set
	query *query.Query[listResult[T, F]]
}

// NewList mounts a list of family on cache. params flattens the filter
// into the query key.
func NewList[T model.Entity, F any](cache *query.Cache, family string, initial F, params func(F) map[string]string, fetch FetchFunc[T, F]) *List[T, F] {
	l := &List[T, F]{
		family: family,
		limit:  model.DefaultPageSize,
		fetch:  fetch,
		params: params,
		page:   1,
		filter: initial,
		sel:    selection.New(),
		query:  query.New[listResult[T, F]](cache, family),
	}
	l.query.OnApply(func(r listResult[T, F]) {
		l.sel.SetPage(model.IDs(r.Items))
	})
	return l
}

func (l *List[T, F]) Family() string { return l.family }

// Load fetches the current page and filter.
func (l *List[T, F]) Load(ctx context.Context) (ListView[T, F], error) {
	l.mu.Lock()
	page, filter := l.page, l.filter
	l.mu.Unlock()
	return l.load(ctx, page, filter)
}

// SetFilter replaces the filter, returns to page 1, clears the selection
// and issues exactly one request.
func (l *List[T, F]) SetFilter(ctx context.Context, f F) (ListView[T, F], error) {
	l.mu.Lock()
	l.filter = f
	l.page = 1
	l.mu.Unlock()
	l.sel.Clear()
	return l.load(ctx, 1, f)
}

// SetPage moves to page, clamped to the known page range, clears the
// selection and issues exactly one request.
func (l *List[T, F]) SetPage(ctx context.Context, page int) (ListView[T, F], error) {
	pages := l.query.Snapshot().Data.Pagination.Pages
	if pages > 0 && page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	l.mu.Lock()
	l.page = page
	filter := l.filter
	l.mu.Unlock()
	l.sel.Clear()
	return l.load(ctx, page, filter)
}

// Refetch re-issues the current request; the selection is reset when it lands.
func (l *List[T, F]) Refetch(ctx context.Context) error {
	return l.query.Refetch(ctx)
}

func (l *List[T, F]) load(ctx context.Context, page int, filter F) (ListView[T, F], error) {
	params := model.ListParams{Page: page, Limit: l.limit}
	key := query.NewKey(l.family, page, l.limit, l.params(filter))
	_, err := l.query.Fetch(ctx, key, func(ctx context.Context) (listResult[T, F], error) {
		p, err := l.fetch(ctx, params, filter)
		return listResult[T, F]{Page: p, page: page, filter: filter}, err
	})
	if superseded(err) {
		err = nil
	}
	return l.View(), err
}

// Toggle flips one row of the rendered page.
func (l *List[T, F]) Toggle(id string) error {
	return l.sel.Toggle(id)
}

func (l *List[T, F]) ToggleAll() {
	l.sel.ToggleAll()
}

func (l *List[T, F]) ClearSelection() {
	l.sel.Clear()
}

// Selected returns the selected ids in page order.
func (l *List[T, F]) Selected() []string {
	return l.sel.IDs()
}

// Items returns the rows of the last applied page.
func (l *List[T, F]) Items() []T {
	return l.query.Snapshot().Data.Items
}

// Find returns the row with id from the rendered page.
func (l *List[T, F]) Find(id string) (T, bool) {
	for _, it := range l.Items() {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (l *List[T, F]) Filter() F {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// View renders the last applied response. Page and filter are those the
// response was requested with; before the first response they are the
// pending ones.
func (l *List[T, F]) View() ListView[T, F] {
	snap := l.query.Snapshot()
	var page int
	var filter F
	if snap.Fetched {
		page, filter = snap.Data.page, snap.Data.filter
	} else {
		l.mu.Lock()
		page, filter = l.page, l.filter
		l.mu.Unlock()
	}

	items := snap.Data.Items
	if items == nil {
		items = []T{}
	}
	v := ListView[T, F]{
		Items:      items,
		Pagination: snap.Data.Pagination,
		Page:       page,
		Filter:     filter,
		Selected:   l.sel.IDs(),
		Selection:  l.sel.State(),
		Loading:    snap.Loading,
	}
	if snap.Err != nil {
		v.Error = snap.Err.Error()
	}
	return v
}

// superseded reports a response that was discarded for a newer one.
func superseded(err error) bool {
	return errors.Is(err, query.ErrSuperseded)
}
