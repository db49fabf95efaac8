package query

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrSuperseded is returned to the caller whose request was overtaken by a
// newer one on the same query. Its result was discarded.
var ErrSuperseded = errors.New("query: superseded by a newer request")

// Key identifies one list request: family plus page, limit and filters.
type Key struct {
	Family  string
	Page    int
	Limit   int
	Filters url.Values
}

func NewKey(family string, page, limit int, filters map[string]string) Key {
	v := url.Values{}
	for k, val := range filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return Key{Family: family, Page: page, Limit: limit, Filters: v}
}

// Params returns the query string the list endpoint expects.
func (k Key) Params() url.Values {
	v := url.Values{}
	for name, vals := range k.Filters {
		v[name] = append([]string(nil), vals...)
	}
	if k.Page > 0 {
		v.Set("page", strconv.Itoa(k.Page))
	}
	if k.Limit > 0 {
		v.Set("limit", strconv.Itoa(k.Limit))
	}
	return v
}

func (k Key) String() string {
	names := make([]string, 0, len(k.Filters))
	for name := range k.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%d/%d", k.Family, k.Page, k.Limit)
	for _, n := range names {
		fmt.Fprintf(&b, "/%s=%s", n, strings.Join(k.Filters[n], ","))
	}
	return b.String()
}

// Refetcher is a mounted query the cache can refresh.
type Refetcher interface {
	Family() string
	Refetch(ctx context.Context) error
}

// Snapshot is what a view renders from.
type Snapshot[T any] struct {
	Key     Key
	Data    T
	Fetched bool
	Loading bool
	Err     error
}

// Query holds the latest applied result for one family. Requests overlap
// freely; only the most recently issued one may apply its result.
type Query[T any] struct {
	family string
	cache  *Cache

	mu      sync.Mutex
	gen     uint64
	key     Key
	fn      func(context.Context) (T, error)
	data    T
	fetched bool
	loading bool
	err     error
	onApply func(T)
}

// New mounts a query of the given family on c. c may be nil.
func New[T any](c *Cache, family string) *Query[T] {
	q := &Query[T]{family: family, cache: c}
	if c != nil {
		c.mount(q)
	}
	return q
}

func (q *Query[T]) Family() string { return q.family }

// Fetch issues fn under a fresh generation. On success the result replaces
// the previous one wholesale; on failure the previous data is kept and the
// error recorded. If a newer Fetch was issued meanwhile nothing is applied
// and ErrSuperseded is returned.
func (q *Query[T]) Fetch(ctx context.Context, key Key, fn func(context.Context) (T, error)) (T, error) {
	q.mu.Lock()
	q.gen++
	gen := q.gen
	q.key = key
	q.fn = fn
	q.loading = true
	q.mu.Unlock()

	data, err := fn(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.gen {
		if q.cache != nil {
			q.cache.superseded()
		}
		var zero T
		return zero, ErrSuperseded
	}
	q.loading = false
	if err != nil {
		q.err = err
		return data, err
	}
	q.data = data
	q.fetched = true
	q.err = nil
	if q.onApply != nil {
		q.onApply(data)
	}
	return data, nil
}

// OnApply registers fn to run, under the query lock, whenever a result is
// applied. fn must not call back into the query.
func (q *Query[T]) OnApply(fn func(T)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onApply = fn
}

// Refetch re-issues the last request. A query that never fetched is left alone.
func (q *Query[T]) Refetch(ctx context.Context) error {
	q.mu.Lock()
	fn, key := q.fn, q.key
	q.mu.Unlock()
	if fn == nil {
		return nil
	}
	_, err := q.Fetch(ctx, key, fn)
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	return err
}

func (q *Query[T]) Snapshot() Snapshot[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Snapshot[T]{
		Key:     q.key,
		Data:    q.data,
		Fetched: q.fetched,
		Loading: q.loading,
		Err:     q.err,
	}
}

// Unmount detaches the query from its cache.
func (q *Query[T]) Unmount() {
	if q.cache != nil {
		q.cache.unmount(q)
	}
}
