package query

import (
	"context"
	"errors"
	"sync"
)

// Cache tracks the mounted queries of one workspace so mutations can
// invalidate them by family.
type Cache struct {
	mu      sync.Mutex
	mounted map[string][]Refetcher

	// OnSuperseded, when set, is called for every discarded response.
	OnSuperseded func()
}

func NewCache() *Cache {
	return &Cache{mounted: make(map[string][]Refetcher)}
}

func (c *Cache) mount(r Refetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted[r.Family()] = append(c.mounted[r.Family()], r)
}

func (c *Cache) unmount(r Refetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.mounted[r.Family()]
	for i, m := range list {
		if m == r {
			c.mounted[r.Family()] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func (c *Cache) superseded() {
	if c.OnSuperseded != nil {
		c.OnSuperseded()
	}
}

// Invalidate refetches every mounted query of the given families and
// returns the joined refetch errors.
func (c *Cache) Invalidate(ctx context.Context, families ...string) error {
	c.mu.Lock()
	var targets []Refetcher
	for _, f := range families {
		targets = append(targets, c.mounted[f]...)
	}
	c.mu.Unlock()

	var errs []error
	for _, r := range targets {
		if err := r.Refetch(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Mounted reports how many queries of family are mounted.
func (c *Cache) Mounted(family string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.mounted[family])
}
