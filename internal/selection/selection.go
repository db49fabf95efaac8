// Package selection tracks the rows picked for a bulk action. A selection
// is always a subset of the page it was computed against.
package selection

import (
	"errors"
	"sync"
)

// ErrNotOnPage is returned when toggling an id the rendered page does not contain.
var ErrNotOnPage = errors.New("selection: id is not on the rendered page")

type State string

const (
	None    State = "none"
	Partial State = "partial"
	All     State = "all"
)

// Set is the selection of one list view.
type Set struct {
	mu       sync.Mutex
	page     []string
	onPage   map[string]struct{}
	selected map[string]struct{}
}

func New() *Set {
	return &Set{
		onPage:   map[string]struct{}{},
		selected: map[string]struct{}{},
	}
}

// SetPage records the ids of the freshly rendered page and clears the selection.
func (s *Set) SetPage(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = append(s.page[:0:0], ids...)
	s.onPage = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.onPage[id] = struct{}{}
	}
	s.selected = map[string]struct{}{}
}

// Toggle flips one row.
func (s *Set) Toggle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.onPage[id]; !ok {
		return ErrNotOnPage
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
	return nil
}

// ToggleAll clears the selection when every row is selected, otherwise
// selects every row of the rendered page.
func (s *Set) ToggleAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state() == All {
		s.selected = map[string]struct{}{}
		return
	}
	for _, id := range s.page {
		s.selected[id] = struct{}{}
	}
}

func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = map[string]struct{}{}
}

// IDs returns the selected ids in page order.
func (s *Set) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.selected))
	for _, id := range s.page {
		if _, ok := s.selected[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

func (s *Set) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[id]
	return ok
}

func (s *Set) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Set) state() State {
	switch {
	case len(s.selected) == 0:
		return None
	case len(s.selected) == len(s.page):
		return All
	default:
		return Partial
	}
}
