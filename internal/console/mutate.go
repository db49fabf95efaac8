package console

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/query"
	"github.com/jwalitptl/admin-console/internal/service/audit"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

// ErrActionPending is returned while the same action is still in flight on a page.
var ErrActionPending = errors.Conflict("action already in progress")

// ErrEmptySelection is returned by bulk actions with nothing selected.
var ErrEmptySelection = errors.NewBadRequest("no rows selected", nil)

// Confirm gates a destructive action. Without confirmation the action is
// never sent and the prompt travels back in the error.
func Confirm(confirmed bool, prompt string) error {
	if confirmed {
		return nil
	}
	return errors.ConfirmationRequired(prompt)
}

// pending tracks which actions of a page are in flight.
type pending struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func (p *pending) begin(action string) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inflight == nil {
		p.inflight = make(map[string]struct{})
	}
	if _, busy := p.inflight[action]; busy {
		return nil, ErrActionPending
	}
	p.inflight[action] = struct{}{}
	return func() {
		p.mu.Lock()
		delete(p.inflight, action)
		p.mu.Unlock()
	}, nil
}

// InFlight reports whether action is running.
func (p *pending) InFlight(action string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, busy := p.inflight[action]
	return busy
}

// Mutator dispatches a page's mutations: one in flight per action, an
// audit entry per dispatch, then invalidation of the page's families.
type Mutator struct {
	page    string
	pending pending
	cache   *query.Cache
	audit   audit.Recorder
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func newMutator(page string, d Deps) *Mutator {
	return &Mutator{
		page:    page,
		cache:   d.Cache,
		audit:   d.Audit,
		metrics: d.Metrics,
		logger:  d.Logger.With().Str("page", page).Logger(),
	}
}

// Mutation describes one dispatch.
type Mutation struct {
	Action   string
	IDs      []string
	Meta     interface{}
	Families []string
	Do       func(ctx context.Context) error
}

// Run executes m. A refetch failure after a successful mutation is logged,
// not returned: the server state did change.
func (m *Mutator) Run(ctx context.Context, mu Mutation) error {
	done, err := m.pending.begin(mu.Action)
	if err != nil {
		return err
	}
	defer done()

	err = mu.Do(ctx)
	m.record(ctx, mu, err)
	if err != nil {
		m.logger.Warn().Err(err).Str("action", mu.Action).Strs("ids", mu.IDs).Msg("mutation failed")
		return err
	}

	if len(mu.Families) > 0 && m.cache != nil {
		if rerr := m.cache.Invalidate(ctx, mu.Families...); rerr != nil {
			m.logger.Warn().Err(rerr).Str("action", mu.Action).Msg("refetch after mutation failed")
		}
	}
	return nil
}

func (m *Mutator) InFlight(action string) bool {
	return m.pending.InFlight(action)
}

func (m *Mutator) record(ctx context.Context, mu Mutation, err error) {
	if m.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		m.metrics.Mutations.WithLabelValues(m.page, mu.Action, outcome).Inc()
	}
	if m.audit == nil {
		return
	}
	if aerr := m.audit.Record(ctx, audit.Entry(ctx, m.page, mu.Action, mu.IDs, mu.Meta, err)); aerr != nil {
		m.logger.Error().Err(aerr).Str("action", mu.Action).Msg("failed to record audit entry")
	}
}
