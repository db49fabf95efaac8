package query

import (
	"context"
	"sync"
	"time"
)

// Poller runs fetch on a fixed interval, starting immediately.
type Poller struct {
	fetch    func(context.Context) error
	interval time.Duration
	// OnResult, when set, observes every poll.
	OnResult func(error)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(fetch func(context.Context) error, interval time.Duration) *Poller {
	return &Poller{fetch: fetch, interval: interval}
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	err := p.fetch(ctx)
	if p.OnResult != nil && ctx.Err() == nil {
		p.OnResult(err)
	}
}

// Start runs the poller in the background. Calling Start twice is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		p.Run(ctx)
	}(p.done)
}

// Stop halts a started poller and waits for the loop to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
