package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by a closed broker.
var ErrClosed = errors.New("messaging: broker closed")

const subscriberBuffer = 16

// MemoryBroker fans messages out to in-process subscribers. Slow
// subscribers miss messages rather than blocking publishers.
type MemoryBroker struct {
	mu     sync.Mutex
	subs   map[string]map[chan []byte]struct{}
	closed bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[chan []byte]struct{})}
}

func (b *MemoryBroker) Publish(_ context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	for ch := range b.subs[channel] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	ch := make(chan []byte, subscriberBuffer)
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[chan []byte]struct{})
	}
	b.subs[channel][ch] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[channel][ch]; ok {
			delete(b.subs[channel], ch)
			if len(b.subs[channel]) == 0 {
				delete(b.subs, channel)
			}
			close(ch)
		}
	}()

	return ch, nil
}

// Subscribers reports how many subscribers channel has.
func (b *MemoryBroker) Subscribers(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[channel])
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, set := range b.subs {
		for ch := range set {
			close(ch)
		}
	}
	b.subs = map[string]map[chan []byte]struct{}{}
	return nil
}
