package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBrokerFanOut(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := b.Subscribe(ctx, "bell:ws1")
	require.NoError(t, err)
	c, err := b.Subscribe(ctx, "bell:ws1")
	require.NoError(t, err)
	other, err := b.Subscribe(ctx, "bell:ws2")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "bell:ws1", Message{Type: "bell", Payload: 3}))

	for _, ch := range []<-chan []byte{a, c} {
		select {
		case raw := <-ch:
			var m Message
			require.NoError(t, json.Unmarshal(raw, &m))
			assert.Equal(t, "bell", m.Type)
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
	assert.Len(t, other, 0)
}

func TestMemoryBrokerUnsubscribeOnCancel(t *testing.T) {
	b := NewMemoryBroker()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Subscribe(ctx, "bell:ws1")
	require.NoError(t, err)
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers("bell:ws1"))
}

func TestMemoryBrokerClosed(t *testing.T) {
	b := NewMemoryBroker()
	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Publish(context.Background(), "x", 1), ErrClosed)
	_, err := b.Subscribe(context.Background(), "x")
	assert.ErrorIs(t, err, ErrClosed)
}
