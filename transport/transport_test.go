package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribeDelivers(t *testing.T) {
	bus := NewMemoryBus()
	alice := NewMemoryTransport(bus, "alice")
	bob := NewMemoryTransport(bus, "bob")
	defer alice.Close()
	defer bob.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := bob.Subscribe(ctx, "topic-a")
	require.NoError(t, err)

	require.NoError(t, alice.Publish(ctx, "topic-a", []byte("hello")))

	select {
	case m := <-msgs:
		assert.Equal(t, "topic-a", m.Topic)
		assert.Equal(t, "alice", m.Source)
		assert.Equal(t, []byte("hello"), m.Data)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewMemoryBus()
	alice := NewMemoryTransport(bus, "alice")
	defer alice.Close()

	ctx := context.Background()
	msgs, err := alice.Subscribe(ctx, "topic-a")
	require.NoError(t, err)

	require.NoError(t, alice.Unsubscribe("topic-a"))

	_, open := <-msgs
	assert.False(t, open)
}

func TestUnsubscribeWithoutSubscriptionErrors(t *testing.T) {
	bus := NewMemoryBus()
	alice := NewMemoryTransport(bus, "alice")
	defer alice.Close()

	err := alice.Unsubscribe("never-subscribed")
	assert.Error(t, err)
}

func TestEstimatedSwarmSizeGrowsWithPeers(t *testing.T) {
	bus := NewMemoryBus()
	alice := NewMemoryTransport(bus, "alice")
	defer alice.Close()

	initial := alice.EstimatedSwarmSize()

	bob := NewMemoryTransport(bus, "bob")
	defer bob.Close()
	carol := NewMemoryTransport(bus, "carol")
	defer carol.Close()

	// Each call records one estimate; after enough calls at three peers
	// the median of the recent estimates passes the single-peer value.
	for i := 0; i < 5; i++ {
		alice.EstimatedSwarmSize()
	}
	assert.Greater(t, alice.EstimatedSwarmSize(), initial)
}

func TestClosedTransportRejectsPublish(t *testing.T) {
	bus := NewMemoryBus()
	alice := NewMemoryTransport(bus, "alice")
	require.NoError(t, alice.Close())

	err := alice.Publish(context.Background(), "topic-a", []byte("x"))
	assert.Error(t, err)
}
