package transport

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryTransport is a process-local reference Transport: every
// MemoryTransport sharing the same *MemoryBus delivers to every other
// one's subscribers, as a GossipSub topic would. It exists for tests
// and single-process swarms; production deployments implement
// Transport over a real pub/sub substrate.
type MemoryTransport struct {
	bus       *MemoryBus
	localPeer string
	estimator *SwarmSizeEstimator
	peerEvts  chan PeerEvent

	mu     sync.Mutex
	closed bool
}

// MemoryBus is the shared fan-out hub multiple MemoryTransport peers
// attach to. Publish on one peer's Transport delivers to every
// subscriber registered on any peer sharing the same bus.
type MemoryBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan Message // topic -> subscriberID -> chan
	peers       map[string]struct{}
}

// NewMemoryBus creates an empty shared bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		subscribers: make(map[string]map[string]chan Message),
		peers:       make(map[string]struct{}),
	}
}

// NewMemoryTransport attaches a new peer to bus, identified by
// localPeer (or a fresh UUID if empty).
func NewMemoryTransport(bus *MemoryBus, localPeer string) *MemoryTransport {
	if localPeer == "" {
		localPeer = uuid.NewString()
	}
	bus.mu.Lock()
	bus.peers[localPeer] = struct{}{}
	peerCount := len(bus.peers)
	bus.mu.Unlock()

	t := &MemoryTransport{
		bus:       bus,
		localPeer: localPeer,
		estimator: NewDefaultSwarmSizeEstimator(),
		peerEvts:  make(chan PeerEvent, 64),
	}
	t.estimator.UpdateFromPeerCount(peerCount)
	return t
}

// Publish delivers data to every subscriber of topic across the bus,
// this peer included.
func (t *MemoryTransport) Publish(ctx context.Context, topic string, data []byte) error {
	if t.isClosed() {
		return &ClosedError{}
	}

	t.bus.mu.RLock()
	subs := t.bus.subscribers[topic]
	targets := make([]chan Message, 0, len(subs))
	for _, ch := range subs {
		targets = append(targets, ch)
	}
	t.bus.mu.RUnlock()

	msg := Message{Topic: topic, Source: t.localPeer, Data: data}
	for _, ch := range targets {
		select {
		case ch <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registers this peer for deliveries on topic. The returned
// channel closes when ctx is cancelled or Unsubscribe(topic) is called.
func (t *MemoryTransport) Subscribe(ctx context.Context, topic string) (<-chan Message, error) {
	if t.isClosed() {
		return nil, &ClosedError{}
	}

	ch := make(chan Message, 256)

	t.bus.mu.Lock()
	if t.bus.subscribers[topic] == nil {
		t.bus.subscribers[topic] = make(map[string]chan Message)
	}
	t.bus.subscribers[topic][t.localPeer] = ch
	t.bus.mu.Unlock()

	go func() {
		<-ctx.Done()
		t.removeSubscriber(topic)
	}()

	return ch, nil
}

// Unsubscribe removes this peer's subscription to topic.
func (t *MemoryTransport) Unsubscribe(topic string) error {
	t.bus.mu.Lock()
	subs, ok := t.bus.subscribers[topic]
	if !ok {
		t.bus.mu.Unlock()
		return &NotSubscribedError{Topic: topic}
	}
	ch, ok := subs[t.localPeer]
	if !ok {
		t.bus.mu.Unlock()
		return &NotSubscribedError{Topic: topic}
	}
	delete(subs, t.localPeer)
	t.bus.mu.Unlock()

	close(ch)
	return nil
}

func (t *MemoryTransport) removeSubscriber(topic string) {
	t.bus.mu.Lock()
	defer t.bus.mu.Unlock()
	subs, ok := t.bus.subscribers[topic]
	if !ok {
		return
	}
	if ch, ok := subs[t.localPeer]; ok {
		delete(subs, t.localPeer)
		close(ch)
	}
}

// Peers returns this transport's peer connect/disconnect event stream.
func (t *MemoryTransport) Peers() <-chan PeerEvent {
	return t.peerEvts
}

// EstimatedSwarmSize feeds the bus's current peer count n into the
// same estimator a real DHT-backed transport would use (as n*ln(n)+n
// for n > 1) and returns the median of its recent estimates.
func (t *MemoryTransport) EstimatedSwarmSize() uint64 {
	t.bus.mu.RLock()
	peerCount := len(t.bus.peers)
	t.bus.mu.RUnlock()
	t.estimator.UpdateFromPeerCount(peerCount)
	return t.estimator.EstimatedSize()
}

// LocalPeerID returns this peer's identifier on the bus.
func (t *MemoryTransport) LocalPeerID() string {
	return t.localPeer
}

// Close detaches this peer from the bus, closing all of its
// subscription channels.
func (t *MemoryTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.bus.mu.Lock()
	for topic, subs := range t.bus.subscribers {
		if ch, ok := subs[t.localPeer]; ok {
			delete(subs, t.localPeer)
			close(ch)
		}
		_ = topic
	}
	delete(t.bus.peers, t.localPeer)
	t.bus.mu.Unlock()

	close(t.peerEvts)
	return nil
}

func (t *MemoryTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
