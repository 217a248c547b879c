package storage

import "sync"

// Snapshot is the result of reading a path: a tagged value rather than a
// bag of duck-typed accessors. Exists is false when the node is absent.
// A nil Value with Exists false means "never written or deleted".
type Snapshot struct {
	Exists bool
	Value  any
}

// SnapshotOf builds a Snapshot from a raw document value, where both a
// missing node and an explicit nil count as non-existent.
func SnapshotOf(value any, found bool) Snapshot {
	if !found || value == nil {
		return Snapshot{}
	}
	return Snapshot{Exists: true, Value: value}
}

// Subscription is an explicit cancellation token for a path subscription.
// Snapshots are delivered on Updates; slow consumers drop updates rather
// than blocking the writer.
type Subscription struct {
	ch     chan Snapshot
	mu     sync.Mutex
	closed bool
	cancel func()
}

// subscriptionBuffer is the per-subscription delivery buffer. A full
// buffer drops the incoming update instead of blocking the writer.
const subscriptionBuffer = 16

// NewSubscription creates a subscription whose detach behavior is supplied
// by the owning store.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{
		ch:     make(chan Snapshot, subscriptionBuffer),
		cancel: cancel,
	}
}

// Updates returns the snapshot delivery channel. It is closed by Cancel.
func (s *Subscription) Updates() <-chan Snapshot {
	return s.ch
}

// Next blocks for the next snapshot. ok is false after Cancel.
func (s *Subscription) Next() (Snapshot, bool) {
	snap, ok := <-s.ch
	return snap, ok
}

// Cancel detaches the subscription and closes the delivery channel.
// Safe to call more than once.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
}

// Push delivers a snapshot without blocking. Delivery is dropped when the
// subscription is cancelled or its buffer is full.
func (s *Subscription) Push(snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- snap:
		return true
	default:
		return false
	}
}
