package observable

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription is receiving events.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStateCancelled means the subscription has been permanently cancelled.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription represents a live registration of an observer on a stream.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// State returns the current subscription state.
	State() SubscriptionState

	// IsActive returns true if the subscription can receive events.
	IsActive() bool

	// Cancel stops delivery immediately. Cancelling twice is a no-op.
	Cancel()
}

// subscription is the internal implementation of Subscription.
type subscription struct {
	id       string
	state    atomic.Int32
	once     sync.Once
	onCancel func()
}

// newSubscription creates an active subscription. onCancel runs once, on the
// first Cancel.
func newSubscription(onCancel func()) *subscription {
	s := &subscription{
		id:       uuid.New().String(),
		onCancel: onCancel,
	}
	s.state.Store(int32(SubscriptionStateActive))
	return s
}

// ID returns the subscription ID.
func (s *subscription) ID() string {
	return s.id
}

// State returns the current subscription state.
func (s *subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive returns true if the subscription is active.
func (s *subscription) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

// Cancel permanently cancels the subscription.
func (s *subscription) Cancel() {
	s.state.Store(int32(SubscriptionStateCancelled))
	s.once.Do(func() {
		if s.onCancel != nil {
			s.onCancel()
		}
	})
}

// Bag holds subscriptions owned by one component and cancels them together,
// most recently added first.
type Bag struct {
	mu   sync.Mutex
	subs []Subscription
}

// Add registers a subscription with the bag.
func (b *Bag) Add(sub Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, sub)
}

// AddFunc registers a release function that runs once when the bag is
// cancelled.
func (b *Bag) AddFunc(release func()) Subscription {
	sub := newSubscription(release)
	b.Add(sub)
	return sub
}

// Len returns the number of subscriptions held.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Cancel cancels every held subscription and empties the bag.
func (b *Bag) Cancel() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].Cancel()
	}
}
