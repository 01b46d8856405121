package observable

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/liveset/internal/change"
	"github.com/dshills/liveset/internal/diff"
	"github.com/dshills/liveset/internal/logging"
)

// Stats contains collection statistics.
type Stats struct {
	// Replacements is the number of Replace calls.
	Replacements uint64

	// Batches is the number of non-empty batches emitted.
	Batches uint64

	// EventsDelivered is the number of events handed to observers, resets included.
	EventsDelivered uint64

	// Resets is the number of Reset events delivered on subscribe.
	Resets uint64

	// ActiveSubscribers is the current number of live subscriptions.
	ActiveSubscribers int
}

// Collection owns a snapshot of items and publishes its changes.
//
// Every observer first receives a Reset carrying the snapshot at subscribe
// time. Each Replace that changes the snapshot then emits one batch,
// synchronously and in subscription order, before returning.
//
// A Collection has a single writer: Replace must not be called concurrently
// or from inside one of its own observers.
type Collection[T any] struct {
	items   []T
	same    func(a, b T) bool
	config  collectionConfig[T]
	logger  *logging.Logger
	writing bool

	mu   sync.Mutex // guards subs
	subs []*member[T]

	replacements    atomic.Uint64
	batches         atomic.Uint64
	eventsDelivered atomic.Uint64
	resets          atomic.Uint64
}

// member pairs an observer with its subscription.
type member[T any] struct {
	sub      *subscription
	observer Observer[T]
}

// NewCollection creates a collection whose identity relation is ==.
func NewCollection[T comparable](items []T, opts ...Option[T]) *Collection[T] {
	return NewCollectionFunc(items, func(a, b T) bool { return a == b }, opts...)
}

// NewCollectionFunc creates a collection with a custom identity relation.
// same must be total and consistent; results are undefined otherwise.
func NewCollectionFunc[T any](items []T, same func(a, b T) bool, opts ...Option[T]) *Collection[T] {
	config := defaultCollectionConfig[T]()
	for _, opt := range opts {
		opt(&config)
	}

	logger := config.logger.WithComponent("collection")
	if config.name != "" {
		logger = logger.WithField("name", config.name)
	}

	return &Collection[T]{
		items:  clone(items),
		same:   same,
		config: config,
		logger: logger,
	}
}

// Items returns a copy of the current snapshot.
func (c *Collection[T]) Items() []T {
	return clone(c.items)
}

// Len returns the number of items in the snapshot.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Equal reports whether items matches the current snapshot element by element,
// payload included.
func (c *Collection[T]) Equal(items []T) bool {
	if !diff.Equal(c.items, items, c.same) {
		return false
	}
	if c.config.changed == nil {
		return true
	}
	for i := range items {
		if c.config.changed(c.items[i], items[i]) {
			return false
		}
	}
	return true
}

// Subscribe delivers a Reset of the current snapshot to o and then registers
// it for subsequent batches.
func (c *Collection[T]) Subscribe(o Observer[T]) Subscription {
	m := &member[T]{observer: o}
	m.sub = newSubscription(func() { c.remove(m) })

	c.resets.Add(1)
	c.eventsDelivered.Add(1)
	o.OnEvent(change.Reset(clone(c.items)))

	c.mu.Lock()
	if m.sub.IsActive() {
		c.subs = append(c.subs, m)
	}
	c.mu.Unlock()

	return m.sub
}

// Replace swaps the snapshot for items and emits the resulting batch.
// Nothing is emitted when items equals the current snapshot.
func (c *Collection[T]) Replace(items []T) {
	if c.writing {
		panic(ErrReentrantReplace)
	}
	c.replacements.Add(1)

	script := diff.ComputeWith(c.items, items, c.same, c.config.changed, c.config.diffOptions)

	// The snapshot is final before any observer sees the batch.
	c.items = clone(items)

	events := change.Batch[T](script)
	if len(events) == 0 {
		return
	}

	if c.logger.Enabled(logging.LevelDebug) {
		c.logger.Debug("replace: %d deletes, %d inserts, %d updates",
			len(script.Deletes), len(script.Inserts), len(script.Updates))
	}
	c.deliver(events)
}

// Publish sets the snapshot to items and delivers batch unchanged. batch must
// be one bracketed batch that turns the current snapshot into items, as
// produced by another collection. A batch without item events is dropped.
func (c *Collection[T]) Publish(items []T, batch []change.Event[T]) {
	if c.writing {
		panic(ErrReentrantReplace)
	}
	c.replacements.Add(1)
	c.items = clone(items)

	mutations := 0
	for _, ev := range batch {
		if !ev.IsSignpost() {
			mutations += ev.Count()
		}
	}
	if mutations == 0 {
		return
	}
	c.logger.Debug("publish: %d events, %d positions", len(batch), mutations)
	c.deliver(batch)
}

func (c *Collection[T]) deliver(events []change.Event[T]) {
	c.batches.Add(1)
	c.writing = true
	defer func() { c.writing = false }()

	members := c.members()
	for _, ev := range events {
		for _, m := range members {
			if !m.sub.IsActive() {
				continue
			}
			c.eventsDelivered.Add(1)
			m.observer.OnEvent(ev)
		}
	}
}

// Stats returns current collection statistics.
func (c *Collection[T]) Stats() Stats {
	c.mu.Lock()
	active := len(c.subs)
	c.mu.Unlock()

	return Stats{
		Replacements:      c.replacements.Load(),
		Batches:           c.batches.Load(),
		EventsDelivered:   c.eventsDelivered.Load(),
		Resets:            c.resets.Load(),
		ActiveSubscribers: active,
	}
}

// members returns a copy of the subscriber list in subscription order.
func (c *Collection[T]) members() []*member[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*member[T], len(c.subs))
	copy(out, c.subs)
	return out
}

func (c *Collection[T]) remove(m *member[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subs {
		if s == m {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
