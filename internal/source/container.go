package source

import (
	"github.com/dshills/liveset/internal/change"
	"github.com/dshills/liveset/internal/logging"
	"github.com/dshills/liveset/internal/observable"
)

// Container republishes one active source at a time and can be re-pointed at
// another source. Subscribers see a single continuous stream: swapping
// sources is delivered as an ordinary batch, never as a second Reset.
//
// Like every source here, a Container has a single writer. SetSource must not
// be called concurrently with itself or with mutations of the active source.
type Container[T any] struct {
	source Source[T]
	mirror *observable.Collection[T]
	subs   observable.Bag
	logger *logging.Logger
	swaps  int
}

// NewContainer creates a container whose identity relation is ==.
func NewContainer[T comparable](src Source[T], opts ...Option[T]) *Container[T] {
	return NewContainerFunc(src, func(a, b T) bool { return a == b }, opts...)
}

// NewContainerFunc creates a container with a custom identity relation.
func NewContainerFunc[T any](src Source[T], same func(a, b T) bool, opts ...Option[T]) *Container[T] {
	cfg := newConfig(opts)
	c := &Container[T]{
		source: src,
		mirror: observable.NewCollectionFunc(src.Items(), same, cfg.collection...),
		logger: cfg.componentLogger("container"),
	}
	c.bind()
	return c
}

// Enclose wraps a source in a new container.
func Enclose[T comparable](src Source[T], opts ...Option[T]) *Container[T] {
	return NewContainer(src, opts...)
}

// SetSource re-points the container at src.
//
// The previous subscription is cancelled first, the mirror is brought to
// src's items (emitting a batch only if they differ), and only then is src
// subscribed to, dropping its initial Reset.
func (c *Container[T]) SetSource(src Source[T]) {
	c.subs.Cancel()

	incoming := src.Items()
	if !c.mirror.Equal(incoming) {
		c.mirror.Replace(incoming)
	}

	c.source = src
	c.swaps++
	c.bind()

	if c.logger.Enabled(logging.LevelDebug) {
		c.logger.WithField("swaps", c.swaps).Debug("source swapped, %d items", c.mirror.Len())
	}
}

// bind subscribes to the active source. The source's opening Reset matches
// the mirror already and is skipped. Each later batch is buffered until its
// EndBatch and then republished as is.
func (c *Container[T]) bind() {
	src := c.source
	var batch []change.Event[T]
	c.subs.Add(observable.SkipFirst(src.Changes(), 1).Subscribe(observable.ObserverFunc[T](func(ev change.Event[T]) {
		switch ev.Kind {
		case change.KindReset:
			c.mirror.Replace(ev.Items)
		case change.KindBeginBatch:
			batch = append(batch[:0], ev)
		case change.KindEndBatch:
			events := append(batch, ev)
			batch = nil
			c.mirror.Publish(src.Items(), events)
		default:
			batch = append(batch, ev)
		}
	})))
}

// Source returns the active source.
func (c *Container[T]) Source() Source[T] {
	return c.source
}

// Items returns the mirrored snapshot.
func (c *Container[T]) Items() []T {
	return c.mirror.Items()
}

// Changes returns the container's continuous event stream.
func (c *Container[T]) Changes() observable.Stream[T] {
	return c.mirror
}

// Stats returns statistics for the mirror collection.
func (c *Container[T]) Stats() observable.Stats {
	return c.mirror.Stats()
}

// Close cancels the subscription to the active source.
func (c *Container[T]) Close() {
	c.subs.Cancel()
}
