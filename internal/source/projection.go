package source

import (
	"sort"

	"github.com/dshills/liveset/internal/change"
	"github.com/dshills/liveset/internal/logging"
	"github.com/dshills/liveset/internal/observable"
)

// projection re-derives its snapshot from the full upstream snapshot on
// every upstream item event and lets the diff engine find the delta.
type projection[T any] struct {
	upstream   Source[T]
	derive     func([]T) []T
	collection *observable.Collection[T]
	subs       observable.Bag
	logger     *logging.Logger
}

func newProjection[T any](upstream Source[T], derive func([]T) []T, same func(a, b T) bool, cfg config[T], component string) *projection[T] {
	p := &projection[T]{
		upstream: upstream,
		derive:   derive,
		logger:   cfg.componentLogger(component),
	}
	p.collection = observable.NewCollectionFunc(derive(upstream.Items()), same, cfg.collection...)

	// The upstream Reset delivered here is a signpost and is ignored; the
	// collection was already seeded above.
	p.subs.Add(upstream.Changes().Subscribe(observable.ObserverFunc[T](p.onUpstream)))
	return p
}

func (p *projection[T]) onUpstream(ev change.Event[T]) {
	if ev.IsSignpost() {
		return
	}
	p.collection.Replace(p.derive(p.upstream.Items()))
}

// Items returns the derived snapshot.
func (p *projection[T]) Items() []T {
	return p.collection.Items()
}

// Changes returns the derived event stream.
func (p *projection[T]) Changes() observable.Stream[T] {
	return p.collection
}

// Close stops following the upstream source. The derived snapshot is kept.
func (p *projection[T]) Close() {
	if p.subs.Len() > 0 {
		p.subs.Cancel()
		p.logger.Debug("detached from upstream")
	}
}

// Sorted is a source presenting its upstream's items in sorted order.
// Upstream ordering never leaks through to its subscribers.
type Sorted[T any] struct {
	*projection[T]
}

// NewSorted creates a sorted projection whose identity relation is ==.
func NewSorted[T comparable](upstream Source[T], before func(a, b T) bool, opts ...Option[T]) *Sorted[T] {
	return NewSortedFunc(upstream, before, func(a, b T) bool { return a == b }, opts...)
}

// NewSortedFunc creates a sorted projection with a custom identity relation.
// before must be a strict weak ordering; the sort is stable.
func NewSortedFunc[T any](upstream Source[T], before, same func(a, b T) bool, opts ...Option[T]) *Sorted[T] {
	derive := func(items []T) []T {
		sorted := make([]T, len(items))
		copy(sorted, items)
		sort.SliceStable(sorted, func(i, j int) bool {
			return before(sorted[i], sorted[j])
		})
		return sorted
	}
	return &Sorted[T]{newProjection(upstream, derive, same, newConfig(opts), "sorted")}
}

// Filtered is a source presenting the upstream items accepted by a predicate,
// in upstream order.
type Filtered[T any] struct {
	*projection[T]
}

// NewFiltered creates a filtered projection whose identity relation is ==.
func NewFiltered[T comparable](upstream Source[T], keep func(T) bool, opts ...Option[T]) *Filtered[T] {
	return NewFilteredFunc(upstream, keep, func(a, b T) bool { return a == b }, opts...)
}

// NewFilteredFunc creates a filtered projection with a custom identity relation.
func NewFilteredFunc[T any](upstream Source[T], keep func(T) bool, same func(a, b T) bool, opts ...Option[T]) *Filtered[T] {
	derive := func(items []T) []T {
		var kept []T
		for _, item := range items {
			if keep(item) {
				kept = append(kept, item)
			}
		}
		return kept
	}
	return &Filtered[T]{newProjection(upstream, derive, same, newConfig(opts), "filtered")}
}
