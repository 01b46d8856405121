package source

import "github.com/dshills/liveset/internal/observable"

// Manual is a source whose items are set explicitly by the caller.
// It is the only source with a public mutation API.
type Manual[T any] struct {
	collection *observable.Collection[T]
}

// NewManual creates a manual source whose identity relation is ==.
func NewManual[T comparable](items []T, opts ...Option[T]) *Manual[T] {
	return NewManualFunc(items, func(a, b T) bool { return a == b }, opts...)
}

// NewManualFunc creates a manual source with a custom identity relation.
func NewManualFunc[T any](items []T, same func(a, b T) bool, opts ...Option[T]) *Manual[T] {
	cfg := newConfig(opts)
	return &Manual[T]{
		collection: observable.NewCollectionFunc(items, same, cfg.collection...),
	}
}

// Items returns the current snapshot.
func (m *Manual[T]) Items() []T {
	return m.collection.Items()
}

// ReplaceItems replaces the snapshot and emits the resulting batch.
func (m *Manual[T]) ReplaceItems(items []T) {
	m.collection.Replace(items)
}

// Changes returns the source's event stream.
func (m *Manual[T]) Changes() observable.Stream[T] {
	return m.collection
}

// Stats returns statistics for the underlying collection.
func (m *Manual[T]) Stats() observable.Stats {
	return m.collection.Stats()
}
