package source

import "github.com/dshills/liveset/internal/observable"

// Source is anything that exposes an ordered snapshot and the stream of its changes.
//
// Items must be synchronous and free of side effects. Changes must follow the
// change grammar: a Reset on subscribe, then one batch per mutation.
type Source[T any] interface {
	Items() []T
	Changes() observable.Stream[T]
}
