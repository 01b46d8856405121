package change

import "fmt"

// Replica is a reference consumer that rebuilds a snapshot from events.
//
// Deletes and Inserts only carry positions, so inserted and updated items are
// read from lookup, which must return the producer's current snapshot. The
// producer updates its snapshot before emitting, so lookup always reflects
// the end state of the batch being applied.
type Replica[T any] struct {
	lookup func() []T
	items  []T
	seen   int
	err    error
}

// NewReplica creates a replica reading item values from lookup.
func NewReplica[T any](lookup func() []T) *Replica[T] {
	return &Replica[T]{lookup: lookup}
}

// Items returns the replica's current snapshot.
func (r *Replica[T]) Items() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Seen returns the number of events applied so far.
func (r *Replica[T]) Seen() int {
	return r.seen
}

// Err returns the first error encountered by OnEvent.
func (r *Replica[T]) Err() error {
	return r.err
}

// OnEvent applies an event and records the first failure.
// It lets a Replica be used directly as a stream observer.
func (r *Replica[T]) OnEvent(ev Event[T]) {
	if err := r.Apply(ev); err != nil && r.err == nil {
		r.err = err
	}
}

// Apply applies a single event to the replica.
// A Move event panics with *MoveError.
func (r *Replica[T]) Apply(ev Event[T]) error {
	r.seen++

	switch ev.Kind {
	case KindReset:
		r.items = append(r.items[:0:0], ev.Items...)
	case KindBeginBatch, KindEndBatch:
		// Brackets carry no positions.
	case KindDeletes:
		for i := len(ev.Indices) - 1; i >= 0; i-- {
			idx := ev.Indices[i]
			if idx < 0 || idx >= len(r.items) {
				return fmt.Errorf("delete at %d of %d: %w", idx, len(r.items), ErrIndexOutOfRange)
			}
			r.items = append(r.items[:idx], r.items[idx+1:]...)
		}
	case KindInserts:
		current := r.lookup()
		for _, idx := range ev.Indices {
			if idx < 0 || idx > len(r.items) || idx >= len(current) {
				return fmt.Errorf("insert at %d of %d: %w", idx, len(r.items), ErrIndexOutOfRange)
			}
			var zero T
			r.items = append(r.items, zero)
			copy(r.items[idx+1:], r.items[idx:])
			r.items[idx] = current[idx]
		}
	case KindUpdates:
		current := r.lookup()
		for _, idx := range ev.Indices {
			if idx < 0 || idx >= len(r.items) || idx >= len(current) {
				return fmt.Errorf("update at %d of %d: %w", idx, len(r.items), ErrIndexOutOfRange)
			}
			r.items[idx] = current[idx]
		}
	case KindMove:
		panic(&MoveError{Indices: ev.Indices})
	default:
		return fmt.Errorf("unknown event kind %d: %w", ev.Kind, ErrGrammar)
	}
	return nil
}
