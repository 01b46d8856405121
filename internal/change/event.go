package change

import (
	"strconv"
	"strings"

	"github.com/dshills/liveset/internal/diff"
)

// Kind identifies the variant of a change event.
type Kind uint8

const (
	// KindReset replaces whatever the consumer knew with the attached snapshot.
	KindReset Kind = iota

	// KindBeginBatch opens a group of item events to apply atomically.
	KindBeginBatch

	// KindEndBatch closes the group opened by KindBeginBatch.
	KindEndBatch

	// KindDeletes carries positions in the pre-edit snapshot.
	KindDeletes

	// KindInserts carries positions in the post-edit snapshot.
	KindInserts

	// KindUpdates carries positions of items whose payload changed in place.
	KindUpdates

	// KindMove is never produced. Consumers treat it as a programming error.
	KindMove
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindReset:
		return "reset"
	case KindBeginBatch:
		return "begin"
	case KindEndBatch:
		return "end"
	case KindDeletes:
		return "deletes"
	case KindInserts:
		return "inserts"
	case KindUpdates:
		return "updates"
	case KindMove:
		return "move"
	default:
		return "unknown"
	}
}

// IsSignpost returns true for events that bracket or replace rather than
// describe item-level changes.
func (k Kind) IsSignpost() bool {
	return k == KindReset || k == KindBeginBatch || k == KindEndBatch
}

// Event is a single change notification.
// Events are immutable once delivered; consumers must not modify Indices or Items.
type Event[T any] struct {
	// Kind is the event variant.
	Kind Kind

	// Indices are the affected positions for Deletes, Inserts and Updates.
	Indices []int

	// Items is the full snapshot carried by a Reset.
	Items []T
}

// Reset creates a Reset event for the given snapshot.
func Reset[T any](items []T) Event[T] {
	return Event[T]{Kind: KindReset, Items: items}
}

// Begin creates a BeginBatch event.
func Begin[T any]() Event[T] {
	return Event[T]{Kind: KindBeginBatch}
}

// End creates an EndBatch event.
func End[T any]() Event[T] {
	return Event[T]{Kind: KindEndBatch}
}

// Delete creates a Deletes event.
func Delete[T any](indices ...int) Event[T] {
	return Event[T]{Kind: KindDeletes, Indices: indices}
}

// Insert creates an Inserts event.
func Insert[T any](indices ...int) Event[T] {
	return Event[T]{Kind: KindInserts, Indices: indices}
}

// Update creates an Updates event.
func Update[T any](indices ...int) Event[T] {
	return Event[T]{Kind: KindUpdates, Indices: indices}
}

// IsSignpost returns true if the event is a Reset, BeginBatch or EndBatch.
func (e Event[T]) IsSignpost() bool {
	return e.Kind.IsSignpost()
}

// Count returns the number of positions carried by an item event, or the
// snapshot length for a Reset.
func (e Event[T]) Count() int {
	if e.Kind == KindReset {
		return len(e.Items)
	}
	return len(e.Indices)
}

// String returns a compact form such as "deletes[0 1 2]" or "reset(3)".
func (e Event[T]) String() string {
	switch e.Kind {
	case KindReset:
		return "reset(" + strconv.Itoa(len(e.Items)) + ")"
	case KindDeletes, KindInserts, KindUpdates:
		var sb strings.Builder
		sb.WriteString(e.Kind.String())
		sb.WriteByte('[')
		for i, idx := range e.Indices {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(idx))
		}
		sb.WriteByte(']')
		return sb.String()
	default:
		return e.Kind.String()
	}
}

// Batch converts an edit script into its bracketed event sequence:
// BeginBatch, Deletes, Inserts, Updates, EndBatch. Groups without positions
// are omitted. An empty script yields no events.
func Batch[T any](s diff.Script) []Event[T] {
	if s.IsEmpty() {
		return nil
	}

	events := make([]Event[T], 0, 5)
	events = append(events, Begin[T]())
	if len(s.Deletes) > 0 {
		events = append(events, Delete[T](s.Deletes...))
	}
	if len(s.Inserts) > 0 {
		events = append(events, Insert[T](s.Inserts...))
	}
	if len(s.Updates) > 0 {
		events = append(events, Update[T](s.Updates...))
	}
	events = append(events, End[T]())
	return events
}
