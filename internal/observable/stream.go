package observable

import "github.com/dshills/liveset/internal/change"

// Observer receives change events.
type Observer[T any] interface {
	OnEvent(ev change.Event[T])
}

// ObserverFunc is a function adapter for Observer.
type ObserverFunc[T any] func(ev change.Event[T])

// OnEvent implements the Observer interface.
func (f ObserverFunc[T]) OnEvent(ev change.Event[T]) {
	f(ev)
}

// Stream is a push-based source of change events.
// Subscribers receive a Reset with the current snapshot as their first event.
type Stream[T any] interface {
	Subscribe(o Observer[T]) Subscription
}

// StreamFunc is a function adapter for Stream.
type StreamFunc[T any] func(o Observer[T]) Subscription

// Subscribe implements the Stream interface.
func (f StreamFunc[T]) Subscribe(o Observer[T]) Subscription {
	return f(o)
}

// Filter returns a stream forwarding only events for which keep returns true.
// Forwarded events are passed through untouched.
func Filter[T any](s Stream[T], keep func(ev change.Event[T]) bool) Stream[T] {
	return StreamFunc[T](func(o Observer[T]) Subscription {
		return s.Subscribe(ObserverFunc[T](func(ev change.Event[T]) {
			if keep(ev) {
				o.OnEvent(ev)
			}
		}))
	})
}

// SkipFirst returns a stream that drops the first n events seen by each subscriber.
func SkipFirst[T any](s Stream[T], n int) Stream[T] {
	return StreamFunc[T](func(o Observer[T]) Subscription {
		skipped := 0
		return s.Subscribe(ObserverFunc[T](func(ev change.Event[T]) {
			if skipped < n {
				skipped++
				return
			}
			o.OnEvent(ev)
		}))
	})
}

// Map returns a stream whose Reset snapshots are converted item by item.
// Positions are not affected by the conversion, so every other event is
// forwarded with the same kind and indices.
func Map[T, U any](s Stream[T], fn func(T) U) Stream[U] {
	return StreamFunc[U](func(o Observer[U]) Subscription {
		return s.Subscribe(ObserverFunc[T](func(ev change.Event[T]) {
			out := change.Event[U]{Kind: ev.Kind, Indices: ev.Indices}
			if ev.Items != nil {
				out.Items = make([]U, len(ev.Items))
				for i, item := range ev.Items {
					out.Items[i] = fn(item)
				}
			}
			o.OnEvent(out)
		}))
	})
}

// Recorder is an observer that keeps every event it receives.
type Recorder[T any] struct {
	events []change.Event[T]
}

// OnEvent implements the Observer interface.
func (r *Recorder[T]) OnEvent(ev change.Event[T]) {
	r.events = append(r.events, ev)
}

// Events returns the recorded events in delivery order.
func (r *Recorder[T]) Events() []change.Event[T] {
	return r.events
}

// Kinds returns the kinds of the recorded events in delivery order.
func (r *Recorder[T]) Kinds() []change.Kind {
	kinds := make([]change.Kind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

// Reset discards all recorded events.
func (r *Recorder[T]) Reset() {
	r.events = nil
}
