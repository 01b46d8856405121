// Package observable provides the push-based stream primitives and the
// observable collection at the heart of liveset.
//
// A [Collection] owns an immutable snapshot. [Collection.Replace] diffs the
// snapshot against the new items and emits one bracketed batch of change
// events; a call that changes nothing emits nothing. New subscribers always
// start with a Reset of the current snapshot, so no observer ever sees a
// partial history.
//
//	c := observable.NewCollection([]string{"a", "b", "c"})
//	sub := c.Subscribe(observable.ObserverFunc[string](func(ev change.Event[string]) {
//	    fmt.Println(ev)
//	}))
//	defer sub.Cancel()
//
//	c.Replace(nil) // begin, deletes[0 1 2], end
//
// # Delivery
//
// Delivery is synchronous. All events of a Replace reach every subscriber,
// in subscription order, before Replace returns. Cancelling a subscription
// stops delivery immediately.
//
// # Transforms
//
// [Filter], [SkipFirst] and [Map] wrap a [Stream]. A transform may drop
// whole events but never alters the positions carried by the events it
// forwards.
package observable
