package change

// Checker validates that an event stream follows the change grammar:
//
//	stream := Reset batch*
//	batch  := BeginBatch Deletes? Inserts? Updates? EndBatch
//
// with at least one item event per batch, strictly ascending indices, no
// Reset inside a batch and no Move anywhere.
type Checker[T any] struct {
	position int
	open     bool
	last     Kind // last item kind seen in the open batch
	items    int  // item events seen in the open batch
	errs     []error
}

// NewChecker creates a grammar checker.
func NewChecker[T any]() *Checker[T] {
	return &Checker[T]{}
}

// OnEvent checks an event and records any violation.
func (c *Checker[T]) OnEvent(ev Event[T]) {
	if err := c.Check(ev); err != nil {
		c.errs = append(c.errs, err)
	}
}

// Errors returns all recorded violations.
func (c *Checker[T]) Errors() []error {
	return c.errs
}

// Err returns the first recorded violation, or nil.
func (c *Checker[T]) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs[0]
}

// InBatch returns true while a BeginBatch is waiting for its EndBatch.
func (c *Checker[T]) InBatch() bool {
	return c.open
}

// Check validates the next event in the stream.
func (c *Checker[T]) Check(ev Event[T]) error {
	pos := c.position
	c.position++

	fail := func(reason string) error {
		return &GrammarError{Position: pos, Kind: ev.Kind, Reason: reason}
	}

	if pos == 0 && ev.Kind != KindReset {
		return fail("first event must be a reset")
	}

	switch ev.Kind {
	case KindReset:
		if c.open {
			return fail("reset inside a batch")
		}
	case KindBeginBatch:
		if c.open {
			return fail("nested batch")
		}
		c.open = true
		c.last = KindBeginBatch
		c.items = 0
	case KindEndBatch:
		if !c.open {
			return fail("end without begin")
		}
		c.open = false
		if c.items == 0 {
			return fail("empty batch")
		}
	case KindDeletes, KindInserts, KindUpdates:
		if !c.open {
			return fail("item event outside a batch")
		}
		if c.last != KindBeginBatch && c.last >= ev.Kind {
			return fail("item events out of order")
		}
		if len(ev.Indices) == 0 {
			return fail("no indices")
		}
		for i := 1; i < len(ev.Indices); i++ {
			if ev.Indices[i] <= ev.Indices[i-1] {
				return fail("indices not ascending")
			}
		}
		c.last = ev.Kind
		c.items++
	case KindMove:
		return fail("move is not supported")
	default:
		return fail("unknown kind")
	}
	return nil
}
