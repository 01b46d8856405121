package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/dshills/liveset/internal/change"
	"github.com/dshills/liveset/internal/observable"
	"github.com/dshills/liveset/internal/record"
	"github.com/dshills/liveset/internal/source"
)

// View keeps a replica of a record stream, built only from the events it
// receives, and reports each batch as it arrives.
type View struct {
	out     io.Writer
	replica *change.Replica[record.Record]
	checker *change.Checker[record.Record]
	sub     observable.Subscription

	deletes, inserts, updates int
	batches                   int
}

// NewView subscribes a view to src. Batch summaries are written to out.
func NewView(src source.Source[record.Record], out io.Writer) *View {
	v := &View{
		out:     out,
		replica: change.NewReplica(src.Items),
		checker: change.NewChecker[record.Record](),
	}
	v.sub = src.Changes().Subscribe(observable.ObserverFunc[record.Record](v.onEvent))
	return v
}

func (v *View) onEvent(ev change.Event[record.Record]) {
	v.checker.OnEvent(ev)
	v.replica.OnEvent(ev)

	switch ev.Kind {
	case change.KindReset:
		fmt.Fprintf(v.out, "reset: %d records\n", len(ev.Items))
	case change.KindBeginBatch:
		v.deletes, v.inserts, v.updates = 0, 0, 0
	case change.KindDeletes:
		v.deletes += ev.Count()
	case change.KindInserts:
		v.inserts += ev.Count()
	case change.KindUpdates:
		v.updates += ev.Count()
	case change.KindEndBatch:
		v.batches++
		fmt.Fprintf(v.out, "batch: -%d +%d ~%d, %d records\n",
			v.deletes, v.inserts, v.updates, len(v.replica.Items()))
	}
}

// Items returns the replicated records.
func (v *View) Items() []record.Record {
	return v.replica.Items()
}

// Batches returns the number of batches received.
func (v *View) Batches() int {
	return v.batches
}

// Render writes the replicated records, one per line.
func (v *View) Render(w io.Writer) {
	items := v.replica.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}
	for i, r := range items {
		fmt.Fprintf(w, "%3d. %s\n", i+1, r)
	}
}

// Err reports any malformed event sequence or replication failure seen so far.
func (v *View) Err() error {
	return errors.Join(v.checker.Err(), v.replica.Err())
}

// Close unsubscribes the view.
func (v *View) Close() {
	v.sub.Cancel()
}
