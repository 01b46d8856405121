// Package change defines the change event vocabulary shared by every
// producer and consumer of collection updates.
//
// A stream always opens with a Reset carrying the full snapshot. Every later
// mutation arrives as a batch:
//
//	BeginBatch
//	Deletes(...)   positions in the snapshot before the batch
//	Inserts(...)   positions in the snapshot after the batch
//	Updates(...)   positions whose payload changed in place
//	EndBatch
//
// Consumers apply Deletes before Inserts before Updates and treat the
// brackets as one atomic update. Move is part of the vocabulary only so that
// it can be rejected: producers never emit it and [Replica] panics with a
// [*MoveError] when it sees one.
package change
