// Package diff computes minimal edit scripts between two ordered snapshots.
//
// Items are compared only by an identity relation: either Go's == operator
// ([Compute]) or a caller supplied function ([ComputeFunc]). The engine never
// orders or hashes items.
//
// # Edit Scripts
//
// A [Script] reports the positions that differ between the old and the new
// snapshot:
//
//   - Deletes: indices into the old snapshot, ascending
//   - Inserts: indices into the new snapshot, ascending
//   - Updates: indices into the new snapshot of items that are identity-equal
//     to their counterpart but whose payload changed
//
// Applying the deletes (highest index first) and then the inserts (lowest
// index first) to the old snapshot yields the new snapshot.
//
// # Moves
//
// There is no move operation. An item that changes position is reported as a
// delete at its old index and an insert at its new index.
//
// # Algorithms
//
// [AlgorithmMyers] is the default and runs the Myers shortest edit script
// algorithm directly over the items. [AlgorithmDiffMatchPatch] maps items to
// rune classes and delegates to github.com/sergi/go-diff.
//
// Usage:
//
//	script := diff.Compute([]string{"a", "b", "c"}, []string{"a", "c", "d"})
//	// script.Deletes == []int{1}
//	// script.Inserts == []int{2}
package diff
