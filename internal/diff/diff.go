package diff

// Op indicates the kind of a single edit.
type Op uint8

const (
	// OpEqual indicates an item present in both snapshots.
	OpEqual Op = iota

	// OpDelete indicates an item removed from the old snapshot.
	OpDelete

	// OpInsert indicates an item added in the new snapshot.
	OpInsert
)

// String returns a human-readable representation of the op.
func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Edit is a single step of an edit path.
// OldIndex is -1 for inserts and NewIndex is -1 for deletes.
type Edit struct {
	Op       Op
	OldIndex int
	NewIndex int
}

// Script is the minimal set of positional changes between two snapshots.
type Script struct {
	// Deletes are positions in the old snapshot, ascending.
	Deletes []int

	// Inserts are positions in the new snapshot, ascending.
	Inserts []int

	// Updates are positions in the new snapshot of items whose identity is
	// unchanged but whose payload differs, ascending.
	Updates []int
}

// IsEmpty returns true if the script describes no change.
func (s Script) IsEmpty() bool {
	return len(s.Deletes) == 0 && len(s.Inserts) == 0 && len(s.Updates) == 0
}

// Len returns the total number of positional changes.
func (s Script) Len() int {
	return len(s.Deletes) + len(s.Inserts) + len(s.Updates)
}

// Algorithm selects the diff backend.
type Algorithm uint8

const (
	// AlgorithmMyers runs the Myers algorithm over the items.
	AlgorithmMyers Algorithm = iota

	// AlgorithmDiffMatchPatch maps items to runes and uses diffmatchpatch.
	AlgorithmDiffMatchPatch
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmMyers:
		return "myers"
	case AlgorithmDiffMatchPatch:
		return "diffmatchpatch"
	default:
		return "unknown"
	}
}

// ParseAlgorithm parses an algorithm name. Unknown names select Myers.
func ParseAlgorithm(s string) Algorithm {
	switch s {
	case "diffmatchpatch", "dmp":
		return AlgorithmDiffMatchPatch
	default:
		return AlgorithmMyers
	}
}

// Options configures diff computation.
type Options struct {
	// Algorithm selects the backend. Default is AlgorithmMyers.
	Algorithm Algorithm
}

// DefaultOptions returns default diff options.
func DefaultOptions() Options {
	return Options{Algorithm: AlgorithmMyers}
}

// Compute returns the edit script between old and new using ==.
func Compute[T comparable](old, new []T) Script {
	return ComputeFunc(old, new, equal[T], nil)
}

// ComputeFunc returns the edit script between old and new.
//
// same is the identity relation and must be total and consistent.
// changed may be nil; when set it is called for each pair of identity-equal
// items and a true result records an update at the new position.
func ComputeFunc[T any](old, new []T, same, changed func(a, b T) bool) Script {
	return ComputeWith(old, new, same, changed, DefaultOptions())
}

// ComputeWith is ComputeFunc with explicit options.
func ComputeWith[T any](old, new []T, same, changed func(a, b T) bool, opts Options) Script {
	return scriptFromEdits(old, new, EditsWith(old, new, same, opts), changed)
}

// Edits returns the full edit path from old to new.
func Edits[T any](old, new []T, same func(a, b T) bool) []Edit {
	return EditsWith(old, new, same, DefaultOptions())
}

// EditsWith returns the full edit path from old to new using the given options.
func EditsWith[T any](old, new []T, same func(a, b T) bool, opts Options) []Edit {
	if opts.Algorithm == AlgorithmDiffMatchPatch {
		if edits, ok := runeEdits(old, new, same); ok {
			return edits
		}
	}
	return myersEdits(old, new, same)
}

// Equal reports whether two snapshots contain identity-equal items in the same order.
func Equal[T any](a, b []T, same func(x, y T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !same(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equal[T comparable](a, b T) bool {
	return a == b
}

// scriptFromEdits collects positional changes from an edit path.
func scriptFromEdits[T any](old, new []T, edits []Edit, changed func(a, b T) bool) Script {
	var s Script
	for _, e := range edits {
		switch e.Op {
		case OpDelete:
			s.Deletes = append(s.Deletes, e.OldIndex)
		case OpInsert:
			s.Inserts = append(s.Inserts, e.NewIndex)
		case OpEqual:
			if changed != nil && changed(old[e.OldIndex], new[e.NewIndex]) {
				s.Updates = append(s.Updates, e.NewIndex)
			}
		}
	}
	return s
}
