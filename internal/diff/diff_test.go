package diff

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// apply replays a script against old and returns the resulting snapshot.
// Deletes are removed from the highest index down, inserts are placed from
// the lowest index up, reading inserted items from new.
func apply[T any](old, new []T, s Script) []T {
	out := append([]T(nil), old...)
	for i := len(s.Deletes) - 1; i >= 0; i-- {
		idx := s.Deletes[i]
		out = append(out[:idx], out[idx+1:]...)
	}
	for _, idx := range s.Inserts {
		out = append(out, new[idx])
		copy(out[idx+1:], out[idx:])
		out[idx] = new[idx]
	}
	return out
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		old     string
		new     string
		deletes []int
		inserts []int
	}{
		{"both empty", "", "", nil, nil},
		{"equal", "abc", "abc", nil, nil},
		{"insert into empty", "", "ab", nil, []int{0, 1}},
		{"delete to empty", "abc", "", []int{0, 1, 2}, nil},
		{"delete middle", "abc", "ac", []int{1}, nil},
		{"insert front", "a", "ba", nil, []int{0}},
		{"append", "ab", "abc", nil, []int{2}},
		{"replace all", "ab", "cd", []int{0, 1}, []int{0, 1}},
		{"move is delete plus insert", "abc", "cab", []int{2}, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old, new := split(tt.old), split(tt.new)
			got := Compute(old, new)

			want := Script{Deletes: tt.deletes, Inserts: tt.inserts}
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Compute(%q, %q) mismatch (-want +got):\n%s", tt.old, tt.new, diff)
			}
			if res := apply(old, new, got); !Equal(res, new, equal[string]) {
				t.Errorf("apply = %v, want %v", res, new)
			}
		})
	}
}

func TestCompute_MinimalCounts(t *testing.T) {
	old, new := split("abcabba"), split("cbabac")
	s := Compute(old, new)
	if len(s.Deletes) != 3 || len(s.Inserts) != 2 {
		t.Errorf("expected 3 deletes and 2 inserts, got %+v", s)
	}
	if res := apply(old, new, s); !Equal(res, new, equal[string]) {
		t.Errorf("apply = %v, want %v", res, new)
	}
}

func TestCompute_NoUpdatesWithoutChanged(t *testing.T) {
	s := Compute([]int{1, 2, 3}, []int{1, 2, 3})
	if !s.IsEmpty() {
		t.Errorf("expected empty script, got %+v", s)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

type pet struct {
	id   string
	mice int
}

func sameID(a, b pet) bool  { return a.id == b.id }
func payload(a, b pet) bool { return a.mice != b.mice }

func TestComputeFunc_Updates(t *testing.T) {
	old := []pet{{"a", 0}, {"b", 0}, {"c", 0}}
	new := []pet{{"b", 3}, {"c", 0}, {"d", 0}}

	got := ComputeFunc(old, new, sameID, payload)
	want := Script{Deletes: []int{0}, Inserts: []int{2}, Updates: []int{0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeFunc mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeFunc_PayloadOnly(t *testing.T) {
	old := []pet{{"a", 0}, {"b", 0}}
	new := []pet{{"a", 1}, {"b", 0}}

	got := ComputeFunc(old, new, sameID, payload)
	if len(got.Deletes) != 0 || len(got.Inserts) != 0 {
		t.Errorf("expected no positional change, got %+v", got)
	}
	if diff := cmp.Diff([]int{0}, got.Updates); diff != "" {
		t.Errorf("Updates mismatch (-want +got):\n%s", diff)
	}
}

func TestEdits(t *testing.T) {
	edits := Edits(split("ab"), split("b"), equal[string])
	want := []Edit{
		{Op: OpDelete, OldIndex: 0, NewIndex: -1},
		{Op: OpEqual, OldIndex: 1, NewIndex: 0},
	}
	if diff := cmp.Diff(want, edits); diff != "" {
		t.Errorf("Edits mismatch (-want +got):\n%s", diff)
	}
}

func TestOp_String(t *testing.T) {
	tests := []struct {
		op       Op
		expected string
	}{
		{OpEqual, "equal"},
		{OpDelete, "delete"},
		{OpInsert, "insert"},
		{Op(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.expected {
			t.Errorf("Op.String() = %v, want %v", got, tt.expected)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	if got := ParseAlgorithm("dmp"); got != AlgorithmDiffMatchPatch {
		t.Errorf("ParseAlgorithm(dmp) = %v", got)
	}
	if got := ParseAlgorithm("diffmatchpatch"); got.String() != "diffmatchpatch" {
		t.Errorf("ParseAlgorithm(diffmatchpatch) = %v", got)
	}
	if got := ParseAlgorithm("bogus"); got != AlgorithmMyers {
		t.Errorf("ParseAlgorithm(bogus) = %v, want myers", got)
	}
}

// lcsLen is the textbook dynamic programming LCS length.
func lcsLen(a, b []int) int {
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				dp[i][j] = dp[i-1][j-1] + 1
			case dp[i-1][j] >= dp[i][j-1]:
				dp[i][j] = dp[i-1][j]
			default:
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return dp[len(a)][len(b)]
}

func randomSeq(r *rand.Rand, maxLen, alphabet int) []int {
	out := make([]int, r.Intn(maxLen+1))
	for i := range out {
		out[i] = r.Intn(alphabet)
	}
	return out
}

func TestComputeWith_RandomSequences(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for _, alg := range []Algorithm{AlgorithmMyers, AlgorithmDiffMatchPatch} {
		t.Run(alg.String(), func(t *testing.T) {
			for i := 0; i < 300; i++ {
				old := randomSeq(r, 12, 5)
				new := randomSeq(r, 12, 5)

				s := ComputeWith(old, new, equal[int], nil, Options{Algorithm: alg})
				if res := apply(old, new, s); !Equal(res, new, equal[int]) {
					t.Fatalf("apply(%v -> %v) = %v using %+v", old, new, res, s)
				}
				if len(s.Updates) != 0 {
					t.Fatalf("unexpected updates %v", s.Updates)
				}
				if alg != AlgorithmMyers {
					continue
				}
				common := lcsLen(old, new)
				if len(s.Deletes) != len(old)-common || len(s.Inserts) != len(new)-common {
					t.Fatalf("script %+v for %v -> %v is not minimal (lcs %d)", s, old, new, common)
				}
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal([]int{}, nil, equal[int]) {
		t.Error("empty and nil should be equal")
	}
	if Equal([]int{1, 2}, []int{2, 1}, equal[int]) {
		t.Error("order must matter")
	}
	if Equal([]int{1}, []int{1, 1}, equal[int]) {
		t.Error("length must matter")
	}
}

func TestClassRune_SkipsSurrogates(t *testing.T) {
	if got := classRune(surrogateMin - 1); got != surrogateMin-1 {
		t.Errorf("classRune below surrogates = %x", got)
	}
	if got := classRune(surrogateMin); got != surrogateMax+1 {
		t.Errorf("classRune(surrogateMin) = %x, want %x", got, surrogateMax+1)
	}
}
