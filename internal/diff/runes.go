package diff

import (
	"unicode/utf8"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Surrogate code points do not survive a []rune to string conversion, so
// class numbers skip over them.
const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
	maxClasses   = utf8.MaxRune + 1 - (surrogateMax - surrogateMin + 1)
)

// runeEdits maps every item to a rune naming its identity class and diffs
// the rune sequences with diffmatchpatch. It reports false when the items
// need more classes than there are usable runes.
func runeEdits[T any](old, new []T, same func(a, b T) bool) ([]Edit, bool) {
	var reps []T
	oldRunes, ok := classify(old, &reps, same)
	if !ok {
		return nil, false
	}
	newRunes, ok := classify(new, &reps, same)
	if !ok {
		return nil, false
	}

	dmp := diffpatch.New()
	dmp.DiffTimeout = 0 // no deadline keeps the result minimal
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)

	edits := make([]Edit, 0, len(old)+len(new))
	oi, ni := 0, 0
	for i := range diffs {
		count := utf8.RuneCountInString(diffs[i].Text)
		switch diffs[i].Type {
		case diffpatch.DiffEqual:
			for j := 0; j < count; j++ {
				edits = append(edits, Edit{Op: OpEqual, OldIndex: oi, NewIndex: ni})
				oi++
				ni++
			}
		case diffpatch.DiffDelete:
			for j := 0; j < count; j++ {
				edits = append(edits, Edit{Op: OpDelete, OldIndex: oi, NewIndex: -1})
				oi++
			}
		case diffpatch.DiffInsert:
			for j := 0; j < count; j++ {
				edits = append(edits, Edit{Op: OpInsert, OldIndex: -1, NewIndex: ni})
				ni++
			}
		}
	}
	return edits, true
}

// classify assigns each item the class of the first representative it is
// identity-equal to, adding new representatives as needed.
func classify[T any](items []T, reps *[]T, same func(a, b T) bool) ([]rune, bool) {
	runes := make([]rune, len(items))
	for i, item := range items {
		class := -1
		for c, rep := range *reps {
			if same(rep, item) {
				class = c
				break
			}
		}
		if class < 0 {
			if len(*reps) >= maxClasses {
				return nil, false
			}
			class = len(*reps)
			*reps = append(*reps, item)
		}
		runes[i] = classRune(class)
	}
	return runes, true
}

func classRune(class int) rune {
	if class >= surrogateMin {
		return rune(class + (surrogateMax - surrogateMin + 1))
	}
	return rune(class)
}
