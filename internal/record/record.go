// Package record defines the keyed records served by file-backed sources.
package record

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Record is a keyed bag of string fields.
type Record struct {
	ID     string
	Fields map[string]string
}

// Field returns the value of name. The pseudo-field "id" returns the ID.
func (r Record) Field(name string) string {
	if name == "id" {
		return r.ID
	}
	return r.Fields[name]
}

// String formats the record as "id {k=v, ...}" with keys sorted.
func (r Record) String() string {
	if len(r.Fields) == 0 {
		return r.ID
	}
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(r.ID)
	b.WriteString(" {")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", k, r.Fields[k])
	}
	b.WriteString("}")
	return b.String()
}

// Same reports whether a and b identify the same record.
func Same(a, b Record) bool {
	return a.ID == b.ID
}

// Changed reports whether two records with the same ID carry different fields.
func Changed(a, b Record) bool {
	return !maps.Equal(a.Fields, b.Fields)
}

// ByField returns an ordering on the named field. Records with equal values
// keep their relative order under a stable sort.
func ByField(name string, desc bool) func(a, b Record) bool {
	if desc {
		return func(a, b Record) bool { return a.Field(name) > b.Field(name) }
	}
	return func(a, b Record) bool { return a.Field(name) < b.Field(name) }
}

// Matching returns a predicate accepting records whose field equals value.
func Matching(name, value string) func(Record) bool {
	return func(r Record) bool { return r.Field(name) == value }
}
