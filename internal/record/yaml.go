package record

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrMissingID is returned when a decoded record has no id.
var ErrMissingID = errors.New("record has no id")

// ErrDuplicateID is returned when two decoded records share an id.
var ErrDuplicateID = errors.New("duplicate record id")

// document is the on-disk layout: either a bare list or {records: [...]}.
type document struct {
	Records []map[string]yaml.Node `yaml:"records"`
}

// Decode parses a YAML list of records. Each entry is a mapping whose "id"
// key becomes the Record ID; every other scalar value becomes a field.
// The document may also wrap the list under a top-level "records" key.
func Decode(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal is Decode for an in-memory document.
func Unmarshal(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}

	var entries []map[string]yaml.Node
	body := &root
	if body.Kind == 0 || (body.Kind == yaml.DocumentNode && len(body.Content) == 0) {
		return nil, nil
	}
	if body.Kind == yaml.DocumentNode {
		body = body.Content[0]
	}
	switch body.Kind {
	case yaml.SequenceNode:
		if err := body.Decode(&entries); err != nil {
			return nil, fmt.Errorf("parsing records: %w", err)
		}
	case yaml.MappingNode:
		var doc document
		if err := body.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing records: %w", err)
		}
		entries = doc.Records
	default:
		return nil, fmt.Errorf("parsing records: line %d: expected a list of records", body.Line)
	}

	out := make([]Record, 0, len(entries))
	seen := make(map[string]int, len(entries))
	for i, entry := range entries {
		rec, err := fromMap(entry)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if prev, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("records %d and %d: %w %q", prev, i, ErrDuplicateID, rec.ID)
		}
		seen[rec.ID] = i
		out = append(out, rec)
	}
	return out, nil
}

func fromMap(entry map[string]yaml.Node) (Record, error) {
	rec := Record{Fields: make(map[string]string, len(entry))}
	for k, v := range entry {
		s, err := scalar(&v)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: %w", k, err)
		}
		if k == "id" {
			rec.ID = s
			continue
		}
		rec.Fields[k] = s
	}
	if rec.ID == "" {
		return Record{}, ErrMissingID
	}
	return rec, nil
}

// scalar returns the literal text of a scalar node; nulls become "".
func scalar(n *yaml.Node) (string, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: expected a scalar value", n.Line)
	}
	if n.Tag == "!!null" {
		return "", nil
	}
	return n.Value, nil
}

// Marshal encodes records as a YAML list, the inverse of Unmarshal.
func Marshal(records []Record) ([]byte, error) {
	entries := make([]map[string]string, len(records))
	for i, r := range records {
		m := make(map[string]string, len(r.Fields)+1)
		for k, v := range r.Fields {
			m[k] = v
		}
		m["id"] = r.ID
		entries[i] = m
	}
	return yaml.Marshal(entries)
}
