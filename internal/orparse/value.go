// Package orparse parses the legacy nested key/value text encoding used by
// the business-registry CSV export for its structured field. The format is
// the Java Map.toString() rendering: {key=value;key2={nested=v}} with
// [..., ...] arrays, where separators may also occur inside free-text values.
package orparse

import "strings"

type Kind int

const (
	KindScalar Kind = iota
	KindMap
	KindList
)

// Entry is one key/value pair of a map node. Keys may repeat, order is
// preserved.
type Entry struct {
	Key   string
	Value *Value
}

// Value is a node of the generic parse tree. Produced once per parse and not
// mutated afterwards.
type Value struct {
	Kind    Kind
	Text    string   // KindScalar
	Entries []Entry  // KindMap
	Items   []*Value // KindList
}

// Get returns the value of the first entry with the given key, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != KindMap {
		return nil
	}
	for _, e := range v.Entries {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Str returns the trimmed scalar text under key, or "" when the key is
// missing or holds a non-scalar.
func (v *Value) Str(key string) string {
	c := v.Get(key)
	if c == nil || c.Kind != KindScalar {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

// Has reports whether the map has an entry with the given key.
func (v *Value) Has(key string) bool {
	return v.Get(key) != nil
}
