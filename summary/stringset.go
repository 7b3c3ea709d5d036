package summary

import (
	"encoding/json"
	"sort"
)

// StringSet is a set of strings whose JSON and YAML renderings are sorted
// sequences, keeping report output deterministic.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given members.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set.
func (s StringSet) Add(value string) {
	s[value] = struct{}{}
}

// Has reports whether value is a member.
func (s StringSet) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// Len reports the member count.
func (s StringSet) Len() int {
	return len(s)
}

// Sorted returns the members in lexicographic order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON implements json.Marshaler, rendering a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// MarshalYAML implements yaml.Marshaler, rendering a sorted sequence.
func (s StringSet) MarshalYAML() (any, error) {
	return s.Sorted(), nil
}
