package summary

import (
	"github.com/c360/kgstat/graph"
)

// FacetCounts holds the facet counters of one bucket: facet property name
// to facet value to count.
type FacetCounts map[string]map[string]int64

// clone returns a deep copy of the counts; nil stays nil.
func (fc FacetCounts) clone() FacetCounts {
	if fc == nil {
		return nil
	}
	out := make(FacetCounts, len(fc))
	for facet, values := range fc {
		copied := make(map[string]int64, len(values))
		for value, n := range values {
			copied[value] = n
		}
		out[facet] = copied
	}
	return out
}

// FacetTable buckets facet counters by an arbitrary key: the category name
// for node facets, the predicate or triple key for edge facets.
type FacetTable map[string]FacetCounts

// Increment bumps the counter for value under bucket and facet, creating
// the bucket and facet maps on first use.
func (t FacetTable) Increment(bucket, facet, value string) {
	counts, ok := t[bucket]
	if !ok {
		counts = make(FacetCounts)
		t[bucket] = counts
	}
	values, ok := counts[facet]
	if !ok {
		values = make(map[string]int64)
		counts[facet] = values
	}
	values[value]++
}

// MergeUnknown records one sighting of bucket with no usable facet value.
func (t FacetTable) MergeUnknown(bucket, facet string) {
	t.Increment(bucket, facet, unknownKey)
}

// clone returns a deep copy of the table.
func (t FacetTable) clone() FacetTable {
	out := make(FacetTable, len(t))
	for bucket, counts := range t {
		out[bucket] = counts.clone()
	}
	return out
}

// countFacets applies one facet property of a record to the table. An
// absent or unusable value counts as "unknown"; a list value counts once
// per distinct element; a scalar counts once. Every counted value is
// mirrored into seen, feeding the report's sorted global facet-value
// lists. The property map is read, never written.
func countFacets(props graph.PropertyMap, table FacetTable, bucket, facet string, seen StringSet) {
	values, ok := props.StringList(facet)
	if !ok {
		table.MergeUnknown(bucket, facet)
		seen.Add(unknownKey)
		return
	}

	counted := make(map[string]struct{}, len(values))
	for _, value := range values {
		if _, dup := counted[value]; dup {
			continue
		}
		counted[value] = struct{}{}
		table.Increment(bucket, facet, value)
		seen.Add(value)
	}
}
