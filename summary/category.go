package summary

import (
	"encoding/json"
	"sort"
)

// Category accumulates the node counters of one category name: the member
// count plus counts grouped by provenance source and by identifier prefix.
// Exactly one instance exists per distinct name per summary, and only node
// analysis mutates it.
type Category struct {
	name            string
	id              CategoryID
	count           int64
	countBySource   map[string]int64
	countByIDPrefix map[string]int64
}

func newCategory(name string, id CategoryID) *Category {
	return &Category{
		name:            name,
		id:              id,
		countBySource:   map[string]int64{unknownKey: 0},
		countByIDPrefix: make(map[string]int64),
	}
}

// Name returns the category CURIE this aggregator counts.
func (c *Category) Name() string {
	return c.name
}

// ID returns the registry id assigned to the category.
func (c *Category) ID() CategoryID {
	return c.id
}

// Count returns the number of member nodes counted so far.
func (c *Category) Count() int64 {
	return c.count
}

// IDPrefixes returns the sorted identifier prefixes seen on member nodes.
func (c *Category) IDPrefixes() []string {
	prefixes := make([]string, 0, len(c.countByIDPrefix))
	for p := range c.countByIDPrefix {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

// CountBySource returns a copy of the per-source counters.
func (c *Category) CountBySource() map[string]int64 {
	return copyCounts(c.countBySource)
}

// CountByIDPrefix returns a copy of the per-prefix counters.
func (c *Category) CountByIDPrefix() map[string]int64 {
	return copyCounts(c.countByIDPrefix)
}

// observe counts one member node. prefix is empty when the node id had no
// extractable prefix; hasSources is false when the record carried no
// provided_by value at all.
func (c *Category) observe(prefix string, sources []string, hasSources bool) {
	c.count++

	if prefix != "" {
		c.countByIDPrefix[prefix]++
	}

	if !hasSources {
		c.countBySource[unknownKey]++
		return
	}
	for _, source := range sources {
		c.countBySource[source]++
	}
}

// categoryView is the serialization shape shared by both marshalers.
type categoryView struct {
	IDPrefixes      []string         `json:"id_prefixes" yaml:"id_prefixes"`
	Count           int64            `json:"count" yaml:"count"`
	CountBySource   map[string]int64 `json:"count_by_source" yaml:"count_by_source"`
	CountByIDPrefix map[string]int64 `json:"count_by_id_prefix" yaml:"count_by_id_prefix"`
}

func (c *Category) view() categoryView {
	return categoryView{
		IDPrefixes:      c.IDPrefixes(),
		Count:           c.count,
		CountBySource:   c.CountBySource(),
		CountByIDPrefix: c.CountByIDPrefix(),
	}
}

// MarshalJSON implements json.Marshaler, rendering the reporting view.
func (c *Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.view())
}

// MarshalYAML implements yaml.Marshaler, rendering the reporting view.
func (c *Category) MarshalYAML() (any, error) {
	return c.view(), nil
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
