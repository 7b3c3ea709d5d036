package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/kgstat/graph"
)

func TestFacetTable_IncrementAutoCreatesBuckets(t *testing.T) {
	table := make(FacetTable)

	table.Increment("biolink:Gene", "provided_by", "infores:ctd")
	table.Increment("biolink:Gene", "provided_by", "infores:ctd")

	assert.Equal(t, int64(2), table["biolink:Gene"]["provided_by"]["infores:ctd"])
}

func TestFacetTable_MergeUnknown(t *testing.T) {
	table := make(FacetTable)

	table.MergeUnknown("biolink:Gene", "provided_by")

	assert.Equal(t, int64(1), table["biolink:Gene"]["provided_by"]["unknown"])
}

func TestFacetTable_Clone(t *testing.T) {
	table := make(FacetTable)
	table.Increment("bucket", "facet", "value")

	cloned := table.clone()
	table.Increment("bucket", "facet", "value")

	assert.Equal(t, int64(1), cloned["bucket"]["facet"]["value"])
	assert.Equal(t, int64(2), table["bucket"]["facet"]["value"])
}

func TestCountFacets(t *testing.T) {
	tests := []struct {
		name       string
		props      graph.PropertyMap
		wantCounts map[string]int64
		wantSeen   []string
	}{
		{
			name:       "absent value counts unknown",
			props:      graph.PropertyMap{},
			wantCounts: map[string]int64{"unknown": 1},
			wantSeen:   []string{"unknown"},
		},
		{
			name:       "scalar value counts once",
			props:      graph.PropertyMap{"provided_by": "infores:ctd"},
			wantCounts: map[string]int64{"infores:ctd": 1},
			wantSeen:   []string{"infores:ctd"},
		},
		{
			name:       "list counts each element",
			props:      graph.PropertyMap{"provided_by": []any{"infores:ctd", "infores:omim"}},
			wantCounts: map[string]int64{"infores:ctd": 1, "infores:omim": 1},
			wantSeen:   []string{"infores:ctd", "infores:omim"},
		},
		{
			name:       "duplicate list elements count once",
			props:      graph.PropertyMap{"provided_by": []any{"infores:ctd", "infores:ctd"}},
			wantCounts: map[string]int64{"infores:ctd": 1},
			wantSeen:   []string{"infores:ctd"},
		},
		{
			name:       "unusable value counts unknown",
			props:      graph.PropertyMap{"provided_by": 42},
			wantCounts: map[string]int64{"unknown": 1},
			wantSeen:   []string{"unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := make(FacetTable)
			seen := make(StringSet)

			countFacets(tt.props, table, "bucket", "provided_by", seen)

			assert.Equal(t, tt.wantCounts, table["bucket"]["provided_by"])
			assert.Equal(t, tt.wantSeen, seen.Sorted())
		})
	}
}

func TestCountFacets_EmptyListCountsNothing(t *testing.T) {
	table := make(FacetTable)
	seen := make(StringSet)

	countFacets(graph.PropertyMap{"provided_by": []any{}}, table, "bucket", "provided_by", seen)

	assert.Empty(t, table["bucket"]["provided_by"])
	assert.Zero(t, seen.Len())
}

func TestCountFacets_InputMapUntouched(t *testing.T) {
	props := graph.PropertyMap{"provided_by": []any{"infores:ctd"}}
	table := make(FacetTable)
	seen := make(StringSet)

	countFacets(props, table, "bucket", "provided_by", seen)

	require.Len(t, props, 1)
	assert.Equal(t, []any{"infores:ctd"}, props["provided_by"])
}
