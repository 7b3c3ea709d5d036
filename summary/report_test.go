package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	kgerrors "github.com/c360/kgstat/errors"
	"github.com/c360/kgstat/graph"
)

// memorySource feeds in-memory records through the graph.Source contract.
type memorySource struct {
	nodes []*graph.NodeRecord
	edges []*graph.EdgeRecord
}

func (m *memorySource) ForEachNode(ctx context.Context, fn func(*graph.NodeRecord) error) error {
	for _, node := range m.nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(node); err != nil {
			return err
		}
	}
	return nil
}

func (m *memorySource) ForEachEdge(ctx context.Context, fn func(*graph.EdgeRecord) error) error {
	for _, edge := range m.edges {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(edge); err != nil {
			return err
		}
	}
	return nil
}

// failingSource aborts node traversal with a fixed error.
type failingSource struct {
	err error
}

func (f *failingSource) ForEachNode(context.Context, func(*graph.NodeRecord) error) error {
	return f.err
}

func (f *failingSource) ForEachEdge(context.Context, func(*graph.EdgeRecord) error) error {
	return nil
}

func scenarioSource() *memorySource {
	return &memorySource{
		nodes: []*graph.NodeRecord{
			{ID: "HGNC:11603", Properties: graph.PropertyMap{
				"category":    []any{"biolink:Gene"},
				"provided_by": []any{"infores:ctd"},
			}},
			{ID: "MONDO:0005002", Properties: graph.PropertyMap{
				"category":    []any{"biolink:Disease"},
				"provided_by": []any{"infores:ctd"},
			}},
		},
		edges: []*graph.EdgeRecord{
			{Subject: "HGNC:11603", Object: "MONDO:0005002", Key: "e1", Properties: graph.PropertyMap{
				"predicate": "biolink:affects",
			}},
		},
	}
}

func TestSummarize_Scenario(t *testing.T) {
	s, _ := newTestSummary(t, WithName("test-graph"))

	report, err := s.Summarize(context.Background(), scenarioSource())
	require.NoError(t, err)
	assert.Equal(t, "test-graph", report.GraphName)

	nodes := report.NodeStats
	require.NotNil(t, nodes)
	assert.Equal(t, int64(2), nodes.TotalNodes)
	assert.Equal(t, []string{"biolink:Disease", "biolink:Gene", "unknown"}, nodes.NodeCategories)
	assert.Equal(t, []string{"HGNC", "MONDO"}, nodes.NodeIDPrefixes)
	assert.Equal(t, map[string]int64{
		"biolink:Disease": 1,
		"biolink:Gene":    1,
		"unknown":         0,
	}, nodes.CountByCategory)
	assert.Equal(t, map[string]int64{"HGNC": 1, "MONDO": 1}, nodes.CountByIDPrefixes)
	assert.Equal(t, []string{"HGNC"}, nodes.NodeIDPrefixesByCategory["biolink:Gene"])
	assert.Equal(t, map[string]int64{"MONDO": 1}, nodes.CountByIDPrefixesByCategory["biolink:Disease"])
	assert.Empty(t, nodes.CountByIDPrefixesByCategory["unknown"])

	edges := report.EdgeStats
	require.NotNil(t, edges)
	assert.Equal(t, int64(1), edges.TotalEdges)
	assert.Equal(t, []string{"biolink:affects"}, edges.Predicates)
	assert.Equal(t, int64(1), edges.CountByPredicates["biolink:affects"].Count)
	assert.Equal(t, int64(0), edges.CountByPredicates["unknown"].Count)
	assert.Equal(t, int64(1), edges.CountBySPO["biolink:Gene|biolink:affects|biolink:Disease"].Count)
}

func TestNodeStats_Idempotent(t *testing.T) {
	s, _ := newTestSummary(t)
	s.AnalyseNode(geneNode("HGNC:11603"))

	first := s.NodeStats()
	assert.Equal(t, int64(1), first.TotalNodes)

	s.AnalyseNode(geneNode("HGNC:11604"))
	second := s.NodeStats()

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), second.TotalNodes, "finalization freezes the report")
}

func TestEdgeStats_Idempotent(t *testing.T) {
	s, _ := newTestSummary(t)
	s.AnalyseNode(geneNode("HGNC:11603"))
	s.AnalyseEdge(affectsEdge("HGNC:11603", "HGNC:11603"))

	first := s.EdgeStats()
	s.AnalyseEdge(affectsEdge("HGNC:11603", "HGNC:11603"))
	second := s.EdgeStats()

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), second.TotalEdges)
}

func TestReport_Cached(t *testing.T) {
	s, _ := newTestSummary(t)

	first := s.Report()
	second := s.Report()
	assert.Same(t, first, second)
	assert.Same(t, first.NodeStats, s.NodeStats())
}

func TestNodeStats_PrefixCountsSumAcrossCategories(t *testing.T) {
	s, _ := newTestSummary(t)
	s.AnalyseNode(&graph.NodeRecord{ID: "HGNC:11603", Properties: graph.PropertyMap{
		"category": []any{"biolink:Gene", "biolink:NamedThing"},
	}})

	nodes := s.NodeStats()
	assert.Equal(t, int64(1), nodes.TotalNodes)
	assert.Equal(t, map[string]int64{"HGNC": 2}, nodes.CountByIDPrefixes,
		"the global tally sums per-category tables, one entry per membership")
}

func TestReport_FacetSections(t *testing.T) {
	s, _ := newTestSummary(t,
		WithNodeFacetProperties("provided_by"),
		WithEdgeFacetProperties("provided_by"),
	)

	src := scenarioSource()
	src.edges[0].Properties["provided_by"] = []any{"infores:ctd"}
	src.nodes[1].Properties = graph.PropertyMap{"category": []any{"biolink:Disease"}}

	report, err := s.Summarize(context.Background(), src)
	require.NoError(t, err)

	nodes := report.NodeStats
	assert.Equal(t, []string{"infores:ctd", "unknown"}, nodes.FacetValues["provided_by"])
	assert.Equal(t, int64(1), nodes.Facets["biolink:Gene"]["provided_by"]["infores:ctd"])
	assert.Equal(t, int64(1), nodes.Facets["biolink:Disease"]["provided_by"]["unknown"])

	edges := report.EdgeStats
	assert.Equal(t, []string{"infores:ctd"}, edges.FacetValues["provided_by"])
	assert.Equal(t, int64(1), edges.CountByPredicates["biolink:affects"].Facets["provided_by"]["infores:ctd"])
	triple := "biolink:Gene|biolink:affects|biolink:Disease"
	assert.Equal(t, int64(1), edges.CountBySPO[triple].Facets["provided_by"]["infores:ctd"])
}

func TestReport_NoFacetSectionsWithoutConfiguration(t *testing.T) {
	s, _ := newTestSummary(t)

	report, err := s.Summarize(context.Background(), scenarioSource())
	require.NoError(t, err)

	assert.Nil(t, report.NodeStats.FacetValues)
	assert.Nil(t, report.NodeStats.Facets)
	assert.Nil(t, report.EdgeStats.FacetValues)
}

func TestSummarize_SourceError(t *testing.T) {
	s, _ := newTestSummary(t)
	sentinel := errors.New("disk gone")

	_, err := s.Summarize(context.Background(), &failingSource{err: sentinel})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.ErrorContains(t, err, "traverse nodes")
}

func TestSummarize_ContextCancelled(t *testing.T) {
	s, _ := newTestSummary(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Summarize(ctx, scenarioSource())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize_RejectsFinalizedSummary(t *testing.T) {
	s, _ := newTestSummary(t)

	_, err := s.Summarize(context.Background(), scenarioSource())
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), scenarioSource())
	require.Error(t, err)
	assert.ErrorIs(t, err, kgerrors.ErrSummaryFinalized)
	assert.True(t, kgerrors.IsFatal(err))
}

func TestReport_WriteYAML(t *testing.T) {
	s, _ := newTestSummary(t, WithName("test-graph"))
	report, err := s.Summarize(context.Background(), scenarioSource())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteYAML(&buf))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "test-graph", decoded["graph_name"])

	nodeSection, ok := decoded["node_stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2, nodeSection["total_nodes"])
	assert.Equal(t, []any{"biolink:Disease", "biolink:Gene", "unknown"}, nodeSection["node_categories"])

	edgeSection, ok := decoded["edge_stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, edgeSection["total_edges"])
}

func TestReport_WriteJSON(t *testing.T) {
	s, _ := newTestSummary(t, WithName("test-graph"))
	report, err := s.Summarize(context.Background(), scenarioSource())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "test-graph", decoded["graph_name"])

	nodeSection, ok := decoded["node_stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), nodeSection["total_nodes"])
	_, hasFacets := nodeSection["facets"]
	assert.False(t, hasFacets, "unconfigured facet sections stay out of the document")
}

func TestReport_Save(t *testing.T) {
	s, _ := newTestSummary(t, WithName("test-graph"))
	report, err := s.Summarize(context.Background(), scenarioSource())
	require.NoError(t, err)

	var yamlOut bytes.Buffer
	require.NoError(t, report.Save(&yamlOut, ""))
	assert.Contains(t, yamlOut.String(), "graph_name: test-graph")

	var jsonOut bytes.Buffer
	require.NoError(t, report.Save(&jsonOut, "json"))
	assert.True(t, json.Valid(jsonOut.Bytes()))

	err = report.Save(&bytes.Buffer{}, "xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, kgerrors.ErrInvalidConfig)
	assert.True(t, kgerrors.IsInvalid(err))
}
