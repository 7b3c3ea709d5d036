package summary

import (
	"context"
	"time"

	kgerrors "github.com/c360/kgstat/errors"
	"github.com/c360/kgstat/graph"
)

// NodeStats is the finalized node section of a report.
type NodeStats struct {
	TotalNodes                  int64                       `json:"total_nodes" yaml:"total_nodes"`
	NodeCategories              []string                    `json:"node_categories" yaml:"node_categories"`
	NodeIDPrefixes              []string                    `json:"node_id_prefixes" yaml:"node_id_prefixes"`
	NodeIDPrefixesByCategory    map[string][]string         `json:"node_id_prefixes_by_category" yaml:"node_id_prefixes_by_category"`
	CountByCategory             map[string]int64            `json:"count_by_category" yaml:"count_by_category"`
	CountByIDPrefixes           map[string]int64            `json:"count_by_id_prefixes" yaml:"count_by_id_prefixes"`
	CountByIDPrefixesByCategory map[string]map[string]int64 `json:"count_by_id_prefixes_by_category" yaml:"count_by_id_prefixes_by_category"`
	FacetValues                 map[string][]string         `json:"facet_values,omitempty" yaml:"facet_values,omitempty"`
	Facets                      FacetTable                  `json:"facets,omitempty" yaml:"facets,omitempty"`
}

// PredicateBucket is one count_by_predicates or count_by_spo entry.
type PredicateBucket struct {
	Count  int64       `json:"count" yaml:"count"`
	Facets FacetCounts `json:"facets,omitempty" yaml:"facets,omitempty"`
}

// EdgeStats is the finalized edge section of a report.
type EdgeStats struct {
	TotalEdges        int64                      `json:"total_edges" yaml:"total_edges"`
	Predicates        []string                   `json:"predicates" yaml:"predicates"`
	CountByPredicates map[string]PredicateBucket `json:"count_by_predicates" yaml:"count_by_predicates"`
	CountBySPO        map[string]PredicateBucket `json:"count_by_spo" yaml:"count_by_spo"`
	FacetValues       map[string][]string        `json:"facet_values,omitempty" yaml:"facet_values,omitempty"`
}

// Report wraps the two finalized sections under the graph name.
type Report struct {
	GraphName string     `json:"graph_name" yaml:"graph_name"`
	NodeStats *NodeStats `json:"node_stats" yaml:"node_stats"`
	EdgeStats *EdgeStats `json:"edge_stats" yaml:"edge_stats"`
}

// NodeStats finalizes and returns the node report. The first call converts
// the live counters into sorted, copied views; later calls return the
// cached report unchanged.
func (s *GraphSummary) NodeStats() *NodeStats {
	if s.nodesFinalized {
		return s.nodeReport
	}
	s.nodesFinalized = true

	report := &NodeStats{
		TotalNodes:                  int64(len(s.catalog)),
		NodeIDPrefixesByCategory:    make(map[string][]string, len(s.categories)),
		CountByCategory:             make(map[string]int64, len(s.categories)),
		CountByIDPrefixes:           make(map[string]int64),
		CountByIDPrefixesByCategory: make(map[string]map[string]int64, len(s.categories)),
	}

	categoryNames := make(StringSet, len(s.categories))
	globalPrefixes := make(StringSet)

	for name, category := range s.categories {
		categoryNames.Add(name)
		report.CountByCategory[name] = category.Count()

		prefixes := category.IDPrefixes()
		report.NodeIDPrefixesByCategory[name] = prefixes
		for _, p := range prefixes {
			globalPrefixes.Add(p)
		}

		byPrefix := category.CountByIDPrefix()
		report.CountByIDPrefixesByCategory[name] = byPrefix
		for p, n := range byPrefix {
			report.CountByIDPrefixes[p] += n
		}
	}

	report.NodeCategories = categoryNames.Sorted()
	report.NodeIDPrefixes = globalPrefixes.Sorted()

	if len(s.nodeFacetProperties) > 0 {
		report.FacetValues = make(map[string][]string, len(s.nodeFacetProperties))
		for _, property := range s.nodeFacetProperties {
			report.FacetValues[property] = s.nodeFacetValues[property].Sorted()
		}
		report.Facets = s.nodeFacets.clone()
	}

	s.nodeReport = report
	return report
}

// EdgeStats finalizes and returns the edge report. The first call converts
// the live counters into sorted, copied views; later calls return the
// cached report unchanged.
func (s *GraphSummary) EdgeStats() *EdgeStats {
	if s.edgesFinalized {
		return s.edgeReport
	}
	s.edgesFinalized = true

	ec := s.edges
	report := &EdgeStats{
		TotalEdges:        ec.total,
		Predicates:        ec.predicates.Sorted(),
		CountByPredicates: make(map[string]PredicateBucket, len(ec.countByPredicate)),
		CountBySPO:        make(map[string]PredicateBucket, len(ec.countByTriple)),
	}

	for predicate, count := range ec.countByPredicate {
		report.CountByPredicates[predicate] = PredicateBucket{
			Count:  count,
			Facets: ec.predicateFacets[predicate].clone(),
		}
	}
	for key, count := range ec.countByTriple {
		report.CountBySPO[key] = PredicateBucket{
			Count:  count,
			Facets: ec.tripleFacets[key].clone(),
		}
	}

	if len(s.edgeFacetProperties) > 0 {
		report.FacetValues = make(map[string][]string, len(s.edgeFacetProperties))
		for _, property := range s.edgeFacetProperties {
			report.FacetValues[property] = ec.facetValues[property].Sorted()
		}
	}

	s.edgeReport = report
	return report
}

// Report finalizes both sections and wraps them under the graph name. Like
// the section accessors, the wrapped report is computed once and cached.
func (s *GraphSummary) Report() *Report {
	if s.graphReport == nil {
		s.graphReport = &Report{
			GraphName: s.name,
			NodeStats: s.NodeStats(),
			EdgeStats: s.EdgeStats(),
		}
	}
	return s.graphReport
}

// Summarize drives a full traversal of src, nodes strictly before edges,
// and returns the finalized report. Record-level problems are logged and
// skipped during analysis; only iteration failures abort the run. A summary
// that already produced a report cannot be traversed again.
func (s *GraphSummary) Summarize(ctx context.Context, src graph.Source) (*Report, error) {
	if s.nodesFinalized || s.edgesFinalized {
		return nil, kgerrors.WrapFatal(kgerrors.ErrSummaryFinalized, componentName, "Summarize", "traverse a finalized summary")
	}

	start := time.Now()

	if err := src.ForEachNode(ctx, func(node *graph.NodeRecord) error {
		return s.Observe(node)
	}); err != nil {
		return nil, kgerrors.Wrap(err, componentName, "Summarize", "traverse nodes")
	}
	if err := src.ForEachEdge(ctx, func(edge *graph.EdgeRecord) error {
		return s.Observe(edge)
	}); err != nil {
		return nil, kgerrors.Wrap(err, componentName, "Summarize", "traverse edges")
	}

	report := s.Report()
	if s.metrics != nil {
		s.metrics.RecordReportDuration(componentName, "summarize", time.Since(start))
	}
	return report, nil
}
