// Package summary implements the streaming knowledge graph summarizer: a
// one-pass accumulation of per-category node statistics and per-predicate
// edge statistics, including subject-predicate-object triple counts,
// finalized into a deterministic report.
//
// A GraphSummary must see every node before the first edge. Edge analysis
// validates both endpoints against the node catalog built during the node
// pass; feeding edges first silently drops them all.
package summary

import (
	"log/slog"

	kgerrors "github.com/c360/kgstat/errors"
	"github.com/c360/kgstat/graph"
	"github.com/c360/kgstat/metric"
	"github.com/c360/kgstat/prefix"
)

// unknownKey labels categories, sources, predicates and facet values a
// record did not supply.
const unknownKey = "unknown"

// componentName tags log and metric emissions from this package.
const componentName = "summary"

// ProgressMonitor observes every record before it is analysed. Monitors
// run synchronously on the caller's goroutine and must not mutate the
// record; a panicking monitor aborts the run.
type ProgressMonitor func(graph.EntityType, graph.Record)

// GraphSummary is the aggregate root of one summarization run. It owns the
// category registry, the node catalog and the live edge counters. Exactly
// one goroutine may feed a GraphSummary; there is no internal locking.
type GraphSummary struct {
	name                string
	nodeFacetProperties []string
	edgeFacetProperties []string

	logger   *slog.Logger
	monitor  ProgressMonitor
	prefixes *prefix.Manager
	metrics  *metric.Metrics

	registry   *Registry
	catalog    nodeCatalog
	categories map[string]*Category

	nodeFacets      FacetTable
	nodeFacetValues map[string]StringSet

	edges *edgeCounters

	nodesFinalized bool
	edgesFinalized bool
	nodeReport     *NodeStats
	edgeReport     *EdgeStats
	graphReport    *Report
}

// Option configures a GraphSummary during construction.
type Option func(*GraphSummary)

// WithName assigns the graph name carried by the wrapped report.
func WithName(name string) Option {
	return func(s *GraphSummary) {
		s.name = name
	}
}

// WithNodeFacetProperties selects the node properties faceted per
// category, for example "provided_by".
func WithNodeFacetProperties(properties ...string) Option {
	return func(s *GraphSummary) {
		s.nodeFacetProperties = properties
	}
}

// WithEdgeFacetProperties selects the edge properties faceted per
// predicate and per triple.
func WithEdgeFacetProperties(properties ...string) Option {
	return func(s *GraphSummary) {
		s.edgeFacetProperties = properties
	}
}

// WithLogger routes analysis warnings; defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *GraphSummary) {
		s.logger = logger
	}
}

// WithProgressMonitor installs a synchronous record observer.
func WithProgressMonitor(monitor ProgressMonitor) Option {
	return func(s *GraphSummary) {
		s.monitor = monitor
	}
}

// WithPrefixManager sets the converter used to classify identifier
// prefixes; defaults to a manager over the compiled-in context.
func WithPrefixManager(m *prefix.Manager) Option {
	return func(s *GraphSummary) {
		s.prefixes = m
	}
}

// WithMetrics enables Prometheus counters for received records and
// analysis warnings.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(s *GraphSummary) {
		s.metrics = metrics
	}
}

// New builds an empty summary. The reserved unknown category exists from
// the start and absorbs nodes that carry no category.
func New(opts ...Option) *GraphSummary {
	s := &GraphSummary{
		logger:          slog.Default(),
		registry:        NewRegistry(),
		catalog:         make(nodeCatalog),
		categories:      make(map[string]*Category),
		nodeFacets:      make(FacetTable),
		nodeFacetValues: make(map[string]StringSet),
		edges:           newEdgeCounters(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.prefixes == nil {
		s.prefixes = prefix.NewManager(prefix.WithLogger(s.logger))
	}
	for _, property := range s.nodeFacetProperties {
		s.nodeFacetValues[property] = make(StringSet)
	}
	for _, property := range s.edgeFacetProperties {
		s.edges.facetValues[property] = make(StringSet)
	}

	s.ensureCategory(unknownKey)
	return s
}

// Name returns the graph name assigned to the summary.
func (s *GraphSummary) Name() string {
	return s.name
}

// Registry exposes the category registry owned by this summary.
func (s *GraphSummary) Registry() *Registry {
	return s.registry
}

// Category returns the aggregator for name when one exists.
func (s *GraphSummary) Category(name string) (*Category, bool) {
	c, ok := s.categories[name]
	return c, ok
}

// ensureCategory returns the aggregator for name, registering the name and
// creating the aggregator on first sighting.
func (s *GraphSummary) ensureCategory(name string) *Category {
	if c, ok := s.categories[name]; ok {
		return c
	}
	c := newCategory(name, s.registry.Register(name))
	s.categories[name] = c
	return c
}

// Observe dispatches one record to the matching analyzer. The progress
// monitor, when configured, sees the record before dispatch.
func (s *GraphSummary) Observe(rec graph.Record) error {
	if rec == nil {
		return kgerrors.WrapFatal(kgerrors.ErrMalformedRecord, componentName, "Observe", "dispatch nil record")
	}

	if s.monitor != nil {
		s.monitor(rec.EntityType(), rec)
	}

	switch r := rec.(type) {
	case *graph.NodeRecord:
		if r == nil {
			return kgerrors.WrapFatal(kgerrors.ErrMalformedRecord, componentName, "Observe", "dispatch nil node record")
		}
		s.recordReceived(graph.EntityNode)
		s.AnalyseNode(r)
	case *graph.EdgeRecord:
		if r == nil {
			return kgerrors.WrapFatal(kgerrors.ErrMalformedRecord, componentName, "Observe", "dispatch nil edge record")
		}
		s.recordReceived(graph.EntityEdge)
		s.AnalyseEdge(r)
	default:
		return kgerrors.WrapFatal(kgerrors.ErrUnknownEntityType, componentName, "Observe", "dispatch record of type "+rec.EntityType().String())
	}
	return nil
}

// AnalyseNode folds one node record into the category statistics. A
// duplicate id leaves every counter untouched; a record without a category
// value is absorbed by the reserved unknown category.
func (s *GraphSummary) AnalyseNode(node *graph.NodeRecord) {
	if s.catalog.has(node.ID) {
		s.warn("duplicate_node", "duplicate node identifier, ignoring record", "node_id", node.ID)
		return
	}
	s.catalog.add(node.ID)

	idPrefix, _ := s.prefixes.GetPrefix(node.ID)
	if idPrefix == "" {
		s.warn("missing_prefix", "node identifier has no extractable prefix", "node_id", node.ID)
	}

	sources, hasSources := node.Properties.StringList("provided_by")

	names, ok := node.Properties.StringList("category")
	if !ok {
		s.countNodeCategory(s.categories[unknownKey], node, idPrefix, sources, hasSources)
		s.warn("missing_category", "node is missing its category value, counting as unknown", "node_id", node.ID)
		return
	}

	// category names may repeat within one record; count each once
	counted := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := counted[name]; dup {
			continue
		}
		counted[name] = struct{}{}

		category := s.ensureCategory(name)
		s.catalog.appendCategory(node.ID, category.ID())
		s.countNodeCategory(category, node, idPrefix, sources, hasSources)
	}
}

// countNodeCategory updates one category's counters and its facet bucket
// for a member node.
func (s *GraphSummary) countNodeCategory(category *Category, node *graph.NodeRecord, idPrefix string, sources []string, hasSources bool) {
	category.observe(idPrefix, sources, hasSources)
	for _, property := range s.nodeFacetProperties {
		countFacets(node.Properties, s.nodeFacets, category.Name(), property, s.nodeFacetValues[property])
	}
}

// warn logs an analysis warning and counts it when metrics are enabled.
func (s *GraphSummary) warn(warningType, msg string, args ...any) {
	s.logger.Warn(msg, args...)
	if s.metrics != nil {
		s.metrics.RecordWarning(componentName, warningType)
	}
}

func (s *GraphSummary) recordReceived(kind graph.EntityType) {
	if s.metrics != nil {
		s.metrics.RecordReceived(componentName, kind.String())
	}
}
