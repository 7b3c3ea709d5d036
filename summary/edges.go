package summary

import (
	"github.com/c360/kgstat/graph"
)

// TripleKeySeparator joins the three parts of a subject-predicate-object
// bucket key. Category CURIEs and predicates contain no '|', so keys split
// back unambiguously.
const TripleKeySeparator = "|"

// TripleKey builds the count_by_spo bucket key for one category pairing.
func TripleKey(subjectCategory, predicate, objectCategory string) string {
	return subjectCategory + TripleKeySeparator + predicate + TripleKeySeparator + objectCategory
}

// edgeCounters holds the live edge statistics of one run. Only edge
// analysis mutates them.
type edgeCounters struct {
	total            int64
	predicates       StringSet
	countByPredicate map[string]int64
	countByTriple    map[string]int64
	predicateFacets  FacetTable
	tripleFacets     FacetTable
	facetValues      map[string]StringSet
}

func newEdgeCounters() *edgeCounters {
	return &edgeCounters{
		predicates:       make(StringSet),
		countByPredicate: map[string]int64{unknownKey: 0},
		countByTriple:    make(map[string]int64),
		predicateFacets:  make(FacetTable),
		tripleFacets:     make(FacetTable),
		facetValues:      make(map[string]StringSet),
	}
}

// AnalyseEdge folds one edge record into the edge statistics. The edge and
// predicate counts are incremented speculatively; an edge whose subject or
// object is missing from the node catalog is rolled back before any triple
// counter moves. Triple counts cover the full cross product of the
// endpoints' category sets.
func (s *GraphSummary) AnalyseEdge(edge *graph.EdgeRecord) {
	ec := s.edges

	ec.total++
	predicate, hasPredicate := edge.Properties.String("predicate")
	if !hasPredicate {
		predicate = unknownKey
	}
	ec.countByPredicate[predicate]++

	if hasPredicate {
		ec.predicates.Add(predicate)
		for _, property := range s.edgeFacetProperties {
			countFacets(edge.Properties, ec.predicateFacets, predicate, property, ec.facetValues[property])
		}
	}

	subjectCategories, ok := s.catalog.categories(edge.Subject)
	if !ok {
		s.warn("missing_subject", "edge subject not found in node catalog, ignoring edge",
			"subject", edge.Subject, "edge_key", edge.Key)
		s.rollbackEdge(predicate)
		return
	}
	objectCategories, ok := s.catalog.categories(edge.Object)
	if !ok {
		s.warn("missing_object", "edge object not found in node catalog, ignoring edge",
			"object", edge.Object, "edge_key", edge.Key)
		s.rollbackEdge(predicate)
		return
	}

	for _, subjectID := range subjectCategories {
		subjectCategory, _ := s.registry.Name(subjectID)
		for _, objectID := range objectCategories {
			objectCategory, _ := s.registry.Name(objectID)

			key := TripleKey(subjectCategory, predicate, objectCategory)
			ec.countByTriple[key]++
			for _, property := range s.edgeFacetProperties {
				countFacets(edge.Properties, ec.tripleFacets, key, property, ec.facetValues[property])
			}
		}
	}
}

// rollbackEdge reverses the speculative increments of an invalid edge:
// the edge total and whichever predicate bucket was incremented. Predicate
// membership and facet counts already recorded are kept.
func (s *GraphSummary) rollbackEdge(predicate string) {
	s.edges.total--
	s.edges.countByPredicate[predicate]--
}
