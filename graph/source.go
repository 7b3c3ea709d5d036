package graph

import (
	"context"
)

// Source delivers one graph as two ordered record streams. Summaries
// consume every node before the first edge, so implementations must be
// able to replay or hold the two streams independently.
type Source interface {
	// ForEachNode calls fn once per node record, in stream order.
	// Iteration stops at the first error from fn or from ctx.
	ForEachNode(ctx context.Context, fn func(*NodeRecord) error) error

	// ForEachEdge calls fn once per edge record, in stream order.
	// Iteration stops at the first error from fn or from ctx.
	ForEachEdge(ctx context.Context, fn func(*EdgeRecord) error) error
}
