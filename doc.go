// Package kgstat computes summary statistics over KGX knowledge graphs,
// either from node and edge files or live from a NATS stream.
//
// # Overview
//
// A knowledge graph summary answers the questions a graph maintainer asks
// after every build: how many nodes per category, how many edges per
// predicate, which sources contributed them, and which namespaces the
// identifiers come from. KGStat walks a graph exactly once and produces
// that report without ever holding the graph in memory.
//
// Two ingestion paths feed the same summarizer:
//
//   - File mode: KGX JSON Lines or TSV node/edge files read to completion
//   - Listen mode: KGX records consumed from NATS subjects until an
//     end-of-stream control message arrives
//
// # Architecture
//
// Records flow from a source through the summarizer into a report:
//
//	┌──────────────┐    ┌──────────────┐
//	│  JSON Lines  │    │     TSV      │      file mode
//	│    source    │    │    source    │
//	└──────┬───────┘    └──────┬───────┘
//	       └─────────┬─────────┘
//	                 ↓
//	        ┌────────────────┐         ┌──────────────┐
//	        │ GraphSummary   │ ←────── │   Ingestor   │  listen mode
//	        │ node analyzer  │         │ (NATS, queue)│
//	        │ edge analyzer  │         └──────────────┘
//	        └────────┬───────┘
//	                 ↓
//	        ┌────────────────┐
//	        │     Report     │  YAML or JSON
//	        └────────────────┘
//
// The summarizer tracks nodes and edges independently. Node statistics
// group by category; edge statistics group by subject category, predicate
// and object category, resolved through a catalog of node identifiers
// built as node records arrive. Identifier namespaces are derived with a
// CURIE prefix manager seeded from a JSON-LD context.
//
// # Packages
//
// Summarization:
//   - summary: Graph summarizer, category registries, facet counters
//   - graph: KGX record types shared by sources and the summarizer
//   - prefix: CURIE/IRI conversion backed by a JSON-LD context
//
// Ingestion:
//   - source: JSON Lines and TSV file sources
//   - stream: NATS client and live record ingestor
//
// Infrastructure:
//   - config: Configuration loading, env overrides, validation
//   - errors: Structured error handling with severity classification
//   - metric: Prometheus metrics and the metrics HTTP server
//   - pkg/cache: LRU caching
//   - pkg/retry: Retry policies
//
// # Usage Patterns
//
// Summarize a graph from files:
//
//	src := source.NewJSONLines("nodes.jsonl", "edges.jsonl")
//	sum := summary.New(summary.WithName("monarch-kg"))
//	report, err := sum.Summarize(ctx, src)
//	if err != nil {
//	    return err
//	}
//	report.Save(os.Stdout, "yaml")
//
// Ingest live records from NATS:
//
//	client, _ := stream.NewClient("nats://localhost:4222")
//	client.Connect(ctx)
//
//	ingestor := stream.NewIngestor(stream.IngestorDeps{
//	    Client:  client,
//	    Summary: summary.New(summary.WithName("live-kg")),
//	})
//	ingestor.Start(ctx)
//	<-ingestor.Done()
//	report := ingestor.Summary().Report()
//
// # Binary
//
// The kgstat command wraps both modes:
//
//	# Summarize KGX files to stdout
//	kgstat --nodes nodes.jsonl --edges edges.jsonl
//
//	# Ingest from NATS until end-of-stream, with metrics
//	kgstat --listen --nats-url nats://localhost:4222 --metrics-port 9090
package kgstat
