// Package metric provides Prometheus-based metrics collection and an HTTP
// server for kgstat observability.
//
// The package offers a centralized metrics registry managing both core
// pipeline metrics (records received and processed, analysis warnings, report
// durations, NATS health) and component-specific metrics. It includes an HTTP
// server exposing metrics in Prometheus format.
//
// # Architecture
//
// The package follows a three-layer design:
//
//  1. Core Metrics: pipeline-level metrics automatically registered (Metrics type)
//  2. Component Registry: extensible registration for component-specific metrics (MetricsRegistrar interface)
//  3. HTTP Server: metrics endpoint with a health check (Server type)
//
// # Basic Usage
//
// Setting up metrics collection and the HTTP server:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
//	        logger.Error("metrics server failed", "error", err)
//	    }
//	}()
//
//	coreMetrics := registry.CoreMetrics()
//	coreMetrics.RecordReceived("ingestor", "node")
//	coreMetrics.RecordWarning("summary", "duplicate_node")
//
// The server exposes Prometheus-formatted metrics at /metrics and a health
// check at /health.
//
// # Component Metrics
//
// Components register their own collectors through the MetricsRegistrar
// interface; the registry detects duplicate registrations at both its own
// key level (component.metric) and the Prometheus level. The cache package
// uses this to export kgstat_cache_* series per owning component.
package metric
