// Package cache provides a thread-safe, generic LRU cache with built-in
// statistics tracking and optional Prometheus metrics integration.
//
// # Overview
//
// kgstat performs the same identifier conversions over and over while streaming
// graph records: every node id is split into prefix and reference, CURIEs are
// expanded, IRIs contracted. The cache bounds the memory of memoizing those
// results while keeping the hot set resident.
//
// # Quick Start
//
// LRU cache with capacity limit:
//
//	c, err := cache.NewLRU[string](1024)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	_, _ = c.Set("expand:GENE:12345", "https://example.org/GENE_12345")
//	value, ok := c.Get("expand:GENE:12345")
//
// With metrics and an eviction callback:
//
//	c, err := cache.NewLRU[string](1024,
//		cache.WithMetrics[string](registry, "prefix_manager"),
//		cache.WithEvictionCallback[string](func(key, value string) {
//			logger.Debug("conversion evicted", "key", key)
//		}),
//	)
//
// From configuration (returns a no-op cache when disabled):
//
//	c, err := cache.NewFromConfig[string](cfg.Cache)
//
// # Observability
//
// Statistics are always on: every cache tracks hits, misses, sets, deletes,
// evictions and size with atomic counters, exposed via Stats(). Prometheus
// export is opt-in via WithMetrics, which registers kgstat_cache_* series
// labeled with the owning component.
//
// # Thread Safety
//
// All operations are safe for concurrent use. Eviction callbacks run outside
// the cache lock; they must not call back into the same cache synchronously
// if they take locks of their own.
package cache
