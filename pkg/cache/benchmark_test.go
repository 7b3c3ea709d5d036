package cache

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

// BenchmarkCacheGet benchmarks Get operations on a populated LRU cache.
func BenchmarkCacheGet(b *testing.B) {
	cache, err := NewLRU[string](1000)
	if err != nil {
		b.Fatal(err)
	}
	defer cache.Close()

	// Pre-populate cache
	for i := 0; i < 1000; i++ {
		_, _ = cache.Set(fmt.Sprintf("key%d", i), fmt.Sprintf("value%d", i))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			key := fmt.Sprintf("key%d", rand.IntN(1000))
			cache.Get(key)
		}
	})
}

// BenchmarkCacheSet benchmarks Set operations, including eviction churn.
func BenchmarkCacheSet(b *testing.B) {
	cache, err := NewLRU[string](1000)
	if err != nil {
		b.Fatal(err)
	}
	defer cache.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("key%d", i)
			value := fmt.Sprintf("value%d", i)
			_, _ = cache.Set(key, value)
			i++
		}
	})
}

// BenchmarkCacheMixed benchmarks a mixed Get/Set/Delete workload.
func BenchmarkCacheMixed(b *testing.B) {
	cache, err := NewLRU[string](1000)
	if err != nil {
		b.Fatal(err)
	}
	defer cache.Close()

	// Pre-populate cache
	for i := 0; i < 500; i++ {
		_, _ = cache.Set(fmt.Sprintf("key%d", i), fmt.Sprintf("value%d", i))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			switch i % 10 {
			case 0, 1, 2, 3, 4, 5, 6: // 70% reads
				cache.Get(fmt.Sprintf("key%d", rand.IntN(1000)))
			case 7, 8: // 20% writes
				_, _ = cache.Set(fmt.Sprintf("key%d", i), fmt.Sprintf("value%d", i))
			case 9: // 10% deletes
				_, _ = cache.Delete(fmt.Sprintf("key%d", rand.IntN(1000)))
			}
			i++
		}
	})
}

// BenchmarkCacheHitRatio measures the conversion-memoization access pattern:
// a small hot set of identifiers dominating lookups.
func BenchmarkCacheHitRatio(b *testing.B) {
	cache, err := NewLRU[string](1024)
	if err != nil {
		b.Fatal(err)
	}
	defer cache.Close()

	// Hot set well inside capacity
	for i := 0; i < 100; i++ {
		_, _ = cache.Set(fmt.Sprintf("expand:GENE:%d", i), fmt.Sprintf("https://example.org/GENE_%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("expand:GENE:%d", i%100)
		if _, ok := cache.Get(key); !ok {
			_, _ = cache.Set(key, "refilled")
		}
	}
}
