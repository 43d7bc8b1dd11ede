package memory

import (
	"context"
	"fmt"
	"testing"
)

// Run with:
//
//	go test -bench=. -benchmem ./internal/storage/memory/...
var benchKeyCounts = []int{1_000, 100_000}

func prefillStore(b *testing.B, s *Store, count int) []string {
	b.Helper()
	ctx := context.Background()
	keys := make([]string, count)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
		if _, _, err := s.Set(ctx, keys[i], "value", SetOptions{}); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}
	return keys
}

func BenchmarkStoreSet(b *testing.B) {
	for _, shards := range []int{1, 16} {
		b.Run(fmt.Sprintf("shards_%d", shards), func(b *testing.B) {
			ctx := context.Background()
			s := New(WithShardCount(shards))

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, _, err := s.Set(ctx, fmt.Sprintf("key-%d", i), "value", SetOptions{}); err != nil {
					b.Fatalf("Set failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkStoreGet(b *testing.B) {
	for _, count := range benchKeyCounts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			ctx := context.Background()
			s := New()
			keys := prefillStore(b, s, count)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, _, err := s.Get(ctx, keys[i%len(keys)]); err != nil {
					b.Fatalf("Get failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkStoreGetParallel(b *testing.B) {
	for _, shards := range []int{1, 16} {
		b.Run(fmt.Sprintf("shards_%d", shards), func(b *testing.B) {
			ctx := context.Background()
			s := New(WithShardCount(shards))
			keys := prefillStore(b, s, 10_000)

			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					_, _, _ = s.Get(ctx, keys[i%len(keys)])
					i++
				}
			})
		})
	}
}
