package spatial

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

func populated(b *testing.B, n int) *Partition {
	b.Helper()
	p := NewPartition(DefaultConfig())
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range n {
		p.Register(EntityID(i), NewPosition(rng.Float32()*4096, rng.Float32()*64, rng.Float32()*4096), 0.5)
	}
	return p
}

func BenchmarkGetVisibleEntities(b *testing.B) {
	for _, dist := range []float32{32, 128, 512} {
		b.Run(fmt.Sprintf("miss/d=%v", dist), func(b *testing.B) {
			p := populated(b, 20_000)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				// every query moves the viewer, so the cache never hits
				_ = p.GetVisibleEntities(NewPosition(float32(i%4096), 32, 2048), dist)
			}
		})
	}

	b.Run("hit", func(b *testing.B) {
		p := populated(b, 20_000)
		viewer := NewPosition(2048, 32, 2048)
		_ = p.GetVisibleEntities(viewer, 128)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = p.GetVisibleEntities(viewer, 128)
		}
	})
}

func BenchmarkUpdatePosition(b *testing.B) {
	p := populated(b, 20_000)
	rng := rand.New(rand.NewPCG(3, 4))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.UpdatePosition(EntityID(i%20_000), NewPosition(rng.Float32()*4096, 32, rng.Float32()*4096))
	}
}

func BenchmarkGetVisibleEntitiesParallel(b *testing.B) {
	p := populated(b, 20_000)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		rng := rand.New(rand.NewPCG(rand.Uint64(), 0))
		for pb.Next() {
			_ = p.GetVisibleEntities(NewPosition(rng.Float32()*4096, 32, rng.Float32()*4096), 128)
		}
	})
}
