package spatial

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/spatial/pkg/sequence"
)

// bucket holds the ids of one region in insertion order.
// index maps an id to its slot in ids so removal is O(1).
type bucket struct {
	ids   []EntityID
	index map[EntityID]int
}

func newBucket() *bucket {
	return &bucket{index: make(map[EntityID]int, 4)}
}

func (b *bucket) add(id EntityID) {
	if _, ok := b.index[id]; ok {
		return
	}
	b.index[id] = len(b.ids)
	b.ids = append(b.ids, id)
}

func (b *bucket) remove(id EntityID) bool {
	i, ok := b.index[id]
	if !ok {
		return false
	}
	last := len(b.ids) - 1
	if i != last {
		moved := b.ids[last]
		b.ids[i] = moved
		b.index[moved] = i
	}
	b.ids = b.ids[:last]
	delete(b.index, id)
	return true
}

// RegionGrid is a sparse map from region coordinates to the entities inside them.
// It is not safe for concurrent use; Partition serialises access.
type RegionGrid struct {
	regionSize float32
	buckets    map[RegionKey]*bucket
	count      int
}

// NewRegionGrid creates an empty grid with the given region edge length.
func NewRegionGrid(regionSize float32) *RegionGrid {
	if regionSize <= 0 {
		regionSize = DefaultRegionSize
	}
	return &RegionGrid{
		regionSize: regionSize,
		buckets:    make(map[RegionKey]*bucket),
	}
}

// RegionSize returns the edge length of one region.
func (g *RegionGrid) RegionSize() float32 {
	return g.regionSize
}

// Add puts id into the bucket of the region containing p.
func (g *RegionGrid) Add(id EntityID, p Position) {
	key := RegionOf(p, g.regionSize)
	b, ok := g.buckets[key]
	if !ok {
		b = newBucket()
		g.buckets[key] = b
	}
	before := len(b.ids)
	b.add(id)
	g.count += len(b.ids) - before
}

// Remove takes id out of the bucket of the region containing p.
// An emptied bucket is dropped from the grid.
func (g *RegionGrid) Remove(id EntityID, p Position) {
	key := RegionOf(p, g.regionSize)
	b, ok := g.buckets[key]
	if !ok {
		return
	}
	if b.remove(id) {
		g.count--
	}
	if len(b.ids) == 0 {
		delete(g.buckets, key)
	}
}

// Contains reports whether id is bucketed under key.
func (g *RegionGrid) Contains(key RegionKey, id EntityID) bool {
	b, ok := g.buckets[key]
	if !ok {
		return false
	}
	_, ok = b.index[id]
	return ok
}

// Bucket returns a copy of the ids stored under key.
func (g *RegionGrid) Bucket(key RegionKey) []EntityID {
	b, ok := g.buckets[key]
	if !ok {
		return nil
	}
	return slices.Clone(b.ids)
}

// HasBucket reports whether a bucket exists for key.
func (g *RegionGrid) HasBucket(key RegionKey) bool {
	_, ok := g.buckets[key]
	return ok
}

// RegionCount returns the number of non-empty regions.
func (g *RegionGrid) RegionCount() int {
	return len(g.buckets)
}

// Len returns the number of bucketed ids.
func (g *RegionGrid) Len() int {
	return g.count
}

// Keys returns the live region keys in x, y, z order.
func (g *RegionGrid) Keys() []RegionKey {
	keys := make([]RegionKey, 0, len(g.buckets))
	for k := range g.buckets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// QueryRange lazily yields every id bucketed inside r.
//
// Small ranges are walked coordinate by coordinate. When the range covers more
// cells than there are live buckets, the sorted live keys are filtered instead.
// Either way the order is fixed for a given grid state. The iterator must be
// drained before the grid is mutated.
func (g *RegionGrid) QueryRange(r RegionRange) *sequence.Iterator[EntityID] {
	return sequence.FromSeq(func(yield func(EntityID) bool) {
		g.visitRange(r, func(_ RegionKey, b *bucket) bool {
			for _, id := range b.ids {
				if !yield(id) {
					return false
				}
			}
			return true
		})
	})
}

// visitRange calls fn for each live bucket inside r and returns the number of
// regions examined.
func (g *RegionGrid) visitRange(r RegionRange, fn func(RegionKey, *bucket) bool) uint64 {
	volume := r.Volume()
	if volume == 0 || len(g.buckets) == 0 {
		return 0
	}

	if volume > uint64(len(g.buckets)) {
		var checked uint64
		for _, key := range g.Keys() {
			if !key.Within(r.Min, r.Max) {
				continue
			}
			checked++
			if !fn(key, g.buckets[key]) {
				break
			}
		}
		return checked
	}

	var checked uint64
	for x := int64(r.Min.X); x <= int64(r.Max.X); x++ {
		for y := int64(r.Min.Y); y <= int64(r.Max.Y); y++ {
			for z := int64(r.Min.Z); z <= int64(r.Max.Z); z++ {
				checked++
				key := RegionKey{X: int32(x), Y: int32(y), Z: int32(z)}
				b, ok := g.buckets[key]
				if !ok {
					continue
				}
				if !fn(key, b) {
					return checked
				}
			}
		}
	}
	return checked
}

// Digest fingerprints the grid contents. Two grids with the same keys and the
// same membership produce the same digest regardless of insertion order.
func (g *RegionGrid) Digest() uint64 {
	h := xxhash.New()
	var buf [12]byte
	for _, key := range g.Keys() {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(key.X))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(key.Y))
		binary.LittleEndian.PutUint32(buf[8:12], uint32(key.Z))
		_, _ = h.Write(buf[:])

		ids := slices.Clone(g.buckets[key].ids)
		slices.Sort(ids)
		for _, id := range ids {
			binary.LittleEndian.PutUint64(buf[0:8], uint64(id))
			_, _ = h.Write(buf[:8])
		}
	}
	return h.Sum64()
}

// Clear drops every bucket.
func (g *RegionGrid) Clear() {
	g.buckets = make(map[RegionKey]*bucket)
	g.count = 0
}

func compareKeys(a, b RegionKey) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}
