package spatial

import (
	"math"
	"math/bits"
)

// EntityID identifies a tracked entity. It matches the host's 64-bit ids.
type EntityID int64

// Position is a point in world space.
type Position struct {
	X, Y, Z float32
}

// NewPosition creates a Position from its three coordinates.
func NewPosition(x, y, z float32) Position {
	return Position{X: x, Y: y, Z: z}
}

// ApproxEqual reports whether every axis differs by less than eps.
func (p Position) ApproxEqual(o Position, eps float32) bool {
	return absf(p.X-o.X) < eps && absf(p.Y-o.Y) < eps && absf(p.Z-o.Z) < eps
}

// DistanceSq returns the squared euclidean distance between two positions.
func (p Position) DistanceSq(o Position) float32 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return dx*dx + dy*dy + dz*dz
}

// RegionKey is the integer coordinate of a region cube.
type RegionKey struct {
	X, Y, Z int32
}

// Less orders keys x-major, then y, then z.
func (k RegionKey) Less(o RegionKey) bool {
	if k.X != o.X {
		return k.X < o.X
	}
	if k.Y != o.Y {
		return k.Y < o.Y
	}
	return k.Z < o.Z
}

// Within reports whether k lies inside the inclusive box [min, max].
func (k RegionKey) Within(min, max RegionKey) bool {
	return k.X >= min.X && k.X <= max.X &&
		k.Y >= min.Y && k.Y <= max.Y &&
		k.Z >= min.Z && k.Z <= max.Z
}

// RegionRange is an inclusive box of region coordinates.
type RegionRange struct {
	Min RegionKey
	Max RegionKey
}

// Volume returns the number of regions covered by the range, saturating at
// math.MaxUint64.
func (r RegionRange) Volume() uint64 {
	if r.Max.X < r.Min.X || r.Max.Y < r.Min.Y || r.Max.Z < r.Min.Z {
		return 0
	}
	dx := uint64(int64(r.Max.X)-int64(r.Min.X)) + 1
	dy := uint64(int64(r.Max.Y)-int64(r.Min.Y)) + 1
	dz := uint64(int64(r.Max.Z)-int64(r.Min.Z)) + 1

	hi, xy := bits.Mul64(dx, dy)
	if hi != 0 {
		return math.MaxUint64
	}
	hi, xyz := bits.Mul64(xy, dz)
	if hi != 0 {
		return math.MaxUint64
	}
	return xyz
}

// RegionOf maps a world position to the region containing it.
func RegionOf(p Position, regionSize float32) RegionKey {
	return RegionKey{
		X: regionCoord(p.X, regionSize),
		Y: regionCoord(p.Y, regionSize),
		Z: regionCoord(p.Z, regionSize),
	}
}

// RangeFor returns the regions a sphere of viewDistance around viewer may touch.
// The span is padded by one region so a viewer next to a boundary never misses
// a neighbour.
func RangeFor(viewer Position, viewDistance, regionSize float32) RegionRange {
	center := RegionOf(viewer, regionSize)
	span := clampInt32(math.Ceil(float64(viewDistance)/float64(regionSize)) + 1)

	return RegionRange{
		Min: RegionKey{X: addClamped(center.X, -span), Y: addClamped(center.Y, -span), Z: addClamped(center.Z, -span)},
		Max: RegionKey{X: addClamped(center.X, span), Y: addClamped(center.Y, span), Z: addClamped(center.Z, span)},
	}
}

func regionCoord(v, regionSize float32) int32 {
	return clampInt32(math.Floor(float64(v) / float64(regionSize)))
}

func clampInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}

func addClamped(a, b int32) int32 {
	return clampInt32(float64(a) + float64(b))
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
