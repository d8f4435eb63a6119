package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegionOf(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want RegionKey
	}{
		{"origin", NewPosition(0, 0, 0), RegionKey{0, 0, 0}},
		{"inside first region", NewPosition(31.9, 1, 31), RegionKey{0, 0, 0}},
		{"boundary belongs to next region", NewPosition(32, 64, 96), RegionKey{1, 2, 3}},
		{"negative floors down", NewPosition(-0.5, -32, -32.1), RegionKey{-1, -1, -2}},
		{"crossing 31 to 33", NewPosition(33, 0, 0), RegionKey{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, RegionOf(tt.pos, DefaultRegionSize))
		})
	}
}

func TestRegionOf_NonFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	require.Equal(t, RegionKey{0, 0, 0}, RegionOf(NewPosition(nan, nan, nan), DefaultRegionSize))
	k := RegionOf(NewPosition(inf, -inf, 0), DefaultRegionSize)
	require.Equal(t, int32(math.MaxInt32), k.X)
	require.Equal(t, int32(math.MinInt32), k.Y)
}

func TestRangeFor(t *testing.T) {
	t.Run("pads one region around the covering span", func(t *testing.T) {
		r := RangeFor(NewPosition(0, 0, 0), 10, 32)
		require.Equal(t, RegionKey{-2, -2, -2}, r.Min)
		require.Equal(t, RegionKey{2, 2, 2}, r.Max)
		require.Equal(t, uint64(125), r.Volume())
	})

	t.Run("exact multiple of region size", func(t *testing.T) {
		r := RangeFor(NewPosition(40, 0, -1), 64, 32)
		require.Equal(t, RegionKey{1 - 3, -3, -1 - 3}, r.Min)
		require.Equal(t, RegionKey{1 + 3, 3, -1 + 3}, r.Max)
	})

	t.Run("huge distance saturates instead of wrapping", func(t *testing.T) {
		r := RangeFor(NewPosition(0, 0, 0), 1e30, 32)
		require.Equal(t, int32(-math.MaxInt32), r.Min.X)
		require.Equal(t, int32(math.MaxInt32), r.Max.X)
		require.Equal(t, uint64(math.MaxUint64), r.Volume())
	})
}

func TestPosition(t *testing.T) {
	a := NewPosition(1, 2, 3)

	require.True(t, a.ApproxEqual(NewPosition(1.05, 1.95, 3.09), 0.1))
	require.False(t, a.ApproxEqual(NewPosition(1.2, 2, 3), 0.1))
	require.Equal(t, float32(9+16), a.DistanceSq(NewPosition(4, 6, 3)))
}

func TestRegionKey_Ordering(t *testing.T) {
	require.True(t, RegionKey{0, 5, 5}.Less(RegionKey{1, 0, 0}))
	require.True(t, RegionKey{1, 0, 9}.Less(RegionKey{1, 1, 0}))
	require.False(t, RegionKey{1, 1, 1}.Less(RegionKey{1, 1, 1}))

	require.True(t, RegionKey{0, 0, 0}.Within(RegionKey{-1, -1, -1}, RegionKey{0, 0, 0}))
	require.False(t, RegionKey{1, 0, 0}.Within(RegionKey{-1, -1, -1}, RegionKey{0, 0, 0}))
}
