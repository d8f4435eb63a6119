package spatial

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func sorted(ids []EntityID) []EntityID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

func TestRegionGrid_AddRemove(t *testing.T) {
	g := NewRegionGrid(32)
	p := NewPosition(10, 10, 10)
	key := RegionOf(p, 32)

	g.Add(1, p)
	g.Add(2, p)
	g.Add(2, p)
	require.Equal(t, 2, g.Len())
	require.Equal(t, 1, g.RegionCount())
	require.Equal(t, []EntityID{1, 2}, g.Bucket(key))
	require.True(t, g.Contains(key, 1))

	g.Remove(1, p)
	require.False(t, g.Contains(key, 1))
	require.Equal(t, []EntityID{2}, g.Bucket(key))

	g.Remove(2, p)
	require.Zero(t, g.Len())
	require.False(t, g.HasBucket(key), "empty buckets must be dropped")
	require.Zero(t, g.RegionCount())

	// removing from a missing bucket is a no-op
	g.Remove(3, p)
	require.Zero(t, g.Len())
}

func TestRegionGrid_BucketIsACopy(t *testing.T) {
	g := NewRegionGrid(32)
	g.Add(7, NewPosition(0, 0, 0))

	b := g.Bucket(RegionKey{})
	b[0] = 99
	require.Equal(t, []EntityID{7}, g.Bucket(RegionKey{}))
}

func TestRegionGrid_QueryRange(t *testing.T) {
	g := NewRegionGrid(32)
	g.Add(1, NewPosition(0, 0, 0))
	g.Add(2, NewPosition(40, 0, 0))
	g.Add(3, NewPosition(-40, 0, 0))
	g.Add(4, NewPosition(500, 500, 500))
	g.Add(5, NewPosition(1, 1, 1))

	t.Run("coordinate walk", func(t *testing.T) {
		r := RegionRange{Min: RegionKey{0, 0, 0}, Max: RegionKey{1, 0, 0}}
		require.Less(t, r.Volume(), uint64(g.RegionCount()))
		require.Equal(t, []EntityID{1, 2, 5}, sorted(g.QueryRange(r).Collect()))
	})

	t.Run("live key scan", func(t *testing.T) {
		r := RegionRange{Min: RegionKey{-10, -10, -10}, Max: RegionKey{10, 10, 10}}
		require.Greater(t, r.Volume(), uint64(g.RegionCount()))
		require.Equal(t, []EntityID{1, 2, 3, 5}, sorted(g.QueryRange(r).Collect()))
	})

	t.Run("deterministic order", func(t *testing.T) {
		r := RegionRange{Min: RegionKey{-100, -100, -100}, Max: RegionKey{100, 100, 100}}
		first := g.QueryRange(r).Collect()
		for range 10 {
			require.Equal(t, first, g.QueryRange(r).Collect())
		}
	})

	t.Run("lazy and stoppable", func(t *testing.T) {
		r := RegionRange{Min: RegionKey{-100, -100, -100}, Max: RegionKey{100, 100, 100}}
		require.Len(t, g.QueryRange(r).Take(2).Collect(), 2)
	})

	t.Run("inverted range is empty", func(t *testing.T) {
		r := RegionRange{Min: RegionKey{1, 0, 0}, Max: RegionKey{0, 0, 0}}
		require.Zero(t, g.QueryRange(r).Count())
	})
}

func TestRegionGrid_Digest(t *testing.T) {
	a := NewRegionGrid(32)
	b := NewRegionGrid(32)

	a.Add(1, NewPosition(0, 0, 0))
	a.Add(2, NewPosition(0, 0, 0))
	a.Add(3, NewPosition(100, 0, 0))

	b.Add(3, NewPosition(100, 0, 0))
	b.Add(2, NewPosition(0, 0, 0))
	b.Add(1, NewPosition(0, 0, 0))

	require.Equal(t, a.Digest(), b.Digest())

	b.Remove(3, NewPosition(100, 0, 0))
	b.Add(3, NewPosition(200, 0, 0))
	require.NotEqual(t, a.Digest(), b.Digest())

	a.Clear()
	require.Zero(t, a.Len())
	require.Equal(t, NewRegionGrid(32).Digest(), a.Digest())
}
