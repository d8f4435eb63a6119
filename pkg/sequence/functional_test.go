package sequence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIterator(t *testing.T) {
	t.Run("collect", func(t *testing.T) {
		require.Equal(t, []int{1, 2, 3}, From([]int{1, 2, 3}).Collect())
		require.Nil(t, From([]int(nil)).Collect())
	})

	t.Run("take stops early", func(t *testing.T) {
		visited := 0
		it := FromSeq(func(yield func(int) bool) {
			for i := range 100 {
				visited++
				if !yield(i) {
					return
				}
			}
		})
		require.Equal(t, []int{0, 1, 2}, it.Take(3).Collect())
		require.Equal(t, 3, visited)
		require.Empty(t, it.Take(0).Collect())
	})

	t.Run("count", func(t *testing.T) {
		require.Equal(t, 4, From([]string{"a", "b", "c", "d"}).Count())
	})

	t.Run("pull", func(t *testing.T) {
		next, stop := From([]int{7, 8}).Pull()
		defer stop()

		v, ok := next()
		require.True(t, ok)
		require.Equal(t, 7, v)
		v, ok = next()
		require.True(t, ok)
		require.Equal(t, 8, v)
		_, ok = next()
		require.False(t, ok)
	})

	t.Run("seq", func(t *testing.T) {
		var out []int
		for v := range From([]int{4, 5}).Seq() {
			out = append(out, v)
		}
		require.Equal(t, []int{4, 5}, out)
	})
}
