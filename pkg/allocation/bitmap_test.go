package allocation_test

import (
	"testing"

	"github.com/buildbarn/bb-cluster-relocator/pkg/allocation"
	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
	"github.com/stretchr/testify/require"
)

func TestBitmap(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		b := allocation.NewBitmap(0)
		require.Equal(t, uint64(0), b.CountAllocated())
		require.Equal(t, uint64(0), b.CountFree())
		require.True(t, b.IsAllocated(0))
	})

	t.Run("Counts", func(t *testing.T) {
		// The padding at the end of the last word must not be
		// counted as allocated space.
		b := allocation.NewBitmap(130)
		require.Equal(t, uint64(130), b.GetTotalClusters())
		require.Equal(t, uint64(0), b.CountAllocated())
		require.Equal(t, uint64(130), b.CountFree())

		b.SetAllocated(0)
		b.SetAllocated(64)
		b.SetAllocated(129)
		require.Equal(t, uint64(3), b.CountAllocated())
		require.Equal(t, uint64(127), b.CountFree())
		require.True(t, b.IsAllocated(129))
		require.False(t, b.IsAllocated(128))
		require.True(t, b.IsAllocated(130))
		require.True(t, b.IsAllocated(-1))

		b.SetFree(64)
		require.False(t, b.IsAllocated(64))
		require.Equal(t, uint64(2), b.CountAllocated())
	})

	t.Run("OutOfRange", func(t *testing.T) {
		b := allocation.NewBitmap(10)
		require.Panics(t, func() { b.SetAllocated(10) })
		require.Panics(t, func() { b.SetFree(-1) })
	})

	t.Run("MergeChunk", func(t *testing.T) {
		b := allocation.NewBitmapFromBools([]bool{true, true, true, true, true, true, true, true, true, true, true, true})
		b.MergeChunk(volume.BitmapChunk{
			StartingLCN: 8,
			BitCount:    4,
			Bits:        []byte{0x05},
		})
		require.Equal(t, uint64(10), b.CountAllocated())
		require.False(t, b.IsAllocated(9))
		require.False(t, b.IsAllocated(11))
		require.True(t, b.IsAllocated(10))
	})
}
