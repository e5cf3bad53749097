package volume_test

import (
	"context"
	"io"
	"testing"

	"github.com/buildbarn/bb-cluster-relocator/internal/mock"
	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
	"github.com/buildbarn/bb-storage/pkg/testutil"
	"github.com/stretchr/testify/require"

	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestInMemoryVolumeQueryAllocationBitmap(t *testing.T) {
	ctx := context.Background()
	v := volume.NewInMemoryVolume(volume.Geometry{TotalClusters: 20, BytesPerCluster: 4096}, 1, 0)
	require.NoError(t, v.Allocate(0, 9, 19))

	t.Run("FirstChunk", func(t *testing.T) {
		chunk, err := v.QueryAllocationBitmap(ctx, 0)
		require.NoError(t, err)
		require.Equal(t, volume.BitmapChunk{
			StartingLCN: 0,
			BitCount:    20,
			Bits:        []byte{0x01},
			MoreData:    true,
		}, chunk)
	})

	t.Run("RoundedDown", func(t *testing.T) {
		// Queries start at a multiple of eight clusters.
		chunk, err := v.QueryAllocationBitmap(ctx, 13)
		require.NoError(t, err)
		require.Equal(t, volume.BitmapChunk{
			StartingLCN: 8,
			BitCount:    12,
			Bits:        []byte{0x02},
			MoreData:    true,
		}, chunk)
	})

	t.Run("LastChunk", func(t *testing.T) {
		chunk, err := v.QueryAllocationBitmap(ctx, 16)
		require.NoError(t, err)
		require.Equal(t, volume.BitmapChunk{
			StartingLCN: 16,
			BitCount:    4,
			Bits:        []byte{0x08},
		}, chunk)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := v.QueryAllocationBitmap(ctx, 20)
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "LCN 20 lies outside the volume, which has 20 clusters"), err)
	})
}

func TestInMemoryVolumeCreateFile(t *testing.T) {
	v := volume.NewInMemoryVolume(volume.Geometry{TotalClusters: 16, BytesPerCluster: 512}, 0, 0)
	require.NoError(t, v.Allocate(3))

	testutil.RequireEqualStatus(
		t,
		status.Error(codes.FailedPrecondition, "Cannot store VCN 1 at LCN 3, as it is already in use"),
		v.CreateFile("a", []int64{2, 3}))
	testutil.RequireEqualStatus(
		t,
		status.Error(codes.FailedPrecondition, "Cannot store VCN 1 at LCN 4, as it is already in use"),
		v.CreateFile("a", []int64{4, 4}))
	testutil.RequireEqualStatus(
		t,
		status.Error(codes.InvalidArgument, "LCN 16 lies outside the volume, which has 16 clusters"),
		v.CreateFile("a", []int64{16}))

	// Failed attempts must not leave any clusters allocated.
	require.False(t, v.IsAllocated(2))
	require.False(t, v.IsAllocated(4))

	require.NoError(t, v.CreateFile("b", []int64{5, volume.SparseLCN, 6}))
	require.NoError(t, v.CreateFile("a", nil))
	testutil.RequireEqualStatus(
		t,
		status.Error(codes.AlreadyExists, "File \"a\" already exists"),
		v.CreateFile("a", nil))
	require.Equal(t, []string{"a", "b"}, v.GetPaths())
	require.True(t, v.IsAllocated(5))
	require.True(t, v.IsAllocated(6))

	lcns, ok := v.GetFileLCNs("b")
	require.True(t, ok)
	require.Equal(t, []int64{5, volume.SparseLCN, 6}, lcns)
	_, ok = v.GetFileLCNs("c")
	require.False(t, ok)
}

func TestInMemoryVolumeQueryExtents(t *testing.T) {
	ctx := context.Background()
	v := volume.NewInMemoryVolume(volume.Geometry{TotalClusters: 100, BytesPerCluster: 4096}, 0, 2)
	require.NoError(t, v.CreateFile("file", []int64{10, 11, 12, volume.SparseLCN, volume.SparseLCN, 50, 40}))

	f, err := v.OpenFile(ctx, "file")
	require.NoError(t, err)
	require.Equal(t, 1, v.GetOpenFileCount())

	t.Run("FirstPage", func(t *testing.T) {
		extents, err := f.QueryExtents(ctx, 0)
		require.NoError(t, err)
		require.Equal(t, []volume.Extent{
			{StartingVCN: 0, LCN: 10, Length: 3},
			{StartingVCN: 3, LCN: volume.SparseLCN, Length: 2},
		}, extents)
	})

	t.Run("SecondPage", func(t *testing.T) {
		extents, err := f.QueryExtents(ctx, 5)
		require.NoError(t, err)
		require.Equal(t, []volume.Extent{
			{StartingVCN: 5, LCN: 50, Length: 1},
			{StartingVCN: 6, LCN: 40, Length: 1},
		}, extents)
	})

	t.Run("MidExtent", func(t *testing.T) {
		// Like NTFS, the extent containing the starting VCN is
		// returned in its entirety.
		extents, err := f.QueryExtents(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, volume.Extent{StartingVCN: 0, LCN: 10, Length: 3}, extents[0])
	})

	t.Run("EndOfFile", func(t *testing.T) {
		_, err := f.QueryExtents(ctx, 7)
		require.Equal(t, io.EOF, err)
	})

	require.NoError(t, f.Close())
	require.Equal(t, 0, v.GetOpenFileCount())
	testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "File is already closed"), f.Close())

	_, err = f.QueryExtents(ctx, 0)
	testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "File is closed"), err)

	_, err = v.OpenFile(ctx, "nonexistent")
	testutil.RequireEqualStatus(t, status.Error(codes.NotFound, "File \"nonexistent\" does not exist"), err)
}

func TestInMemoryVolumeRelocateCluster(t *testing.T) {
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	v := volume.NewInMemoryVolume(volume.Geometry{TotalClusters: 32, BytesPerCluster: 4096}, 0, 0)
	require.NoError(t, v.CreateFile("file", []int64{4, volume.SparseLCN, 8}))
	require.NoError(t, v.Allocate(20))
	f, err := v.OpenFile(ctx, "file")
	require.NoError(t, err)
	defer f.Close()

	t.Run("Success", func(t *testing.T) {
		require.NoError(t, v.RelocateCluster(ctx, f, 2, 9))
		require.False(t, v.IsAllocated(8))
		require.True(t, v.IsAllocated(9))
		lcns, _ := v.GetFileLCNs("file")
		require.Equal(t, []int64{4, volume.SparseLCN, 9}, lcns)
	})

	t.Run("DestinationInUse", func(t *testing.T) {
		testutil.RequireEqualStatus(t, status.Error(codes.FailedPrecondition, "LCN 20 is already in use"), v.RelocateCluster(ctx, f, 0, 20))
		require.True(t, v.IsAllocated(4))
	})

	t.Run("SparseSource", func(t *testing.T) {
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "VCN 1 is not backed by a cluster"), v.RelocateCluster(ctx, f, 1, 21))
	})

	t.Run("SourceOutOfRange", func(t *testing.T) {
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "VCN 3 lies outside the file, which has 3 clusters"), v.RelocateCluster(ctx, f, 3, 21))
	})

	t.Run("ForeignFile", func(t *testing.T) {
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "File was not opened through this volume"), v.RelocateCluster(ctx, mock.NewMockVolumeFile(ctrl), 0, 21))
	})
}
