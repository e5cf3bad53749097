package extents_test

import (
	"context"
	"io"
	"testing"

	"github.com/buildbarn/bb-cluster-relocator/internal/mock"
	"github.com/buildbarn/bb-cluster-relocator/pkg/extents"
	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
	"github.com/buildbarn/bb-storage/pkg/testutil"
	"github.com/stretchr/testify/require"

	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapFileClustersInMemory(t *testing.T) {
	ctx := context.Background()
	v := volume.NewInMemoryVolume(volume.Geometry{TotalClusters: 100, BytesPerCluster: 4096}, 0, 1)
	require.NoError(t, v.CreateFile("sparse", []int64{10, 11, 12, volume.SparseLCN, volume.SparseLCN, 50, 30, 31}))
	require.NoError(t, v.CreateFile("empty", nil))

	t.Run("Sparse", func(t *testing.T) {
		f, err := v.OpenFile(ctx, "sparse")
		require.NoError(t, err)
		defer f.Close()

		clusterMap, err := extents.MapFileClusters(ctx, f)
		require.NoError(t, err)
		require.Equal(t, extents.FileClusterMap{
			{VCN: 0, LCN: 10},
			{VCN: 1, LCN: 11},
			{VCN: 2, LCN: 12},
			{VCN: 5, LCN: 50},
			{VCN: 6, LCN: 30},
			{VCN: 7, LCN: 31},
		}, clusterMap)
		require.Equal(t, []int64{10, 11, 12, 50, 30, 31}, clusterMap.GetLCNs())
		require.False(t, clusterMap.IsContiguous())
	})

	t.Run("Empty", func(t *testing.T) {
		f, err := v.OpenFile(ctx, "empty")
		require.NoError(t, err)
		defer f.Close()

		clusterMap, err := extents.MapFileClusters(ctx, f)
		require.NoError(t, err)
		require.Empty(t, clusterMap)
		require.True(t, clusterMap.IsContiguous())
	})
}

func TestMapFileClustersMocked(t *testing.T) {
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	t.Run("OverlappingChunks", func(t *testing.T) {
		// The second query returns the extent containing the
		// starting VCN in its entirety. Clusters must not be
		// listed twice.
		f := mock.NewMockVolumeFile(ctrl)
		f.EXPECT().QueryExtents(ctx, int64(0)).Return([]volume.Extent{
			{StartingVCN: 0, LCN: 100, Length: 2},
		}, nil)
		f.EXPECT().QueryExtents(ctx, int64(2)).Return([]volume.Extent{
			{StartingVCN: 1, LCN: 101, Length: 2},
			{StartingVCN: 3, LCN: 7, Length: 1},
		}, nil)
		f.EXPECT().QueryExtents(ctx, int64(4)).Return(nil, io.EOF)

		clusterMap, err := extents.MapFileClusters(ctx, f)
		require.NoError(t, err)
		require.Equal(t, extents.FileClusterMap{
			{VCN: 0, LCN: 100},
			{VCN: 1, LCN: 101},
			{VCN: 2, LCN: 102},
			{VCN: 3, LCN: 7},
		}, clusterMap)
	})

	t.Run("NoProgress", func(t *testing.T) {
		// Responses that don't advance should terminate mapping,
		// as opposed to looping indefinitely.
		f := mock.NewMockVolumeFile(ctrl)
		f.EXPECT().QueryExtents(ctx, int64(0)).Return([]volume.Extent{
			{StartingVCN: 0, LCN: 5, Length: 3},
		}, nil)
		f.EXPECT().QueryExtents(ctx, int64(3)).Return([]volume.Extent{
			{StartingVCN: 0, LCN: 5, Length: 3},
		}, nil)

		clusterMap, err := extents.MapFileClusters(ctx, f)
		require.NoError(t, err)
		require.Equal(t, []int64{5, 6, 7}, clusterMap.GetLCNs())
	})

	t.Run("EmptyResponse", func(t *testing.T) {
		f := mock.NewMockVolumeFile(ctrl)
		f.EXPECT().QueryExtents(ctx, int64(0)).Return(nil, nil)

		clusterMap, err := extents.MapFileClusters(ctx, f)
		require.NoError(t, err)
		require.Empty(t, clusterMap)
	})

	t.Run("QueryFailure", func(t *testing.T) {
		f := mock.NewMockVolumeFile(ctrl)
		f.EXPECT().QueryExtents(ctx, int64(0)).Return([]volume.Extent{
			{StartingVCN: 0, LCN: 5, Length: 3},
		}, nil)
		f.EXPECT().QueryExtents(ctx, int64(3)).Return(nil, status.Error(codes.PermissionDenied, "Access is denied"))

		_, err := extents.MapFileClusters(ctx, f)
		testutil.RequireEqualStatus(t, status.Error(codes.PermissionDenied, "Failed to query extents starting at VCN 3: Access is denied"), err)
	})

	t.Run("EarlyTermination", func(t *testing.T) {
		// Iteration may be stopped by the caller, after which no
		// further queries should be issued.
		f := mock.NewMockVolumeFile(ctrl)
		f.EXPECT().QueryExtents(ctx, int64(0)).Return([]volume.Extent{
			{StartingVCN: 0, LCN: 5, Length: 3},
		}, nil)

		for chunk, err := range extents.ExtentChunks(ctx, f) {
			require.NoError(t, err)
			require.Len(t, chunk, 1)
			break
		}
	})
}
