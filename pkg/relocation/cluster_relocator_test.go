package relocation_test

import (
	"context"
	"testing"

	"github.com/buildbarn/bb-cluster-relocator/internal/mock"
	"github.com/buildbarn/bb-cluster-relocator/pkg/allocation"
	"github.com/buildbarn/bb-cluster-relocator/pkg/extents"
	"github.com/buildbarn/bb-cluster-relocator/pkg/relocation"
	"github.com/buildbarn/bb-storage/pkg/testutil"
	"github.com/stretchr/testify/require"

	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClusterRelocator(t *testing.T) {
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	v := mock.NewMockVolume(ctrl)
	f := mock.NewMockVolumeFile(ctrl)
	bitmap := allocation.NewBitmapFromBools([]bool{false, true, false, true, false})
	relocator := relocation.NewClusterRelocator(v, bitmap)
	clusterMap := extents.FileClusterMap{
		{VCN: 0, LCN: 1},
		{VCN: 1, LCN: 3},
	}

	t.Run("Success", func(t *testing.T) {
		// Exactly two bits of the bitmap and one entry of the
		// cluster map should change.
		v.EXPECT().RelocateCluster(ctx, f, int64(1), int64(4))
		require.NoError(t, relocator.RelocateCluster(ctx, f, clusterMap, 1, 4))
		require.Equal(t, allocation.NewBitmapFromBools([]bool{false, true, false, false, true}), bitmap)
		require.Equal(t, extents.FileClusterMap{
			{VCN: 0, LCN: 1},
			{VCN: 1, LCN: 4},
		}, clusterMap)
	})

	t.Run("Failure", func(t *testing.T) {
		// Failed moves should leave all state untouched.
		v.EXPECT().RelocateCluster(ctx, f, int64(0), int64(2)).Return(status.Error(codes.PermissionDenied, "Access is denied"))
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.PermissionDenied, "Failed to move VCN 0 to LCN 2: Access is denied"),
			relocator.RelocateCluster(ctx, f, clusterMap, 0, 2))
		require.Equal(t, allocation.NewBitmapFromBools([]bool{false, true, false, false, true}), bitmap)
		require.Equal(t, extents.FileClusterMap{
			{VCN: 0, LCN: 1},
			{VCN: 1, LCN: 4},
		}, clusterMap)
	})
	t.Run("SourceOutsideBitmap", func(t *testing.T) {
		// Extents may refer to clusters beyond the size reported
		// by the volume. These should not be moved, as the bitmap
		// cannot be kept in sync.
		outOfRangeClusterMap := extents.FileClusterMap{{VCN: 0, LCN: 100}}
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.OutOfRange, "Cannot move VCN 0 from LCN 100: LCN lies outside the allocation bitmap, which has 5 clusters"),
			relocator.RelocateCluster(ctx, f, outOfRangeClusterMap, 0, 2))
		require.Equal(t, allocation.NewBitmapFromBools([]bool{false, true, false, false, true}), bitmap)
		require.Equal(t, extents.FileClusterMap{{VCN: 0, LCN: 100}}, outOfRangeClusterMap)
	})

	t.Run("DestinationOutsideBitmap", func(t *testing.T) {
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.OutOfRange, "Cannot move VCN 0 to LCN 5: LCN lies outside the allocation bitmap, which has 5 clusters"),
			relocator.RelocateCluster(ctx, f, clusterMap, 0, 5))
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.OutOfRange, "Cannot move VCN 0 to LCN -1: LCN lies outside the allocation bitmap, which has 5 clusters"),
			relocator.RelocateCluster(ctx, f, clusterMap, 0, -1))
		require.Equal(t, allocation.NewBitmapFromBools([]bool{false, true, false, false, true}), bitmap)
	})
}
