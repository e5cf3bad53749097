package relocation

import (
	"context"

	"github.com/buildbarn/bb-cluster-relocator/pkg/allocation"
	"github.com/buildbarn/bb-cluster-relocator/pkg/extents"
	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
	"github.com/buildbarn/bb-storage/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClusterRelocator moves individual clusters of files, while keeping
// the in-memory allocation bitmap and the file's cluster map in sync
// with the volume.
type ClusterRelocator struct {
	volume volume.Volume
	bitmap *allocation.Bitmap
}

// NewClusterRelocator creates a ClusterRelocator that moves clusters
// on a volume, whose allocation state is tracked by a bitmap.
func NewClusterRelocator(v volume.Volume, bitmap *allocation.Bitmap) *ClusterRelocator {
	return &ClusterRelocator{
		volume: v,
		bitmap: bitmap,
	}
}

// RelocateCluster moves the cluster at a given index of the cluster
// map to a destination LCN. The destination is assumed to be free
// according to the bitmap. If the move fails, neither the bitmap nor
// the cluster map is modified. Moves from or to clusters that lie
// outside the bitmap are rejected without contacting the volume.
func (r *ClusterRelocator) RelocateCluster(ctx context.Context, f volume.File, clusterMap extents.FileClusterMap, index int, destinationLCN int64) error {
	mapping := &clusterMap[index]
	if err := r.checkLCN(mapping.LCN); err != nil {
		return util.StatusWrapf(err, "Cannot move VCN %d from LCN %d", mapping.VCN, mapping.LCN)
	}
	if err := r.checkLCN(destinationLCN); err != nil {
		return util.StatusWrapf(err, "Cannot move VCN %d to LCN %d", mapping.VCN, destinationLCN)
	}
	if err := r.volume.RelocateCluster(ctx, f, mapping.VCN, destinationLCN); err != nil {
		return util.StatusWrapf(err, "Failed to move VCN %d to LCN %d", mapping.VCN, destinationLCN)
	}
	r.bitmap.SetFree(mapping.LCN)
	r.bitmap.SetAllocated(destinationLCN)
	mapping.LCN = destinationLCN
	return nil
}

func (r *ClusterRelocator) checkLCN(lcn int64) error {
	if totalClusters := r.bitmap.GetTotalClusters(); lcn < 0 || uint64(lcn) >= totalClusters {
		return status.Errorf(codes.OutOfRange, "LCN lies outside the allocation bitmap, which has %d clusters", totalClusters)
	}
	return nil
}
