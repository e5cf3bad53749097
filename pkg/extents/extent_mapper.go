package extents

import (
	"context"
	"io"
	"iter"

	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
	"github.com/buildbarn/bb-storage/pkg/util"
)

// ExtentChunks returns the sequence of extent lists that together
// describe the layout of a file, starting at VCN zero. The file is
// queried lazily, one chunk at a time. The sequence is finite and not
// restartable once iteration has stopped.
//
// The sequence ends when the file reports end-of-file, when a query
// returns no extents, or when a query returns extents that don't
// advance past the VCN at which it started. Any other failure to query
// the file is yielded as an error.
func ExtentChunks(ctx context.Context, f volume.File) iter.Seq2[[]volume.Extent, error] {
	return func(yield func([]volume.Extent, error) bool) {
		startingVCN := int64(0)
		for {
			extents, err := f.QueryExtents(ctx, startingVCN)
			if err == io.EOF {
				return
			} else if err != nil {
				yield(nil, util.StatusWrapf(err, "Failed to query extents starting at VCN %d", startingVCN))
				return
			}
			if len(extents) == 0 || !yield(extents, nil) {
				return
			}

			nextVCN := extents[len(extents)-1].NextVCN()
			if nextVCN <= startingVCN {
				return
			}
			startingVCN = nextVCN
		}
	}
}

// MapFileClusters returns the location of every allocated cluster of
// a file, however fragmented. Sparse extents are skipped. An empty map
// is returned for files that are empty or fully sparse.
func MapFileClusters(ctx context.Context, f volume.File) (FileClusterMap, error) {
	var clusterMap FileClusterMap
	nextVCN := int64(0)
	for extents, err := range ExtentChunks(ctx, f) {
		if err != nil {
			return nil, err
		}
		for _, extent := range extents {
			// Volumes return the extent containing the
			// starting VCN, which may overlap with the
			// previous query. Skip what's already mapped.
			vcn := extent.StartingVCN
			if vcn < nextVCN {
				vcn = nextVCN
			}
			if !extent.IsSparse() {
				for ; vcn < extent.NextVCN(); vcn++ {
					clusterMap = append(clusterMap, ClusterMapping{
						VCN: vcn,
						LCN: extent.LCN + (vcn - extent.StartingVCN),
					})
				}
			}
			if extent.NextVCN() > nextVCN {
				nextVCN = extent.NextVCN()
			}
		}
	}
	return clusterMap, nil
}
