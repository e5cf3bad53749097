package relocation

import (
	"context"

	"github.com/buildbarn/bb-cluster-relocator/pkg/allocation"
	"github.com/buildbarn/bb-cluster-relocator/pkg/extents"
	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
	"github.com/buildbarn/bb-storage/pkg/util"
)

type defragmentingFileProcessor struct {
	volume      volume.Volume
	bitmap      *allocation.Bitmap
	relocator   *ClusterRelocator
	errorLogger util.ErrorLogger
}

// NewDefragmentingFileProcessor creates a FileProcessor that compacts
// files into a single run of clusters.
//
// Files that are already contiguous are left alone. For all other
// files, the lowest free run that can hold the entire file is
// selected, after which its clusters are moved into that run one by
// one, in VCN order. Files are skipped if no such run exists; they are
// never partially compacted. Failures to move individual clusters are
// logged, after which the remaining clusters are still moved.
func NewDefragmentingFileProcessor(v volume.Volume, bitmap *allocation.Bitmap, errorLogger util.ErrorLogger) FileProcessor {
	return &defragmentingFileProcessor{
		volume:      v,
		bitmap:      bitmap,
		relocator:   NewClusterRelocator(v, bitmap),
		errorLogger: errorLogger,
	}
}

func (fp *defragmentingFileProcessor) ProcessFile(ctx context.Context, path string) FileReport {
	return processMappedFile(ctx, fp.volume, path, fp.errorLogger, func(f volume.File, clusterMap extents.FileClusterMap, report *FileReport) {
		if len(clusterMap) == 0 {
			report.Outcome = OutcomeEmpty
			return
		}
		if clusterMap.IsContiguous() {
			report.Outcome = OutcomeAlreadyContiguous
			return
		}

		run, err := allocation.FindContiguousRun(fp.bitmap, uint64(len(clusterMap)))
		if err != nil {
			report.Outcome = OutcomeNoSuitableRun
			report.Err = err
			return
		}

		report.Outcome = OutcomeDefragmented
		report.TargetRun = run.StartingLCN
		for i := range clusterMap {
			destinationLCN := run.StartingLCN + int64(i)
			if clusterMap[i].LCN == destinationLCN {
				report.SkippedClusters++
				continue
			}
			if err := fp.relocator.RelocateCluster(ctx, f, clusterMap, i, destinationLCN); err != nil {
				fp.errorLogger.Log(util.StatusWrapf(err, "Failed to defragment file %#v", path))
				report.FailedClusters++
				continue
			}
			report.RelocatedClusters++
		}
	})
}
