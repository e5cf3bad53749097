package relocation

import (
	"context"

	"github.com/buildbarn/bb-cluster-relocator/pkg/allocation"
	"github.com/buildbarn/bb-cluster-relocator/pkg/extents"
	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
	"github.com/buildbarn/bb-storage/pkg/random"
	"github.com/buildbarn/bb-storage/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fragmentingFileProcessor struct {
	volume                volume.Volume
	bitmap                *allocation.Bitmap
	relocator             *ClusterRelocator
	randomNumberGenerator random.SingleThreadedGenerator
	movesPerFile          int
	maximumRandomAttempts uint64
	errorLogger           util.ErrorLogger
}

// NewFragmentingFileProcessor creates a FileProcessor that scatters
// the clusters of files across the volume, which is useful for
// testing and benchmarking defragmentation.
//
// For every file, movesPerFile iterations are performed, each moving
// a randomly chosen cluster of the file to a randomly chosen free
// cluster. Destinations are found by drawing up to
// maximumRandomAttempts random LCNs, falling back to a linear scan.
// Files without any allocated clusters are reported as failures.
func NewFragmentingFileProcessor(v volume.Volume, bitmap *allocation.Bitmap, randomNumberGenerator random.SingleThreadedGenerator, movesPerFile int, maximumRandomAttempts uint64, errorLogger util.ErrorLogger) FileProcessor {
	return &fragmentingFileProcessor{
		volume:                v,
		bitmap:                bitmap,
		relocator:             NewClusterRelocator(v, bitmap),
		randomNumberGenerator: randomNumberGenerator,
		movesPerFile:          movesPerFile,
		maximumRandomAttempts: maximumRandomAttempts,
		errorLogger:           errorLogger,
	}
}

func (fp *fragmentingFileProcessor) ProcessFile(ctx context.Context, path string) FileReport {
	return processMappedFile(ctx, fp.volume, path, fp.errorLogger, func(f volume.File, clusterMap extents.FileClusterMap, report *FileReport) {
		if len(clusterMap) == 0 {
			report.Outcome = OutcomeNoClusters
			report.Err = status.Error(codes.FailedPrecondition, "File has no allocated clusters")
			return
		}

		for i := 0; i < fp.movesPerFile; i++ {
			index := fp.randomNumberGenerator.IntN(len(clusterMap))
			destinations := allocation.FindFreeClustersRandom(fp.bitmap, 1, fp.randomNumberGenerator, fp.maximumRandomAttempts)
			if len(destinations) == 0 {
				report.Outcome = OutcomeVolumeFull
				report.Err = status.Errorf(codes.ResourceExhausted, "No free clusters available after %d of %d moves", i, fp.movesPerFile)
				return
			}
			if err := fp.relocator.RelocateCluster(ctx, f, clusterMap, index, destinations[0]); err != nil {
				fp.errorLogger.Log(util.StatusWrapf(err, "Failed to fragment file %#v", path))
				report.FailedClusters++
				continue
			}
			report.RelocatedClusters++
		}
		report.Outcome = OutcomeFragmented
	})
}
