package volume

import (
	"fmt"

	"github.com/buildbarn/bb-storage/pkg/random"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PopulateRandomly creates fileCount files on an InMemoryVolume, each
// consisting of between one and maximumFileClusters clusters that are
// scattered across the volume. This yields a volume that is heavily
// fragmented, which is useful for exercising defragmentation.
func (v *InMemoryVolume) PopulateRandomly(randomNumberGenerator random.SingleThreadedGenerator, fileCount, maximumFileClusters int) error {
	if maximumFileClusters <= 0 {
		return status.Errorf(codes.InvalidArgument, "Maximum number of clusters per file must be positive, while %d was provided", maximumFileClusters)
	}

	v.lock.Lock()
	defer v.lock.Unlock()

	totalClusters := int64(v.geometry.TotalClusters)
	for i := 0; i < fileCount; i++ {
		clusterCount := 1 + randomNumberGenerator.IntN(maximumFileClusters)
		lcns := make([]int64, 0, clusterCount)
		for len(lcns) < clusterCount {
			lcn, ok := v.pickFreeCluster(randomNumberGenerator, totalClusters)
			if !ok {
				return status.Errorf(codes.ResourceExhausted, "Volume ran out of space after creating %d files", i)
			}
			v.setAllocated(lcn, true)
			lcns = append(lcns, lcn)
		}
		v.files[fmt.Sprintf("simulated/%06d.bin", i)] = &inMemoryFileState{lcns: lcns}
	}
	return nil
}

func (v *InMemoryVolume) pickFreeCluster(randomNumberGenerator random.SingleThreadedGenerator, totalClusters int64) (int64, bool) {
	if totalClusters == 0 {
		return 0, false
	}
	for attempt := 0; attempt < 64; attempt++ {
		if lcn := randomNumberGenerator.Int64N(totalClusters); !v.isAllocated(lcn) {
			return lcn, true
		}
	}
	for lcn := int64(0); lcn < totalClusters; lcn++ {
		if !v.isAllocated(lcn) {
			return lcn, true
		}
	}
	return 0, false
}
