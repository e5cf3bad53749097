package allocation

import (
	"math/bits"

	"github.com/buildbarn/bb-storage/pkg/random"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FreeRun is a contiguous range of free clusters.
type FreeRun struct {
	StartingLCN int64
	Length      uint64
}

// FindContiguousRun returns the lowest LCN at which a run of free
// clusters of the requested length starts. This is a first-fit
// search. ResourceExhausted is returned if no run of sufficient length
// exists anywhere on the volume.
func FindContiguousRun(b *Bitmap, length uint64) (FreeRun, error) {
	if length == 0 {
		return FreeRun{}, status.Error(codes.InvalidArgument, "Cannot search for a run of zero clusters")
	}

	var runStart, runLength uint64
	for index, w := range b.words {
		switch w {
		case allBits:
			// Fully allocated word. Skip it in one go.
			runLength = 0
			continue
		case 0:
			// Fully free word. Extend the current run.
			if runLength == 0 {
				runStart = uint64(index) * 64
			}
			runLength += 64
			if runLength >= length {
				return FreeRun{StartingLCN: int64(runStart), Length: length}, nil
			}
			continue
		}
		for bit := uint64(0); bit < 64; bit++ {
			if w&(1<<bit) != 0 {
				runLength = 0
				continue
			}
			if runLength == 0 {
				runStart = uint64(index)*64 + bit
			}
			runLength++
			if runLength == length {
				return FreeRun{StartingLCN: int64(runStart), Length: length}, nil
			}
		}
	}
	return FreeRun{}, status.Errorf(codes.ResourceExhausted, "No free run of %d clusters available", length)
}

// FindFreeClustersLinear returns up to count free clusters in
// ascending order, scanning from the start of the volume. Fewer
// clusters are returned if the volume does not have enough free space.
func FindFreeClustersLinear(b *Bitmap, count int) []int64 {
	return findFreeClustersLinear(b, count, nil)
}

func findFreeClustersLinear(b *Bitmap, count int, exclude map[int64]struct{}) []int64 {
	var found []int64
	for index, w := range b.words {
		for m := ^w; m != 0 && len(found) < count; m &= m - 1 {
			lcn := int64(index)*64 + int64(bits.TrailingZeros64(m))
			if _, ok := exclude[lcn]; !ok {
				found = append(found, lcn)
			}
		}
		if len(found) >= count {
			break
		}
	}
	return found
}

// FindFreeClustersRandom returns up to count distinct free clusters by
// drawing uniformly distributed candidate LCNs. After maximumAttempts
// draws, it falls back to a linear scan for the remaining clusters.
// This guarantees that the search terminates and still succeeds if
// the volume has free clusters. Fewer clusters are returned if the
// volume does not have enough free space.
func FindFreeClustersRandom(b *Bitmap, count int, randomNumberGenerator random.SingleThreadedGenerator, maximumAttempts uint64) []int64 {
	if count <= 0 || b.totalClusters == 0 {
		return nil
	}
	var found []int64
	seen := map[int64]struct{}{}
	for attempt := uint64(0); attempt < maximumAttempts && len(found) < count; attempt++ {
		lcn := randomNumberGenerator.Int64N(int64(b.totalClusters))
		if _, ok := seen[lcn]; !ok && !b.IsAllocated(lcn) {
			seen[lcn] = struct{}{}
			found = append(found, lcn)
		}
	}
	if len(found) < count {
		found = append(found, findFreeClustersLinear(b, count-len(found), seen)...)
	}
	return found
}
