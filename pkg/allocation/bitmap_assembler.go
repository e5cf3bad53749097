package allocation

import (
	"context"
	"iter"

	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
	"github.com/buildbarn/bb-storage/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// BitmapChunks returns the sequence of chunks that together make up
// the allocation bitmap of a volume. The volume is queried lazily, one
// chunk at a time. The sequence is finite and not restartable once
// iteration has stopped.
//
// Every chunk yielded only contains the bits that the volume actually
// delivered, which may be fewer than it announced. BitCount is
// adjusted accordingly, and is further limited to the end of the
// volume. Queries continue at the first cluster that was not
// delivered, so that no clusters are skipped or read twice.
//
// The sequence ends with an error if a query fails, or if the volume
// returns a response that makes no progress.
func BitmapChunks(ctx context.Context, v volume.Volume, totalClusters uint64) iter.Seq2[volume.BitmapChunk, error] {
	return func(yield func(volume.BitmapChunk, error) bool) {
		startingLCN := int64(0)
		for uint64(startingLCN) < totalClusters {
			chunk, err := v.QueryAllocationBitmap(ctx, startingLCN)
			if err != nil {
				yield(volume.BitmapChunk{}, util.StatusWrapf(err, "Failed to query allocation bitmap at LCN %d", startingLCN))
				return
			}
			if chunk.StartingLCN < 0 || chunk.StartingLCN > startingLCN {
				yield(volume.BitmapChunk{}, status.Errorf(codes.Internal, "Allocation bitmap query at LCN %d returned a chunk starting at LCN %d", startingLCN, chunk.StartingLCN))
				return
			}

			// Only trust the bits that are backed by the buffer.
			delivered := chunk.BitCount
			if available := int64(len(chunk.Bits)) * 8; delivered > available {
				delivered = available
			}
			if remaining := int64(totalClusters) - chunk.StartingLCN; delivered > remaining {
				delivered = remaining
			}
			if delivered < 0 {
				delivered = 0
			}
			// Copy the bits, as the buffer is owned by the volume.
			bits := append([]byte(nil), chunk.Bits[:(delivered+7)/8]...)
			if partial := delivered % 8; partial != 0 {
				bits[len(bits)-1] &= byte(1)<<partial - 1
			}
			chunk.BitCount = delivered
			chunk.Bits = bits
			if !yield(chunk, nil) {
				return
			}

			if delivered == 0 && !chunk.MoreData {
				return
			}
			nextLCN := chunk.StartingLCN + delivered
			if nextLCN <= startingLCN {
				yield(volume.BitmapChunk{}, status.Errorf(codes.Internal, "Allocation bitmap query at LCN %d made no progress", startingLCN))
				return
			}
			startingLCN = nextLCN
		}
	}
}

// AssembleBitmap obtains the full allocation bitmap of a volume by
// merging all chunks returned by BitmapChunks(). Clusters not covered
// by any chunk are reported as free.
func AssembleBitmap(ctx context.Context, v volume.Volume, totalClusters uint64) (*Bitmap, error) {
	bitmap := NewBitmap(totalClusters)
	for chunk, err := range BitmapChunks(ctx, v, totalClusters) {
		if err != nil {
			return nil, err
		}
		bitmap.MergeChunk(chunk)
	}
	return bitmap, nil
}
