package allocation

import (
	"fmt"
	"math/bits"

	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
)

const (
	allBits = ^uint64(0)
)

// Bitmap of a volume's clusters, where one bits indicate clusters that
// are allocated. It is indexed by LCN.
//
// The last word of the bitmap is padded with one bits, so that bits
// past the end of the volume are never reported as being free. This
// prevents the need for explicit bounds checking inside the scanning
// algorithms.
type Bitmap struct {
	words         []uint64
	totalClusters uint64
}

// NewBitmap creates a Bitmap for a volume with a given number of
// clusters. All clusters are initially marked free.
func NewBitmap(totalClusters uint64) *Bitmap {
	b := &Bitmap{
		words:         make([]uint64, (totalClusters+63)/64),
		totalClusters: totalClusters,
	}
	if tail := totalClusters % 64; tail != 0 {
		b.words[len(b.words)-1] = allBits << tail
	}
	return b
}

// NewBitmapFromBools creates a Bitmap from a list of booleans, where
// true indicates the cluster is allocated.
func NewBitmapFromBools(allocated []bool) *Bitmap {
	b := NewBitmap(uint64(len(allocated)))
	for lcn, isAllocated := range allocated {
		if isAllocated {
			b.SetAllocated(int64(lcn))
		}
	}
	return b
}

// GetTotalClusters returns the number of clusters tracked by the
// bitmap.
func (b *Bitmap) GetTotalClusters() uint64 {
	return b.totalClusters
}

func (b *Bitmap) checkLCN(lcn int64) {
	if lcn < 0 || uint64(lcn) >= b.totalClusters {
		panic(fmt.Sprintf("LCN %d lies outside the bitmap, which has %d clusters", lcn, b.totalClusters))
	}
}

// IsAllocated returns whether a cluster is in use. Clusters outside
// the volume are reported as allocated.
func (b *Bitmap) IsAllocated(lcn int64) bool {
	if lcn < 0 || uint64(lcn) >= b.totalClusters {
		return true
	}
	return b.words[lcn/64]&(1<<(lcn%64)) != 0
}

// SetAllocated marks a cluster as being in use.
func (b *Bitmap) SetAllocated(lcn int64) {
	b.checkLCN(lcn)
	b.words[lcn/64] |= 1 << (lcn % 64)
}

// SetFree marks a cluster as being available.
func (b *Bitmap) SetFree(lcn int64) {
	b.checkLCN(lcn)
	b.words[lcn/64] &^= 1 << (lcn % 64)
}

// CountAllocated returns the number of clusters in use.
func (b *Bitmap) CountAllocated() uint64 {
	var count uint64
	for _, w := range b.words {
		count += uint64(bits.OnesCount64(w))
	}
	// Discount the padding at the end of the last word.
	if tail := b.totalClusters % 64; tail != 0 {
		count -= 64 - tail
	}
	return count
}

// CountFree returns the number of clusters available.
func (b *Bitmap) CountFree() uint64 {
	return b.totalClusters - b.CountAllocated()
}

// MergeChunk copies the allocation state of the clusters described by
// a chunk, as yielded by BitmapChunks(). Chunk bits are stored in the
// volume's native format, which stores the least significant bit
// first.
func (b *Bitmap) MergeChunk(chunk volume.BitmapChunk) {
	for i := int64(0); i < chunk.BitCount; i++ {
		if chunk.Bits[i/8]&(1<<(i%8)) != 0 {
			b.SetAllocated(chunk.StartingLCN + i)
		} else {
			b.SetFree(chunk.StartingLCN + i)
		}
	}
}
