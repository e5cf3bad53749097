package volume

import (
	"context"
	"io"
)

// SparseLCN is the LCN reported for extents that have no physical
// backing, such as holes in sparse or compressed files.
const SparseLCN = -1

// Geometry of a volume. It is obtained once, before any bitmap or
// relocation work is performed.
type Geometry struct {
	TotalClusters   uint64
	BytesPerCluster uint32
}

// TotalBytes returns the capacity of the volume in bytes.
func (g Geometry) TotalBytes() uint64 {
	return g.TotalClusters * uint64(g.BytesPerCluster)
}

// BitmapChunk is a single page of the volume's allocation bitmap, as
// returned by Volume.QueryAllocationBitmap().
type BitmapChunk struct {
	// The LCN corresponding to the first bit in Bits. This may be
	// lower than the LCN that was requested, as volumes may round
	// the starting LCN down.
	StartingLCN int64
	// The number of clusters the volume claims this chunk
	// describes. This may exceed len(Bits)*8 if the output buffer
	// was too small to hold all of them.
	BitCount int64
	// The bits that were actually delivered, least significant bit
	// first. A set bit indicates the cluster is allocated.
	Bits []byte
	// Whether the volume indicated that more data is available
	// past the end of this chunk.
	MoreData bool
}

// Extent is a contiguous run of a file's clusters that is mapped to a
// contiguous run of clusters on the volume. Extents whose LCN is
// SparseLCN have no physical backing.
type Extent struct {
	StartingVCN int64
	LCN         int64
	Length      int64
}

// NextVCN returns the VCN directly following the extent.
func (e Extent) NextVCN() int64 {
	return e.StartingVCN + e.Length
}

// IsSparse returns whether the extent has no physical backing.
func (e Extent) IsSparse() bool {
	return e.LCN == SparseLCN
}

// File is a handle to a file stored on a Volume, opened with
// sufficient access to query its extents and relocate its clusters.
type File interface {
	io.Closer

	// QueryExtents returns zero or more extents of the file,
	// starting at the extent containing startingVCN. io.EOF is
	// returned if startingVCN lies at or past the end of the file.
	// The result may be partial; callers need to query again,
	// starting at the end of the last extent returned.
	QueryExtents(ctx context.Context, startingVCN int64) ([]Extent, error)
}

// Volume is the control interface of a block volume whose free space
// is tracked in an allocation bitmap.
type Volume interface {
	// GetGeometry returns the number of clusters of the volume and
	// the size of each cluster.
	GetGeometry(ctx context.Context) (Geometry, error)
	// QueryAllocationBitmap returns a chunk of the allocation
	// bitmap, starting at or before startingLCN.
	QueryAllocationBitmap(ctx context.Context, startingLCN int64) (BitmapChunk, error)
	// OpenFile opens a file stored on the volume.
	OpenFile(ctx context.Context, path string) (File, error)
	// RelocateCluster moves a single cluster of a file, identified
	// by its VCN, to a given LCN. The file must have been opened
	// through OpenFile() on the same volume.
	RelocateCluster(ctx context.Context, file File, sourceVCN, destinationLCN int64) error
}

// VolumeCloser is a Volume that holds resources that need to be
// released when no longer used.
type VolumeCloser interface {
	Volume
	io.Closer
}
