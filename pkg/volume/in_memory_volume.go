package volume

import (
	"context"
	"io"
	"sort"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InMemoryVolume is a Volume that is entirely simulated in memory. It
// mimics the paging behavior of NTFS: bitmap queries start at a
// multiple of eight clusters, announce the size of the remainder of
// the volume and deliver at most a bounded number of bytes, while
// extent queries deliver at most a bounded number of extents.
//
// It can be used to test the allocation and relocation logic, and to
// benchmark policies on systems that provide no access to NTFS.
type InMemoryVolume struct {
	lock             sync.Mutex
	geometry         Geometry
	allocated        []byte
	files            map[string]*inMemoryFileState
	bitmapChunkBytes int
	extentsPerChunk  int
	openFiles        int
}

type inMemoryFileState struct {
	// LCN of every cluster of the file, indexed by VCN. Holes are
	// stored as SparseLCN.
	lcns []int64
}

// NewInMemoryVolume creates an empty InMemoryVolume. A non-positive
// value for bitmapChunkBytes or extentsPerChunk causes all data to be
// returned by a single query.
func NewInMemoryVolume(geometry Geometry, bitmapChunkBytes, extentsPerChunk int) *InMemoryVolume {
	return &InMemoryVolume{
		geometry:         geometry,
		allocated:        make([]byte, (geometry.TotalClusters+7)/8),
		files:            map[string]*inMemoryFileState{},
		bitmapChunkBytes: bitmapChunkBytes,
		extentsPerChunk:  extentsPerChunk,
	}
}

func (v *InMemoryVolume) isAllocated(lcn int64) bool {
	return v.allocated[lcn/8]&(1<<(lcn%8)) != 0
}

func (v *InMemoryVolume) setAllocated(lcn int64, allocated bool) {
	if allocated {
		v.allocated[lcn/8] |= 1 << (lcn % 8)
	} else {
		v.allocated[lcn/8] &^= 1 << (lcn % 8)
	}
}

func (v *InMemoryVolume) checkLCN(lcn int64) error {
	if lcn < 0 || uint64(lcn) >= v.geometry.TotalClusters {
		return status.Errorf(codes.InvalidArgument, "LCN %d lies outside the volume, which has %d clusters", lcn, v.geometry.TotalClusters)
	}
	return nil
}

// Allocate marks clusters as being in use without associating them
// with a file, similar to how file system metadata occupies space.
func (v *InMemoryVolume) Allocate(lcns ...int64) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	for _, lcn := range lcns {
		if err := v.checkLCN(lcn); err != nil {
			return err
		}
	}
	for _, lcn := range lcns {
		v.setAllocated(lcn, true)
	}
	return nil
}

// CreateFile adds a file to the volume whose clusters are stored at
// the provided LCNs, indexed by VCN. Holes may be created by providing
// SparseLCN.
func (v *InMemoryVolume) CreateFile(path string, lcns []int64) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if _, ok := v.files[path]; ok {
		return status.Errorf(codes.AlreadyExists, "File %#v already exists", path)
	}
	seen := map[int64]struct{}{}
	for vcn, lcn := range lcns {
		if lcn == SparseLCN {
			continue
		}
		if err := v.checkLCN(lcn); err != nil {
			return err
		}
		if _, ok := seen[lcn]; ok || v.isAllocated(lcn) {
			return status.Errorf(codes.FailedPrecondition, "Cannot store VCN %d at LCN %d, as it is already in use", vcn, lcn)
		}
		seen[lcn] = struct{}{}
	}
	for lcn := range seen {
		v.setAllocated(lcn, true)
	}
	v.files[path] = &inMemoryFileState{
		lcns: append([]int64(nil), lcns...),
	}
	return nil
}

// GetPaths returns the paths of all files stored on the volume in
// sorted order.
func (v *InMemoryVolume) GetPaths() []string {
	v.lock.Lock()
	defer v.lock.Unlock()

	paths := make([]string, 0, len(v.files))
	for path := range v.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// GetFileLCNs returns the LCNs at which the clusters of a file are
// stored, indexed by VCN.
func (v *InMemoryVolume) GetFileLCNs(path string) ([]int64, bool) {
	v.lock.Lock()
	defer v.lock.Unlock()

	f, ok := v.files[path]
	if !ok {
		return nil, false
	}
	return append([]int64(nil), f.lcns...), true
}

// IsAllocated returns whether a cluster of the volume is in use.
func (v *InMemoryVolume) IsAllocated(lcn int64) bool {
	v.lock.Lock()
	defer v.lock.Unlock()

	return v.isAllocated(lcn)
}

// GetOpenFileCount returns the number of files that have been opened,
// but not yet closed.
func (v *InMemoryVolume) GetOpenFileCount() int {
	v.lock.Lock()
	defer v.lock.Unlock()

	return v.openFiles
}

// Close is a no-op, as the volume holds no external resources.
func (v *InMemoryVolume) Close() error {
	return nil
}

// GetGeometry returns the geometry provided at construction time.
func (v *InMemoryVolume) GetGeometry(ctx context.Context) (Geometry, error) {
	return v.geometry, nil
}

// QueryAllocationBitmap returns a page of the allocation bitmap.
func (v *InMemoryVolume) QueryAllocationBitmap(ctx context.Context, startingLCN int64) (BitmapChunk, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkLCN(startingLCN); err != nil {
		return BitmapChunk{}, err
	}
	startingLCN &^= 7
	remaining := int64(v.geometry.TotalClusters) - startingLCN
	byteCount := (remaining + 7) / 8
	moreData := false
	if v.bitmapChunkBytes > 0 && byteCount > int64(v.bitmapChunkBytes) {
		byteCount = int64(v.bitmapChunkBytes)
		moreData = true
	}
	firstByte := startingLCN / 8
	return BitmapChunk{
		StartingLCN: startingLCN,
		BitCount:    remaining,
		Bits:        append([]byte(nil), v.allocated[firstByte:firstByte+byteCount]...),
		MoreData:    moreData,
	}, nil
}

// OpenFile opens a file that was created through CreateFile().
func (v *InMemoryVolume) OpenFile(ctx context.Context, path string) (File, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	state, ok := v.files[path]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "File %#v does not exist", path)
	}
	v.openFiles++
	return &inMemoryFile{
		volume: v,
		state:  state,
	}, nil
}

// RelocateCluster moves a single cluster of a file to a cluster that
// is currently free.
func (v *InMemoryVolume) RelocateCluster(ctx context.Context, file File, sourceVCN, destinationLCN int64) error {
	f, ok := file.(*inMemoryFile)
	if !ok || f.volume != v {
		return status.Error(codes.InvalidArgument, "File was not opened through this volume")
	}

	v.lock.Lock()
	defer v.lock.Unlock()

	if f.closed {
		return status.Error(codes.InvalidArgument, "File is closed")
	}
	lcns := f.state.lcns
	if sourceVCN < 0 || sourceVCN >= int64(len(lcns)) {
		return status.Errorf(codes.InvalidArgument, "VCN %d lies outside the file, which has %d clusters", sourceVCN, len(lcns))
	}
	sourceLCN := lcns[sourceVCN]
	if sourceLCN == SparseLCN {
		return status.Errorf(codes.InvalidArgument, "VCN %d is not backed by a cluster", sourceVCN)
	}
	if err := v.checkLCN(destinationLCN); err != nil {
		return err
	}
	if v.isAllocated(destinationLCN) {
		return status.Errorf(codes.FailedPrecondition, "LCN %d is already in use", destinationLCN)
	}
	v.setAllocated(sourceLCN, false)
	v.setAllocated(destinationLCN, true)
	lcns[sourceVCN] = destinationLCN
	return nil
}

type inMemoryFile struct {
	volume *InMemoryVolume
	state  *inMemoryFileState
	closed bool
}

func (f *inMemoryFile) Close() error {
	v := f.volume
	v.lock.Lock()
	defer v.lock.Unlock()

	if f.closed {
		return status.Error(codes.InvalidArgument, "File is already closed")
	}
	f.closed = true
	v.openFiles--
	return nil
}

// sameRun returns whether two consecutive clusters of a file belong
// to the same extent.
func sameRun(previousLCN, lcn int64) bool {
	if previousLCN == SparseLCN || lcn == SparseLCN {
		return previousLCN == lcn
	}
	return lcn == previousLCN+1
}

func (f *inMemoryFile) QueryExtents(ctx context.Context, startingVCN int64) ([]Extent, error) {
	v := f.volume
	v.lock.Lock()
	defer v.lock.Unlock()

	if f.closed {
		return nil, status.Error(codes.InvalidArgument, "File is closed")
	}
	if startingVCN < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "Negative starting VCN: %d", startingVCN)
	}
	lcns := f.state.lcns
	if startingVCN >= int64(len(lcns)) {
		return nil, io.EOF
	}

	// Like NTFS, start at the beginning of the extent containing
	// the starting VCN.
	runStart := startingVCN
	for runStart > 0 && sameRun(lcns[runStart-1], lcns[runStart]) {
		runStart--
	}

	var extents []Extent
	for runStart < int64(len(lcns)) && (v.extentsPerChunk <= 0 || len(extents) < v.extentsPerChunk) {
		runEnd := runStart + 1
		for runEnd < int64(len(lcns)) && sameRun(lcns[runEnd-1], lcns[runEnd]) {
			runEnd++
		}
		extents = append(extents, Extent{
			StartingVCN: runStart,
			LCN:         lcns[runStart],
			Length:      runEnd - runStart,
		})
		runStart = runEnd
	}
	return extents, nil
}
