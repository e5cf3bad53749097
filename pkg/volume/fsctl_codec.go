package volume

import (
	"encoding/binary"

	"github.com/buildbarn/bb-storage/pkg/util"
	"github.com/go-restruct/restruct"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Layouts of the buffers exchanged with NTFS through DeviceIoControl().
// They are kept independent of the Windows build tag, so that they can
// be encoded and decoded on any platform.

const (
	// Offset of Buffer within VOLUME_BITMAP_BUFFER. This is less
	// than sizeof(VOLUME_BITMAP_BUFFER), which includes padding
	// following the first byte of the bitmap.
	volumeBitmapBufferHeaderSize = 16
	// Offset of Extents within RETRIEVAL_POINTERS_BUFFER.
	retrievalPointersBufferHeaderSize = 16
	retrievalPointerExtentSize        = 16
)

type startingLCNInputBuffer struct {
	StartingLCN int64
}

type startingVCNInputBuffer struct {
	StartingVCN int64
}

type volumeBitmapBufferHeader struct {
	StartingLCN int64
	BitmapSize  int64
}

type retrievalPointersBufferHeader struct {
	ExtentCount uint32
	Padding     uint32
	StartingVCN int64
}

type retrievalPointerExtent struct {
	NextVCN int64
	LCN     int64
}

// moveFileData corresponds to MOVE_FILE_DATA. The handle is stored in
// eight bytes on all architectures. On 32-bit systems the upper half
// coincides with the padding preceding StartingVcn.
type moveFileData struct {
	FileHandle   uint64
	StartingVCN  int64
	StartingLCN  int64
	ClusterCount uint32
	Padding      uint32
}

func encodeStartingLCNInputBuffer(startingLCN int64) []byte {
	b, err := restruct.Pack(binary.LittleEndian, &startingLCNInputBuffer{StartingLCN: startingLCN})
	if err != nil {
		panic(err)
	}
	return b
}

func encodeStartingVCNInputBuffer(startingVCN int64) []byte {
	b, err := restruct.Pack(binary.LittleEndian, &startingVCNInputBuffer{StartingVCN: startingVCN})
	if err != nil {
		panic(err)
	}
	return b
}

func encodeMoveFileData(fileHandle uintptr, sourceVCN, destinationLCN int64, clusterCount uint32) []byte {
	b, err := restruct.Pack(binary.LittleEndian, &moveFileData{
		FileHandle:   uint64(fileHandle),
		StartingVCN:  sourceVCN,
		StartingLCN:  destinationLCN,
		ClusterCount: clusterCount,
	})
	if err != nil {
		panic(err)
	}
	return b
}

// decodeVolumeBitmapBuffer converts the output of
// FSCTL_GET_VOLUME_BITMAP to a BitmapChunk. The bits of the chunk are
// limited to what is actually present in the buffer, meaning they may
// describe fewer clusters than BitmapSize claims.
func decodeVolumeBitmapBuffer(b []byte, moreData bool) (BitmapChunk, error) {
	if len(b) < volumeBitmapBufferHeaderSize {
		return BitmapChunk{}, status.Errorf(codes.DataLoss, "Volume bitmap buffer is %d bytes in size, while the header is %d bytes", len(b), volumeBitmapBufferHeaderSize)
	}
	var header volumeBitmapBufferHeader
	if err := restruct.Unpack(b[:volumeBitmapBufferHeaderSize], binary.LittleEndian, &header); err != nil {
		return BitmapChunk{}, util.StatusWrapWithCode(err, codes.DataLoss, "Failed to decode volume bitmap buffer header")
	}
	body := b[volumeBitmapBufferHeaderSize:]
	bits := make([]byte, len(body))
	copy(bits, body)
	return BitmapChunk{
		StartingLCN: header.StartingLCN,
		BitCount:    header.BitmapSize,
		Bits:        bits,
		MoreData:    moreData,
	}, nil
}

// decodeRetrievalPointersBuffer converts the output of
// FSCTL_GET_RETRIEVAL_POINTERS to a list of extents. Extents that are
// announced by ExtentCount, but do not fit in the buffer are dropped.
// They are returned by the next query.
func decodeRetrievalPointersBuffer(b []byte) ([]Extent, error) {
	if len(b) < retrievalPointersBufferHeaderSize {
		return nil, status.Errorf(codes.DataLoss, "Retrieval pointers buffer is %d bytes in size, while the header is %d bytes", len(b), retrievalPointersBufferHeaderSize)
	}
	var header retrievalPointersBufferHeader
	if err := restruct.Unpack(b[:retrievalPointersBufferHeaderSize], binary.LittleEndian, &header); err != nil {
		return nil, util.StatusWrapWithCode(err, codes.DataLoss, "Failed to decode retrieval pointers buffer header")
	}

	count := int(header.ExtentCount)
	if available := (len(b) - retrievalPointersBufferHeaderSize) / retrievalPointerExtentSize; count > available {
		count = available
	}
	extents := make([]Extent, 0, count)
	currentVCN := header.StartingVCN
	for i := 0; i < count; i++ {
		offset := retrievalPointersBufferHeaderSize + i*retrievalPointerExtentSize
		var e retrievalPointerExtent
		if err := restruct.Unpack(b[offset:offset+retrievalPointerExtentSize], binary.LittleEndian, &e); err != nil {
			return nil, util.StatusWrapfWithCode(err, codes.DataLoss, "Failed to decode extent %d", i)
		}
		if e.NextVCN < currentVCN {
			return nil, status.Errorf(codes.DataLoss, "Extent %d ends at VCN %d, which lies before its start at VCN %d", i, e.NextVCN, currentVCN)
		}
		extents = append(extents, Extent{
			StartingVCN: currentVCN,
			LCN:         e.LCN,
			Length:      e.NextVCN - currentVCN,
		})
		currentVCN = e.NextVCN
	}
	return extents, nil
}
