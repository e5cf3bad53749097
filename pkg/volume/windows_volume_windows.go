//go:build windows
// +build windows

package volume

import (
	"context"
	"io"
	"unsafe"

	"github.com/buildbarn/bb-storage/pkg/util"

	"golang.org/x/sys/windows"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	fsctlGetVolumeBitmap       = 0x0009006f
	fsctlGetRetrievalPointers  = 0x00090073
	fsctlMoveFile              = 0x00090074
	manageVolumePrivilegeName  = "SeManageVolumePrivilege"
	defaultBitmapBufferSize    = 64 * 1024
	defaultRetrievalBufferSize = 16 * 1024
)

var procGetDiskFreeSpaceW = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetDiskFreeSpaceW")

type windowsVolume struct {
	rootPath                         string
	handle                           windows.Handle
	bitmapBufferSizeBytes            int
	retrievalPointersBufferSizeBytes int
}

// NewWindowsVolume opens the volume device of a drive (e.g., \\.\C:),
// so that its allocation bitmap can be queried and clusters of files
// stored on it can be relocated. Relocation requires the volume to be
// opened writable.
func NewWindowsVolume(driveLetter string, writable bool, bitmapBufferSizeBytes, retrievalPointersBufferSizeBytes int) (VolumeCloser, error) {
	rootPath, devicePath, err := GetDrivePaths(driveLetter)
	if err != nil {
		return nil, err
	}
	if bitmapBufferSizeBytes <= volumeBitmapBufferHeaderSize {
		bitmapBufferSizeBytes = defaultBitmapBufferSize
	}
	if retrievalPointersBufferSizeBytes <= retrievalPointersBufferHeaderSize {
		retrievalPointersBufferSizeBytes = defaultRetrievalBufferSize
	}

	access := uint32(windows.GENERIC_READ)
	if writable {
		access |= windows.GENERIC_WRITE
	}
	handle, err := createFile(devicePath, access)
	if err != nil {
		return nil, util.StatusWrapfWithCode(err, codes.Unavailable, "Failed to open volume %#v", devicePath)
	}
	return &windowsVolume{
		rootPath:                         rootPath,
		handle:                           handle,
		bitmapBufferSizeBytes:            bitmapBufferSizeBytes,
		retrievalPointersBufferSizeBytes: retrievalPointersBufferSizeBytes,
	}, nil
}

func createFile(path string, access uint32) (windows.Handle, error) {
	pathUTF16, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.InvalidHandle, err
	}
	return windows.CreateFile(
		pathUTF16,
		access,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0)
}

func (v *windowsVolume) Close() error {
	return windows.CloseHandle(v.handle)
}

func (v *windowsVolume) GetGeometry(ctx context.Context) (Geometry, error) {
	rootPathUTF16, err := windows.UTF16PtrFromString(v.rootPath)
	if err != nil {
		return Geometry{}, util.StatusWrapWithCode(err, codes.InvalidArgument, "Invalid root path")
	}
	var sectorsPerCluster, bytesPerSector, numberOfFreeClusters, totalNumberOfClusters uint32
	if r, _, err := procGetDiskFreeSpaceW.Call(
		uintptr(unsafe.Pointer(rootPathUTF16)),
		uintptr(unsafe.Pointer(&sectorsPerCluster)),
		uintptr(unsafe.Pointer(&bytesPerSector)),
		uintptr(unsafe.Pointer(&numberOfFreeClusters)),
		uintptr(unsafe.Pointer(&totalNumberOfClusters)),
	); r == 0 {
		return Geometry{}, util.StatusWrapfWithCode(err, codes.Unavailable, "Failed to obtain volume geometry for %#v", v.rootPath)
	}
	return Geometry{
		TotalClusters:   uint64(totalNumberOfClusters),
		BytesPerCluster: sectorsPerCluster * bytesPerSector,
	}, nil
}

func (v *windowsVolume) QueryAllocationBitmap(ctx context.Context, startingLCN int64) (BitmapChunk, error) {
	input := encodeStartingLCNInputBuffer(startingLCN)
	output := make([]byte, v.bitmapBufferSizeBytes)
	var bytesReturned uint32
	err := windows.DeviceIoControl(
		v.handle,
		fsctlGetVolumeBitmap,
		&input[0],
		uint32(len(input)),
		&output[0],
		uint32(len(output)),
		&bytesReturned,
		nil)
	moreData := err == windows.ERROR_MORE_DATA
	if err != nil && !moreData {
		return BitmapChunk{}, util.StatusWrapWithCode(err, codes.Unavailable, "FSCTL_GET_VOLUME_BITMAP failed")
	}
	return decodeVolumeBitmapBuffer(output[:bytesReturned], moreData)
}

func (v *windowsVolume) OpenFile(ctx context.Context, path string) (File, error) {
	handle, err := createFile(path, windows.GENERIC_READ|windows.GENERIC_WRITE)
	if err != nil {
		return nil, util.StatusWrapfWithCode(err, codes.Unavailable, "Failed to open file %#v", path)
	}
	return &windowsFile{
		handle:                           handle,
		retrievalPointersBufferSizeBytes: v.retrievalPointersBufferSizeBytes,
	}, nil
}

func (v *windowsVolume) RelocateCluster(ctx context.Context, file File, sourceVCN, destinationLCN int64) error {
	f, ok := file.(*windowsFile)
	if !ok {
		return status.Error(codes.InvalidArgument, "File was not opened through this volume")
	}
	input := encodeMoveFileData(uintptr(f.handle), sourceVCN, destinationLCN, 1)
	var bytesReturned uint32
	if err := windows.DeviceIoControl(
		v.handle,
		fsctlMoveFile,
		&input[0],
		uint32(len(input)),
		nil,
		0,
		&bytesReturned,
		nil,
	); err != nil {
		return util.StatusWrapWithCode(err, codes.Internal, "FSCTL_MOVE_FILE failed")
	}
	return nil
}

type windowsFile struct {
	handle                           windows.Handle
	retrievalPointersBufferSizeBytes int
}

func (f *windowsFile) Close() error {
	return windows.CloseHandle(f.handle)
}

func (f *windowsFile) QueryExtents(ctx context.Context, startingVCN int64) ([]Extent, error) {
	input := encodeStartingVCNInputBuffer(startingVCN)
	output := make([]byte, f.retrievalPointersBufferSizeBytes)
	var bytesReturned uint32
	err := windows.DeviceIoControl(
		f.handle,
		fsctlGetRetrievalPointers,
		&input[0],
		uint32(len(input)),
		&output[0],
		uint32(len(output)),
		&bytesReturned,
		nil)
	switch err {
	case nil, windows.ERROR_MORE_DATA:
		// ERROR_MORE_DATA still yields a valid list of extents.
		// Subsequent extents are obtained by querying again.
		return decodeRetrievalPointersBuffer(output[:bytesReturned])
	case windows.ERROR_HANDLE_EOF:
		return nil, io.EOF
	default:
		return nil, util.StatusWrapWithCode(err, codes.Internal, "FSCTL_GET_RETRIEVAL_POINTERS failed")
	}
}

// EnableManageVolumePrivilege enables SeManageVolumePrivilege for the
// current process, which is needed to query volume bitmaps and to
// relocate clusters.
func EnableManageVolumePrivilege() error {
	var token windows.Token
	if err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_ADJUST_PRIVILEGES|windows.TOKEN_QUERY, &token); err != nil {
		return util.StatusWrapWithCode(err, codes.PermissionDenied, "Failed to open process token")
	}
	defer token.Close()

	privilegeName, err := windows.UTF16PtrFromString(manageVolumePrivilegeName)
	if err != nil {
		return util.StatusWrapWithCode(err, codes.InvalidArgument, "Invalid privilege name")
	}
	var luid windows.LUID
	if err := windows.LookupPrivilegeValue(nil, privilegeName, &luid); err != nil {
		return util.StatusWrapfWithCode(err, codes.PermissionDenied, "Failed to look up privilege %s", manageVolumePrivilegeName)
	}
	privileges := windows.Tokenprivileges{
		PrivilegeCount: 1,
		Privileges: [1]windows.LUIDAndAttributes{{
			Luid:       luid,
			Attributes: windows.SE_PRIVILEGE_ENABLED,
		}},
	}
	// Privileges not held by the token are silently ignored. In that
	// case relocating clusters fails later on.
	if err := windows.AdjustTokenPrivileges(token, false, &privileges, 0, nil, nil); err != nil {
		return util.StatusWrapfWithCode(err, codes.PermissionDenied, "Failed to enable privilege %s", manageVolumePrivilegeName)
	}
	return nil
}
