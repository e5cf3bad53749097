//go:build !windows
// +build !windows

package volume

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewWindowsVolume opens the volume device of a drive. This is not
// supported on this platform. Use an in-memory volume instead.
func NewWindowsVolume(driveLetter string, writable bool, bitmapBufferSizeBytes, retrievalPointersBufferSizeBytes int) (VolumeCloser, error) {
	return nil, status.Error(codes.Unimplemented, "Opening volume devices is only supported on Windows")
}

// EnableManageVolumePrivilege enables the privilege needed to relocate
// clusters. This is not supported on this platform.
func EnableManageVolumePrivilege() error {
	return status.Error(codes.Unimplemented, "Volume management privileges are only supported on Windows")
}
