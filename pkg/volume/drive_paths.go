package volume

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GetDrivePaths converts a drive letter to the root path of the file
// system (e.g., C:\) and the path of the volume device (e.g., \\.\C:).
// A trailing colon and surrounding whitespace are permitted.
func GetDrivePaths(driveLetter string) (string, string, error) {
	driveLetter = strings.TrimSuffix(strings.TrimSpace(driveLetter), ":")
	if len(driveLetter) != 1 || !((driveLetter[0] >= 'A' && driveLetter[0] <= 'Z') || (driveLetter[0] >= 'a' && driveLetter[0] <= 'z')) {
		return "", "", status.Errorf(codes.InvalidArgument, "Invalid drive letter %#v", driveLetter)
	}
	driveLetter = strings.ToUpper(driveLetter)
	return driveLetter + `:\`, `\\.\` + driveLetter + ":", nil
}
