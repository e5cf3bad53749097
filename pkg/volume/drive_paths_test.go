package volume_test

import (
	"testing"

	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
	"github.com/buildbarn/bb-storage/pkg/testutil"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGetDrivePaths(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for _, input := range []string{"C", "c", "C:", " c: \n"} {
			rootPath, devicePath, err := volume.GetDrivePaths(input)
			require.NoError(t, err)
			require.Equal(t, `C:\`, rootPath)
			require.Equal(t, `\\.\C:`, devicePath)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		_, _, err := volume.GetDrivePaths("")
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Invalid drive letter \"\""), err)

		_, _, err = volume.GetDrivePaths("CD")
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Invalid drive letter \"CD\""), err)

		_, _, err = volume.GetDrivePaths("1:")
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Invalid drive letter \"1\""), err)
	})
}
