package session_test

import (
	"testing"

	"github.com/buildbarn/bb-cluster-relocator/pkg/session"
	auth_pb "github.com/buildbarn/bb-storage/pkg/proto/auth"
	global_pb "github.com/buildbarn/bb-storage/pkg/proto/configuration/global"
	http_server_pb "github.com/buildbarn/bb-storage/pkg/proto/configuration/http/server"
	"github.com/buildbarn/bb-storage/pkg/testutil"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFlags(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		applicationConfiguration, err := session.NewFlags("bb_fragment").Parse(nil)
		require.NoError(t, err)
		require.Equal(t, "", applicationConfiguration.Drive)
		require.Equal(t, 5, applicationConfiguration.MovesPerFile)
		require.Equal(t, 10, applicationConfiguration.FreeClustersToFind)
		require.Nil(t, applicationConfiguration.Global.GetDiagnosticsHttpServer())
	})

	t.Run("Overrides", func(t *testing.T) {
		applicationConfiguration, err := session.NewFlags("bb_fragment").Parse([]string{
			"--drive=D",
			"--moves-per-file", "12",
			"--free-clusters-to-find=3",
			"--metrics-listen-address=:9980",
		})
		require.NoError(t, err)
		require.Equal(t, "D", applicationConfiguration.Drive)
		require.Equal(t, 12, applicationConfiguration.MovesPerFile)
		require.Equal(t, 3, applicationConfiguration.FreeClustersToFind)
		testutil.RequireEqualProto(t, &global_pb.DiagnosticsHTTPServerConfiguration{
			HttpServers: []*http_server_pb.Configuration{{
				ListenAddresses: []string{":9980"},
				AuthenticationPolicy: &http_server_pb.AuthenticationPolicy{
					Policy: &http_server_pb.AuthenticationPolicy_Allow{
						Allow: &auth_pb.AuthenticationMetadata{},
					},
				},
			}},
			EnablePrometheus: true,
		}, applicationConfiguration.Global.DiagnosticsHttpServer)
	})

	t.Run("NonPositiveMoves", func(t *testing.T) {
		_, err := session.NewFlags("bb_fragment").Parse([]string{"--moves-per-file=0"})
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Number of moves per file must be positive, while 0 was provided"), err)
	})

	t.Run("UnexpectedArgument", func(t *testing.T) {
		_, err := session.NewFlags("bb_defragment").Parse([]string{"C:"})
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Unexpected command line argument \"C:\""), err)
	})

	t.Run("UnknownFlag", func(t *testing.T) {
		_, err := session.NewFlags("bb_defragment").Parse([]string{"--frobnicate"})
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}
