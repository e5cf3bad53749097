package session

import (
	"github.com/buildbarn/bb-cluster-relocator/pkg/configuration"
	auth_pb "github.com/buildbarn/bb-storage/pkg/proto/auth"
	global_pb "github.com/buildbarn/bb-storage/pkg/proto/configuration/global"
	http_server_pb "github.com/buildbarn/bb-storage/pkg/proto/configuration/http/server"
	"github.com/buildbarn/bb-storage/pkg/util"
	"github.com/spf13/pflag"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Flags that may be used to override options stored in the
// configuration file.
type Flags struct {
	flagSet              *pflag.FlagSet
	configurationPath    *string
	drive                *string
	movesPerFile         *int
	freeClustersToFind   *int
	metricsListenAddress *string
}

// NewFlags creates the set of command line flags accepted by a
// command.
func NewFlags(commandName string) *Flags {
	flagSet := pflag.NewFlagSet(commandName, pflag.ContinueOnError)
	return &Flags{
		flagSet:              flagSet,
		configurationPath:    flagSet.String("config", "", "Path of a Jsonnet configuration file"),
		drive:                flagSet.String("drive", "", "Letter of the drive to operate on (e.g. C)"),
		movesPerFile:         flagSet.Int("moves-per-file", 0, "Number of random cluster moves per file when fragmenting"),
		freeClustersToFind:   flagSet.Int("free-clusters-to-find", 0, "Number of free clusters to report"),
		metricsListenAddress: flagSet.String("metrics-listen-address", "", "Address on which the diagnostics HTTP server exposes Prometheus metrics"),
	}
}

// Parse command line arguments, load the configuration file and apply
// any overrides provided on the command line.
func (f *Flags) Parse(args []string) (*configuration.ApplicationConfiguration, error) {
	if err := f.flagSet.Parse(args); err != nil {
		return nil, util.StatusWrapWithCode(err, codes.InvalidArgument, "Failed to parse command line flags")
	}
	if f.flagSet.NArg() > 0 {
		return nil, status.Errorf(codes.InvalidArgument, "Unexpected command line argument %#v", f.flagSet.Arg(0))
	}
	applicationConfiguration, err := configuration.GetApplicationConfiguration(*f.configurationPath)
	if err != nil {
		return nil, err
	}
	if f.flagSet.Changed("drive") {
		applicationConfiguration.Drive = *f.drive
	}
	if f.flagSet.Changed("moves-per-file") {
		if *f.movesPerFile <= 0 {
			return nil, status.Errorf(codes.InvalidArgument, "Number of moves per file must be positive, while %d was provided", *f.movesPerFile)
		}
		applicationConfiguration.MovesPerFile = *f.movesPerFile
	}
	if f.flagSet.Changed("free-clusters-to-find") {
		if *f.freeClustersToFind <= 0 {
			return nil, status.Errorf(codes.InvalidArgument, "Number of free clusters to find must be positive, while %d was provided", *f.freeClustersToFind)
		}
		applicationConfiguration.FreeClustersToFind = *f.freeClustersToFind
	}
	if f.flagSet.Changed("metrics-listen-address") {
		applicationConfiguration.Global.DiagnosticsHttpServer = &global_pb.DiagnosticsHTTPServerConfiguration{
			HttpServers: []*http_server_pb.Configuration{{
				ListenAddresses: []string{*f.metricsListenAddress},
				AuthenticationPolicy: &http_server_pb.AuthenticationPolicy{
					Policy: &http_server_pb.AuthenticationPolicy_Allow{
						Allow: &auth_pb.AuthenticationMetadata{},
					},
				},
			}},
			EnablePrometheus: true,
		}
	}
	return applicationConfiguration, nil
}
