package configuration

import (
	"bytes"
	"encoding/json"

	global_pb "github.com/buildbarn/bb-storage/pkg/proto/configuration/global"
	"github.com/buildbarn/bb-storage/pkg/util"
	"github.com/google/go-jsonnet"

	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/encoding/protojson"
)

// SimulationConfiguration describes an in-memory volume that is
// created and populated with randomly fragmented files, as opposed to
// operating on a real volume.
type SimulationConfiguration struct {
	TotalClusters       uint64 `json:"totalClusters"`
	BytesPerCluster     uint32 `json:"bytesPerCluster"`
	FileCount           int    `json:"fileCount"`
	MaximumFileClusters int    `json:"maximumFileClusters"`
	// Maximum number of bitmap bytes and extents returned per query,
	// so that the pagination logic is exercised.
	BitmapChunkBytes int `json:"bitmapChunkBytes"`
	ExtentsPerChunk  int `json:"extentsPerChunk"`
}

// ApplicationConfiguration is shared by all commands. Fields that are
// irrelevant to a command are ignored.
type ApplicationConfiguration struct {
	Drive                            string `json:"drive"`
	MovesPerFile                     int    `json:"movesPerFile"`
	FreeClustersToFind               int    `json:"freeClustersToFind"`
	RandomAttemptsPerCluster         uint64 `json:"randomAttemptsPerCluster"`
	FragmentationRandomAttempts      uint64 `json:"fragmentationRandomAttempts"`
	BitmapBufferSizeBytes            int    `json:"bitmapBufferSizeBytes"`
	RetrievalPointersBufferSizeBytes int    `json:"retrievalPointersBufferSizeBytes"`

	Simulation *SimulationConfiguration `json:"simulation"`

	// Options shared with other Buildbarn binaries, such as logging,
	// tracing and the diagnostics HTTP server that exposes
	// Prometheus metrics. Stored under the "global" key, using the
	// Protobuf JSON encoding.
	Global *global_pb.Configuration `json:"-"`
}

// GetApplicationConfiguration reads the configuration from a Jsonnet
// file and fills in default values. An empty path yields the default
// configuration.
func GetApplicationConfiguration(path string) (*ApplicationConfiguration, error) {
	var applicationConfiguration ApplicationConfiguration
	if path != "" {
		if err := unmarshalConfigurationFromFile(path, &applicationConfiguration); err != nil {
			return nil, util.StatusWrap(err, "Failed to retrieve configuration")
		}
	}
	setDefaultValues(&applicationConfiguration)
	return &applicationConfiguration, nil
}

func unmarshalConfigurationFromFile(path string, configuration *ApplicationConfiguration) error {
	serialized, err := jsonnet.MakeVM().EvaluateFile(path)
	if err != nil {
		return util.StatusWrapf(err, "Failed to evaluate %#v", path)
	}
	document := struct {
		*ApplicationConfiguration
		Global json.RawMessage `json:"global"`
	}{
		ApplicationConfiguration: configuration,
	}
	decoder := json.NewDecoder(bytes.NewBufferString(serialized))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&document); err != nil {
		return util.StatusWrapf(err, "Failed to unmarshal %#v", path)
	}
	if len(document.Global) > 0 {
		var globalConfiguration global_pb.Configuration
		if err := protojson.Unmarshal(document.Global, &globalConfiguration); err != nil {
			return util.StatusWrapfWithCode(err, codes.InvalidArgument, "Failed to unmarshal global configuration in %#v", path)
		}
		configuration.Global = &globalConfiguration
	}
	return nil
}

func setDefaultValues(applicationConfiguration *ApplicationConfiguration) {
	if applicationConfiguration.Global == nil {
		applicationConfiguration.Global = &global_pb.Configuration{}
	}
	if applicationConfiguration.MovesPerFile == 0 {
		applicationConfiguration.MovesPerFile = 5
	}
	if applicationConfiguration.FreeClustersToFind == 0 {
		applicationConfiguration.FreeClustersToFind = 10
	}
	if applicationConfiguration.RandomAttemptsPerCluster == 0 {
		applicationConfiguration.RandomAttemptsPerCluster = 10
	}
	if applicationConfiguration.FragmentationRandomAttempts == 0 {
		applicationConfiguration.FragmentationRandomAttempts = 2000
	}
	if applicationConfiguration.BitmapBufferSizeBytes == 0 {
		applicationConfiguration.BitmapBufferSizeBytes = 64 * 1024
	}
	if applicationConfiguration.RetrievalPointersBufferSizeBytes == 0 {
		applicationConfiguration.RetrievalPointersBufferSizeBytes = 16 * 1024
	}
	if simulation := applicationConfiguration.Simulation; simulation != nil {
		if simulation.TotalClusters == 0 {
			simulation.TotalClusters = 1 << 20
		}
		if simulation.BytesPerCluster == 0 {
			simulation.BytesPerCluster = 4096
		}
		if simulation.FileCount == 0 {
			simulation.FileCount = 1000
		}
		if simulation.MaximumFileClusters == 0 {
			simulation.MaximumFileClusters = 64
		}
	}
}
