package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/buildbarn/bb-cluster-relocator/pkg/allocation"
	"github.com/buildbarn/bb-cluster-relocator/pkg/configuration"
	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
	"github.com/buildbarn/bb-cluster-relocator/pkg/walker"
	"github.com/buildbarn/bb-storage/pkg/clock"
	"github.com/buildbarn/bb-storage/pkg/random"
	"github.com/buildbarn/bb-storage/pkg/util"
	"github.com/c2h5oh/datasize"
	"github.com/google/uuid"

	"go.opentelemetry.io/otel/attribute"
)

// Session holds the state shared by all commands: the volume being
// operated on and its geometry. Every session has a unique identifier,
// so that log output of concurrent invocations can be told apart.
type Session struct {
	ID       uuid.UUID
	Volume   volume.Volume
	Geometry volume.Geometry

	closer io.Closer
	// Root directory of the file system when operating on a real
	// volume, or the in-memory volume containing the files to walk.
	rootPath        string
	simulatedVolume *volume.InMemoryVolume
}

// Open a volume for the duration of a command. If the configuration
// contains a simulation section, an in-memory volume is created and
// populated with randomly fragmented files. Otherwise the volume of
// the configured drive is opened, prompting for a drive letter if none
// is configured.
//
// Volumes that need to be writable cause an attempt to be made to
// enable the privileges needed to relocate clusters. Failure to do so
// is not fatal, as the calling process may already possess them.
func Open(ctx context.Context, applicationConfiguration *configuration.ApplicationConfiguration, writable bool, stdin io.Reader, stdout io.Writer) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, util.StatusWrap(err, "Failed to generate session ID")
	}
	s := &Session{ID: id}

	var base volume.Volume
	if simulation := applicationConfiguration.Simulation; simulation != nil {
		inMemoryVolume := volume.NewInMemoryVolume(
			volume.Geometry{
				TotalClusters:   simulation.TotalClusters,
				BytesPerCluster: simulation.BytesPerCluster,
			},
			simulation.BitmapChunkBytes,
			simulation.ExtentsPerChunk)
		if err := inMemoryVolume.PopulateRandomly(random.NewFastSingleThreadedGenerator(), simulation.FileCount, simulation.MaximumFileClusters); err != nil {
			return nil, util.StatusWrap(err, "Failed to populate simulated volume")
		}
		log.Printf("Session %s: Using simulated volume with %d files", id, simulation.FileCount)
		base = inMemoryVolume
		s.closer = inMemoryVolume
		s.simulatedVolume = inMemoryVolume
	} else {
		drive := applicationConfiguration.Drive
		if drive == "" {
			if drive, err = promptDriveLetter(stdin, stdout); err != nil {
				return nil, err
			}
		}
		rootPath, devicePath, err := volume.GetDrivePaths(drive)
		if err != nil {
			return nil, err
		}
		if writable {
			if err := volume.EnableManageVolumePrivilege(); err != nil {
				log.Printf("Session %s: Warning: Failed to enable volume management privileges, relocating clusters may fail: %s", id, err)
			}
		}
		windowsVolume, err := volume.NewWindowsVolume(
			drive,
			writable,
			applicationConfiguration.BitmapBufferSizeBytes,
			applicationConfiguration.RetrievalPointersBufferSizeBytes)
		if err != nil {
			return nil, err
		}
		log.Printf("Session %s: Opened volume %s", id, devicePath)
		base = windowsVolume
		s.closer = windowsVolume
		s.rootPath = rootPath
	}

	s.Volume = volume.NewMetricsVolume(base, clock.SystemClock)
	geometry, err := s.Volume.GetGeometry(ctx)
	if err != nil {
		s.closer.Close()
		return nil, util.StatusWrap(err, "Failed to obtain volume geometry")
	}
	s.Geometry = geometry
	log.Printf(
		"Session %s: Volume contains %d clusters of %d bytes (%s)",
		id,
		geometry.TotalClusters,
		geometry.BytesPerCluster,
		datasize.ByteSize(geometry.TotalBytes()).HumanReadable())
	return s, nil
}

func promptDriveLetter(stdin io.Reader, stdout io.Writer) (string, error) {
	fmt.Fprint(stdout, "Enter drive letter (e.g. C): ")
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", util.StatusWrap(err, "Failed to read drive letter")
	}
	return line, nil
}

// GetTracingAttributes returns attributes that should be attached to
// trace spans created during the session.
func (s *Session) GetTracingAttributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("session.id", s.ID.String()),
	}
}

// Close the volume.
func (s *Session) Close() error {
	return s.closer.Close()
}

// AssembleBitmap obtains the allocation bitmap of the entire volume
// and logs the amount of free space.
func (s *Session) AssembleBitmap(ctx context.Context) (*allocation.Bitmap, error) {
	bitmap, err := allocation.AssembleBitmap(ctx, s.Volume, s.Geometry.TotalClusters)
	if err != nil {
		return nil, err
	}
	s.LogFreeSpace(bitmap)
	return bitmap, nil
}

// LogFreeSpace logs the number of free and allocated clusters stored
// in a bitmap.
func (s *Session) LogFreeSpace(bitmap *allocation.Bitmap) {
	free := bitmap.CountFree()
	log.Printf(
		"Session %s: %d of %d clusters free (%s), %d allocated",
		s.ID,
		free,
		bitmap.GetTotalClusters(),
		datasize.ByteSize(free*uint64(s.Geometry.BytesPerCluster)).HumanReadable(),
		bitmap.CountAllocated())
}

// Walk all files stored on the volume.
func (s *Session) Walk(ctx context.Context, w *walker.Walker) walker.Summary {
	if s.simulatedVolume != nil {
		return w.WalkPaths(ctx, s.simulatedVolume.GetPaths())
	}
	return w.WalkDirectory(ctx, os.DirFS(s.rootPath), s.rootPath)
}

// LogSummary logs the results of walking the volume.
func (s *Session) LogSummary(summary *walker.Summary) {
	log.Printf(
		"Session %s: Processed %d files: %d clusters relocated, %d skipped, %d failed, %d directories failed to be listed",
		s.ID,
		summary.GetFileCount(),
		summary.RelocatedClusters,
		summary.SkippedClusters,
		summary.FailedClusters,
		summary.DirectoryErrors)
	for outcome, count := range summary.FilesByOutcome {
		log.Printf("Session %s: %s: %d files", s.ID, outcome, count)
	}
	if summary.Interrupted {
		log.Printf("Session %s: Processing was interrupted", s.ID)
	}
}
