package relocation

import (
	"context"

	"github.com/buildbarn/bb-cluster-relocator/pkg/extents"
	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
	"github.com/buildbarn/bb-storage/pkg/util"
)

// FileProcessor is called into by the volume walker for every regular
// file on the volume. Failures are never propagated, as they only
// affect the file being processed. They are reported as part of the
// FileReport instead.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) FileReport
}

// processMappedFile opens a file, obtains its cluster map and calls
// into a policy to process it. The file is closed on every exit path.
func processMappedFile(ctx context.Context, v volume.Volume, path string, errorLogger util.ErrorLogger, policy func(f volume.File, clusterMap extents.FileClusterMap, report *FileReport)) FileReport {
	report := FileReport{Path: path}
	f, err := v.OpenFile(ctx, path)
	if err != nil {
		report.Outcome = OutcomeFailed
		report.Err = util.StatusWrap(err, "Failed to open file")
		return report
	}
	defer func() {
		if err := f.Close(); err != nil {
			errorLogger.Log(util.StatusWrapf(err, "Failed to close file %#v", path))
		}
	}()

	clusterMap, err := extents.MapFileClusters(ctx, f)
	if err != nil {
		report.Outcome = OutcomeFailed
		report.Err = err
		return report
	}
	report.ClusterCount = len(clusterMap)
	policy(f, clusterMap, &report)
	return report
}
