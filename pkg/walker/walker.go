package walker

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/buildbarn/bb-cluster-relocator/pkg/relocation"
	"github.com/buildbarn/bb-storage/pkg/util"
)

// Summary of processing all files on a volume.
type Summary struct {
	FilesByOutcome    map[relocation.Outcome]int
	RelocatedClusters int
	SkippedClusters   int
	FailedClusters    int
	// Number of directories whose contents could not be listed.
	DirectoryErrors int
	// Whether the walk was stopped before all files were processed,
	// due to the context being canceled.
	Interrupted bool
}

func (s *Summary) add(report relocation.FileReport) {
	if s.FilesByOutcome == nil {
		s.FilesByOutcome = map[relocation.Outcome]int{}
	}
	s.FilesByOutcome[report.Outcome]++
	s.RelocatedClusters += report.RelocatedClusters
	s.SkippedClusters += report.SkippedClusters
	s.FailedClusters += report.FailedClusters
}

// GetFileCount returns the total number of files processed.
func (s *Summary) GetFileCount() int {
	count := 0
	for _, n := range s.FilesByOutcome {
		count += n
	}
	return count
}

// Succeeded returns whether all files and directories were processed
// without any of them failing. Files that were skipped due to lack of
// contiguous space do not count as failures.
func (s *Summary) Succeeded() bool {
	if s.DirectoryErrors > 0 || s.Interrupted {
		return false
	}
	for outcome, n := range s.FilesByOutcome {
		if n > 0 && outcome.IsFailure() {
			return false
		}
	}
	return true
}

// Walker enumerates the files stored on a volume and calls into a
// FileProcessor for each of them, one file at a time. Failures
// affecting individual files or directories are logged, after which
// the walk continues with their siblings.
type Walker struct {
	processor   relocation.FileProcessor
	errorLogger util.ErrorLogger
}

// NewWalker creates a Walker that processes files using the provided
// FileProcessor.
func NewWalker(processor relocation.FileProcessor, errorLogger util.ErrorLogger) *Walker {
	return &Walker{
		processor:   processor,
		errorLogger: errorLogger,
	}
}

func (w *Walker) processFile(ctx context.Context, path string, summary *Summary) {
	report := w.processor.ProcessFile(ctx, path)
	summary.add(report)
	switch {
	case report.Outcome.IsFailure():
		w.errorLogger.Log(util.StatusWrapf(report.Err, "%s: %s", report.Outcome, path))
	case report.Outcome == relocation.OutcomeNoSuitableRun:
		log.Printf("Skipping %#v: %s", path, report.Err)
	case report.Outcome == relocation.OutcomeDefragmented:
		log.Printf(
			"Defragmented %#v into LCN range [%d, %d): %d relocated, %d failed",
			path,
			report.TargetRun,
			report.TargetRun+int64(report.ClusterCount),
			report.RelocatedClusters,
			report.FailedClusters)
	case report.Outcome == relocation.OutcomeFragmented:
		log.Printf("Fragmented %#v: %d relocated, %d failed", path, report.RelocatedClusters, report.FailedClusters)
	}
}

// WalkDirectory processes all regular files contained in a directory
// hierarchy, depth first. Paths handed to the FileProcessor are
// obtained by joining rootPath with the path of the file within fsys.
// Symbolic links are not followed.
func (w *Walker) WalkDirectory(ctx context.Context, fsys fs.FS, rootPath string) Summary {
	var summary Summary
	fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			summary.Interrupted = true
			return fs.SkipAll
		}
		if err != nil {
			summary.DirectoryErrors++
			w.errorLogger.Log(util.StatusWrapf(err, "Failed to list directory %#v", filepath.Join(rootPath, filepath.FromSlash(p))))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			w.processFile(ctx, filepath.Join(rootPath, filepath.FromSlash(p)), &summary)
		}
		return nil
	})
	return summary
}

// WalkPaths processes a list of files in the order provided.
func (w *Walker) WalkPaths(ctx context.Context, paths []string) Summary {
	var summary Summary
	for _, path := range paths {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}
		w.processFile(ctx, path, &summary)
	}
	return summary
}
