package relocation

// Outcome of processing a single file.
type Outcome int

const (
	// OutcomeFailed indicates that the file could not be opened or
	// that its extents could not be queried.
	OutcomeFailed Outcome = iota
	// OutcomeEmpty indicates that the file has no allocated
	// clusters, meaning there is nothing to defragment.
	OutcomeEmpty
	// OutcomeAlreadyContiguous indicates that the file was left
	// untouched, as its clusters already form a single run.
	OutcomeAlreadyContiguous
	// OutcomeNoSuitableRun indicates that the file was skipped, as
	// the volume has no free run large enough to hold it.
	OutcomeNoSuitableRun
	// OutcomeDefragmented indicates that the clusters of the file
	// were moved into a single run. Individual moves may still have
	// failed, as reported by FileReport.FailedClusters.
	OutcomeDefragmented
	// OutcomeNoClusters indicates that the file could not be
	// fragmented, as it has no allocated clusters.
	OutcomeNoClusters
	// OutcomeVolumeFull indicates that fragmentation stopped early,
	// as no free destination cluster could be found.
	OutcomeVolumeFull
	// OutcomeFragmented indicates that all requested random moves
	// were attempted.
	OutcomeFragmented
)

var outcomeNames = [...]string{
	OutcomeFailed:            "Failed",
	OutcomeEmpty:             "Empty",
	OutcomeAlreadyContiguous: "AlreadyContiguous",
	OutcomeNoSuitableRun:     "NoSuitableRun",
	OutcomeDefragmented:      "Defragmented",
	OutcomeNoClusters:        "NoClusters",
	OutcomeVolumeFull:        "VolumeFull",
	OutcomeFragmented:        "Fragmented",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "Unknown"
	}
	return outcomeNames[o]
}

// IsFailure returns whether the outcome should cause the processing
// of the volume as a whole to be reported as unsuccessful. Files that
// are skipped due to lack of contiguous space are not considered
// failures.
func (o Outcome) IsFailure() bool {
	switch o {
	case OutcomeFailed, OutcomeNoClusters, OutcomeVolumeFull:
		return true
	default:
		return false
	}
}

// FileReport summarizes what happened while processing a single file.
type FileReport struct {
	Path    string
	Outcome Outcome
	// The error causing the outcome, if the outcome is not one of
	// success.
	Err error

	// Number of allocated clusters of the file.
	ClusterCount int
	// Number of clusters that were moved successfully.
	RelocatedClusters int
	// Number of clusters that were already at their target location.
	SkippedClusters int
	// Number of clusters whose move failed. These clusters remain
	// at their original location.
	FailedClusters int
	// The first cluster of the run into which the file was
	// defragmented.
	TargetRun int64
}
