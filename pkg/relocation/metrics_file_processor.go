package relocation

import (
	"context"
	"sync"

	"github.com/buildbarn/bb-storage/pkg/clock"
	"github.com/buildbarn/bb-storage/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	fileProcessorPrometheusMetrics sync.Once

	fileProcessorDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "buildbarn",
			Subsystem: "cluster_relocator",
			Name:      "file_processor_duration_seconds",
			Help:      "Amount of time spent processing individual files, in seconds.",
			Buckets:   util.DecimalExponentialBuckets(-4, 6, 2),
		},
		[]string{"policy", "outcome"})
	fileProcessorClusters = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buildbarn",
			Subsystem: "cluster_relocator",
			Name:      "file_processor_clusters_total",
			Help:      "Number of clusters processed, partitioned by whether they were relocated, skipped or failed to be relocated.",
		},
		[]string{"policy", "result"})
)

type metricsFileProcessor struct {
	base  FileProcessor
	clock clock.Clock

	durationSeconds   prometheus.ObserverVec
	relocatedClusters prometheus.Counter
	skippedClusters   prometheus.Counter
	failedClusters    prometheus.Counter
}

// NewMetricsFileProcessor creates a decorator for FileProcessor that
// exposes Prometheus metrics on the outcomes of processing files and
// the number of clusters relocated.
func NewMetricsFileProcessor(base FileProcessor, clock clock.Clock, policy string) FileProcessor {
	fileProcessorPrometheusMetrics.Do(func() {
		prometheus.MustRegister(fileProcessorDurationSeconds)
		prometheus.MustRegister(fileProcessorClusters)
	})

	return &metricsFileProcessor{
		base:  base,
		clock: clock,

		durationSeconds:   fileProcessorDurationSeconds.MustCurryWith(map[string]string{"policy": policy}),
		relocatedClusters: fileProcessorClusters.WithLabelValues(policy, "Relocated"),
		skippedClusters:   fileProcessorClusters.WithLabelValues(policy, "Skipped"),
		failedClusters:    fileProcessorClusters.WithLabelValues(policy, "Failed"),
	}
}

func (fp *metricsFileProcessor) ProcessFile(ctx context.Context, path string) FileReport {
	timeStart := fp.clock.Now()
	report := fp.base.ProcessFile(ctx, path)
	fp.durationSeconds.WithLabelValues(report.Outcome.String()).Observe(fp.clock.Now().Sub(timeStart).Seconds())
	fp.relocatedClusters.Add(float64(report.RelocatedClusters))
	fp.skippedClusters.Add(float64(report.SkippedClusters))
	fp.failedClusters.Add(float64(report.FailedClusters))
	return report
}
