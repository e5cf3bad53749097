package volume

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/buildbarn/bb-storage/pkg/clock"
	"github.com/buildbarn/bb-storage/pkg/util"
	"github.com/prometheus/client_golang/prometheus"

	"google.golang.org/grpc/status"
)

var (
	volumePrometheusMetrics sync.Once

	volumeOperationsDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "buildbarn",
			Subsystem: "cluster_relocator",
			Name:      "volume_operations_duration_seconds",
			Help:      "Amount of time spent per operation on volumes, in seconds.",
			Buckets:   util.DecimalExponentialBuckets(-6, 7, 2),
		},
		[]string{"operation", "grpc_code"})
	volumeBitmapClustersReturned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "buildbarn",
			Subsystem: "cluster_relocator",
			Name:      "volume_bitmap_clusters_returned_total",
			Help:      "Number of clusters whose allocation state was returned by allocation bitmap queries.",
		})
	volumeExtentsReturned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "buildbarn",
			Subsystem: "cluster_relocator",
			Name:      "volume_extents_returned_total",
			Help:      "Number of extents returned by file extent queries.",
		})
)

type metricsVolume struct {
	base  Volume
	clock clock.Clock

	getGeometry           prometheus.ObserverVec
	queryAllocationBitmap prometheus.ObserverVec
	openFile              prometheus.ObserverVec
	queryExtents          prometheus.ObserverVec
	relocateCluster       prometheus.ObserverVec
}

// NewMetricsVolume creates a decorator for Volume that exposes
// Prometheus metrics on the duration and outcome of operations.
func NewMetricsVolume(base Volume, clock clock.Clock) Volume {
	volumePrometheusMetrics.Do(func() {
		prometheus.MustRegister(volumeOperationsDurationSeconds)
		prometheus.MustRegister(volumeBitmapClustersReturned)
		prometheus.MustRegister(volumeExtentsReturned)
	})

	return &metricsVolume{
		base:  base,
		clock: clock,

		getGeometry:           volumeOperationsDurationSeconds.MustCurryWith(map[string]string{"operation": "GetGeometry"}),
		queryAllocationBitmap: volumeOperationsDurationSeconds.MustCurryWith(map[string]string{"operation": "QueryAllocationBitmap"}),
		openFile:              volumeOperationsDurationSeconds.MustCurryWith(map[string]string{"operation": "OpenFile"}),
		queryExtents:          volumeOperationsDurationSeconds.MustCurryWith(map[string]string{"operation": "QueryExtents"}),
		relocateCluster:       volumeOperationsDurationSeconds.MustCurryWith(map[string]string{"operation": "RelocateCluster"}),
	}
}

func (v *metricsVolume) observe(histogram prometheus.ObserverVec, timeStart time.Time, err error) {
	histogram.WithLabelValues(status.Code(err).String()).Observe(v.clock.Now().Sub(timeStart).Seconds())
}

func (v *metricsVolume) GetGeometry(ctx context.Context) (Geometry, error) {
	timeStart := v.clock.Now()
	geometry, err := v.base.GetGeometry(ctx)
	v.observe(v.getGeometry, timeStart, err)
	return geometry, err
}

func (v *metricsVolume) QueryAllocationBitmap(ctx context.Context, startingLCN int64) (BitmapChunk, error) {
	timeStart := v.clock.Now()
	chunk, err := v.base.QueryAllocationBitmap(ctx, startingLCN)
	v.observe(v.queryAllocationBitmap, timeStart, err)
	if err == nil {
		volumeBitmapClustersReturned.Add(float64(len(chunk.Bits) * 8))
	}
	return chunk, err
}

func (v *metricsVolume) OpenFile(ctx context.Context, path string) (File, error) {
	timeStart := v.clock.Now()
	f, err := v.base.OpenFile(ctx, path)
	v.observe(v.openFile, timeStart, err)
	if err != nil {
		return nil, err
	}
	return &metricsFile{
		File:   f,
		volume: v,
	}, nil
}

func (v *metricsVolume) RelocateCluster(ctx context.Context, file File, sourceVCN, destinationLCN int64) error {
	// Undo the wrapping applied by OpenFile(), as the underlying
	// volume needs access to its own file handle.
	if f, ok := file.(*metricsFile); ok {
		file = f.File
	}
	timeStart := v.clock.Now()
	err := v.base.RelocateCluster(ctx, file, sourceVCN, destinationLCN)
	v.observe(v.relocateCluster, timeStart, err)
	return err
}

type metricsFile struct {
	File
	volume *metricsVolume
}

func (f *metricsFile) QueryExtents(ctx context.Context, startingVCN int64) ([]Extent, error) {
	timeStart := f.volume.clock.Now()
	extents, err := f.File.QueryExtents(ctx, startingVCN)
	// Reaching the end of the file is part of normal operation.
	if err == io.EOF {
		f.volume.observe(f.volume.queryExtents, timeStart, nil)
	} else {
		f.volume.observe(f.volume.queryExtents, timeStart, err)
	}
	volumeExtentsReturned.Add(float64(len(extents)))
	return extents, err
}
