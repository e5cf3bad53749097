package relocation_test

import (
	"context"
	"testing"

	"github.com/buildbarn/bb-cluster-relocator/internal/mock"
	"github.com/buildbarn/bb-cluster-relocator/pkg/relocation"
	"github.com/buildbarn/bb-storage/pkg/clock"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/otel/attribute"
	otel_codes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMetricsFileProcessor(t *testing.T) {
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	baseFileProcessor := mock.NewMockFileProcessor(ctrl)
	fileProcessor := relocation.NewMetricsFileProcessor(baseFileProcessor, clock.SystemClock, "Defragment")

	report := relocation.FileReport{
		Path:              "hello.txt",
		Outcome:           relocation.OutcomeDefragmented,
		ClusterCount:      3,
		RelocatedClusters: 2,
		FailedClusters:    1,
		TargetRun:         100,
	}
	baseFileProcessor.EXPECT().ProcessFile(ctx, "hello.txt").Return(report)
	require.Equal(t, report, fileProcessor.ProcessFile(ctx, "hello.txt"))
}

func TestTracingFileProcessor(t *testing.T) {
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	t.Run("Noop", func(t *testing.T) {
		baseFileProcessor := mock.NewMockFileProcessor(ctrl)
		fileProcessor := relocation.NewTracingFileProcessor(baseFileProcessor, noop.NewTracerProvider())

		report := relocation.FileReport{
			Path:    "hello.txt",
			Outcome: relocation.OutcomeFailed,
			Err:     status.Error(codes.NotFound, "File not found"),
		}
		baseFileProcessor.EXPECT().ProcessFile(gomock.Any(), "hello.txt").Return(report)
		require.Equal(t, report, fileProcessor.ProcessFile(ctx, "hello.txt"))
	})

	t.Run("Recorded", func(t *testing.T) {
		spanRecorder := tracetest.NewSpanRecorder()
		tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))
		baseFileProcessor := mock.NewMockFileProcessor(ctrl)
		fileProcessor := relocation.NewTracingFileProcessor(
			baseFileProcessor,
			tracerProvider,
			attribute.String("session.id", "3f2504e0-4f89-41d3-9a0c-0305e82c3301"))

		report := relocation.FileReport{
			Path:              "hello.txt",
			Outcome:           relocation.OutcomeFailed,
			ClusterCount:      4,
			RelocatedClusters: 1,
			FailedClusters:    3,
			Err:               status.Error(codes.PermissionDenied, "Access is denied"),
		}
		baseFileProcessor.EXPECT().ProcessFile(gomock.Any(), "hello.txt").
			DoAndReturn(func(ctx context.Context, path string) relocation.FileReport {
				// The base file processor should be called
				// within the span.
				require.True(t, trace.SpanContextFromContext(ctx).IsValid())
				return report
			})
		require.Equal(t, report, fileProcessor.ProcessFile(ctx, "hello.txt"))

		spans := spanRecorder.Ended()
		require.Len(t, spans, 1)
		require.Equal(t, "FileProcessor.ProcessFile", spans[0].Name())
		require.ElementsMatch(t, []attribute.KeyValue{
			attribute.String("session.id", "3f2504e0-4f89-41d3-9a0c-0305e82c3301"),
			attribute.String("path", "hello.txt"),
			attribute.String("outcome", "Failed"),
			attribute.Int("cluster_count", 4),
			attribute.Int("relocated_clusters", 1),
			attribute.Int("skipped_clusters", 0),
			attribute.Int("failed_clusters", 3),
		}, spans[0].Attributes())
		require.Equal(t, otel_codes.Error, spans[0].Status().Code)
		require.Len(t, spans[0].Events(), 1)
	})
}

func TestOutcome(t *testing.T) {
	require.Equal(t, "AlreadyContiguous", relocation.OutcomeAlreadyContiguous.String())
	require.Equal(t, "VolumeFull", relocation.OutcomeVolumeFull.String())
	require.Equal(t, "Unknown", relocation.Outcome(100).String())

	require.True(t, relocation.OutcomeFailed.IsFailure())
	require.True(t, relocation.OutcomeNoClusters.IsFailure())
	require.False(t, relocation.OutcomeNoSuitableRun.IsFailure())
	require.False(t, relocation.OutcomeFragmented.IsFailure())
}
