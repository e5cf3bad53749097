package relocation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type tracingFileProcessor struct {
	base       FileProcessor
	tracer     trace.Tracer
	attributes []attribute.KeyValue
}

// NewTracingFileProcessor is a decorator for FileProcessor that
// creates an OpenTelemetry trace span for every file that is
// processed. The outcome and cluster counts are attached to the span
// as attributes, together with the attributes provided, which can be
// used to identify the session.
func NewTracingFileProcessor(base FileProcessor, tracerProvider trace.TracerProvider, attributes ...attribute.KeyValue) FileProcessor {
	return &tracingFileProcessor{
		base:       base,
		tracer:     tracerProvider.Tracer("github.com/buildbarn/bb-cluster-relocator/pkg/relocation"),
		attributes: attributes,
	}
}

func (fp *tracingFileProcessor) ProcessFile(ctx context.Context, path string) FileReport {
	ctxWithTracing, span := fp.tracer.Start(
		ctx,
		"FileProcessor.ProcessFile",
		trace.WithAttributes(fp.attributes...),
		trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	report := fp.base.ProcessFile(ctxWithTracing, path)
	span.SetAttributes(
		attribute.String("outcome", report.Outcome.String()),
		attribute.Int("cluster_count", report.ClusterCount),
		attribute.Int("relocated_clusters", report.RelocatedClusters),
		attribute.Int("skipped_clusters", report.SkippedClusters),
		attribute.Int("failed_clusters", report.FailedClusters),
	)
	if report.Err != nil {
		span.RecordError(report.Err)
	}
	if report.Outcome.IsFailure() {
		span.SetStatus(codes.Error, report.Outcome.String())
	}
	return report
}
