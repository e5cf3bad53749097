package main

import (
	"context"
	"os"

	"github.com/buildbarn/bb-cluster-relocator/pkg/relocation"
	"github.com/buildbarn/bb-cluster-relocator/pkg/session"
	"github.com/buildbarn/bb-cluster-relocator/pkg/walker"
	"github.com/buildbarn/bb-storage/pkg/clock"
	"github.com/buildbarn/bb-storage/pkg/global"
	"github.com/buildbarn/bb-storage/pkg/program"
	"github.com/buildbarn/bb-storage/pkg/random"
	"github.com/buildbarn/bb-storage/pkg/util"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// This tool deliberately fragments all files stored on a volume, by
// moving randomly chosen clusters of every file to randomly chosen
// free clusters. It is intended to create test volumes for
// benchmarking defragmentation. Never run it against a volume whose
// performance matters.

func main() {
	program.RunMain(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
		applicationConfiguration, err := session.NewFlags("bb_fragment").Parse(os.Args[1:])
		if err != nil {
			return err
		}
		lifecycleState, _, err := global.ApplyConfiguration(applicationConfiguration.Global, dependenciesGroup)
		if err != nil {
			return util.StatusWrap(err, "Failed to apply global configuration options")
		}

		s, err := session.Open(ctx, applicationConfiguration, true, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		defer s.Close()
		lifecycleState.MarkReadyAndWait(dependenciesGroup)

		bitmap, err := s.AssembleBitmap(ctx)
		if err != nil {
			return err
		}

		fileProcessor := relocation.NewTracingFileProcessor(
			relocation.NewMetricsFileProcessor(
				relocation.NewFragmentingFileProcessor(
					s.Volume,
					bitmap,
					random.NewFastSingleThreadedGenerator(),
					applicationConfiguration.MovesPerFile,
					applicationConfiguration.FragmentationRandomAttempts,
					util.DefaultErrorLogger),
				clock.SystemClock,
				"Fragment"),
			otel.GetTracerProvider(),
			s.GetTracingAttributes()...)
		summary := s.Walk(ctx, walker.NewWalker(fileProcessor, util.DefaultErrorLogger))
		s.LogSummary(&summary)
		s.LogFreeSpace(bitmap)
		if !summary.Succeeded() {
			return status.Error(codes.Unknown, "One or more files or directories could not be fragmented")
		}
		return nil
	})
}
