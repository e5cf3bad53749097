package main

import (
	"context"
	"log"
	"os"

	"github.com/buildbarn/bb-cluster-relocator/pkg/allocation"
	"github.com/buildbarn/bb-cluster-relocator/pkg/session"
	"github.com/buildbarn/bb-storage/pkg/global"
	"github.com/buildbarn/bb-storage/pkg/program"
	"github.com/buildbarn/bb-storage/pkg/random"
	"github.com/buildbarn/bb-storage/pkg/util"
)

// This tool reads the allocation bitmap of a volume and reports free
// clusters, using both strategies that are used to pick destinations
// for relocated clusters: a linear scan starting at the beginning of
// the volume, and randomly scattered probes.

func main() {
	program.RunMain(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
		applicationConfiguration, err := session.NewFlags("bb_free_cluster_finder").Parse(os.Args[1:])
		if err != nil {
			return err
		}
		lifecycleState, _, err := global.ApplyConfiguration(applicationConfiguration.Global, dependenciesGroup)
		if err != nil {
			return util.StatusWrap(err, "Failed to apply global configuration options")
		}

		s, err := session.Open(ctx, applicationConfiguration, false, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		defer s.Close()
		lifecycleState.MarkReadyAndWait(dependenciesGroup)

		bitmap, err := s.AssembleBitmap(ctx)
		if err != nil {
			return err
		}

		count := applicationConfiguration.FreeClustersToFind
		log.Printf("First %d free clusters: %v", count, allocation.FindFreeClustersLinear(bitmap, count))
		log.Printf(
			"Randomly chosen free clusters: %v",
			allocation.FindFreeClustersRandom(
				bitmap,
				count,
				random.NewFastSingleThreadedGenerator(),
				applicationConfiguration.RandomAttemptsPerCluster*bitmap.GetTotalClusters()))
		return nil
	})
}
