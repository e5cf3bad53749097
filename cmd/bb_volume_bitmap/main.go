package main

import (
	"context"
	"log"
	"os"

	"github.com/buildbarn/bb-cluster-relocator/pkg/allocation"
	"github.com/buildbarn/bb-cluster-relocator/pkg/session"
	"github.com/buildbarn/bb-storage/pkg/global"
	"github.com/buildbarn/bb-storage/pkg/program"
	"github.com/buildbarn/bb-storage/pkg/util"
)

// This tool opens a volume read-only and reads its allocation bitmap,
// printing every chunk returned by the file system as it is merged.
// It can be used to validate that the volume can be accessed, and to
// inspect how the file system paginates its allocation bitmap.

func main() {
	program.RunMain(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
		applicationConfiguration, err := session.NewFlags("bb_volume_bitmap").Parse(os.Args[1:])
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

		bitmap := allocation.NewBitmap(s.Geometry.TotalClusters)
		chunks := 0
		for chunk, err := range allocation.BitmapChunks(ctx, s.Volume, s.Geometry.TotalClusters) {
			if err != nil {
				return err
			}
			state := "final"
			if chunk.MoreData {
				state = "partial"
			}
			log.Printf("Chunk %d: %d clusters starting at LCN %d (%s)", chunks, chunk.BitCount, chunk.StartingLCN, state)
			bitmap.MergeChunk(chunk)
			chunks++
		}
		log.Printf("Read allocation bitmap in %d chunks", chunks)
		s.LogFreeSpace(bitmap)
		return nil
	})
}
