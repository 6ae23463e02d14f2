package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/voidshard/cityblocks"
	"github.com/voidshard/cityblocks/mesh"
)

var (
	batchCount   int    // Number of cities to generate
	batchWorkers int    // Cities generated at once
	batchOut     string // Directory to write cities to
)

// batchCmd generates several cities at once, sharing a single resource cache
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate many cities concurrently with a shared resource cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchCount < 1 {
			return fmt.Errorf("--count must be at least 1, got %d", batchCount)
		}
		if batchWorkers < 1 {
			batchWorkers = 1
		}

		base, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if batchOut != "" {
			if err := os.MkdirAll(batchOut, 0755); err != nil {
				return err
			}
		}

		factory := mesh.NewFactory()
		cache := cityblocks.NewResourceCache()
		defer cache.DisposeAll()

		group, ctx := errgroup.WithContext(cmd.Context())
		group.SetLimit(batchWorkers)

		for i := 0; i < batchCount; i++ {
			cfg := *base
			if base.Seed != 0 {
				cfg.Seed = base.Seed + int64(i)
			}

			group.Go(func() error {
				city, err := cityblocks.New(ctx, &cfg, factory, cityblocks.WithCache(cache))
				if err != nil {
					return err
				}
				defer city.Dispose()

				if batchOut != "" {
					fpath := filepath.Join(batchOut, fmt.Sprintf("%s.json", city.ID))
					if err := city.SaveJSON(fpath); err != nil {
						return err
					}
				}

				logrus.WithFields(logrus.Fields{
					"id":        city.ID,
					"seed":      city.Seed,
					"buildings": city.Stats.BuildingsPlaced,
				}).Info("generated city")
				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return err
		}

		stats := cache.Stats()
		logrus.WithFields(logrus.Fields{
			"geometry":      stats.Geometry.Entries,
			"materials":     stats.Material.Entries,
			"texture_sets":  stats.MultiTexture.Entries,
			"geometry_hits": stats.Geometry.Hits,
		}).Info("batch complete")

		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchCount, "count", 4, "Number of cities to generate")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 2, "Number of cities generated at once")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "Directory to write city json files to")

	rootCmd.AddCommand(batchCmd)
}
