package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voidshard/cityblocks"
	"github.com/voidshard/cityblocks/mesh"
)

var (
	jsonOut string // Where to write the city as json
	pngOut  string // Where to write a rendered map
	stlOut  string // Where to write a mesh of the city
	cellPx  int    // Pixels per cell in the rendered map
	debug   bool   // Draw district markers & grid on the map
)

// generateCmd builds a single city & writes whatever outputs were asked for
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single city",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		factory := mesh.NewFactory()
		loaded := 0
		city, err := cityblocks.New(cmd.Context(), cfg, factory, cityblocks.WithProgress(func() {
			loaded++
			logrus.Debugf("loaded %d textures", loaded)
		}))
		if err != nil {
			return err
		}
		defer city.Dispose()

		if debug {
			city.ToggleDistrictDebug()
			city.ToggleGridDebug()
		}

		if jsonOut != "" {
			if err := city.SaveJSON(jsonOut); err != nil {
				return err
			}
			logrus.Infof("wrote %s", jsonOut)
		}
		if pngOut != "" {
			if err := city.Map().SaveAdv(pngOut, cityblocks.DefaultScheme(), cellPx); err != nil {
				return err
			}
			logrus.Infof("wrote %s", pngOut)
		}
		if stlOut != "" {
			if err := mesh.SaveSTL(city, stlOut); err != nil {
				return err
			}
			logrus.Infof("wrote %s", stlOut)
		}

		logrus.WithFields(logrus.Fields{
			"id":        city.ID,
			"seed":      city.Seed,
			"roads":     city.Stats.RoadsPlaced,
			"buildings": city.Stats.BuildingsPlaced,
			"paths":     city.Stats.Paths,
			"resources": factory.Live(),
		}).Info("generated city")

		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&jsonOut, "json", "", "Write the city as json to this path")
	generateCmd.Flags().StringVar(&pngOut, "png", "", "Write a rendered map to this path")
	generateCmd.Flags().StringVar(&stlOut, "stl", "", "Write an STL mesh of the city to this path")
	generateCmd.Flags().IntVar(&cellPx, "cell-px", 8, "Pixels per cell in the rendered map")
	generateCmd.Flags().BoolVar(&debug, "debug", false, "Draw district markers & the grid overlay on the map")

	rootCmd.AddCommand(generateCmd)
}
