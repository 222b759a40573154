package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/apigeo/carbone-cli/internal/ingest"
	"github.com/apigeo/carbone-cli/internal/landcover"
)

var (
	importCSVPath   string
	importSHPPath   string
	importCodeField string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import observation and boundary data",
}

var importOccupationsCmd = &cobra.Command{
	Use:   "occupations",
	Short: "Import land-cover measurements from a CSV file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		f, err := os.Open(importCSVPath)
		if err != nil {
			return eris.Wrapf(err, "open %s", importCSVPath)
		}
		defer f.Close()

		obs, err := ingest.ReadOccupations(f)
		if err != nil {
			return err
		}

		store, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.InsertObservations(ctx, obs)
		if err != nil {
			return eris.Wrap(err, "insert observations")
		}

		zap.L().Info("import complete",
			zap.Int64("rows", n),
			zap.String("csv", importCSVPath),
		)
		return nil
	},
}

var importForestsCmd = &cobra.Command{
	Use:   "forests",
	Short: "Import forest boundary polygons from a shapefile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		boundaries, err := ingest.ReadBoundaries(importSHPPath, importCodeField)
		if err != nil {
			return err
		}

		store, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		registry := make(map[string]landcover.Forest, len(landcover.Forests))
		for _, f := range landcover.Forests {
			registry[f.Code] = f
		}

		var loaded int
		for _, b := range boundaries {
			f, ok := registry[b.Code]
			if !ok {
				zap.L().Warn("skipping unknown forest code", zap.String("code", b.Code))
				continue
			}
			f.Geometry = b.Geometry
			if err := store.UpsertForest(ctx, f); err != nil {
				return eris.Wrapf(err, "upsert forest %s", b.Code)
			}
			loaded++
		}

		zap.L().Info("boundary import complete",
			zap.Int("loaded", loaded),
			zap.String("shapefile", importSHPPath),
		)
		return nil
	},
}

func init() {
	importOccupationsCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	_ = importOccupationsCmd.MarkFlagRequired("csv")

	importForestsCmd.Flags().StringVar(&importSHPPath, "shp", "", "path to shapefile (required)")
	importForestsCmd.Flags().StringVar(&importCodeField, "code-field", "CODE", "attribute holding the forest code")
	_ = importForestsCmd.MarkFlagRequired("shp")

	importCmd.AddCommand(importOccupationsCmd)
	importCmd.AddCommand(importForestsCmd)
	rootCmd.AddCommand(importCmd)
}
