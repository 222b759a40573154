package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/apigeo/carbone-cli/internal/landcover"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the forest registry and cover-type nomenclature",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		store, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := landcover.Seed(ctx, store); err != nil {
			return eris.Wrap(err, "seed")
		}

		zap.L().Info("seed complete",
			zap.Int("forests", len(landcover.Forests)),
			zap.Int("cover_types", len(landcover.Nomenclature)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
