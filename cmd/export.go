package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/apigeo/carbone-cli/internal/engine"
	"github.com/apigeo/carbone-cli/internal/report"
)

var exportOutPath string

var exportCmd = &cobra.Command{
	Use:   "export [question]",
	Short: "Export statistics to an XLSX workbook",
	Long:  "Runs a question through the query pipeline and writes the resulting statistics to a workbook. Without a question, exports everything for the latest campaign year.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		eng := engine.New(store, nil, engine.Options{
			MaxQueryLen:  cfg.NLU.MaxQueryLen,
			FeatureLimit: cfg.NLU.FeatureLimit,
		})

		question := "Exporte les statistiques"
		if len(args) > 0 {
			question = strings.Join(args, " ")
		}

		resp, err := eng.Process(ctx, "", question)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		bundle, ok := resp.Data.(*engine.ExportBundle)
		if !ok {
			return eris.Errorf("question did not resolve to an export (got %s)", resp.Type)
		}

		if err := report.WriteXLSX(bundle, exportOutPath); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("out", exportOutPath),
			zap.Int("stats_rows", len(bundle.Stats)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutPath, "out", "rapport.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
