package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/apigeo/carbone-cli/internal/engine"
	"github.com/apigeo/carbone-cli/internal/session"
)

var askSessionID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one natural-language question on the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		// A single invocation has no earlier turn unless --session names
		// one persisted in Postgres.
		var sessions session.Store
		if askSessionID != "" {
			sessions = sessionStore(store)
		}

		eng := engine.New(store, sessions, engine.Options{
			MaxQueryLen:  cfg.NLU.MaxQueryLen,
			FeatureLimit: cfg.NLU.FeatureLimit,
		})

		resp, err := eng.Process(ctx, askSessionID, strings.Join(args, " "))
		if err != nil {
			return eris.Wrap(err, "ask")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(resp), "ask: encode response")
	},
}

func init() {
	askCmd.Flags().StringVar(&askSessionID, "session", "", "session id for conversational context")
	rootCmd.AddCommand(askCmd)
}
