package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"example.com/ai-travel-planner/internal/ai"
	"example.com/ai-travel-planner/internal/config"
)

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List Gemini models that support generateContent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			gemini, err := ai.NewGeminiClient(cmd.Context(), cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout, cfg.AI.MaxOutputTokens)
			if err != nil {
				return err
			}
			defer gemini.Close()

			models, err := gemini.ListGenerateModels(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDISPLAY NAME")
			for _, model := range models {
				fmt.Fprintf(w, "%s\t%s\n", model.Name, model.DisplayName)
			}
			return w.Flush()
		},
	}
}
