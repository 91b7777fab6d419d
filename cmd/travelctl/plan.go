package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"example.com/ai-travel-planner/internal/viewstate"
)

type planOptions struct {
	from    string
	to      string
	days    int
	save    bool
	email   string
	summary bool
}

func newPlanCommand(root *rootOptions) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate an itinerary and optionally save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.days <= 0 {
				return errors.New("--from, --to and a positive --days are required")
			}

			state := viewstate.New().
				SetField("from", opts.from).
				SetField("to", opts.to).
				SetField("days", strconv.Itoa(opts.days))

			req, err := state.GenerateRequest()
			if err != nil {
				return errors.New("--from, --to and a positive --days are required")
			}
			state, _ = state.BeginGenerate()

			api := root.client()
			result, err := api.GeneratePlan(cmd.Context(), req)
			if err != nil {
				state = state.GenerateFailed()
				return fmt.Errorf("%s: %w", state.Toast.Message, err)
			}
			state = state.GenerateSucceeded(result)

			if opts.summary {
				printSummary(cmd.OutOrStdout(), state)
			} else if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}

			if !opts.save {
				return nil
			}

			saveReq, err := state.SaveRequest(opts.email)
			if err != nil {
				return err
			}

			id, err := api.SaveTrip(cmd.Context(), saveReq)
			if err != nil {
				state = state.SaveFailed()
				return fmt.Errorf("%s: %w", state.Toast.Message, err)
			}
			state = state.SaveSucceeded()

			fmt.Fprintf(cmd.ErrOrStderr(), "%s id=%s\n", state.Toast.Message, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "origin")
	cmd.Flags().StringVar(&opts.to, "to", "", "destination")
	cmd.Flags().IntVar(&opts.days, "days", 0, "trip length in days")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the generated trip")
	cmd.Flags().StringVar(&opts.email, "email", "", "owner email (ignored by servers that verify tokens)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print budget, rentals and map link instead of JSON")

	return cmd
}

func printSummary(w io.Writer, state viewstate.State) {
	if summary, ok := state.Summary(); ok {
		fmt.Fprintf(w, "Budget:   %s\nWeather:  %s\nLanguage: %s\n", summary.TotalBudget, summary.Weather, summary.Language)
	}

	if rows := state.BudgetRows(); len(rows) > 0 {
		fmt.Fprintln(w, state.BudgetModalTitle())
		for _, row := range rows {
			fmt.Fprintf(w, "  %s %-16s %s\n", row.Icon, row.Label, row.Amount)
		}
	}

	for _, card := range state.RentalCards() {
		fmt.Fprintf(w, "%s %s  %s\n", card.Icon, card.Name, card.URL)
	}

	fmt.Fprintf(w, "Map: %s\n\n%s\n", state.MapURL(), state.Trip.Plan)
}
