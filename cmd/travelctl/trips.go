package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newTripsCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Manage saved trips",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved trips, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			trips, err := root.client().ListTrips(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), trips)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFROM\tTO\tDAYS\tCREATED")
			for _, trip := range trips {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", trip.ID, trip.From, trip.To, trip.Days, trip.CreatedAt.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")

	remove := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete saved trips by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := root.client()
			for _, id := range lo.Uniq(args) {
				if err := api.DeleteTrip(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	}

	cmd.AddCommand(list, remove)
	return cmd
}
