package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type upcomingOptions struct {
	days   int
	extend bool
}

// NewUpcomingCmd creates the upcoming command.
func NewUpcomingCmd() *cobra.Command {
	opts := &upcomingOptions{}

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show the next days of scheduled workouts",
		Long: `Shows scheduled workouts from today forward.

By default the view is limited to the cached window (5 days ahead). Pass
--extend to widen the cache for a longer look-ahead.`,
		Example: `  wplan upcoming
  wplan upcoming --days 14 --extend`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return runUpcoming(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.days, "days", "n", 7, "Number of days to show")
	cmd.Flags().BoolVar(&opts.extend, "extend", false, "Widen the cache window to cover the full range")

	return cmd
}

func runUpcoming(ctx context.Context, a *app, opts *upcomingOptions) error {
	items, truncated, err := a.store.ItemsForNextDays(ctx, opts.days, opts.extend)
	if err != nil {
		return err
	}

	if truncated {
		printWarning("showing only the cached window; pass --extend for the full %d days", opts.days)
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "Nothing scheduled in the next", opts.days, "days.")
		return nil
	}

	fmt.Fprintf(a.out, "Next %d days:\n", opts.days)
	a.printItems(items)
	return nil
}
