package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewCalendarCmd creates the calendar command.
func NewCalendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar <start> <end>",
		Short: "Show scheduled workouts in a date range",
		Long: `Shows scheduled workouts between two YYYY-MM-DD dates inclusive.

Results come from the cached window around today; a range reaching outside
it is truncated to what is cached rather than triggering extra fetches.`,
		Example: `  wplan calendar 2024-06-10 2024-06-16`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return runCalendar(cmd.Context(), a, args[0], args[1])
		},
	}
}

func runCalendar(ctx context.Context, a *app, start, end string) error {
	items, truncated, err := a.store.ItemsForDateRange(ctx, start, end)
	if err != nil {
		return err
	}

	if truncated {
		printWarning("range reaches outside the cached window; showing cached days only")
	}

	if len(items) == 0 {
		fmt.Fprintf(a.out, "Nothing scheduled between %s and %s.\n", start, end)
		return nil
	}

	fmt.Fprintf(a.out, "%s to %s:\n", start, end)
	a.printItems(items)
	return nil
}
