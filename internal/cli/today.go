package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewTodayCmd creates the today command.
func NewTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's scheduled workouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return runToday(cmd.Context(), a)
		},
	}
}

func runToday(ctx context.Context, a *app) error {
	items, _, err := a.store.ItemsForNextDays(ctx, 1, false)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "Nothing scheduled today. Rest day!")
		return nil
	}

	fmt.Fprintln(a.out, "Today:")
	a.printItems(items)
	return nil
}
