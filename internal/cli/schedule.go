package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ichigooo/workout-planner/internal/errors"
)

// NewScheduleCmd creates the schedule command.
func NewScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "schedule <workout-id> <date>",
		Short:   "Schedule a workout on a date",
		Example: `  wplan schedule w-123 2024-06-18`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return runSchedule(cmd.Context(), a, args[0], args[1])
		},
	}
}

func runSchedule(ctx context.Context, a *app, workoutID, day string) error {
	item, err := a.client.CreatePlanItem(ctx, a.cfg.PlanID, workoutID, day)
	if err != nil {
		return errors.MutationFailed("schedule workout", err)
	}

	// The cache has no merge semantics; a mutation always invalidates.
	if err := a.store.Invalidate(ctx); err != nil {
		printWarning("scheduled, but cache re-warm failed: %v", err)
	}

	if d, ok := item.Day(); ok {
		day = d
	}
	printSuccess("Scheduled %s on %s", workoutID, day)
	return nil
}

// NewUnscheduleCmd creates the unschedule command.
func NewUnscheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "unschedule <item-id>",
		Short:   "Remove a scheduled workout",
		Example: `  wplan unschedule i-456`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return runUnschedule(cmd.Context(), a, args[0])
		},
	}
}

func runUnschedule(ctx context.Context, a *app, itemID string) error {
	if err := a.client.DeletePlanItem(ctx, a.cfg.PlanID, itemID); err != nil {
		return errors.MutationFailed("remove scheduled workout", err)
	}

	if err := a.store.Invalidate(ctx); err != nil {
		printWarning("removed, but cache re-warm failed: %v", err)
	}

	printSuccess("Removed %s", itemID)
	return nil
}
