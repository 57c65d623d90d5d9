package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ichigooo/workout-planner/internal/errors"
)

// NewWorkoutsCmd creates the workouts command.
func NewWorkoutsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workouts [id]",
		Short: "Browse the workout catalog",
		Long: `Lists the workout catalog, or shows one workout by id.

The catalog is cached briefly; run an import or add workouts elsewhere and
the next listing after the cache expires picks them up.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return runWorkoutShow(cmd.Context(), a, args[0])
			}
			return runWorkouts(cmd.Context(), a)
		},
	}
}

func runWorkouts(ctx context.Context, a *app) error {
	workouts, err := a.store.Workouts(ctx)
	if err != nil {
		return err
	}

	if len(workouts) == 0 {
		fmt.Fprintln(a.out, "The catalog is empty. Try `wplan import` to load templates.")
		return nil
	}

	for _, w := range workouts {
		line := fmt.Sprintf("  %s  %s", dim(w.ID), w.Name)
		if w.Category != "" {
			line += "  " + accent(titler.String(w.Category))
		}
		if w.DurationMinutes > 0 {
			line += dim(fmt.Sprintf("  %dmin", w.DurationMinutes))
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func runWorkoutShow(ctx context.Context, a *app, id string) error {
	// Warm the catalog first; the lookup itself never fetches.
	if _, err := a.store.Workouts(ctx); err != nil {
		return err
	}

	w, found := a.store.WorkoutByID(id)
	if !found {
		return errors.WorkoutNotFound(id)
	}

	fmt.Fprintln(a.out, w.Name)
	if w.Category != "" {
		printInfo("category", titler.String(w.Category))
	}
	if w.DurationMinutes > 0 {
		printInfo("duration", fmt.Sprintf("%d minutes", w.DurationMinutes))
	}
	if w.Notes != "" {
		printInfo("notes", w.Notes)
	}
	return nil
}
