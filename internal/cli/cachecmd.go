package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show plan-item cache diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return runCacheInfo(cmd.Context(), a)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Discard the cache and re-warm it",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return runCacheRefresh(cmd.Context(), a)
		},
	})

	return cmd
}

func runCacheInfo(ctx context.Context, a *app) error {
	// Warm the canonical window so the diagnostics describe a live entry.
	if _, err := a.store.CachedItems(ctx); err != nil {
		return err
	}

	info := a.store.Info()
	if info == nil {
		fmt.Fprintln(a.out, "Cache is empty.")
		return nil
	}

	fmt.Fprintln(a.out, "Plan-item cache:")
	printInfo("items", fmt.Sprintf("%d", info.ItemCount))
	printInfo("window", fmt.Sprintf("%s to %s", info.StartDate, info.EndDate))
	printInfo("age", info.Age.Round(time.Second).String())
	return nil
}

func runCacheRefresh(ctx context.Context, a *app) error {
	if err := a.store.Invalidate(ctx); err != nil {
		return err
	}

	info := a.store.Info()
	if info != nil {
		printSuccess("Cache re-warmed: %d items for %s to %s", info.ItemCount, info.StartDate, info.EndDate)
	}
	return nil
}
