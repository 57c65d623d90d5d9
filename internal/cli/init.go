package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ichigooo/workout-planner/internal/config"
)

type initOptions struct {
	planID  string
	baseURL string
	force   bool
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Create a wplan configuration",
		Example: `  wplan init --plan-id plan-abc --base-url https://planner.example.com/api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts)
		},
	}

	cmd.Flags().StringVar(&opts.planID, "plan-id", "", "Plan identifier (required)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Backend base URL (required)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config")
	cmd.MarkFlagRequired("plan-id")
	cmd.MarkFlagRequired("base-url")

	return cmd
}

func runInit(opts *initOptions) error {
	paths := config.NewPaths()

	if !opts.force {
		if _, err := config.LoadFrom(paths.ConfigFile); err == nil {
			printWarning("config already exists at %s; use --force to overwrite", paths.ConfigFile)
			return nil
		}
	}

	cfg := &config.Config{
		Version: config.DefaultVersion,
		PlanID:  opts.planID,
		API:     config.APIConfig{BaseURL: opts.baseURL},
		Cache:   config.CacheConfig{TTL: config.DefaultCacheTTL},
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveTo(paths.ConfigDir, paths.ConfigFile); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printSuccess("Wrote %s", paths.ConfigFile)
	return nil
}
