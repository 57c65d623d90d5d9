package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ichigooo/workout-planner/internal/importer"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [owner/repo[/path]]",
		Short: "Import shared workout templates from GitHub",
		Long: `Fetches a workout template file from a GitHub repository and adds its
workouts to your catalog.

Without an argument, imports every source listed under templates.sources in
your config.`,
		Example: `  wplan import ichigooo/workout-templates
  wplan import acme/plans/strength/5x5.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			sources := a.cfg.Templates.Sources
			if len(args) == 1 {
				sources = args[:1]
			}
			return runImport(cmd.Context(), a, sources)
		},
	}
}

func runImport(ctx context.Context, a *app, sources []string) error {
	if len(sources) == 0 {
		printWarning("no template sources given or configured")
		return nil
	}

	gh, err := importer.NewGitHubClient()
	if err != nil {
		return err
	}
	im := importer.New(gh, a.client)

	total := 0
	for _, source := range sources {
		created, err := im.Import(ctx, source)
		total += len(created)
		if err != nil {
			return err
		}
		printSuccess("Imported %d workouts from %s", len(created), source)
	}

	if total > 0 {
		a.store.InvalidateWorkouts()
	}
	return nil
}
