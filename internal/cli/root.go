// Package cli implements the wplan command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Output helpers.
	successIcon = color.New(color.FgGreen).Sprint("✓")
	warningIcon = color.New(color.FgYellow).Sprint("⚠")
	errorIcon   = color.New(color.FgRed).Sprint("✗")

	accent = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wplan",
		Short: "Plan and track your workouts from the terminal",
		Long: `Wplan is a client for the Workout Planner backend.

It keeps a short-lived local cache of your scheduled workouts around today,
so flipping between today, upcoming, and calendar views stays fast without
hammering the backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewTodayCmd())
	rootCmd.AddCommand(NewUpcomingCmd())
	rootCmd.AddCommand(NewCalendarCmd())
	rootCmd.AddCommand(NewScheduleCmd())
	rootCmd.AddCommand(NewUnscheduleCmd())
	rootCmd.AddCommand(NewWorkoutsCmd())
	rootCmd.AddCommand(NewImportCmd())
	rootCmd.AddCommand(NewCacheCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wplan %s\n", Version)
		},
	}
}

// Execute runs the CLI.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print error with hint if available
		if pe, ok := err.(interface{ Hint() string }); ok {
			fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, err.Error())
			if hint := pe.Hint(); hint != "" {
				fmt.Fprintf(os.Stderr, "  %s\n", dim(hint))
			}
		} else {
			fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, err.Error())
		}
		return err
	}
	return nil
}

// printSuccess prints a success message.
func printSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", successIcon, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message to stderr.
func printWarning(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warningIcon, fmt.Sprintf(format, args...))
}

// printInfo prints a label/value line.
func printInfo(label, value string) {
	fmt.Printf("  %s: %s\n", dim(label), value)
}
