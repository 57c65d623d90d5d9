// Wplan - a terminal client for the Workout Planner backend
package main

import (
	"os"

	"github.com/ichigooo/workout-planner/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
