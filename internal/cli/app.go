package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ichigooo/workout-planner/internal/api"
	"github.com/ichigooo/workout-planner/internal/config"
	"github.com/ichigooo/workout-planner/internal/dateutil"
	"github.com/ichigooo/workout-planner/internal/plancache"
)

var titler = cases.Title(language.English)

// app wires the config, the backend client, and the plan-item cache for one
// command invocation.
type app struct {
	cfg    *config.Config
	client *api.Client
	store  *plancache.Store
	out    io.Writer
}

// newApp loads config and builds the client and cache store.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return newAppWithConfig(cfg)
}

// newAppWithConfig builds an app around an already-loaded config. Tests use
// this with a config pointing at a stub server.
func newAppWithConfig(cfg *config.Config) (*app, error) {
	client := api.NewClient(cfg.API.BaseURL, cfg.APIToken())

	store, err := plancache.New(plancache.Config{
		PlanID:        cfg.PlanID,
		FetchItems:    client.PlanItems,
		FetchWorkouts: client.Workouts,
		TTL:           cfg.CacheTTL(),
		DaysBack:      cfg.Cache.DaysBack,
		DaysAhead:     cfg.Cache.DaysAhead,
	})
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, client: client, store: store, out: os.Stdout}, nil
}

// printItems renders a list of scheduled items grouped one per line.
func (a *app) printItems(items []api.PlanItem) {
	for _, it := range items {
		day, _ := it.Day()

		label := it.Title
		if label == "" && it.Workout != nil {
			label = it.Workout.Name
		}
		if label == "" {
			label = "(untitled)"
		}

		detail := ""
		if it.Workout != nil && it.Workout.DurationMinutes > 0 {
			detail = dim(fmt.Sprintf("  %dmin", it.Workout.DurationMinutes))
		}

		fmt.Fprintf(a.out, "  %s  %s%s\n", accent(formatDay(day)), label, detail)
	}
}

// formatDay renders "2024-06-15" as "Sat 2024-06-15"; unknown days pass
// through unchanged.
func formatDay(day string) string {
	t, err := time.ParseInLocation(dateutil.DayFormat, day, time.Local)
	if err != nil {
		return day
	}
	return t.Format("Mon 2006-01-02")
}
