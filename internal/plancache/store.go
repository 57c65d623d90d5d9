// Package plancache caches scheduled plan items for a sliding date window.
//
// The store holds exactly one entry: the item list, the inclusive
// [start, end] day window it is known to fully represent, and the time it
// was fetched. A read is served from memory only when the entry is within
// TTL and its window still covers the canonical window around "today";
// otherwise the store performs exactly one upstream fetch and replaces the
// entry wholesale. Cached results are advisory within their window — the
// store never silently answers for days it knows it does not cover.
package plancache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ichigooo/workout-planner/internal/api"
	"github.com/ichigooo/workout-planner/internal/dateutil"
	"github.com/ichigooo/workout-planner/internal/errors"
)

// Defaults. The window and TTL are deliberate product constants; Config can
// override them but behavioral parity depends on these values.
const (
	DefaultTTL       = 5 * time.Minute
	DefaultDaysBack  = 7
	DefaultDaysAhead = 5
)

// FetchItemsFunc returns all plan items whose scheduled date falls in
// [start, end] inclusive, dates as YYYY-MM-DD. The upstream is trusted to
// pre-filter but the store re-filters defensively.
type FetchItemsFunc func(ctx context.Context, planID, start, end string) ([]api.PlanItem, error)

// FetchWorkoutsFunc returns the full workout catalog.
type FetchWorkoutsFunc func(ctx context.Context) ([]api.Workout, error)

// Config configures a Store. PlanID and FetchItems are required.
type Config struct {
	PlanID        string
	FetchItems    FetchItemsFunc
	FetchWorkouts FetchWorkoutsFunc
	TTL           time.Duration
	WorkoutTTL    time.Duration
	DaysBack      int
	DaysAhead     int
	Now           func() time.Time // test hook; defaults to time.Now
}

// Entry is the single cached snapshot of plan items.
type Entry struct {
	Items     []api.PlanItem
	Window    dateutil.Range
	FetchedAt time.Time
}

// IsStale reports whether the entry has outlived ttl at the given instant.
func (e *Entry) IsStale(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.FetchedAt) > ttl
}

// Age returns how long ago the entry was fetched.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Info is a diagnostic snapshot of the cache state.
type Info struct {
	ItemCount int
	StartDate string
	EndDate   string
	Age       time.Duration
}

// Store is the single source of truth for which plan items the client
// currently believes are correct, and for what window. One Store serves one
// plan; the plan id is fixed at construction.
type Store struct {
	planID        string
	fetchItems    FetchItemsFunc
	fetchWorkouts FetchWorkoutsFunc
	ttl           time.Duration
	workoutTTL    time.Duration
	daysBack      int
	daysAhead     int
	now           func() time.Time

	mu    sync.RWMutex
	entry *Entry
	group singleflight.Group

	cmu              sync.RWMutex
	workouts         []api.Workout
	workoutFetchedAt time.Time
	wgroup           singleflight.Group
}

// New creates a Store for one plan. A missing plan id or item fetcher is a
// programmer error and fails immediately.
func New(cfg Config) (*Store, error) {
	if cfg.PlanID == "" {
		return nil, fmt.Errorf("plancache: plan id is required")
	}
	if cfg.FetchItems == nil {
		return nil, fmt.Errorf("plancache: item fetch function is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.WorkoutTTL <= 0 {
		cfg.WorkoutTTL = DefaultTTL
	}
	if cfg.DaysBack <= 0 {
		cfg.DaysBack = DefaultDaysBack
	}
	if cfg.DaysAhead <= 0 {
		cfg.DaysAhead = DefaultDaysAhead
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Store{
		planID:        cfg.PlanID,
		fetchItems:    cfg.FetchItems,
		fetchWorkouts: cfg.FetchWorkouts,
		ttl:           cfg.TTL,
		workoutTTL:    cfg.WorkoutTTL,
		daysBack:      cfg.DaysBack,
		daysAhead:     cfg.DaysAhead,
		now:           cfg.Now,
	}, nil
}

// window returns the canonical cache window around "today".
func (s *Store) window() dateutil.Range {
	return dateutil.Window(s.now(), s.daysBack, s.daysAhead)
}

// CachedItems returns the items for the canonical window, fetching at most
// once. The cached entry is reused when it is within TTL and its window
// still covers the canonical window; a stale or short entry is replaced
// wholesale. On upstream failure the existing entry is left untouched and
// an empty list is returned along with the error — callers must treat an
// empty errored result as "unknown", not "no workouts scheduled".
func (s *Store) CachedItems(ctx context.Context) ([]api.PlanItem, error) {
	needed := s.window()

	s.mu.RLock()
	e := s.entry
	if e != nil && !e.IsStale(s.ttl, s.now()) && e.Window.Covers(needed) {
		items := e.Items
		s.mu.RUnlock()
		return items, nil
	}
	s.mu.RUnlock()

	return s.refresh(ctx, needed)
}

// ItemsForDateRange returns cached items within [start, end] inclusive.
// The canonical window is cached first if necessary. When the requested
// range reaches beyond the cached window the result is truncated to what is
// cached and the truncated flag is set — arbitrary range queries never
// widen the fetch window.
func (s *Store) ItemsForDateRange(ctx context.Context, start, end string) (items []api.PlanItem, truncated bool, err error) {
	startDay, ok := dateutil.Normalize(start)
	if !ok {
		return nil, false, errors.New(errors.ErrInvalidDateRange,
			fmt.Sprintf("unparsable start date: %q", start),
			"Dates must be YYYY-MM-DD")
	}
	endDay, ok := dateutil.Normalize(end)
	if !ok {
		return nil, false, errors.New(errors.ErrInvalidDateRange,
			fmt.Sprintf("unparsable end date: %q", end),
			"Dates must be YYYY-MM-DD")
	}
	if startDay > endDay {
		return nil, false, errors.InvalidDateRange(startDay, endDay)
	}

	requested := dateutil.Range{Start: startDay, End: endDay}

	cached, err := s.CachedItems(ctx)
	if err != nil {
		return []api.PlanItem{}, false, err
	}

	s.mu.RLock()
	if s.entry != nil {
		truncated = !s.entry.Window.Covers(requested)
	}
	s.mu.RUnlock()

	return filterRange(cached, requested), truncated, nil
}

// ItemsForNextDays returns cached items for [today, today+days-1]. With
// extend, a request past the cached window refetches from the entry's
// original start through the new, larger end, replacing the entry wholesale
// — the widened window then persists until a TTL-driven refetch narrows it
// back. Without extend the call behaves like ItemsForDateRange, truncation
// included.
func (s *Store) ItemsForNextDays(ctx context.Context, days int, extend bool) ([]api.PlanItem, bool, error) {
	if days < 1 {
		return nil, false, errors.InvalidDayCount(days)
	}

	requested := dateutil.NextDays(s.now(), days)

	if !extend {
		return s.ItemsForDateRange(ctx, requested.Start, requested.End)
	}

	cached, err := s.CachedItems(ctx)
	if err != nil {
		return []api.PlanItem{}, false, err
	}

	s.mu.RLock()
	e := s.entry
	s.mu.RUnlock()

	if e != nil && requested.End > e.Window.End {
		widened := dateutil.Range{Start: e.Window.Start, End: requested.End}
		cached, err = s.refresh(ctx, widened)
		if err != nil {
			return []api.PlanItem{}, false, err
		}
	}

	return filterRange(cached, requested), false, nil
}

// Invalidate discards the entry and immediately re-warms the canonical
// window so the next read is fast. Callers invoke this after a scheduling
// mutation; the store has no partial-merge semantics to patch rows in
// place. A failed warm leaves the cache empty and reports the error; the
// next read retries.
func (s *Store) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	s.entry = nil
	s.mu.Unlock()

	_, err := s.refresh(ctx, s.window())
	return err
}

// Info returns a diagnostic snapshot, or nil when the cache is empty.
// Pure read; never triggers a fetch.
func (s *Store) Info() *Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entry == nil {
		return nil
	}
	return &Info{
		ItemCount: len(s.entry.Items),
		StartDate: s.entry.Window.Start,
		EndDate:   s.entry.Window.End,
		Age:       s.entry.Age(s.now()),
	}
}

// refresh performs one fetch-and-replace for the given window. Concurrent
// callers needing the same window share a single upstream call; the entry
// swap is atomic and a losing in-flight result is simply overwritten. On
// failure the current entry is left untouched.
func (s *Store) refresh(ctx context.Context, window dateutil.Range) ([]api.PlanItem, error) {
	key := window.Start + ".." + window.End
	v, err, _ := s.group.Do(key, func() (any, error) {
		raw, err := s.fetchItems(ctx, s.planID, window.Start, window.End)
		if err != nil {
			return nil, err
		}
		return newEntry(raw, window, s.now()), nil
	})
	if err != nil {
		return []api.PlanItem{}, errors.FetchFailed("plan items", err)
	}

	e := v.(*Entry)
	s.mu.Lock()
	s.entry = e
	s.mu.Unlock()

	return e.Items, nil
}

// newEntry re-filters a fetched batch to the window, drops records whose
// date fails to normalize, and sorts ascending by day. The upstream is
// supposed to pre-filter; the store does not assume it.
func newEntry(raw []api.PlanItem, window dateutil.Range, fetchedAt time.Time) *Entry {
	items := make([]api.PlanItem, 0, len(raw))
	for _, it := range raw {
		day, ok := it.Day()
		if !ok || !window.Contains(day) {
			continue
		}
		items = append(items, it)
	}

	sort.SliceStable(items, func(i, j int) bool {
		di, _ := items[i].Day()
		dj, _ := items[j].Day()
		return di < dj
	})

	return &Entry{Items: items, Window: window, FetchedAt: fetchedAt}
}

func filterRange(items []api.PlanItem, r dateutil.Range) []api.PlanItem {
	out := make([]api.PlanItem, 0, len(items))
	for _, it := range items {
		if day, ok := it.Day(); ok && r.Contains(day) {
			out = append(out, it)
		}
	}
	return out
}
