package plancache

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichigooo/workout-planner/internal/api"
	apperrors "github.com/ichigooo/workout-planner/internal/errors"
)

// fakeClock lets tests move "now" without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// fetchRecorder is a counting upstream stub.
type fetchRecorder struct {
	mu        sync.Mutex
	calls     int
	items     []api.PlanItem
	err       error
	lastStart string
	lastEnd   string
}

func (f *fetchRecorder) fetch(_ context.Context, _, start, end string) ([]api.PlanItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastStart, f.lastEnd = start, end
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fetchRecorder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fetchRecorder) set(items []api.PlanItem, err error) {
	f.mu.Lock()
	f.items, f.err = items, err
	f.mu.Unlock()
}

// item builds a PlanItem through JSON, the same path backend payloads take,
// so the date can be a string, ISO datetime, or epoch number.
func item(t *testing.T, id, title string, date any) api.PlanItem {
	t.Helper()
	b, err := json.Marshal(map[string]any{"id": id, "title": title, "date": date})
	require.NoError(t, err)
	var it api.PlanItem
	require.NoError(t, json.Unmarshal(b, &it))
	return it
}

// now is the reference instant for most tests: canonical window
// [2024-06-08, 2024-06-20].
var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

func newTestStore(t *testing.T, clock *fakeClock, rec *fetchRecorder, cfg Config) *Store {
	t.Helper()
	cfg.PlanID = "plan-1"
	cfg.FetchItems = rec.fetch
	cfg.Now = clock.Now
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{FetchItems: (&fetchRecorder{}).fetch})
	assert.Error(t, err, "plan id is required")

	_, err = New(Config{PlanID: "plan-1"})
	assert.Error(t, err, "fetch function is required")
}

// End-to-end scenario from the product sign-off: out-of-window records are
// excluded, the rest come back sorted by day.
func TestCachedItemsFiltersAndSorts(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{items: []api.PlanItem{
		item(t, "c", "Tomorrow", "2024-06-16T07:00:00Z"),
		item(t, "a", "Stale", "2024-06-01"),
		item(t, "b", "Today", float64(time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local).UnixMilli())),
		item(t, "d", "Broken", "not-a-date"),
	}}
	s := newTestStore(t, clock, rec, Config{})

	items, err := s.CachedItems(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Today", items[0].Title)
	assert.Equal(t, "Tomorrow", items[1].Title)

	assert.Equal(t, "2024-06-08", rec.lastStart)
	assert.Equal(t, "2024-06-20", rec.lastEnd)
}

func TestCachedItemsHitIsIdempotent(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{items: []api.PlanItem{item(t, "a", "Today", "2024-06-15")}}
	s := newTestStore(t, clock, rec, Config{})

	_, err := s.CachedItems(context.Background())
	require.NoError(t, err)
	_, err = s.CachedItems(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rec.callCount(), "two reads within TTL and coverage must share one fetch")
}

func TestTTLBoundary(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{items: []api.PlanItem{item(t, "a", "Today", "2024-06-15")}}
	s := newTestStore(t, clock, rec, Config{})

	_, err := s.CachedItems(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, rec.callCount())

	clock.Advance(DefaultTTL - time.Millisecond)
	_, err = s.CachedItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rec.callCount(), "read just inside TTL must not fetch")

	clock.Advance(2 * time.Millisecond)
	_, err = s.CachedItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rec.callCount(), "read just past TTL must fetch exactly once")
}

// A long TTL does not keep an entry alive once "today" has advanced far
// enough that the stored window no longer covers the canonical one.
func TestWindowCoverageDrivesRefetch(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{items: []api.PlanItem{item(t, "a", "Today", "2024-06-15")}}
	s := newTestStore(t, clock, rec, Config{TTL: 30 * 24 * time.Hour})

	_, err := s.CachedItems(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, rec.callCount())

	clock.Advance(48 * time.Hour)
	_, err = s.CachedItems(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, rec.callCount(), "window no longer covered, must refetch")
	assert.Equal(t, "2024-06-10", rec.lastStart)
	assert.Equal(t, "2024-06-22", rec.lastEnd)
}

func TestItemsForDateRangeRejectsInvalidInput(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{}
	s := newTestStore(t, clock, rec, Config{})

	cases := []struct{ start, end string }{
		{"2024-06-20", "2024-06-08"},
		{"garbage", "2024-06-20"},
		{"2024-06-08", "garbage"},
	}
	for _, c := range cases {
		_, _, err := s.ItemsForDateRange(context.Background(), c.start, c.end)
		require.Error(t, err)
		var pe *apperrors.PlannerError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, apperrors.ErrInvalidDateRange, pe.Code)
	}

	assert.Equal(t, 0, rec.callCount(), "invalid arguments must fail before any I/O")
}

func TestItemsForNextDaysRejectsNonPositiveDays(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{}
	s := newTestStore(t, clock, rec, Config{})

	for _, days := range []int{0, -1, -100} {
		_, _, err := s.ItemsForNextDays(context.Background(), days, false)
		require.Error(t, err)
		var pe *apperrors.PlannerError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, apperrors.ErrInvalidDayCount, pe.Code)
	}

	assert.Equal(t, 0, rec.callCount())
}

func TestItemsForDateRangeFilters(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{items: []api.PlanItem{
		item(t, "a", "Start", "2024-06-08"),
		item(t, "b", "Mid", "2024-06-15"),
		item(t, "c", "End", "2024-06-20"),
	}}
	s := newTestStore(t, clock, rec, Config{})

	items, truncated, err := s.ItemsForDateRange(context.Background(), "2024-06-14", "2024-06-16")
	require.NoError(t, err)

	assert.False(t, truncated)
	require.Len(t, items, 1)
	assert.Equal(t, "Mid", items[0].Title)
}

// Range queries past the cached window come back truncated, flagged, and
// without a second fetch.
func TestItemsForDateRangeTruncates(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{items: []api.PlanItem{
		item(t, "a", "Mid", "2024-06-15"),
		item(t, "b", "End", "2024-06-20"),
	}}
	s := newTestStore(t, clock, rec, Config{})

	items, truncated, err := s.ItemsForDateRange(context.Background(), "2024-06-15", "2024-07-15")
	require.NoError(t, err)

	assert.True(t, truncated)
	require.Len(t, items, 2)
	assert.Equal(t, 1, rec.callCount(), "range queries never widen the fetch window")
}

func TestItemsForNextDaysExtendWidens(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{items: []api.PlanItem{
		item(t, "a", "WindowStart", "2024-06-08"),
		item(t, "b", "WindowEnd", "2024-06-20"),
	}}
	s := newTestStore(t, clock, rec, Config{TTL: time.Hour})

	_, err := s.CachedItems(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, rec.callCount())

	// Next 10 days ends 2024-06-24, past the cached end 2024-06-20.
	rec.set([]api.PlanItem{
		item(t, "a", "WindowStart", "2024-06-08"),
		item(t, "b", "WindowEnd", "2024-06-20"),
		item(t, "c", "Widened", "2024-06-24"),
	}, nil)

	items, truncated, err := s.ItemsForNextDays(context.Background(), 10, true)
	require.NoError(t, err)

	assert.False(t, truncated)
	require.Len(t, items, 2, "result covers [today, today+9]")
	assert.Equal(t, "WindowEnd", items[0].Title)
	assert.Equal(t, "Widened", items[1].Title)

	assert.Equal(t, 2, rec.callCount())
	assert.Equal(t, "2024-06-08", rec.lastStart, "extend refetches from the original window start")
	assert.Equal(t, "2024-06-24", rec.lastEnd)

	// The widened window persists and prior coverage is preserved.
	info := s.Info()
	require.NotNil(t, info)
	assert.Equal(t, "2024-06-08", info.StartDate)
	assert.Equal(t, "2024-06-24", info.EndDate)

	all, err := s.CachedItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rec.callCount(), "widened entry still covers the canonical window")
	require.Len(t, all, 3)
	assert.Equal(t, "WindowStart", all[0].Title)
}

func TestItemsForNextDaysWithoutExtendTruncates(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{items: []api.PlanItem{item(t, "a", "Today", "2024-06-15")}}
	s := newTestStore(t, clock, rec, Config{})

	items, truncated, err := s.ItemsForNextDays(context.Background(), 30, false)
	require.NoError(t, err)

	assert.True(t, truncated, "a 30-day request exceeds the +5 day window")
	require.Len(t, items, 1)
	assert.Equal(t, 1, rec.callCount())
}

func TestInvalidateWarmsWithFreshData(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{items: []api.PlanItem{item(t, "a", "SetA", "2024-06-15")}}
	s := newTestStore(t, clock, rec, Config{})

	items, err := s.CachedItems(context.Background())
	require.NoError(t, err)
	require.Equal(t, "SetA", items[0].Title)
	require.Equal(t, 1, rec.callCount())

	rec.set([]api.PlanItem{item(t, "b", "SetB", "2024-06-15")}, nil)
	require.NoError(t, s.Invalidate(context.Background()))
	assert.Equal(t, 2, rec.callCount(), "invalidate warms eagerly with exactly one fetch")

	items, err = s.CachedItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SetB", items[0].Title)
	assert.Equal(t, 2, rec.callCount(), "warmed entry serves the next read")
}

func TestFetchFailureLeavesEntryUntouched(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{items: []api.PlanItem{item(t, "a", "Good", "2024-06-15")}}
	s := newTestStore(t, clock, rec, Config{})

	_, err := s.CachedItems(context.Background())
	require.NoError(t, err)

	clock.Advance(DefaultTTL + time.Second)
	rec.set(nil, assert.AnError)

	items, err := s.CachedItems(context.Background())
	require.Error(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items, "a failed read reports empty, meaning unknown")

	info := s.Info()
	require.NotNil(t, info, "the stale entry survives the failed refetch")
	assert.Equal(t, 1, info.ItemCount)

	// Transient failure over: the next read self-heals.
	rec.set([]api.PlanItem{item(t, "b", "Recovered", "2024-06-15")}, nil)
	items, err = s.CachedItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Recovered", items[0].Title)
}

func TestFetchFailureOnColdCache(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{err: assert.AnError}
	s := newTestStore(t, clock, rec, Config{})

	items, err := s.CachedItems(context.Background())
	require.Error(t, err)
	assert.Empty(t, items)
	assert.Nil(t, s.Info())
}

func TestInfo(t *testing.T) {
	clock := newFakeClock(testNow)
	rec := &fetchRecorder{items: []api.PlanItem{
		item(t, "a", "Today", "2024-06-15"),
		item(t, "b", "Tomorrow", "2024-06-16"),
	}}
	s := newTestStore(t, clock, rec, Config{})

	assert.Nil(t, s.Info(), "empty cache has no diagnostics")

	_, err := s.CachedItems(context.Background())
	require.NoError(t, err)

	clock.Advance(90 * time.Second)
	info := s.Info()
	require.NotNil(t, info)
	assert.Equal(t, 2, info.ItemCount)
	assert.Equal(t, "2024-06-08", info.StartDate)
	assert.Equal(t, "2024-06-20", info.EndDate)
	assert.Equal(t, 90*time.Second, info.Age)
	assert.Equal(t, 1, rec.callCount(), "Info is a pure read")
}

// Concurrent cold readers coalesce onto one upstream call.
func TestConcurrentReadersShareOneFetch(t *testing.T) {
	clock := newFakeClock(testNow)
	release := make(chan struct{})
	rec := &fetchRecorder{items: []api.PlanItem{item(t, "a", "Today", "2024-06-15")}}

	var gate sync.Once
	slowFetch := func(ctx context.Context, planID, start, end string) ([]api.PlanItem, error) {
		gate.Do(func() { <-release })
		return rec.fetch(ctx, planID, start, end)
	}

	s, err := New(Config{PlanID: "plan-1", FetchItems: slowFetch, Now: clock.Now})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CachedItems(context.Background())
			assert.NoError(t, err)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, rec.callCount())
}
