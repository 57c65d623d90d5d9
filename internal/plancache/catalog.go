package plancache

import (
	"context"
	"time"

	"github.com/ichigooo/workout-planner/internal/api"
	"github.com/ichigooo/workout-planner/internal/errors"
)

// Workouts returns the cached workout catalog, fetching when the catalog is
// absent or older than its TTL. The catalog has no date dimension; validity
// is age alone. On upstream failure the previously cached catalog is left
// untouched and an empty list is returned with the error.
func (s *Store) Workouts(ctx context.Context) ([]api.Workout, error) {
	if s.fetchWorkouts == nil {
		return nil, errors.New(errors.ErrFetchFailed,
			"no workout catalog source configured", "")
	}

	s.cmu.RLock()
	if s.workouts != nil && s.now().Sub(s.workoutFetchedAt) <= s.workoutTTL {
		workouts := s.workouts
		s.cmu.RUnlock()
		return workouts, nil
	}
	s.cmu.RUnlock()

	v, err, _ := s.wgroup.Do("workouts", func() (any, error) {
		return s.fetchWorkouts(ctx)
	})
	if err != nil {
		return []api.Workout{}, errors.FetchFailed("workout catalog", err)
	}

	workouts := v.([]api.Workout)
	s.cmu.Lock()
	s.workouts = workouts
	s.workoutFetchedAt = s.now()
	s.cmu.Unlock()

	return workouts, nil
}

// WorkoutByID looks up a workout in whatever catalog is currently cached.
// Pure read: it never fetches, so a cold cache simply reports not found.
func (s *Store) WorkoutByID(id string) (api.Workout, bool) {
	s.cmu.RLock()
	defer s.cmu.RUnlock()

	for _, w := range s.workouts {
		if w.ID == id {
			return w, true
		}
	}
	return api.Workout{}, false
}

// InvalidateWorkouts clears the cached catalog. Unlike Invalidate it does
// not re-warm; the catalog is read rarely enough that the next Workouts
// call pays for the fetch.
func (s *Store) InvalidateWorkouts() {
	s.cmu.Lock()
	s.workouts = nil
	s.workoutFetchedAt = time.Time{}
	s.cmu.Unlock()
}
