// Package api implements the Workout Planner backend client.
package api

import (
	"bytes"
	"encoding/json"

	"github.com/ichigooo/workout-planner/internal/dateutil"
)

// Workout is one entry in the workout catalog.
type Workout struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	Category        string `json:"category,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// PlanItem is one workout scheduled on one calendar date for one plan.
// The backend owns these records; clients only mirror snapshots.
type PlanItem struct {
	ID      string   `json:"id"`
	PlanID  string   `json:"planId,omitempty"`
	Title   string   `json:"title,omitempty"`
	Date    FlexDate `json:"date"`
	Workout *Workout `json:"workout,omitempty"`
}

// Day returns the item's canonical scheduled day, or ok=false when the
// backend sent a date that could not be normalized.
func (p PlanItem) Day() (string, bool) {
	return p.Date.Day()
}

// FlexDate holds a scheduled-date value as the backend sent it. Payloads are
// inconsistent about dates: some endpoints return "YYYY-MM-DD", others full
// ISO datetimes, others numeric epoch timestamps. The value is normalized
// exactly once, at unmarshal time; everything downstream works with the
// canonical day string.
type FlexDate struct {
	raw any
	day string
	ok  bool
}

// Day returns the canonical "YYYY-MM-DD" form, or ok=false if the raw value
// was unparsable.
func (d FlexDate) Day() (string, bool) {
	return d.day, d.ok
}

// DayValue returns a FlexDate for a canonical day string. Used when the
// client originates a value rather than mirroring one.
func DayValue(day string) FlexDate {
	d, ok := dateutil.Normalize(day)
	return FlexDate{raw: day, day: d, ok: ok}
}

// UnmarshalJSON accepts a string or numeric date value. It never fails on an
// unparsable date; the item is instead flagged so the cache can drop it.
func (d *FlexDate) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	d.raw = v
	d.day, d.ok = dateutil.Normalize(v)
	return nil
}

// MarshalJSON writes the canonical day when known, otherwise echoes the raw
// value so round-trips stay lossless.
func (d FlexDate) MarshalJSON() ([]byte, error) {
	if d.ok {
		return json.Marshal(d.day)
	}
	return json.Marshal(d.raw)
}
