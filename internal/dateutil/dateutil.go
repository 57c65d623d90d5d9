// Package dateutil computes cache date windows and normalizes calendar dates.
//
// The backend is loose about scheduled-date representations: a plan item date
// may arrive as a plain "YYYY-MM-DD" string, an ISO datetime string, or a
// numeric epoch timestamp. Normalize is the single boundary where all of
// those collapse into the canonical "YYYY-MM-DD" local-calendar string; code
// past that boundary only ever sees the canonical form.
package dateutil

import (
	"encoding/json"
	"strings"
	"time"
)

// DayFormat is the canonical calendar-date layout.
const DayFormat = "2006-01-02"

// Range is an inclusive [Start, End] span of canonical day strings.
type Range struct {
	Start string
	End   string
}

// Contains reports whether day falls within the range. Lexicographic
// comparison is correct for canonical day strings.
func (r Range) Contains(day string) bool {
	return day >= r.Start && day <= r.End
}

// Covers reports whether the range fully contains other.
func (r Range) Covers(other Range) bool {
	return r.Start <= other.Start && r.End >= other.End
}

// Window returns the cache window around now: daysBack calendar days before
// through daysAhead calendar days after, in local time.
func Window(now time.Time, daysBack, daysAhead int) Range {
	return Range{
		Start: now.AddDate(0, 0, -daysBack).Format(DayFormat),
		End:   now.AddDate(0, 0, daysAhead).Format(DayFormat),
	}
}

// NextDays returns the range covering today through days-1 days ahead.
// days must be positive; callers validate before calling.
func NextDays(now time.Time, days int) Range {
	return Range{
		Start: now.Format(DayFormat),
		End:   now.AddDate(0, 0, days-1).Format(DayFormat),
	}
}

// Normalize converts a loosely-typed date value to a canonical day string.
// Accepted forms: "YYYY-MM-DD", an ISO datetime with a "T" or space
// separator, a numeric epoch timestamp (milliseconds or seconds), a
// json.Number, or a time.Time. Returns ok=false for anything unparsable;
// it never panics.
func Normalize(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return normalizeString(v)
	case time.Time:
		return v.Local().Format(DayFormat), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return "", false
		}
		return normalizeEpoch(f), true
	case float64:
		return normalizeEpoch(v), true
	case float32:
		return normalizeEpoch(float64(v)), true
	case int:
		return normalizeEpoch(float64(v)), true
	case int64:
		return normalizeEpoch(float64(v)), true
	default:
		return "", false
	}
}

func normalizeString(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	if _, err := time.ParseInLocation(DayFormat, s, time.Local); err != nil {
		return "", false
	}
	return s, true
}

// normalizeEpoch interprets a numeric timestamp as milliseconds when it is
// too large to be a plausible second count (>= 1e11, i.e. past year 5138),
// matching the millisecond epochs the backend's JSON payloads carry.
func normalizeEpoch(v float64) string {
	if v >= 1e11 || v <= -1e11 {
		v = v / 1000
	}
	sec := int64(v)
	return time.Unix(sec, 0).Local().Format(DayFormat)
}
