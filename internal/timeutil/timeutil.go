// Package timeutil owns the calendar arithmetic used by the scheduler and
// the report generator: date labels, working windows and day bounds in the
// configured scheduling zone. All stored instants are UTC; the zone is only
// applied when interpreting dates and clock times at the edges.
package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for dates.
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for window boundaries.
const ClockLayout = "15:04"

// LoadZone resolves an IANA zone name, mapping the empty string to UTC.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load scheduling zone %q: %w", name, err)
	}
	return loc, nil
}

// ParseDate parses a YYYY-MM-DD label into its canonical instant: midnight
// of that date in UTC. The label instant identifies the day; DayBounds maps
// it to the real interval in the scheduling zone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// DateLabel returns the canonical label instant for the scheduling-zone day
// containing t.
func DateLabel(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayBounds returns the UTC instants [start, end) of the scheduling-zone
// day named by label. The span follows the zone's clock, so DST days are
// not necessarily 24 hours.
func DayBounds(label time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := label.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return start.UTC(), end.UTC()
}

// At places a HH:MM clock reading on the day named by label, in the
// scheduling zone, and returns the UTC instant.
func At(label time.Time, clock string, loc *time.Location) (time.Time, error) {
	hh, mm, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := label.Date()
	return time.Date(y, m, d, hh, mm, 0, 0, loc).UTC(), nil
}

// ParseClock parses a HH:MM reading.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Minutes converts a duration to whole minutes, truncating sub-minute
// remainders.
func Minutes(d time.Duration) int {
	return int(d / time.Minute)
}

// MinutesBetween returns b minus a in whole minutes.
func MinutesBetween(a, b time.Time) int {
	return Minutes(b.Sub(a))
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Within reports whether t lies in the half-open interval [start, end).
func Within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// FormatDate renders the scheduling-zone date label of t.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}
