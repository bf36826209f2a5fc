// Package pricing is the booking pricing engine shared by every vertical:
// it resolves date ranges into day counts, tracks per-option quantities and
// aggregates them into a priced summary.
//
// Everything here is pure and allocation-light; callers own concurrency.
package pricing

import (
	"math"
	"strings"
	"time"
)

const day = 24 * time.Hour

// ResolveDays turns two date strings into an inclusive day count.
// It never fails: missing or unparsable input, or an end that is not after
// the start, yields 1. Otherwise the result is ceil((end-start)/24h).
func ResolveDays(start, end string) int {
	s, ok := ParseDate(start)
	if !ok {
		return 1
	}
	e, ok := ParseDate(end)
	if !ok {
		return 1
	}
	return DateRange{Start: s, End: e}.Days()
}

// ParseDate accepts a calendar date ("2006-01-02") or an RFC 3339 timestamp.
// Calendar dates are anchored to UTC midnight so day counts are whole calendar
// days regardless of daylight-saving transitions in the caller's zone.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// DateRange is a pair of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns max(1, ceil((End-Start)/24h)). Zero or inverted ranges count as one day.
func (r DateRange) Days() int {
	if r.Start.IsZero() || r.End.IsZero() {
		return 1
	}
	diff := r.End.Sub(r.Start)
	if diff <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(float64(diff)/float64(day))))
}

// Calendar truncates both ends to their UTC calendar day, the precision
// bookings are stored at.
func (r DateRange) Calendar() DateRange {
	if !r.Start.IsZero() {
		r.Start = r.Start.UTC().Truncate(day)
	}
	if !r.End.IsZero() {
		r.End = r.End.UTC().Truncate(day)
	}
	return r
}

// Normalize returns the range with End advanced to Start+1 day when End is
// not after Start, mirroring the booking widgets' auto-advance.
func (r DateRange) Normalize() DateRange {
	if !r.End.After(r.Start) {
		r.End = r.Start.Add(day)
	}
	return r
}
