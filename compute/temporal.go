package compute

import (
	"time"

	"github.com/SaidinWoT/timespan"
)

// Interval is a half-open [Start, End) occupancy interval tagged with the
// grouping key it belongs to (e.g. a berth ID)
type Interval struct {
	Key   string
	Start time.Time
	End   time.Time
}

// Span returns the timespan equivalent of the interval
func (i Interval) Span() timespan.Span {
	return timespan.New(i.Start, i.End.Sub(i.Start))
}

// DurationHours returns the elapsed hours between start and end, or nil when
// either endpoint is missing. Callers in waiting-time contexts clamp negative
// results to 0 themselves.
func DurationHours(start, end *time.Time) *float64 {
	if start == nil || end == nil {
		return nil
	}
	h := end.Sub(*start).Hours()
	return &h
}

// IntervalsOverlap reports whether [startA, endA) and [startB, endB) share any
// time. Intervals that merely touch at a boundary do not overlap.
func IntervalsOverlap(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// BucketRange partitions [from, to) into consecutive slots of the given
// length and returns the slot start times in order. The final partial slot is
// included; its nominal full length is the denominator for utilization.
func BucketRange(from, to time.Time, slot time.Duration) []time.Time {
	starts := []time.Time{}
	if slot <= 0 {
		return starts
	}
	for t := from; t.Before(to); t = t.Add(slot) {
		starts = append(starts, t)
	}
	return starts
}

// SlotUtilizationPct returns the percentage of [slotStart, slotEnd) covered by
// the occupied intervals whose key matches. Multiple occupants stack
// additively, so double-booked slots exceed 100; the conflict count reports
// the overlapping pairs separately.
func SlotUtilizationPct(slotStart, slotEnd time.Time, key string, occupied []Interval) float64 {
	slotSpan := timespan.New(slotStart, slotEnd.Sub(slotStart))
	if slotSpan.Duration() <= 0 {
		return 0
	}
	var covered time.Duration
	for _, interval := range occupied {
		if interval.Key != key {
			continue
		}
		if intersection, ok := slotSpan.Intersection(interval.Span()); ok {
			covered += intersection.Duration()
		}
	}
	return covered.Minutes() / slotSpan.Duration().Minutes() * 100
}
