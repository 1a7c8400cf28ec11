package compute

import (
	"testing"
	"time"
)

func ts(hour, min int) time.Time {
	return time.Date(2025, 1, 1, hour, min, 0, 0, time.UTC)
}

func tsp(hour, min int) *time.Time {
	t := ts(hour, min)
	return &t
}

func TestDurationHours(t *testing.T) {
	if got := DurationHours(tsp(8, 0), tsp(20, 0)); got == nil || *got != 12.0 {
		t.Errorf("expected 12.0, got %v", got)
	}
	if got := DurationHours(nil, tsp(20, 0)); got != nil {
		t.Errorf("expected nil for missing start, got %v", *got)
	}
	if got := DurationHours(tsp(8, 0), nil); got != nil {
		t.Errorf("expected nil for missing end, got %v", *got)
	}
	// negative intervals are returned as-is; waiting-time callers clamp
	if got := DurationHours(tsp(10, 0), tsp(9, 0)); got == nil || *got != -1.0 {
		t.Errorf("expected -1.0, got %v", got)
	}
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name                           string
		startA, endA, startB, endB     time.Time
		want                           bool
	}{
		{"disjoint", ts(8, 0), ts(9, 0), ts(10, 0), ts(11, 0), false},
		{"back to back", ts(8, 0), ts(10, 0), ts(10, 0), ts(12, 0), false},
		{"back to back reversed", ts(10, 0), ts(12, 0), ts(8, 0), ts(10, 0), false},
		{"one minute overlap", ts(8, 0), ts(10, 1), ts(10, 0), ts(12, 0), true},
		{"contained", ts(8, 0), ts(12, 0), ts(9, 0), ts(10, 0), true},
		{"identical", ts(8, 0), ts(10, 0), ts(8, 0), ts(10, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntervalsOverlap(tt.startA, tt.endA, tt.startB, tt.endB); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBucketRange(t *testing.T) {
	slots := BucketRange(ts(0, 0), ts(20, 0), 8*time.Hour)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots (last one partial), got %d", len(slots))
	}
	if !slots[0].Equal(ts(0, 0)) || !slots[1].Equal(ts(8, 0)) || !slots[2].Equal(ts(16, 0)) {
		t.Errorf("unexpected slot starts: %v", slots)
	}

	if got := BucketRange(ts(8, 0), ts(8, 0), time.Hour); len(got) != 0 {
		t.Errorf("empty range should produce no slots, got %v", got)
	}
	if got := BucketRange(ts(8, 0), ts(12, 0), 0); len(got) != 0 {
		t.Errorf("zero slot size should produce no slots, got %v", got)
	}
}

func TestSlotUtilizationPct(t *testing.T) {
	occupied := []Interval{
		{Key: "A1", Start: ts(8, 0), End: ts(10, 0)},
		{Key: "A1", Start: ts(14, 0), End: ts(15, 0)},
		{Key: "A2", Start: ts(8, 0), End: ts(16, 0)},
	}

	// slot 08:00-16:00, berth A1: 2h + 1h occupied = 37.5%
	if got := SlotUtilizationPct(ts(8, 0), ts(16, 0), "A1", occupied); got != 37.5 {
		t.Errorf("expected 37.5, got %v", got)
	}
	// other berth's interval covers the whole slot
	if got := SlotUtilizationPct(ts(8, 0), ts(16, 0), "A2", occupied); got != 100.0 {
		t.Errorf("expected 100.0, got %v", got)
	}
	// no occupant for the key
	if got := SlotUtilizationPct(ts(8, 0), ts(16, 0), "A3", occupied); got != 0.0 {
		t.Errorf("expected 0.0, got %v", got)
	}
	// occupant only partially inside the slot is clipped
	if got := SlotUtilizationPct(ts(9, 0), ts(11, 0), "A1", occupied); got != 50.0 {
		t.Errorf("expected 50.0, got %v", got)
	}
}
