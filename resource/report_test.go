package resource

import (
	"testing"
	"time"

	"github.com/FerPaye01/sgcmi-reports/compute"
)

func TestFilterPayloadFilter(t *testing.T) {
	payload := &filterPayload{
		Start:   "2025-03-01T00:00:00Z",
		End:     "2025-03-15T00:00:00Z",
		BerthID: "amr-1",
		Regimen: "IMPORT",
	}

	filter, err := payload.filter()
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC); !filter.From.Equal(want) {
		t.Errorf("From = %s, want %s", filter.From, want)
	}
	if want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC); !filter.To.Equal(want) {
		t.Errorf("To = %s, want %s", filter.To, want)
	}
	if filter.BerthID != "amr-1" {
		t.Errorf("BerthID = %q, want %q", filter.BerthID, "amr-1")
	}
	if filter.Regimen != "IMPORT" {
		t.Errorf("Regimen = %q, want %q", filter.Regimen, "IMPORT")
	}
}

func TestFilterPayloadFilterDefaultsToLastWeek(t *testing.T) {
	filter, err := (&filterPayload{}).filter()
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if got := filter.To.Sub(filter.From); got != 7*24*time.Hour {
		t.Errorf("default range spans %s, want %s", got, 7*24*time.Hour)
	}
}

func TestFilterPayloadFilterRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		payload filterPayload
	}{
		{"unparseable start", filterPayload{Start: "yesterday"}},
		{"end before start", filterPayload{
			Start: "2025-03-15T00:00:00Z",
			End:   "2025-03-01T00:00:00Z",
		}},
		{"unknown regimen", filterPayload{
			Start:   "2025-03-01T00:00:00Z",
			End:     "2025-03-15T00:00:00Z",
			Regimen: "CABOTAJE",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.payload.filter(); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestFilterPayloadThresholds(t *testing.T) {
	defaults := compute.DefaultThresholds()

	th := (&filterPayload{}).thresholds()
	if th != defaults {
		t.Errorf("empty payload thresholds = %+v, want defaults", th)
	}

	th = (&filterPayload{UmbralH: 10, Capacidad: 50, SlotHoras: 4}).thresholds()
	if th.DispatchUmbralH != 10 {
		t.Errorf("DispatchUmbralH = %v, want 10", th.DispatchUmbralH)
	}
	if th.GateCapacityPerHour != 50 {
		t.Errorf("GateCapacityPerHour = %v, want 50", th.GateCapacityPerHour)
	}
	if th.SlotHours != 4 {
		t.Errorf("SlotHours = %v, want 4", th.SlotHours)
	}
	if th.OnTimeWindowMin != defaults.OnTimeWindowMin {
		t.Errorf("OnTimeWindowMin = %v, want untouched default %v",
			th.OnTimeWindowMin, defaults.OnTimeWindowMin)
	}
}
