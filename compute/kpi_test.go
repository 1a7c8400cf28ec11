package compute

import (
	"testing"
	"time"

	"github.com/FerPaye01/sgcmi-reports/types"
)

func TestTurnaround(t *testing.T) {
	ata := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	atd := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)

	call := &types.VesselCall{ATA: &ata, ATD: &atd}
	if got := Turnaround(call); got == nil || *got != 12.0 {
		t.Errorf("expected 12.0, got %v", got)
	}

	if got := Turnaround(&types.VesselCall{ATA: &ata}); got != nil {
		t.Errorf("expected nil without ATD, got %v", *got)
	}
	if got := Turnaround(&types.VesselCall{ATD: &atd}); got != nil {
		t.Errorf("expected nil without ATA, got %v", *got)
	}
}

func TestWaitingTime(t *testing.T) {
	entrada := func(citaID string, at time.Time) *types.GateEvent {
		return &types.GateEvent{Action: types.AccionEntrada, AppointmentID: citaID, Timestamp: at}
	}

	cita := &types.Appointment{ID: "c1", Arrival: tsp(10, 0)}

	t.Run("first matching entrada", func(t *testing.T) {
		events := []*types.GateEvent{
			entrada("c1", ts(13, 0)),
			entrada("c1", ts(11, 30)),
			entrada("c2", ts(10, 15)),
		}
		if got := WaitingTime(cita, events); got == nil || *got != 1.5 {
			t.Errorf("expected 1.5, got %v", got)
		}
	})

	t.Run("clamped to zero when entrada precedes arrival", func(t *testing.T) {
		events := []*types.GateEvent{entrada("c1", ts(9, 0))}
		if got := WaitingTime(cita, events); got == nil || *got != 0.0 {
			t.Errorf("expected 0.0, got %v", got)
		}
	})

	t.Run("nil without arrival", func(t *testing.T) {
		noArrival := &types.Appointment{ID: "c1"}
		if got := WaitingTime(noArrival, []*types.GateEvent{entrada("c1", ts(11, 0))}); got != nil {
			t.Errorf("expected nil, got %v", *got)
		}
	})

	t.Run("nil without matching entrada", func(t *testing.T) {
		events := []*types.GateEvent{
			entrada("c2", ts(11, 0)),
			{Action: types.AccionSalida, AppointmentID: "c1", Timestamp: ts(11, 0)},
		}
		if got := WaitingTime(cita, events); got != nil {
			t.Errorf("expected nil, got %v", *got)
		}
	})
}

func TestAppointmentCompliance(t *testing.T) {
	scheduled := ts(10, 0)
	arrivalAt := func(min int) *time.Time {
		at := scheduled.Add(time.Duration(min) * time.Minute)
		return &at
	}

	tests := []struct {
		name      string
		cita      *types.Appointment
		wantClass string
		wantDev   *float64
	}{
		{"exactly on time", &types.Appointment{Scheduled: scheduled, Arrival: arrivalAt(0), Status: types.CitaAtendida}, ClasifATiempo, fptr(0)},
		{"15 late is still on time", &types.Appointment{Scheduled: scheduled, Arrival: arrivalAt(15), Status: types.CitaAtendida}, ClasifATiempo, fptr(15)},
		{"15 early is still on time", &types.Appointment{Scheduled: scheduled, Arrival: arrivalAt(-15), Status: types.CitaAtendida}, ClasifATiempo, fptr(-15)},
		{"16 late is late", &types.Appointment{Scheduled: scheduled, Arrival: arrivalAt(16), Status: types.CitaAtendida}, ClasifTarde, fptr(16)},
		{"16 early is late", &types.Appointment{Scheduled: scheduled, Arrival: arrivalAt(-16), Status: types.CitaAtendida}, ClasifTarde, fptr(-16)},
		{"no-show status", &types.Appointment{Scheduled: scheduled, Arrival: arrivalAt(5), Status: types.CitaNoShow}, ClasifNoShow, nil},
		{"missing arrival", &types.Appointment{Scheduled: scheduled, Status: types.CitaAtendida}, ClasifNoShow, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppointmentCompliance(tt.cita, 15)
			if got.Clasificacion != tt.wantClass {
				t.Errorf("classification = %s, want %s", got.Clasificacion, tt.wantClass)
			}
			switch {
			case tt.wantDev == nil && got.DeviationMin != nil:
				t.Errorf("deviation = %v, want nil", *got.DeviationMin)
			case tt.wantDev != nil && (got.DeviationMin == nil || *got.DeviationMin != *tt.wantDev):
				t.Errorf("deviation = %v, want %v", got.DeviationMin, *tt.wantDev)
			}
		})
	}
}

func TestCustomsLeadTime(t *testing.T) {
	start := ts(8, 0)
	end := ts(20, 0)

	approved := &types.Tramite{Estado: types.TramiteAprobado, StartTime: start, EndTime: &end}
	if got := CustomsLeadTime(approved); got == nil || *got != 12.0 {
		t.Errorf("expected 12.0, got %v", got)
	}

	pending := &types.Tramite{Estado: types.TramiteEnRevision, StartTime: start, EndTime: &end}
	if got := CustomsLeadTime(pending); got != nil {
		t.Errorf("expected nil for non-approved, got %v", *got)
	}

	noEnd := &types.Tramite{Estado: types.TramiteAprobado, StartTime: start}
	if got := CustomsLeadTime(noEnd); got != nil {
		t.Errorf("expected nil without end time, got %v", *got)
	}
}

func fptr(v float64) *float64 {
	return &v
}
