package compute

import (
	"testing"
	"time"

	"github.com/FerPaye01/sgcmi-reports/types"
)

func TestComputePanelAggregates(t *testing.T) {
	th := DefaultThresholds()

	atd := ts(20, 0)
	calls := []*types.VesselCall{
		call("1", "A1", ts(7, 0), tsp(8, 0), nil, &atd), // 12h turnaround
		call("2", "A1", ts(7, 0), nil, nil, nil),
	}

	scheduled := ts(10, 0)
	onTime := scheduled.Add(5 * time.Minute)
	citas := []*types.Appointment{
		{ID: "c1", Scheduled: scheduled, Arrival: &onTime, Status: types.CitaAtendida},
		{ID: "c2", Scheduled: scheduled, Status: types.CitaNoShow},
	}
	events := []*types.GateEvent{
		{Action: types.AccionEntrada, AppointmentID: "c1", Timestamp: onTime.Add(2 * time.Hour)},
	}

	end := ts(16, 0)
	tramites := []*types.Tramite{
		tramite("t1", "r1", "n1", types.RegimenImport, types.TramiteAprobado, ts(0, 0), &end, nil),
		tramite("t2", "r1", "n1", types.RegimenImport, types.TramiteEnRevision, ts(0, 0), nil, nil),
	}

	agg := computePanelAggregates(calls, citas, events, tramites, th)

	if agg.TurnaroundPromedioH != 12.0 {
		t.Errorf("turnaround = %v, want 12.0", agg.TurnaroundPromedioH)
	}
	if agg.EsperaPromedioH != 2.0 {
		t.Errorf("espera = %v, want 2.0", agg.EsperaPromedioH)
	}
	if agg.CumplimientoPct != 50.0 {
		t.Errorf("cumplimiento = %v, want 50.0", agg.CumplimientoPct)
	}
	if agg.AprobacionPct != 50.0 {
		t.Errorf("aprobacion = %v, want 50.0", agg.AprobacionPct)
	}
}

func TestComputePanelAggregatesEmpty(t *testing.T) {
	agg := computePanelAggregates(nil, nil, nil, nil, DefaultThresholds())
	if agg != (PanelAggregates{}) {
		t.Errorf("empty inputs must aggregate to zeros, got %+v", agg)
	}
}

func TestBuildPanelReport(t *testing.T) {
	th := DefaultThresholds()
	from := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	actual := PanelAggregates{TurnaroundPromedioH: 24, EsperaPromedioH: 1, CumplimientoPct: 95, AprobacionPct: 80}
	anterior := PanelAggregates{TurnaroundPromedioH: 48, EsperaPromedioH: 0, CumplimientoPct: 90, AprobacionPct: 80}

	report := buildPanelReport(from, to, actual, anterior, th)

	if !report.DesdeAnterior.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) || !report.HastaAnterior.Equal(from) {
		t.Errorf("unexpected previous period: %v - %v", report.DesdeAnterior, report.HastaAnterior)
	}
	if len(report.Comparaciones) != 4 {
		t.Fatalf("expected 4 KPI comparisons, got %d", len(report.Comparaciones))
	}

	turnaround := report.Comparaciones[0]
	if turnaround.VariacionPct != -50.0 || !turnaround.Favorable {
		t.Errorf("unexpected turnaround comparison: %+v", turnaround)
	}
	espera := report.Comparaciones[1]
	if espera.VariacionPct != 0.0 {
		t.Errorf("espera against zero previous must report 0, got %v", espera.VariacionPct)
	}
	aprobacion := report.Comparaciones[3]
	if aprobacion.Tendencia != TendenciaEstable {
		t.Errorf("unchanged aprobacion must be flat, got %s", aprobacion.Tendencia)
	}
}
