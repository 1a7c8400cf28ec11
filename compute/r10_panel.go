package compute

import (
	"time"

	"github.com/gbl08ma/sqalx"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// PanelAggregates are the four consolidated KPIs the executive panel tracks
type PanelAggregates struct {
	TurnaroundPromedioH float64 `msgpack:"turnaroundPromedioH" json:"turnaround_promedio_h"`
	EsperaPromedioH     float64 `msgpack:"esperaPromedioH" json:"espera_promedio_h"`
	CumplimientoPct     float64 `msgpack:"cumplimientoPct" json:"cumplimiento_pct"`
	AprobacionPct       float64 `msgpack:"aprobacionPct" json:"aprobacion_pct"`
}

// PanelReport is the R10 bundle: the executive panel with period-over-period
// comparisons
type PanelReport struct {
	Desde         time.Time       `msgpack:"desde" json:"desde"`
	Hasta         time.Time       `msgpack:"hasta" json:"hasta"`
	DesdeAnterior time.Time       `msgpack:"desdeAnterior" json:"desde_anterior"`
	HastaAnterior time.Time       `msgpack:"hastaAnterior" json:"hasta_anterior"`
	Actual        PanelAggregates `msgpack:"actual" json:"actual"`
	Anterior      PanelAggregates `msgpack:"anterior" json:"anterior"`
	Comparaciones []KPIComparison `msgpack:"comparaciones" json:"comparaciones"`
}

// GenerateR10 produces the executive panel, running the aggregation for the
// requested period and for the equal-length period immediately before it
func GenerateR10(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*PanelReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)
	return cachedReport("r10", filter, user, th, func() (*PanelReport, error) {
		actual, err := fetchPanelAggregates(node, filter, user, th)
		if err != nil {
			return nil, err
		}

		previous := *filter
		previous.From, previous.To = PreviousPeriod(filter.From, filter.To)
		anterior, err := fetchPanelAggregates(node, &previous, user, th)
		if err != nil {
			return nil, err
		}

		return buildPanelReport(filter.From, filter.To, actual, anterior, th), nil
	})
}

func fetchPanelAggregates(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (PanelAggregates, error) {
	calls, err := types.GetVesselCallsBetween(node, filter)
	if err != nil {
		return PanelAggregates{}, err
	}
	citas, err := types.GetAppointmentsBetween(node, filter, user)
	if err != nil {
		return PanelAggregates{}, err
	}
	events, err := types.GetGateEventsBetween(node, filter, user)
	if err != nil {
		return PanelAggregates{}, err
	}
	tramites, err := types.GetTramitesBetween(node, filter)
	if err != nil {
		return PanelAggregates{}, err
	}
	return computePanelAggregates(calls, citas, events, tramites, th), nil
}

func computePanelAggregates(calls []*types.VesselCall, citas []*types.Appointment,
	events []*types.GateEvent, tramites []*types.Tramite, th Thresholds) PanelAggregates {

	turnarounds := []float64{}
	for _, call := range calls {
		if hours := Turnaround(call); hours != nil {
			turnarounds = append(turnarounds, *hours)
		}
	}

	waits := []float64{}
	onTime := 0
	for _, cita := range citas {
		if hours := WaitingTime(cita, events); hours != nil {
			waits = append(waits, *hours)
		}
		if AppointmentCompliance(cita, th.OnTimeWindowMin).Clasificacion == ClasifATiempo {
			onTime++
		}
	}

	approved := 0
	for _, tramite := range tramites {
		if tramite.Estado == types.TramiteAprobado {
			approved++
		}
	}

	return PanelAggregates{
		TurnaroundPromedioH: mean(turnarounds),
		EsperaPromedioH:     mean(waits),
		CumplimientoPct:     pct(onTime, len(citas)),
		AprobacionPct:       pct(approved, len(tramites)),
	}
}

func buildPanelReport(from, to time.Time, actual, anterior PanelAggregates, th Thresholds) *PanelReport {
	prevFrom, prevTo := PreviousPeriod(from, to)
	report := &PanelReport{
		Desde:         from,
		Hasta:         to,
		DesdeAnterior: prevFrom,
		HastaAnterior: prevTo,
		Actual:        roundPanel(actual),
		Anterior:      roundPanel(anterior),
	}
	report.Comparaciones = []KPIComparison{
		CompareKPI("turnaround_promedio_h", actual.TurnaroundPromedioH, anterior.TurnaroundPromedioH, th.GoalTurnaroundH, true),
		CompareKPI("espera_promedio_h", actual.EsperaPromedioH, anterior.EsperaPromedioH, th.GoalWaitingH, true),
		CompareKPI("cumplimiento_pct", actual.CumplimientoPct, anterior.CumplimientoPct, th.GoalCompliancePct, false),
		CompareKPI("aprobacion_pct", actual.AprobacionPct, anterior.AprobacionPct, th.GoalApprovalPct, false),
	}
	return report
}

func roundPanel(agg PanelAggregates) PanelAggregates {
	agg.TurnaroundPromedioH = round2(agg.TurnaroundPromedioH)
	agg.EsperaPromedioH = round2(agg.EsperaPromedioH)
	agg.CumplimientoPct = round2(agg.CumplimientoPct)
	agg.AprobacionPct = round2(agg.AprobacionPct)
	return agg
}
