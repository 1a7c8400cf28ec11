package compute

import (
	"fmt"
	"sync"
	"time"

	movingaverage "github.com/RobinUS2/golang-moving-average"
	"github.com/gbl08ma/sqalx"
	"github.com/hako/durafmt"
	uuid "github.com/satori/go.uuid"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// Alert severities
const (
	SeveridadVerde    = "VERDE"
	SeveridadAmarillo = "AMARILLO"
	SeveridadRojo     = "ROJO"
)

// Alert types
const (
	AlertaCongestionAmarradero = "CONGESTION_AMARRADERO"
	AlertaEsperaCamiones       = "ESPERA_CAMIONES"
)

// Alert is one qualitative early-warning signal. Alerts have no lifecycle
// here: every evaluation produces a fresh set and dispatch/resolution belongs
// to the notification collaborator.
type Alert struct {
	ID         string    `msgpack:"id" json:"id"`
	Tipo       string    `msgpack:"tipo" json:"tipo"`
	Severidad  string    `msgpack:"severidad" json:"severidad"`
	Valor      float64   `msgpack:"valor" json:"valor"`
	Umbral     float64   `msgpack:"umbral" json:"umbral"`
	Mensaje    string    `msgpack:"mensaje" json:"mensaje"`
	Registrado time.Time `msgpack:"registrado" json:"registrado"`
}

// AlertNotifications receives every non-green alert produced by R11, for the
// dispatcher in the main package to push out
var AlertNotifications = make(chan Alert, 16)

// waitTrend keeps a moving average of recent mean waiting times so the alert
// bundle can show whether congestion is building up
var waitTrend = movingaverage.New(12)
var waitTrendMutex sync.Mutex

// AlertReport is the R11 bundle: current aggregates plus the alerts they
// trigger
type AlertReport struct {
	Alertas                []Alert            `msgpack:"alertas" json:"alertas"`
	KPIs                   map[string]float64 `msgpack:"kpis" json:"kpis"`
	UtilizacionPromedioPct float64            `msgpack:"utilizacionPromedioPct" json:"utilizacion_promedio_pct"`
	EsperaPromedioH        float64            `msgpack:"esperaPromedioH" json:"espera_promedio_h"`
	TendenciaEsperaH       float64            `msgpack:"tendenciaEsperaH" json:"tendencia_espera_h"`
}

// GenerateR11 evaluates the early-warning thresholds against the current
// period's aggregates and dispatches any non-green alerts
func GenerateR11(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*AlertReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)

	calls, err := types.GetVesselCallsBetween(node, filter)
	if err != nil {
		return nil, err
	}
	citas, err := types.GetAppointmentsBetween(node, filter, user)
	if err != nil {
		return nil, err
	}
	events, err := types.GetGateEventsBetween(node, filter, user)
	if err != nil {
		return nil, err
	}

	utilization := buildBerthReport(calls, filter.From, filter.To, th).KPIs["utilizacion_promedio_pct"]
	waiting := buildWaitingReport(citas, events, th).KPIs["espera_promedio_h"]

	waitTrendMutex.Lock()
	waitTrend.Add(waiting)
	trend := waitTrend.Avg()
	waitTrendMutex.Unlock()

	report := buildAlertReport(utilization, waiting, trend, th, clock.Now())

	for _, alert := range report.Alertas {
		if alert.Severidad == SeveridadVerde {
			continue
		}
		select {
		case AlertNotifications <- alert:
		default:
			dataQuality("alert channel full, dropping %s %s", alert.Tipo, alert.Severidad)
		}
	}
	return report, nil
}

func buildAlertReport(utilizationPct, waitingH, trendH float64, th Thresholds, now time.Time) *AlertReport {
	report := &AlertReport{
		Alertas:                EvaluateAlerts(utilizationPct, waitingH, th, now),
		UtilizacionPromedioPct: round2(utilizationPct),
		EsperaPromedioH:        round2(waitingH),
		TendenciaEsperaH:       round2(trendH),
	}
	active := 0
	for _, alert := range report.Alertas {
		if alert.Severidad != SeveridadVerde {
			active++
		}
	}
	report.KPIs = map[string]float64{
		"alertas_activas": float64(active),
		"alertas_total":   float64(len(report.Alertas)),
	}
	return report
}

// EvaluateAlerts re-evaluates the static thresholds against the supplied
// aggregates. Stateless: the same inputs always produce the same alert set
// (minus the random IDs).
func EvaluateAlerts(utilizationPct, waitingH float64, th Thresholds, now time.Time) []Alert {
	waitingStr := durafmt.Parse(time.Duration(waitingH * float64(time.Hour)).Truncate(time.Minute)).String()
	return []Alert{
		newAlert(AlertaCongestionAmarradero,
			severityFor(utilizationPct, th.UtilizationAlertPct, th.AlertBandFactor),
			utilizationPct, th.UtilizationAlertPct,
			fmt.Sprintf("utilización media de amarraderos en %.2f%% (umbral %.0f%%)",
				utilizationPct, th.UtilizationAlertPct),
			now),
		newAlert(AlertaEsperaCamiones,
			severityFor(waitingH, th.WaitingAlertH, th.AlertBandFactor),
			waitingH, th.WaitingAlertH,
			fmt.Sprintf("espera media de camiones en %s (umbral %.0f h)",
				waitingStr, th.WaitingAlertH),
			now),
	}
}

func newAlert(tipo, severidad string, valor, umbral float64, mensaje string, now time.Time) Alert {
	id, err := uuid.NewV4()
	if err != nil {
		id = uuid.UUID{}
	}
	return Alert{
		ID:         id.String(),
		Tipo:       tipo,
		Severidad:  severidad,
		Valor:      round2(valor),
		Umbral:     umbral,
		Mensaje:    mensaje,
		Registrado: now,
	}
}

// severityFor maps a value onto the green/yellow/red bands around threshold.
// Yellow runs from the threshold up to threshold*factor. The band top is
// rounded to the emitted precision so a value sitting exactly on it stays
// yellow (85*1.15 is 97.74999... in float64, not 97.75).
func severityFor(value, threshold, factor float64) string {
	switch {
	case value <= threshold:
		return SeveridadVerde
	case value <= round2(threshold*factor):
		return SeveridadAmarillo
	default:
		return SeveridadRojo
	}
}
