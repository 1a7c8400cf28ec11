package compute

import (
	"time"

	"github.com/gbl08ma/sqalx"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// ScheduleRow is one vessel call decorated with its schedule deviations
type ScheduleRow struct {
	ID               string     `msgpack:"id" json:"id"`
	VesselName       string     `msgpack:"nave" json:"nave"`
	BerthName        string     `msgpack:"amarradero" json:"amarradero"`
	ETA              time.Time  `msgpack:"eta" json:"eta"`
	ATA              *time.Time `msgpack:"ata" json:"ata"`
	ETB              *time.Time `msgpack:"etb" json:"etb"`
	ATB              *time.Time `msgpack:"atb" json:"atb"`
	DesvioArriboMin  *float64   `msgpack:"desvioArriboMin" json:"desvio_arribo_min"`
	DesvioAtraqueMin *float64   `msgpack:"desvioAtraqueMin" json:"desvio_atraque_min"`
	Puntual          bool       `msgpack:"puntual" json:"puntual"`
}

// ScheduleReport is the R1 bundle: schedule vs actual arrival and berthing
type ScheduleReport struct {
	Data []ScheduleRow      `msgpack:"data" json:"data"`
	KPIs map[string]float64 `msgpack:"kpis" json:"kpis"`
}

// GenerateR1 produces the schedule compliance report for the filtered vessel
// calls
func GenerateR1(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*ScheduleReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)
	return cachedReport("r1", filter, user, th, func() (*ScheduleReport, error) {
		calls, err := types.GetVesselCallsBetween(node, filter)
		if err != nil {
			return nil, err
		}
		return buildScheduleReport(calls, th), nil
	})
}

func buildScheduleReport(calls []*types.VesselCall, th Thresholds) *ScheduleReport {
	report := &ScheduleReport{Data: []ScheduleRow{}}

	punctual := 0
	arrivalDelays := []float64{}
	berthingDelays := []float64{}

	for _, call := range calls {
		eta := call.ETA
		row := ScheduleRow{
			ID:         call.ID,
			VesselName: call.VesselName,
			BerthName:  call.BerthName,
			ETA:        call.ETA,
			ATA:        call.ATA,
			ETB:        call.ETB,
			ATB:        call.ATB,
		}
		row.DesvioArriboMin = deviationMinutes(&eta, call.ATA)
		row.DesvioAtraqueMin = deviationMinutes(call.ETB, call.ATB)

		if row.DesvioArriboMin != nil {
			arrivalDelays = append(arrivalDelays, *row.DesvioArriboMin)
			deviationH := *row.DesvioArriboMin / 60
			if deviationH >= -th.PunctualityWindowH && deviationH <= th.PunctualityWindowH {
				row.Puntual = true
				punctual++
			}
		}
		if row.DesvioAtraqueMin != nil {
			berthingDelays = append(berthingDelays, *row.DesvioAtraqueMin)
		}
		report.Data = append(report.Data, row)
	}

	puntualidad := round2(pct(punctual, len(calls)))
	report.KPIs = map[string]float64{
		"total_recaladas":             float64(len(calls)),
		"puntualidad_pct":             puntualidad,
		"cumplimiento_ventana_pct":    puntualidad,
		"atraso_promedio_arribo_min":  round2(mean(arrivalDelays)),
		"atraso_promedio_atraque_min": round2(mean(berthingDelays)),
	}
	return report
}

// deviationMinutes returns actual minus scheduled in minutes, nil when either
// endpoint is missing
func deviationMinutes(scheduled, actual *time.Time) *float64 {
	if scheduled == nil || actual == nil {
		return nil
	}
	m := actual.Sub(*scheduled).Minutes()
	return &m
}
