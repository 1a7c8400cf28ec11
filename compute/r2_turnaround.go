package compute

import (
	"sort"
	"time"

	"github.com/gbl08ma/sqalx"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// TurnaroundRow is one vessel call decorated with its total port time
type TurnaroundRow struct {
	ID          string     `msgpack:"id" json:"id"`
	VesselName  string     `msgpack:"nave" json:"nave"`
	BerthName   string     `msgpack:"amarradero" json:"amarradero"`
	ATA         *time.Time `msgpack:"ata" json:"ata"`
	ATD         *time.Time `msgpack:"atd" json:"atd"`
	TurnaroundH *float64   `msgpack:"turnaroundH" json:"turnaround_h"`
}

// TurnaroundGroup is the per-berth breakdown of turnaround statistics
type TurnaroundGroup struct {
	BerthID   string  `msgpack:"amarraderoId" json:"amarradero_id"`
	BerthName string  `msgpack:"amarradero" json:"amarradero"`
	Total     int     `msgpack:"total" json:"total"`
	PromedioH float64 `msgpack:"promedioH" json:"promedio_h"`
	P50H      float64 `msgpack:"p50H" json:"p50_h"`
	P90H      float64 `msgpack:"p90H" json:"p90_h"`
}

// TurnaroundReport is the R2 bundle: vessel stay time distribution
type TurnaroundReport struct {
	Data          []TurnaroundRow    `msgpack:"data" json:"data"`
	KPIs          map[string]float64 `msgpack:"kpis" json:"kpis"`
	PorAmarradero []TurnaroundGroup  `msgpack:"porAmarradero" json:"por_amarradero"`
}

// GenerateR2 produces the vessel turnaround report for the filtered calls
func GenerateR2(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*TurnaroundReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)
	return cachedReport("r2", filter, user, th, func() (*TurnaroundReport, error) {
		calls, err := types.GetVesselCallsBetween(node, filter)
		if err != nil {
			return nil, err
		}
		return buildTurnaroundReport(calls), nil
	})
}

func buildTurnaroundReport(calls []*types.VesselCall) *TurnaroundReport {
	report := &TurnaroundReport{Data: []TurnaroundRow{}, PorAmarradero: []TurnaroundGroup{}}

	samples := []float64{}
	perBerth := map[string][]float64{}
	berthNames := map[string]string{}

	for _, call := range calls {
		row := TurnaroundRow{
			ID:          call.ID,
			VesselName:  call.VesselName,
			BerthName:   call.BerthName,
			ATA:         call.ATA,
			ATD:         call.ATD,
			TurnaroundH: Turnaround(call),
		}
		if row.TurnaroundH != nil {
			samples = append(samples, *row.TurnaroundH)
			perBerth[call.BerthID] = append(perBerth[call.BerthID], *row.TurnaroundH)
		}
		berthNames[call.BerthID] = call.BerthName
		report.Data = append(report.Data, row)
	}

	berthIDs := make([]string, 0, len(perBerth))
	for id := range perBerth {
		berthIDs = append(berthIDs, id)
	}
	sort.Strings(berthIDs)
	for _, id := range berthIDs {
		group := perBerth[id]
		report.PorAmarradero = append(report.PorAmarradero, TurnaroundGroup{
			BerthID:   id,
			BerthName: berthNames[id],
			Total:     len(group),
			PromedioH: round2(mean(group)),
			P50H:      round2(Percentile(group, 50)),
			P90H:      round2(Percentile(group, 90)),
		})
	}

	report.KPIs = map[string]float64{
		"total_recaladas":       float64(len(calls)),
		"con_turnaround":        float64(len(samples)),
		"turnaround_promedio_h": round2(mean(samples)),
		"turnaround_p50_h":      round2(Percentile(samples, 50)),
		"turnaround_p90_h":      round2(Percentile(samples, 90)),
	}
	return report
}
