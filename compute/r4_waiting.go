package compute

import (
	"time"

	"github.com/gbl08ma/sqalx"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// WaitingRow is one appointment decorated with its computed waiting time
type WaitingRow struct {
	ID          string     `msgpack:"id" json:"id"`
	TruckPlate  string     `msgpack:"placa" json:"placa"`
	CompanyName string     `msgpack:"empresa" json:"empresa"`
	Scheduled   time.Time  `msgpack:"programada" json:"programada"`
	Arrival     *time.Time `msgpack:"llegada" json:"llegada"`
	EsperaHoras *float64   `msgpack:"esperaHoras" json:"espera_horas"`
}

// WaitingReport is the R4 bundle: truck waiting time at the gates
type WaitingReport struct {
	Data []WaitingRow       `msgpack:"data" json:"data"`
	KPIs map[string]float64 `msgpack:"kpis" json:"kpis"`
}

// GenerateR4 produces the truck waiting time report. Carrier users only see
// their own company's appointments.
func GenerateR4(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*WaitingReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)
	return cachedReport("r4", filter, user, th, func() (*WaitingReport, error) {
		citas, err := types.GetAppointmentsBetween(node, filter, user)
		if err != nil {
			return nil, err
		}
		events, err := types.GetGateEventsBetween(node, filter, user)
		if err != nil {
			return nil, err
		}
		return buildWaitingReport(citas, events, th), nil
	})
}

func buildWaitingReport(citas []*types.Appointment, events []*types.GateEvent, th Thresholds) *WaitingReport {
	report := &WaitingReport{Data: []WaitingRow{}}

	waits := []float64{}
	longWaits := 0

	for _, cita := range citas {
		row := WaitingRow{
			ID:          cita.ID,
			TruckPlate:  cita.TruckPlate,
			CompanyName: cita.CompanyName,
			Scheduled:   cita.Scheduled,
			Arrival:     cita.Arrival,
			EsperaHoras: WaitingTime(cita, events),
		}
		if row.EsperaHoras != nil {
			waits = append(waits, *row.EsperaHoras)
			if *row.EsperaHoras > th.LongWaitH {
				longWaits++
			}
		}
		report.Data = append(report.Data, row)
	}

	report.KPIs = map[string]float64{
		"total_citas":       float64(len(citas)),
		"citas_con_espera":  float64(len(waits)),
		"espera_promedio_h": round2(mean(waits)),
		"pct_espera_larga":  round2(pct(longWaits, len(waits))),
	}
	return report
}
