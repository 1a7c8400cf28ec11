package compute

import (
	"math"
	"sort"
	"time"

	"github.com/gbl08ma/sqalx"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// ComplianceRow is one appointment decorated with its classification
type ComplianceRow struct {
	ID            string     `msgpack:"id" json:"id"`
	TruckPlate    string     `msgpack:"placa" json:"placa"`
	CompanyName   string     `msgpack:"empresa" json:"empresa"`
	Scheduled     time.Time  `msgpack:"programada" json:"programada"`
	Arrival       *time.Time `msgpack:"llegada" json:"llegada"`
	Clasificacion string     `msgpack:"clasificacion" json:"clasificacion"`
	DesvioMin     *float64   `msgpack:"desvioMin" json:"desvio_min"`
}

// CompanyRank is one company's position in the on-time ranking
type CompanyRank struct {
	CompanyID   string  `msgpack:"empresaId" json:"empresa_id"`
	CompanyName string  `msgpack:"empresa" json:"empresa"`
	Total       int     `msgpack:"total" json:"total"`
	PctATiempo  float64 `msgpack:"pctATiempo" json:"pct_a_tiempo"`
}

// ComplianceReport is the R5 bundle: appointment punctuality classification.
// Ranking is nil for carrier users; they do not see other companies.
type ComplianceReport struct {
	Data    []ComplianceRow    `msgpack:"data" json:"data"`
	KPIs    map[string]float64 `msgpack:"kpis" json:"kpis"`
	Ranking []CompanyRank      `msgpack:"ranking" json:"ranking"`
}

// GenerateR5 produces the appointment compliance report
func GenerateR5(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*ComplianceReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)
	return cachedReport("r5", filter, user, th, func() (*ComplianceReport, error) {
		citas, err := types.GetAppointmentsBetween(node, filter, user)
		if err != nil {
			return nil, err
		}
		return buildComplianceReport(citas, user, th), nil
	})
}

func buildComplianceReport(citas []*types.Appointment, user *types.User, th Thresholds) *ComplianceReport {
	report := &ComplianceReport{Data: []ComplianceRow{}}

	noShows := 0
	late := 0
	onTime := 0
	absDeviations := []float64{}
	perCompany := map[string]*CompanyRank{}

	for _, cita := range citas {
		compliance := AppointmentCompliance(cita, th.OnTimeWindowMin)
		report.Data = append(report.Data, ComplianceRow{
			ID:            cita.ID,
			TruckPlate:    cita.TruckPlate,
			CompanyName:   cita.CompanyName,
			Scheduled:     cita.Scheduled,
			Arrival:       cita.Arrival,
			Clasificacion: compliance.Clasificacion,
			DesvioMin:     compliance.DeviationMin,
		})

		switch compliance.Clasificacion {
		case ClasifNoShow:
			noShows++
		case ClasifTarde:
			late++
		case ClasifATiempo:
			onTime++
		}
		// NO_SHOW has no deviation but still counts in the totals above
		if compliance.DeviationMin != nil {
			absDeviations = append(absDeviations, math.Abs(*compliance.DeviationMin))
		}

		rank, ok := perCompany[cita.CompanyID]
		if !ok {
			rank = &CompanyRank{CompanyID: cita.CompanyID, CompanyName: cita.CompanyName}
			perCompany[cita.CompanyID] = rank
		}
		rank.Total++
		if compliance.Clasificacion == ClasifATiempo {
			rank.PctATiempo++ // running on-time count, turned into pct below
		}
	}

	report.KPIs = map[string]float64{
		"total_citas":             float64(len(citas)),
		"pct_no_show":             round2(pct(noShows, len(citas))),
		"pct_tarde":               round2(pct(late, len(citas))),
		"pct_a_tiempo":            round2(pct(onTime, len(citas))),
		"desvio_promedio_abs_min": round2(mean(absDeviations)),
	}

	// carriers do not get the cross-company ranking
	if !user.IsCarrier() {
		report.Ranking = []CompanyRank{}
		for _, rank := range perCompany {
			rank.PctATiempo = round2(pct(int(rank.PctATiempo), rank.Total))
			report.Ranking = append(report.Ranking, *rank)
		}
		sort.Slice(report.Ranking, func(i, j int) bool {
			if report.Ranking[i].PctATiempo != report.Ranking[j].PctATiempo {
				return report.Ranking[i].PctATiempo > report.Ranking[j].PctATiempo
			}
			return report.Ranking[i].CompanyID < report.Ranking[j].CompanyID
		})
	}
	return report
}
