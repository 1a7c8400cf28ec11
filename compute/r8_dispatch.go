package compute

import (
	"sort"
	"time"

	"github.com/gbl08ma/sqalx"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// DispatchRow is one approved tramite with its dispatch time
type DispatchRow struct {
	ID            string    `msgpack:"id" json:"id"`
	EntidadName   string    `msgpack:"entidad" json:"entidad"`
	Regimen       string    `msgpack:"regimen" json:"regimen"`
	StartTime     time.Time `msgpack:"inicio" json:"inicio"`
	EndTime       time.Time `msgpack:"fin" json:"fin"`
	DespachoHoras float64   `msgpack:"despachoHoras" json:"despacho_horas"`
}

// DispatchGroup is the per-regimen dispatch time distribution
type DispatchGroup struct {
	Regimen        string  `msgpack:"regimen" json:"regimen"`
	Total          int     `msgpack:"total" json:"total"`
	PromedioH      float64 `msgpack:"promedioH" json:"promedio_h"`
	P50H           float64 `msgpack:"p50H" json:"p50_h"`
	P90H           float64 `msgpack:"p90H" json:"p90_h"`
	PctSobreUmbral float64 `msgpack:"pctSobreUmbral" json:"pct_sobre_umbral"`
}

// DispatchReport is the R8 bundle: customs dispatch time distribution
type DispatchReport struct {
	Data       []DispatchRow      `msgpack:"data" json:"data"`
	KPIs       map[string]float64 `msgpack:"kpis" json:"kpis"`
	PorRegimen []DispatchGroup    `msgpack:"porRegimen" json:"por_regimen"`
}

// GenerateR8 produces the dispatch time report over approved tramites
func GenerateR8(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*DispatchReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)
	return cachedReport("r8", filter, user, th, func() (*DispatchReport, error) {
		tramites, err := types.GetTramitesBetween(node, filter)
		if err != nil {
			return nil, err
		}
		return buildDispatchReport(tramites, th), nil
	})
}

func buildDispatchReport(tramites []*types.Tramite, th Thresholds) *DispatchReport {
	report := &DispatchReport{Data: []DispatchRow{}, PorRegimen: []DispatchGroup{}}

	samples := []float64{}
	overUmbral := 0
	perRegimen := map[string][]float64{}

	for _, tramite := range tramites {
		leadTime := CustomsLeadTime(tramite)
		if leadTime == nil {
			continue
		}
		report.Data = append(report.Data, DispatchRow{
			ID:            tramite.ID,
			EntidadName:   tramite.EntidadName,
			Regimen:       tramite.Regimen,
			StartTime:     tramite.StartTime,
			EndTime:       *tramite.EndTime,
			DespachoHoras: round2(*leadTime),
		})
		samples = append(samples, *leadTime)
		perRegimen[tramite.Regimen] = append(perRegimen[tramite.Regimen], *leadTime)
		if *leadTime > th.DispatchUmbralH {
			overUmbral++
		}
	}

	regimenes := make([]string, 0, len(perRegimen))
	for regimen := range perRegimen {
		regimenes = append(regimenes, regimen)
	}
	sort.Strings(regimenes)
	for _, regimen := range regimenes {
		group := perRegimen[regimen]
		over := 0
		for _, hours := range group {
			if hours > th.DispatchUmbralH {
				over++
			}
		}
		report.PorRegimen = append(report.PorRegimen, DispatchGroup{
			Regimen:        regimen,
			Total:          len(group),
			PromedioH:      round2(mean(group)),
			P50H:           round2(Percentile(group, 50)),
			P90H:           round2(Percentile(group, 90)),
			PctSobreUmbral: round2(pct(over, len(group))),
		})
	}

	report.KPIs = map[string]float64{
		"total_aprobados":     float64(len(samples)),
		"despacho_promedio_h": round2(mean(samples)),
		"despacho_p50_h":      round2(Percentile(samples, 50)),
		"despacho_p90_h":      round2(Percentile(samples, 90)),
		"pct_sobre_umbral":    round2(pct(overUmbral, len(samples))),
	}
	return report
}
