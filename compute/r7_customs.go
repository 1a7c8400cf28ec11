package compute

import (
	"sort"
	"time"

	"github.com/gbl08ma/sqalx"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// CustomsRow is one tramite decorated with its lead time
type CustomsRow struct {
	ID          string     `msgpack:"id" json:"id"`
	VesselName  string     `msgpack:"nave" json:"nave"`
	EntidadName string     `msgpack:"entidad" json:"entidad"`
	Regimen     string     `msgpack:"regimen" json:"regimen"`
	Estado      string     `msgpack:"estado" json:"estado"`
	StartTime   time.Time  `msgpack:"inicio" json:"inicio"`
	EndTime     *time.Time `msgpack:"fin" json:"fin"`
	LeadTimeH   *float64   `msgpack:"leadTimeH" json:"lead_time_h"`
}

// VesselCallGroup summarizes the tramites of one vessel call. The call is
// blocked for operation while any tramite is still in flight.
type VesselCallGroup struct {
	VesselCallID     string         `msgpack:"recaladaId" json:"recalada_id"`
	VesselName       string         `msgpack:"nave" json:"nave"`
	Total            int            `msgpack:"total" json:"total"`
	PorEstado        map[string]int `msgpack:"porEstado" json:"por_estado"`
	BloqueaOperacion bool           `msgpack:"bloqueaOperacion" json:"bloquea_operacion"`
}

// CustomsReport is the R7 bundle: customs procedure status by vessel call
type CustomsReport struct {
	Data        []CustomsRow       `msgpack:"data" json:"data"`
	KPIs        map[string]float64 `msgpack:"kpis" json:"kpis"`
	PorRecalada []VesselCallGroup  `msgpack:"porRecalada" json:"por_recalada"`
}

// GenerateR7 produces the customs status report grouped by vessel call
func GenerateR7(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*CustomsReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)
	return cachedReport("r7", filter, user, th, func() (*CustomsReport, error) {
		tramites, err := types.GetTramitesBetween(node, filter)
		if err != nil {
			return nil, err
		}
		return buildCustomsReport(tramites), nil
	})
}

// blockingEstados are the statuses that keep a vessel call from operating
var blockingEstados = map[string]bool{
	types.TramiteIniciado:   true,
	types.TramiteEnRevision: true,
	types.TramiteObservado:  true,
}

func buildCustomsReport(tramites []*types.Tramite) *CustomsReport {
	report := &CustomsReport{Data: []CustomsRow{}, PorRecalada: []VesselCallGroup{}}

	approved := 0
	preArrival := 0
	groups := map[string]*VesselCallGroup{}

	for _, tramite := range tramites {
		row := CustomsRow{
			ID:          tramite.ID,
			VesselName:  tramite.VesselName,
			EntidadName: tramite.EntidadName,
			Regimen:     tramite.Regimen,
			Estado:      tramite.Estado,
			StartTime:   tramite.StartTime,
			EndTime:     tramite.EndTime,
			LeadTimeH:   CustomsLeadTime(tramite),
		}
		report.Data = append(report.Data, row)

		if tramite.Estado == types.TramiteAprobado {
			approved++
			// completed before the vessel actually arrived
			if tramite.EndTime != nil && tramite.VesselATA != nil &&
				tramite.EndTime.Before(*tramite.VesselATA) {
				preArrival++
			}
		}

		group, ok := groups[tramite.VesselCallID]
		if !ok {
			group = &VesselCallGroup{
				VesselCallID: tramite.VesselCallID,
				VesselName:   tramite.VesselName,
				PorEstado:    map[string]int{},
			}
			groups[tramite.VesselCallID] = group
		}
		group.Total++
		group.PorEstado[tramite.Estado]++
		if blockingEstados[tramite.Estado] {
			group.BloqueaOperacion = true
		}
	}

	groupIDs := make([]string, 0, len(groups))
	for id := range groups {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(groupIDs)
	for _, id := range groupIDs {
		report.PorRecalada = append(report.PorRecalada, *groups[id])
	}

	report.KPIs = map[string]float64{
		"total_tramites":           float64(len(tramites)),
		"pct_aprobados":            round2(pct(approved, len(tramites))),
		"pct_completos_pre_arribo": round2(pct(preArrival, len(tramites))),
	}
	return report
}
