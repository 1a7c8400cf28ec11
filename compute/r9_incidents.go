package compute

import (
	"sort"

	"github.com/gbl08ma/sqalx"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// IncidentRow is one tramite's documentation incident flags, derived from its
// status history
type IncidentRow struct {
	ID                 string   `msgpack:"id" json:"id"`
	EntidadName        string   `msgpack:"entidad" json:"entidad"`
	Regimen            string   `msgpack:"regimen" json:"regimen"`
	Estado             string   `msgpack:"estado" json:"estado"`
	TieneRechazo       bool     `msgpack:"tieneRechazo" json:"tiene_rechazo"`
	TieneReproceso     bool     `msgpack:"tieneReproceso" json:"tiene_reproceso"`
	NumObservaciones   int      `msgpack:"numObservaciones" json:"num_observaciones"`
	TiempoSubsanacionH *float64 `msgpack:"tiempoSubsanacionH" json:"tiempo_subsanacion_h"`
}

// EntidadGroup is the per-entity incident summary
type EntidadGroup struct {
	EntidadID             string  `msgpack:"entidadId" json:"entidad_id"`
	EntidadName           string  `msgpack:"entidad" json:"entidad"`
	Total                 int     `msgpack:"total" json:"total"`
	PctConRechazo         float64 `msgpack:"pctConRechazo" json:"pct_con_rechazo"`
	PctConReproceso       float64 `msgpack:"pctConReproceso" json:"pct_con_reproceso"`
	ObservacionesPromedio float64 `msgpack:"observacionesPromedio" json:"observaciones_promedio"`
	SubsanacionPromedioH  float64 `msgpack:"subsanacionPromedioH" json:"subsanacion_promedio_h"`
}

// IncidentReport is the R9 bundle: documentation incidents grouped by entity
type IncidentReport struct {
	Data       []IncidentRow      `msgpack:"data" json:"data"`
	KPIs       map[string]float64 `msgpack:"kpis" json:"kpis"`
	PorEntidad []EntidadGroup     `msgpack:"porEntidad" json:"por_entidad"`
}

// GenerateR9 produces the documentation incidents report
func GenerateR9(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*IncidentReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)
	return cachedReport("r9", filter, user, th, func() (*IncidentReport, error) {
		tramites, err := types.GetTramitesBetween(node, filter)
		if err != nil {
			return nil, err
		}
		return buildIncidentReport(tramites), nil
	})
}

// incidentFlags scans a tramite's status history for rejections, reprocesses
// (back to EN_REVISION after an OBSERVADO) and observation fix times
func incidentFlags(tramite *types.Tramite) IncidentRow {
	row := IncidentRow{
		ID:          tramite.ID,
		EntidadName: tramite.EntidadName,
		Regimen:     tramite.Regimen,
		Estado:      tramite.Estado,
	}

	fixTimes := []float64{}
	observed := false
	for i, event := range tramite.Events {
		switch event.Estado {
		case types.TramiteRechazado:
			row.TieneRechazo = true
		case types.TramiteObservado:
			row.NumObservaciones++
			observed = true
			if i+1 < len(tramite.Events) {
				next := tramite.Events[i+1]
				fixTimes = append(fixTimes, next.Time.Sub(event.Time).Hours())
			}
		case types.TramiteEnRevision:
			if observed {
				row.TieneReproceso = true
			}
		}
	}
	if len(fixTimes) > 0 {
		avg := mean(fixTimes)
		row.TiempoSubsanacionH = &avg
	}
	return row
}

func buildIncidentReport(tramites []*types.Tramite) *IncidentReport {
	report := &IncidentReport{Data: []IncidentRow{}, PorEntidad: []EntidadGroup{}}

	rejected := 0
	reprocessed := 0
	observations := []float64{}
	fixTimes := []float64{}

	type entidadAcc struct {
		group        EntidadGroup
		rejected     int
		reprocessed  int
		observations []float64
		fixTimes     []float64
	}
	perEntidad := map[string]*entidadAcc{}

	for _, tramite := range tramites {
		row := incidentFlags(tramite)
		report.Data = append(report.Data, row)

		if row.TieneRechazo {
			rejected++
		}
		if row.TieneReproceso {
			reprocessed++
		}
		observations = append(observations, float64(row.NumObservaciones))
		if row.TiempoSubsanacionH != nil {
			fixTimes = append(fixTimes, *row.TiempoSubsanacionH)
		}

		acc, ok := perEntidad[tramite.EntidadID]
		if !ok {
			acc = &entidadAcc{group: EntidadGroup{
				EntidadID:   tramite.EntidadID,
				EntidadName: tramite.EntidadName,
			}}
			perEntidad[tramite.EntidadID] = acc
		}
		acc.group.Total++
		if row.TieneRechazo {
			acc.rejected++
		}
		if row.TieneReproceso {
			acc.reprocessed++
		}
		acc.observations = append(acc.observations, float64(row.NumObservaciones))
		if row.TiempoSubsanacionH != nil {
			acc.fixTimes = append(acc.fixTimes, *row.TiempoSubsanacionH)
		}
	}

	entidadIDs := make([]string, 0, len(perEntidad))
	for id := range perEntidad {
		entidadIDs = append(entidadIDs, id)
	}
	sort.Strings(entidadIDs)
	for _, id := range entidadIDs {
		acc := perEntidad[id]
		acc.group.PctConRechazo = round2(pct(acc.rejected, acc.group.Total))
		acc.group.PctConReproceso = round2(pct(acc.reprocessed, acc.group.Total))
		acc.group.ObservacionesPromedio = round2(mean(acc.observations))
		acc.group.SubsanacionPromedioH = round2(mean(acc.fixTimes))
		report.PorEntidad = append(report.PorEntidad, acc.group)
	}

	report.KPIs = map[string]float64{
		"total_tramites":         float64(len(tramites)),
		"pct_con_rechazo":        round2(pct(rejected, len(tramites))),
		"pct_con_reproceso":      round2(pct(reprocessed, len(tramites))),
		"observaciones_promedio": round2(mean(observations)),
		"subsanacion_promedio_h": round2(mean(fixTimes)),
	}
	return report
}
