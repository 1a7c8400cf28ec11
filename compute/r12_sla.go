package compute

import (
	"sort"

	"github.com/gbl08ma/sqalx"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// SLA actor types
const (
	ActorEmpresa = "EMPRESA"
	ActorEntidad = "ENTIDAD"
)

// SlaRow is one actor's compliance against its SLA target. For companies the
// outcome is an on-time appointment; for regulatory entities, an approved
// tramite.
type SlaRow struct {
	ActorID         string  `msgpack:"actorId" json:"actor_id"`
	Actor           string  `msgpack:"actor" json:"actor"`
	Tipo            string  `msgpack:"tipo" json:"tipo"`
	Total           int     `msgpack:"total" json:"total"`
	Cumplidos       int     `msgpack:"cumplidos" json:"cumplidos"`
	Incumplimientos int     `msgpack:"incumplimientos" json:"incumplimientos"`
	PctCumplimiento float64 `msgpack:"pctCumplimiento" json:"pct_cumplimiento"`
	MetaPct         float64 `msgpack:"metaPct" json:"meta_pct"`
	CumpleSLA       bool    `msgpack:"cumpleSla" json:"cumple_sla"`
}

// SlaReport is the R12 bundle: per-actor SLA compliance
type SlaReport struct {
	Data []SlaRow           `msgpack:"data" json:"data"`
	KPIs map[string]float64 `msgpack:"kpis" json:"kpis"`
}

// GenerateR12 produces the SLA compliance report over companies (appointment
// punctuality) and regulatory entities (tramite approval)
func GenerateR12(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*SlaReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)
	return cachedReport("r12", filter, user, th, func() (*SlaReport, error) {
		citas, err := types.GetAppointmentsBetween(node, filter, user)
		if err != nil {
			return nil, err
		}
		tramites, err := types.GetTramitesBetween(node, filter)
		if err != nil {
			return nil, err
		}
		return buildSlaReport(citas, tramites, th), nil
	})
}

func buildSlaReport(citas []*types.Appointment, tramites []*types.Tramite, th Thresholds) *SlaReport {
	report := &SlaReport{Data: []SlaRow{}}

	rows := map[string]*SlaRow{}

	for _, cita := range citas {
		row, ok := rows[ActorEmpresa+cita.CompanyID]
		if !ok {
			row = &SlaRow{
				ActorID: cita.CompanyID,
				Actor:   cita.CompanyName,
				Tipo:    ActorEmpresa,
				MetaPct: th.SLAOnTimePct,
			}
			rows[ActorEmpresa+cita.CompanyID] = row
		}
		row.Total++
		if AppointmentCompliance(cita, th.OnTimeWindowMin).Clasificacion == ClasifATiempo {
			row.Cumplidos++
		} else {
			row.Incumplimientos++
		}
	}

	for _, tramite := range tramites {
		row, ok := rows[ActorEntidad+tramite.EntidadID]
		if !ok {
			row = &SlaRow{
				ActorID: tramite.EntidadID,
				Actor:   tramite.EntidadName,
				Tipo:    ActorEntidad,
				MetaPct: th.SLAApprovalPct,
			}
			rows[ActorEntidad+tramite.EntidadID] = row
		}
		row.Total++
		switch tramite.Estado {
		case types.TramiteAprobado:
			row.Cumplidos++
		case types.TramiteRechazado:
			row.Incumplimientos++
		}
	}

	keys := make([]string, 0, len(rows))
	for key := range rows {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	meeting := 0
	violations := 0
	for _, key := range keys {
		row := rows[key]
		row.PctCumplimiento = round2(pct(row.Cumplidos, row.Total))
		row.CumpleSLA = row.PctCumplimiento >= row.MetaPct
		if row.CumpleSLA {
			meeting++
		}
		violations += row.Incumplimientos
		report.Data = append(report.Data, *row)
	}

	report.KPIs = map[string]float64{
		"total_actores":               float64(len(report.Data)),
		"actores_en_cumplimiento":     float64(meeting),
		"pct_actores_en_cumplimiento": round2(pct(meeting, len(report.Data))),
		"total_incumplimientos":       float64(violations),
	}
	return report
}
