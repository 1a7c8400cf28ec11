package types

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gbl08ma/sqalx"
	"github.com/lib/pq"
)

// Customs regimes
const (
	RegimenImport  = "IMPORT"
	RegimenExport  = "EXPORT"
	RegimenTransit = "TRANSIT"
)

// Regimenes lists the valid customs regimes
var Regimenes = []string{RegimenImport, RegimenExport, RegimenTransit}

// Tramite statuses
const (
	TramiteIniciado   = "INICIADO"
	TramiteEnRevision = "EN_REVISION"
	TramiteObservado  = "OBSERVADO"
	TramiteAprobado   = "APROBADO"
	TramiteRechazado  = "RECHAZADO"
)

// TramiteEstados lists the valid tramite statuses
var TramiteEstados = []string{TramiteIniciado, TramiteEnRevision,
	TramiteObservado, TramiteAprobado, TramiteRechazado}

// TramiteEvent is one entry of a tramite's status history
type TramiteEvent struct {
	Estado string
	Time   time.Time
}

// Tramite represents a customs procedure tracked through its status
// lifecycle, with its vessel call and regulatory entity resolved. EndTime is
// nil until the procedure reaches a terminal status. Events holds the status
// history in chronological order.
type Tramite struct {
	ID           string
	VesselCallID string
	VesselName   string
	VesselATA    *time.Time
	EntidadID    string
	EntidadName  string
	Regimen      string
	Estado       string
	StartTime    time.Time
	EndTime      *time.Time
	Events       []TramiteEvent
}

// GetTramitesBetween returns the tramites started within [from, to] with
// their status histories loaded and dimension filters applied
func GetTramitesBetween(node sqalx.Node, filter *ReportFilter) ([]*Tramite, error) {
	s := sdb.Select().
		Where(sq.Expr("tramite.inicio BETWEEN ? AND ?", filter.From, filter.To)).
		OrderBy("tramite.inicio ASC")
	if filter.EntidadID != "" {
		s = s.Where(sq.Eq{"tramite.entidad_id": filter.EntidadID})
	}
	if filter.Regimen != "" {
		s = s.Where(sq.Eq{"tramite.regimen": filter.Regimen})
	}
	if filter.Estado != "" {
		s = s.Where(sq.Eq{"tramite.estado": filter.Estado})
	}
	if filter.VesselID != "" {
		s = s.Where(sq.Eq{"recalada.nave_id": filter.VesselID})
	}
	return getTramitesWithSelect(node, s)
}

func getTramitesWithSelect(node sqalx.Node, sbuilder sq.SelectBuilder) ([]*Tramite, error) {
	tramites := []*Tramite{}

	tx, err := node.Beginx()
	if err != nil {
		return tramites, err
	}
	defer tx.Commit() // read-only tx

	rows, err := sbuilder.Columns("tramite.id", "tramite.recalada_id", "nave.nombre",
		"recalada.ata", "tramite.entidad_id", "entidad.nombre", "tramite.regimen",
		"tramite.estado", "tramite.inicio", "tramite.fin").
		From("tramite").
		Join("recalada ON recalada.id = tramite.recalada_id").
		Join("nave ON nave.id = recalada.nave_id").
		Join("entidad ON entidad.id = tramite.entidad_id").
		RunWith(tx).Query()
	if err != nil {
		return tramites, fmt.Errorf("getTramitesWithSelect: %s", err)
	}

	for rows.Next() {
		var tramite Tramite
		var ata, fin pq.NullTime
		err := rows.Scan(
			&tramite.ID,
			&tramite.VesselCallID,
			&tramite.VesselName,
			&ata,
			&tramite.EntidadID,
			&tramite.EntidadName,
			&tramite.Regimen,
			&tramite.Estado,
			&tramite.StartTime,
			&fin)
		if err != nil {
			rows.Close()
			return tramites, fmt.Errorf("getTramitesWithSelect: %s", err)
		}
		tramite.VesselATA = nullTimePtr(ata)
		tramite.EndTime = nullTimePtr(fin)
		tramites = append(tramites, &tramite)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return tramites, fmt.Errorf("getTramitesWithSelect: %s", err)
	}
	rows.Close()

	for _, tramite := range tramites {
		rows, err := sdb.Select("estado", "registrado").
			From("tramite_evento").
			Where(sq.Eq{"tramite_id": tramite.ID}).
			OrderBy("registrado ASC").
			RunWith(tx).Query()
		if err != nil {
			return tramites, fmt.Errorf("getTramitesWithSelect: %s", err)
		}
		for rows.Next() {
			var event TramiteEvent
			if err := rows.Scan(&event.Estado, &event.Time); err != nil {
				rows.Close()
				return tramites, fmt.Errorf("getTramitesWithSelect: %s", err)
			}
			tramite.Events = append(tramite.Events, event)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return tramites, fmt.Errorf("getTramitesWithSelect: %s", err)
		}
		rows.Close()
	}
	return tramites, nil
}
