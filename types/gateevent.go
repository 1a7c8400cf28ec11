package types

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gbl08ma/sqalx"
)

// Gate event actions
const (
	AccionEntrada = "ENTRADA"
	AccionSalida  = "SALIDA"
)

// GateEvent represents a timestamped truck movement through a gate (porton).
// AppointmentID is empty for movements not linked to a cita.
type GateEvent struct {
	ID            string
	Timestamp     time.Time
	Action        string
	GateID        string
	GateName      string
	TruckPlate    string
	AppointmentID string
	CompanyID     string
}

// GetGateEventsBetween returns the gate events recorded within [from, to] in
// chronological order, with dimension filters and company scope applied
func GetGateEventsBetween(node sqalx.Node, filter *ReportFilter, user *User) ([]*GateEvent, error) {
	s := sdb.Select().
		Where(sq.Expr("evento_porton.registrado BETWEEN ? AND ?", filter.From, filter.To)).
		OrderBy("evento_porton.registrado ASC")
	if filter.GateID != "" {
		s = s.Where(sq.Eq{"evento_porton.porton_id": filter.GateID})
	}
	if filter.CompanyID != "" {
		s = s.Where(sq.Eq{"camion.empresa_id": filter.CompanyID})
	}
	if scope := CompanyScope(user, "camion.empresa_id"); scope != nil {
		s = s.Where(scope)
	}
	return getGateEventsWithSelect(node, s)
}

func getGateEventsWithSelect(node sqalx.Node, sbuilder sq.SelectBuilder) ([]*GateEvent, error) {
	events := []*GateEvent{}

	tx, err := node.Beginx()
	if err != nil {
		return events, err
	}
	defer tx.Commit() // read-only tx

	rows, err := sbuilder.Columns("evento_porton.id", "evento_porton.registrado",
		"evento_porton.accion", "evento_porton.porton_id", "porton.nombre",
		"camion.placa", "evento_porton.cita_id", "camion.empresa_id").
		From("evento_porton").
		Join("porton ON porton.id = evento_porton.porton_id").
		Join("camion ON camion.id = evento_porton.camion_id").
		RunWith(tx).Query()
	if err != nil {
		return events, fmt.Errorf("getGateEventsWithSelect: %s", err)
	}
	defer rows.Close()

	for rows.Next() {
		var event GateEvent
		var citaID sql.NullString
		err := rows.Scan(
			&event.ID,
			&event.Timestamp,
			&event.Action,
			&event.GateID,
			&event.GateName,
			&event.TruckPlate,
			&citaID,
			&event.CompanyID)
		if err != nil {
			return events, fmt.Errorf("getGateEventsWithSelect: %s", err)
		}
		event.AppointmentID = citaID.String
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return events, fmt.Errorf("getGateEventsWithSelect: %s", err)
	}
	return events, nil
}
