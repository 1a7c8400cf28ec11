package types

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gbl08ma/sqalx"
	"github.com/lib/pq"
)

// Appointment statuses
const (
	CitaProgramada = "PROGRAMADA"
	CitaAtendida   = "ATENDIDA"
	CitaNoShow     = "NO_SHOW"
)

// CitaEstados lists the valid appointment statuses
var CitaEstados = []string{CitaProgramada, CitaAtendida, CitaNoShow}

// Appointment represents a truck's scheduled gate visit (cita), with truck and
// company resolved. Arrival is nil until the truck shows up; a NO_SHOW cita
// never gets one.
type Appointment struct {
	ID           string
	Scheduled    time.Time
	Arrival      *time.Time
	Status       string
	TruckPlate   string
	CompanyID    string
	CompanyName  string
	VesselCallID string
}

// GetAppointmentsBetween returns the appointments scheduled within [from, to],
// with dimension filters and the user's company scope applied
func GetAppointmentsBetween(node sqalx.Node, filter *ReportFilter, user *User) ([]*Appointment, error) {
	s := sdb.Select().
		Where(sq.Expr("cita.programada BETWEEN ? AND ?", filter.From, filter.To)).
		OrderBy("cita.programada ASC")
	if filter.CompanyID != "" {
		s = s.Where(sq.Eq{"cita.empresa_id": filter.CompanyID})
	}
	if filter.VesselID != "" {
		s = s.Where(sq.Eq{"recalada.nave_id": filter.VesselID})
	}
	if scope := CompanyScope(user, "cita.empresa_id"); scope != nil {
		s = s.Where(scope)
	}
	return getAppointmentsWithSelect(node, s)
}

func getAppointmentsWithSelect(node sqalx.Node, sbuilder sq.SelectBuilder) ([]*Appointment, error) {
	citas := []*Appointment{}

	tx, err := node.Beginx()
	if err != nil {
		return citas, err
	}
	defer tx.Commit() // read-only tx

	rows, err := sbuilder.Columns("cita.id", "cita.programada", "cita.llegada",
		"cita.estado", "camion.placa", "cita.empresa_id", "empresa.nombre",
		"cita.recalada_id").
		From("cita").
		Join("camion ON camion.id = cita.camion_id").
		Join("empresa ON empresa.id = cita.empresa_id").
		LeftJoin("recalada ON recalada.id = cita.recalada_id").
		RunWith(tx).Query()
	if err != nil {
		return citas, fmt.Errorf("getAppointmentsWithSelect: %s", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cita Appointment
		var llegada pq.NullTime
		var recaladaID sql.NullString
		err := rows.Scan(
			&cita.ID,
			&cita.Scheduled,
			&llegada,
			&cita.Status,
			&cita.TruckPlate,
			&cita.CompanyID,
			&cita.CompanyName,
			&recaladaID)
		if err != nil {
			return citas, fmt.Errorf("getAppointmentsWithSelect: %s", err)
		}
		cita.Arrival = nullTimePtr(llegada)
		cita.VesselCallID = recaladaID.String
		citas = append(citas, &cita)
	}
	if err := rows.Err(); err != nil {
		return citas, fmt.Errorf("getAppointmentsWithSelect: %s", err)
	}
	return citas, nil
}
