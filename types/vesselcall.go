package types

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gbl08ma/sqalx"
	"github.com/lib/pq"
)

// VesselCall represents a scheduled or executed berth visit (recalada), as a
// flat read model with its vessel and berth already resolved. The actual
// timestamps are nil until the corresponding event is recorded.
type VesselCall struct {
	ID         string
	VesselID   string
	VesselName string
	BerthID    string
	BerthName  string
	ETA        time.Time
	ATA        *time.Time
	ETB        *time.Time
	ATB        *time.Time
	ATD        *time.Time
}

// GetVesselCallsBetween returns the vessel calls whose ETA falls within
// [from, to], with the filter's berth/vessel dimensions applied
func GetVesselCallsBetween(node sqalx.Node, filter *ReportFilter) ([]*VesselCall, error) {
	s := sdb.Select().
		Where(sq.Expr("recalada.eta BETWEEN ? AND ?", filter.From, filter.To)).
		OrderBy("recalada.eta ASC")
	if filter.BerthID != "" {
		s = s.Where(sq.Eq{"recalada.amarradero_id": filter.BerthID})
	}
	if filter.VesselID != "" {
		s = s.Where(sq.Eq{"recalada.nave_id": filter.VesselID})
	}
	return getVesselCallsWithSelect(node, s)
}

func getVesselCallsWithSelect(node sqalx.Node, sbuilder sq.SelectBuilder) ([]*VesselCall, error) {
	calls := []*VesselCall{}

	tx, err := node.Beginx()
	if err != nil {
		return calls, err
	}
	defer tx.Commit() // read-only tx

	rows, err := sbuilder.Columns("recalada.id", "recalada.nave_id", "nave.nombre",
		"recalada.amarradero_id", "amarradero.nombre",
		"recalada.eta", "recalada.ata", "recalada.etb", "recalada.atb", "recalada.atd").
		From("recalada").
		Join("nave ON nave.id = recalada.nave_id").
		Join("amarradero ON amarradero.id = recalada.amarradero_id").
		RunWith(tx).Query()
	if err != nil {
		return calls, fmt.Errorf("getVesselCallsWithSelect: %s", err)
	}
	defer rows.Close()

	for rows.Next() {
		var call VesselCall
		var ata, etb, atb, atd pq.NullTime
		err := rows.Scan(
			&call.ID,
			&call.VesselID,
			&call.VesselName,
			&call.BerthID,
			&call.BerthName,
			&call.ETA,
			&ata,
			&etb,
			&atb,
			&atd)
		if err != nil {
			return calls, fmt.Errorf("getVesselCallsWithSelect: %s", err)
		}
		call.ATA = nullTimePtr(ata)
		call.ETB = nullTimePtr(etb)
		call.ATB = nullTimePtr(atb)
		call.ATD = nullTimePtr(atd)
		calls = append(calls, &call)
	}
	if err := rows.Err(); err != nil {
		return calls, fmt.Errorf("getVesselCallsWithSelect: %s", err)
	}
	return calls, nil
}

func nullTimePtr(t pq.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
