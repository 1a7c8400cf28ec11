package types

import (
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/thoas/go-funk"
)

// ReportFilter is the validated filter set for a report request. From/To are
// mandatory and bound the report's primary timestamp field; the dimension
// fields are optional and ignored when empty.
type ReportFilter struct {
	From time.Time
	To   time.Time

	BerthID   string
	VesselID  string
	CompanyID string
	GateID    string
	EntidadID string
	Regimen   string
	Estado    string
}

// Validate checks the filter once at the boundary. Reports never start
// computing on an invalid filter.
func (f *ReportFilter) Validate() error {
	if f.From.IsZero() || f.To.IsZero() {
		return errors.New("filter: date range is mandatory")
	}
	if f.To.Before(f.From) {
		return fmt.Errorf("filter: range end %s precedes start %s",
			f.To.Format(time.RFC3339), f.From.Format(time.RFC3339))
	}
	if f.Regimen != "" && !funk.ContainsString(Regimenes, f.Regimen) {
		return fmt.Errorf("filter: unknown regimen %q", f.Regimen)
	}
	if f.Estado != "" && !funk.ContainsString(TramiteEstados, f.Estado) {
		return fmt.Errorf("filter: unknown estado %q", f.Estado)
	}
	return nil
}

// User is the caller context resolved by the authorization collaborator.
type User struct {
	ID        string
	Role      string
	CompanyID string
}

// RoleTransportista is the restricted carrier role; its users only see their
// own company's appointments and gate movements.
const RoleTransportista = "TRANSPORTISTA"

// IsCarrier reports whether this user is subject to company scoping.
func (u *User) IsCarrier() bool {
	return u != nil && u.Role == RoleTransportista
}

// CompanyScope returns the predicate restricting a query to what the user may
// see, or nil when no restriction applies. A carrier without an assigned
// company gets an always-false predicate so the scoped query deterministically
// returns zero rows.
func CompanyScope(user *User, column string) sq.Sqlizer {
	if !user.IsCarrier() {
		return nil
	}
	if user.CompanyID == "" {
		return sq.Expr("FALSE")
	}
	return sq.Eq{column: user.CompanyID}
}

// CanSeeCompany is the in-memory counterpart of CompanyScope, used when
// scoping already-fetched records.
func (u *User) CanSeeCompany(companyID string) bool {
	if !u.IsCarrier() {
		return true
	}
	return u.CompanyID != "" && u.CompanyID == companyID
}
