package types

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
)

func TestReportFilterValidate(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filter  ReportFilter
		wantErr bool
	}{
		{"valid range", ReportFilter{From: from, To: to}, false},
		{"missing range", ReportFilter{}, true},
		{"inverted range", ReportFilter{From: to, To: from}, true},
		{"valid regimen", ReportFilter{From: from, To: to, Regimen: RegimenImport}, false},
		{"unknown regimen", ReportFilter{From: from, To: to, Regimen: "REEXPORT"}, true},
		{"valid estado", ReportFilter{From: from, To: to, Estado: TramiteAprobado}, false},
		{"unknown estado", ReportFilter{From: from, To: to, Estado: "PERDIDO"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompanyScope(t *testing.T) {
	t.Run("unscoped roles get no predicate", func(t *testing.T) {
		if got := CompanyScope(&User{ID: "u1", Role: "ADMIN"}, "cita.empresa_id"); got != nil {
			t.Errorf("expected nil predicate, got %v", got)
		}
		if got := CompanyScope(nil, "cita.empresa_id"); got != nil {
			t.Errorf("expected nil predicate for anonymous caller, got %v", got)
		}
	})

	t.Run("carrier is scoped to its company", func(t *testing.T) {
		scope := CompanyScope(&User{ID: "u1", Role: RoleTransportista, CompanyID: "e7"}, "cita.empresa_id")
		query, args, err := sq.Select("*").From("cita").Where(scope).ToSql()
		if err != nil {
			t.Fatal(err)
		}
		if want := "SELECT * FROM cita WHERE cita.empresa_id = ?"; query != want {
			t.Errorf("query = %q, want %q", query, want)
		}
		if len(args) != 1 || args[0] != "e7" {
			t.Errorf("args = %v, want [e7]", args)
		}
	})

	t.Run("carrier without company matches nothing", func(t *testing.T) {
		scope := CompanyScope(&User{ID: "u1", Role: RoleTransportista}, "cita.empresa_id")
		query, _, err := sq.Select("*").From("cita").Where(scope).ToSql()
		if err != nil {
			t.Fatal(err)
		}
		if want := "SELECT * FROM cita WHERE FALSE"; query != want {
			t.Errorf("query = %q, want %q", query, want)
		}
	})
}

func TestCanSeeCompany(t *testing.T) {
	admin := &User{ID: "u1", Role: "OPERACIONES"}
	carrier := &User{ID: "u2", Role: RoleTransportista, CompanyID: "e1"}
	orphan := &User{ID: "u3", Role: RoleTransportista}

	if !admin.CanSeeCompany("e9") {
		t.Errorf("non-carrier roles see every company")
	}
	if !carrier.CanSeeCompany("e1") || carrier.CanSeeCompany("e2") {
		t.Errorf("carrier must see exactly its own company")
	}
	if orphan.CanSeeCompany("e1") || orphan.CanSeeCompany("") {
		t.Errorf("carrier without company sees nothing")
	}
}
