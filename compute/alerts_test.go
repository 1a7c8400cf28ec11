package compute

import (
	"testing"

	"github.com/zoobzio/clockz"
)

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		threshold float64
		want      string
	}{
		{"well below", 40, 85, SeveridadVerde},
		{"exactly at threshold", 85, 85, SeveridadVerde},
		{"inside yellow band", 90, 85, SeveridadAmarillo},
		{"top of yellow band", 97.75, 85, SeveridadAmarillo},
		{"above the band", 98, 85, SeveridadRojo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := severityFor(tt.value, tt.threshold, 1.15); got != tt.want {
				t.Errorf("severityFor(%v, %v) = %s, want %s", tt.value, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestEvaluateAlerts(t *testing.T) {
	th := DefaultThresholds()
	now := clockz.NewFakeClock().Now()

	alerts := EvaluateAlerts(90, 5, th, now)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}

	congestion := alerts[0]
	if congestion.Tipo != AlertaCongestionAmarradero || congestion.Severidad != SeveridadAmarillo {
		t.Errorf("unexpected congestion alert: %+v", congestion)
	}
	if congestion.Valor != 90.0 || congestion.Umbral != 85.0 {
		t.Errorf("unexpected congestion values: %+v", congestion)
	}

	waiting := alerts[1]
	if waiting.Tipo != AlertaEsperaCamiones || waiting.Severidad != SeveridadRojo {
		t.Errorf("unexpected waiting alert: %+v", waiting)
	}
	if !waiting.Registrado.Equal(now) {
		t.Errorf("alert timestamp must come from the injected clock")
	}
	if waiting.ID == "" || waiting.ID == congestion.ID {
		t.Errorf("alerts need distinct IDs")
	}
}

func TestEvaluateAlertsAllGreen(t *testing.T) {
	th := DefaultThresholds()
	report := buildAlertReport(50, 1, 1, th, clockz.NewFakeClock().Now())

	if got := report.KPIs["alertas_activas"]; got != 0 {
		t.Errorf("alertas_activas = %v, want 0", got)
	}
	if got := report.KPIs["alertas_total"]; got != 2 {
		t.Errorf("alertas_total = %v, want 2", got)
	}
	for _, alert := range report.Alertas {
		if alert.Severidad != SeveridadVerde {
			t.Errorf("expected all green, got %+v", alert)
		}
	}
}
