package compute

import (
	"testing"
	"time"
)

func TestPreviousPeriod(t *testing.T) {
	from := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	prevFrom, prevTo := PreviousPeriod(from, to)
	if !prevTo.Equal(from) {
		t.Errorf("previous period must end exactly at from, got %v", prevTo)
	}
	if !prevFrom.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("previous period start = %v, want 2025-03-01", prevFrom)
	}
}

func TestCompareKPI(t *testing.T) {
	t.Run("halved turnaround is favorable", func(t *testing.T) {
		c := CompareKPI("turnaround_promedio_h", 24, 48, 36, true)
		if c.VariacionPct != -50.0 {
			t.Errorf("variacion_pct = %v, want -50.0", c.VariacionPct)
		}
		if c.Diferencia != -24.0 {
			t.Errorf("diferencia = %v, want -24.0", c.Diferencia)
		}
		if c.Tendencia != TendenciaBaja {
			t.Errorf("tendencia = %s, want %s", c.Tendencia, TendenciaBaja)
		}
		if !c.Favorable {
			t.Errorf("going down is favorable for a lower-is-better metric")
		}
		if !c.CumpleMeta {
			t.Errorf("24 <= goal 36 must satisfy the goal")
		}
	})

	t.Run("zero previous reports zero percent change", func(t *testing.T) {
		c := CompareKPI("espera_promedio_h", 3, 0, 2, true)
		if c.VariacionPct != 0.0 {
			t.Errorf("variacion_pct = %v, want 0.0 (not Inf)", c.VariacionPct)
		}
		if c.Tendencia != TendenciaSube {
			t.Errorf("tendencia = %s, want %s", c.Tendencia, TendenciaSube)
		}
		if c.Favorable {
			t.Errorf("going up is unfavorable for a lower-is-better metric")
		}
		if c.CumpleMeta {
			t.Errorf("3 > goal 2 must not satisfy the goal")
		}
	})

	t.Run("higher-is-better compliance", func(t *testing.T) {
		c := CompareKPI("cumplimiento_pct", 95, 90, 90, false)
		if c.Tendencia != TendenciaSube || !c.Favorable || !c.CumpleMeta {
			t.Errorf("unexpected comparison: %+v", c)
		}
	})

	t.Run("flat trend", func(t *testing.T) {
		c := CompareKPI("aprobacion_pct", 80, 80, 95, false)
		if c.Tendencia != TendenciaEstable || !c.Favorable {
			t.Errorf("unexpected comparison: %+v", c)
		}
		if c.CumpleMeta {
			t.Errorf("80 < goal 95 must not satisfy the goal")
		}
	})
}
