package compute

import (
	"time"
)

// Trend glyphs
const (
	TendenciaSube    = "▲"
	TendenciaBaja    = "▼"
	TendenciaEstable = "▬"
)

// KPIComparison is one KPI compared against the immediately preceding period
// of identical length and against its configured goal
type KPIComparison struct {
	Nombre       string  `msgpack:"nombre" json:"nombre"`
	Actual       float64 `msgpack:"actual" json:"actual"`
	Anterior     float64 `msgpack:"anterior" json:"anterior"`
	Diferencia   float64 `msgpack:"diferencia" json:"diferencia"`
	VariacionPct float64 `msgpack:"variacionPct" json:"variacion_pct"`
	Tendencia    string  `msgpack:"tendencia" json:"tendencia"`
	Favorable    bool    `msgpack:"favorable" json:"favorable"`
	Meta         float64 `msgpack:"meta" json:"meta"`
	CumpleMeta   bool    `msgpack:"cumpleMeta" json:"cumple_meta"`
}

// PreviousPeriod returns the period of identical duration ending exactly at
// from
func PreviousPeriod(from, to time.Time) (time.Time, time.Time) {
	return from.Add(-to.Sub(from)), from
}

// CompareKPI builds the comparison record for one KPI. A zero previous value
// reports a 0 percent change rather than dividing by it.
func CompareKPI(nombre string, actual, anterior, meta float64, lowerIsBetter bool) KPIComparison {
	comparison := KPIComparison{
		Nombre:     nombre,
		Actual:     round2(actual),
		Anterior:   round2(anterior),
		Diferencia: round2(actual - anterior),
		Meta:       meta,
	}

	if anterior != 0 {
		comparison.VariacionPct = round2((actual - anterior) / anterior * 100)
	}

	switch {
	case actual > anterior:
		comparison.Tendencia = TendenciaSube
		comparison.Favorable = !lowerIsBetter
	case actual < anterior:
		comparison.Tendencia = TendenciaBaja
		comparison.Favorable = lowerIsBetter
	default:
		comparison.Tendencia = TendenciaEstable
		comparison.Favorable = true
	}

	if lowerIsBetter {
		comparison.CumpleMeta = actual <= meta
	} else {
		comparison.CumpleMeta = actual >= meta
	}
	return comparison
}
