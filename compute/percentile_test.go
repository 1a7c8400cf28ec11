package compute

import (
	"testing"
)

func TestPercentile(t *testing.T) {
	samples := []float64{10, 20, 30, 40, 50}

	tests := []struct {
		name    string
		samples []float64
		p       float64
		want    float64
	}{
		{"median of five", samples, 50, 30.0},
		{"p90 interpolates between 40 and 50", samples, 90, 46.0},
		{"p0 is the minimum", samples, 0, 10.0},
		{"p100 is the maximum", samples, 100, 50.0},
		{"empty sample set", []float64{}, 50, 0.0},
		{"single sample p10", []float64{7.5}, 10, 7.5},
		{"single sample p99", []float64{7.5}, 99, 7.5},
		{"unsorted input", []float64{50, 10, 40, 20, 30}, 50, 30.0},
		{"two samples interpolate", []float64{10, 20}, 50, 15.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(tt.samples, tt.p); got != tt.want {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.samples, tt.p, got, tt.want)
			}
		})
	}
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	samples := []float64{30, 10, 20}
	Percentile(samples, 50)
	if samples[0] != 30 || samples[1] != 10 || samples[2] != 20 {
		t.Errorf("input slice was reordered: %v", samples)
	}
}
