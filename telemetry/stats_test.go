package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSeriesStats(t *testing.T) {
	values := []float64{10, 2, 4, 8, 6}
	s := ComputeSeriesStats(values)

	if math.Abs(s.Mean-6) > 1e-9 {
		t.Errorf("mean = %v, want 6", s.Mean)
	}
	// Sample standard deviation of {2,4,6,8,10}
	wantStd := math.Sqrt(10)
	if math.Abs(s.Std-wantStd) > 1e-9 {
		t.Errorf("std = %v, want %v", s.Std, wantStd)
	}
	if math.Abs(s.CV-wantStd/6) > 1e-9 {
		t.Errorf("cv = %v, want %v", s.CV, wantStd/6)
	}
	if s.Min != 2 || s.Max != 10 {
		t.Errorf("min/max = %v/%v, want 2/10", s.Min, s.Max)
	}
	if math.Abs(s.P50-6) > 1e-9 {
		t.Errorf("p50 = %v, want 6", s.P50)
	}

	// Input must not be reordered
	if values[0] != 10 {
		t.Error("ComputeSeriesStats sorted the caller's slice")
	}
}

func TestComputeSeriesStats_Degenerate(t *testing.T) {
	if s := ComputeSeriesStats(nil); s != (SeriesStats{}) {
		t.Errorf("empty = %+v, want zero", s)
	}

	single := ComputeSeriesStats([]float64{7})
	if single.Mean != 7 || single.Std != 0 || single.CV != 0 {
		t.Errorf("single = %+v, want mean 7 and no spread", single)
	}

	zeros := ComputeSeriesStats([]float64{0, 0, 0})
	if zeros.CV != 0 {
		t.Errorf("cv of zero series = %v, want 0", zeros.CV)
	}
}

func TestWindowStats_WastedFraction(t *testing.T) {
	tests := []struct {
		regrowth, wasted, want float64
	}{
		{0, 0, 0},
		{100, 0, 0},
		{100, 25, 0.25},
		{100, 100, 1},
	}
	for _, tt := range tests {
		s := WindowStats{CarrotRegrowth: tt.regrowth, CarrotWasted: tt.wasted}
		if got := s.WastedFraction(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WastedFraction(%v, %v) = %v, want %v", tt.regrowth, tt.wasted, got, tt.want)
		}
	}
}
