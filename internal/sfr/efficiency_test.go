package sfr

import (
	"errors"
	"testing"
)

func efficiencyCurve() (freqs, mtf []float64) {
	freqs = []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	mtf = []float64{1, 0.8, 0.5, 0.3, 0.15, 0.1, 0.05, 0.03, 0.02, 0.01, 0}
	return freqs, mtf
}

func TestSamplingEfficiency(t *testing.T) {
	freqs, mtf := efficiencyCurve()

	res, diags, err := SamplingEfficiency(freqs, mtf, []float64{0.2, 0.5}, 0.1)
	if err != nil {
		t.Fatalf("SamplingEfficiency failed: %v", err)
	}

	if !approxEqual(res.ThresholdFrequencies[0], 3+0.1/0.15, 1e-9) {
		t.Errorf("f(0.2): got %v, want 3.6667", res.ThresholdFrequencies[0])
	}
	if !approxEqual(res.ThresholdFrequencies[1], 2, 1e-9) {
		t.Errorf("f(0.5): got %v, want 2", res.ThresholdFrequencies[1])
	}
	if !approxEqual(res.ThresholdMagnitudes[0], 0.2, 1e-9) {
		t.Errorf("m(0.2): got %v, want 0.2", res.ThresholdMagnitudes[0])
	}
	if res.HalfSamplingFrequency != 5 {
		t.Errorf("half sampling: got %v, want 5", res.HalfSamplingFrequency)
	}
	if res.EfficiencyPercent != 92 {
		t.Errorf("efficiency: got %v, want 92", res.EfficiencyPercent)
	}
	if !diags.Has(WeakEfficiencyBasis) {
		t.Error("expected WeakEfficiencyBasis for lowest threshold 0.2")
	}
}

func TestSamplingEfficiency_DefaultThresholds(t *testing.T) {
	freqs, mtf := efficiencyCurve()

	res, diags, err := SamplingEfficiency(freqs, mtf, DefaultContrastThresholds, 0.1)
	if err != nil {
		t.Fatalf("SamplingEfficiency failed: %v", err)
	}
	if diags.Has(WeakEfficiencyBasis) {
		t.Error("unexpected WeakEfficiencyBasis for threshold 0.1")
	}
	// MTF reaches 0.1 at 5 lp/mm, past the cutoff sample at 4.
	if res.EfficiencyPercent != 100 {
		t.Errorf("efficiency: got %v, want 100", res.EfficiencyPercent)
	}
}

func TestSamplingEfficiency_NeverCrosses(t *testing.T) {
	freqs := []float64{0, 1, 2, 3}
	mtf := []float64{1, 0.9, 0.8, 0.7}

	res, _, err := SamplingEfficiency(freqs, mtf, []float64{0.5}, 0.1)
	if err != nil {
		t.Fatalf("SamplingEfficiency failed: %v", err)
	}
	if res.ThresholdFrequencies[0] != 3 || res.ThresholdMagnitudes[0] != 0.7 {
		t.Errorf("clamp: got (%v, %v), want (3, 0.7)", res.ThresholdFrequencies[0], res.ThresholdMagnitudes[0])
	}
	if res.EfficiencyPercent < 0 || res.EfficiencyPercent > 100 {
		t.Errorf("efficiency %v outside [0, 100]", res.EfficiencyPercent)
	}
}

func TestSamplingEfficiency_Errors(t *testing.T) {
	tests := []struct {
		name       string
		freqs, mtf []float64
		thresholds []float64
		want       error
	}{
		{"below at zero", []float64{0, 1, 2}, []float64{0.3, 0.2, 0.1}, []float64{0.5}, ErrThresholdNotReached},
		{"single sample", []float64{0}, []float64{1}, []float64{0.5}, ErrThresholdNotReached},
		{"length mismatch", []float64{0, 1}, []float64{1}, []float64{0.5}, ErrInvalidInput},
		{"threshold of one", []float64{0, 1}, []float64{1, 0.5}, []float64{1}, ErrInvalidInput},
		{"no thresholds", []float64{0, 1}, []float64{1, 0.5}, nil, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := SamplingEfficiency(tt.freqs, tt.mtf, tt.thresholds, 0.1)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
