package sfr

import (
	"errors"
	"testing"
)

func TestFir2Fix(t *testing.T) {
	c := Fir2Fix(129, 3)
	if len(c) != 129 {
		t.Fatalf("length: got %d, want 129", len(c))
	}
	if c[0] != 1 {
		t.Errorf("c[0]: got %v, want 1", c[0])
	}
	for i, v := range c {
		if v < 1 || v > maxCorrection {
			t.Errorf("c[%d] = %v outside [1, %v]", i, v, maxCorrection)
		}
	}
	if c[len(c)-1] != maxCorrection {
		t.Errorf("last element: got %v, want clamp %v", c[len(c)-1], maxCorrection)
	}
	for i := 2; i < len(c); i++ {
		if c[i] < c[i-1] {
			t.Fatalf("correction not increasing at %d", i)
		}
	}

	if Fir2Fix(0, 3) != nil {
		t.Error("Fir2Fix(0) should be nil")
	}
}

func TestComputeSpectrum_Step(t *testing.T) {
	img := stepEdgeImage(t, 64, 64, 26, 0.2, 0, 255)
	esf, _, err := Project(img, 0.2, 4)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	sp, err := ComputeSpectrum(esf, 0.2, 0.002, 4, false)
	if err != nil {
		t.Fatalf("ComputeSpectrum failed: %v", err)
	}
	if sp.MTF[0] != 1 {
		t.Errorf("MTF[0]: got %v, want 1", sp.MTF[0])
	}
	if len(sp.Frequencies) != len(sp.MTF) {
		t.Fatalf("frequencies %d vs MTF %d", len(sp.Frequencies), len(sp.MTF))
	}
	if len(sp.MTF) != 64 {
		t.Errorf("MTF length: got %d, want 64", len(sp.MTF))
	}
	if sp.CorrectedInterval != 0.002 {
		t.Errorf("corrected interval: got %v, want 0.002", sp.CorrectedInterval)
	}
	if !approxEqual(sp.Frequencies[1], 7.8125, 1e-9) {
		t.Errorf("frequency step: got %v, want 7.8125", sp.Frequencies[1])
	}
	if len(sp.PSF) != len(esf) {
		t.Errorf("PSF length: got %d, want %d", len(sp.PSF), len(esf))
	}
}

func TestComputeSpectrum_FlatESF(t *testing.T) {
	esf := make([]float64, 64)
	for i := range esf {
		esf[i] = 128
	}
	_, err := ComputeSpectrum(esf, 0.2, 0.002, 4, false)
	if !errors.Is(err, ErrDegenerateEdge) {
		t.Errorf("got %v, want ErrDegenerateEdge", err)
	}
}

func TestComputeSpectrum_InvalidInput(t *testing.T) {
	esf := []float64{0, 0, 0, 1, 1, 1, 1, 1}

	tests := []struct {
		name  string
		esf   []float64
		pitch float64
		fac   int
	}{
		{"short esf", esf[:3], 0.002, 4},
		{"zero pitch", esf, 0, 4},
		{"zero factor", esf, 0.002, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeSpectrum(tt.esf, 0.2, tt.pitch, tt.fac, false)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}
