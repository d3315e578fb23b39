package sfr

import (
	"errors"
	"math"
	"testing"
)

func TestProject_Length(t *testing.T) {
	img := stepEdgeImage(t, 64, 64, 26, 0.2, 0, 255)

	for _, fac := range []int{1, 2, 4, 8} {
		esf, _, err := Project(img, 0.2, fac)
		if err != nil {
			t.Fatalf("fac %d: Project failed: %v", fac, err)
		}
		if len(esf) != 64*fac {
			t.Errorf("fac %d: ESF length %d, want %d", fac, len(esf), 64*fac)
		}
	}
}

func TestProject_StepProfile(t *testing.T) {
	img := stepEdgeImage(t, 64, 64, 26, 0.2, 0, 255)

	esf, diags, err := Project(img, 0.2, 4)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if diags.Has(ZeroBinCount) {
		t.Errorf("unexpected zero bins: %v", diags)
	}

	if esf[0] != 0 {
		t.Errorf("dark side: got %v, want 0", esf[0])
	}
	if esf[len(esf)-1] != 255 {
		t.Errorf("bright side: got %v, want 255", esf[len(esf)-1])
	}
	for i := 1; i < len(esf); i++ {
		if esf[i] < esf[i-1]-1e-9 {
			t.Fatalf("ESF not monotonic at %d: %v < %v", i, esf[i], esf[i-1])
		}
	}
}

func TestProject_NegativeSlope(t *testing.T) {
	img := mirrored(t, stepEdgeImage(t, 64, 64, 26, 0.2, 0, 255))

	esf, _, err := Project(img, -0.2, 4)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(esf) != 256 {
		t.Fatalf("ESF length %d, want 256", len(esf))
	}
	if esf[0] != 255 || esf[len(esf)-1] != 0 {
		t.Errorf("bright-left ESF ends: got %v .. %v", esf[0], esf[len(esf)-1])
	}
}

func TestProject_ZeroBins(t *testing.T) {
	// A nearly vertical edge over 4 rows fills only every 4th bin.
	img := stepEdgeImage(t, 16, 4, 8, 0, 0, 255)

	esf, diags, err := Project(img, 0.01, 4)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if n := diags.Count(ZeroBinCount); n != 48 {
		t.Errorf("zero bin diagnostics: got %d, want 48", n)
	}
	for i, v := range esf {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("ESF[%d] is not finite: %v", i, v)
		}
	}
}

func TestProject_Degenerate(t *testing.T) {
	img := stepEdgeImage(t, 32, 16, 16, 0, 0, 255)

	tests := []struct {
		name  string
		slope float64
	}{
		{"zero", 0},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Project(img, tt.slope, 4)
			if !errors.Is(err, ErrDegenerateEdge) {
				t.Errorf("got %v, want ErrDegenerateEdge", err)
			}
		})
	}
}

func TestProject_InvalidFactor(t *testing.T) {
	img := stepEdgeImage(t, 32, 16, 16, 0.1, 0, 255)

	for _, fac := range []int{0, -1, MaxBinningFactor + 1, 1 << 40, 1 << 58} {
		_, _, err := Project(img, 0.1, fac)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("fac %d: got %v, want ErrInvalidInput", fac, err)
		}
	}

	if _, _, err := Project(img, 0.1, MaxBinningFactor); err != nil {
		t.Errorf("fac %d should be accepted: %v", MaxBinningFactor, err)
	}
}

func TestProject_SteepSlopeTooManyBins(t *testing.T) {
	img := stepEdgeImage(t, 32, 16, 16, 0.1, 0, 255)

	_, _, err := Project(img, 1e9, 4)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestBinGrid_Bounds(t *testing.T) {
	b := newBinGrid(4)
	if err := b.add(3, 1); err != nil {
		t.Errorf("add in range failed: %v", err)
	}
	if err := b.add(4, 1); err == nil {
		t.Error("add past end should fail")
	}
	if err := b.add(-1, 1); err == nil {
		t.Error("add before start should fail")
	}
	if b.countAt(10) != 0 {
		t.Error("countAt outside grid should be 0")
	}
}
