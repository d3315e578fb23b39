package sfr

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Readout is the MTF interpolated at a requested spatial frequency.
type Readout struct {
	FrequencyLPMM float64 `json:"frequency_lp_mm"`
	MTF           float64 `json:"mtf"`
}

// Interpolator evaluates an MTF curve at arbitrary frequencies by linear
// interpolation. Frequencies outside the curve return the nearest end value.
type Interpolator struct {
	pl interp.PiecewiseLinear
}

// NewInterpolator fits a piecewise linear curve through (freqs, mtf).
// freqs must be strictly increasing with at least two samples.
func NewInterpolator(freqs, mtf []float64) (*Interpolator, error) {
	if len(freqs) != len(mtf) {
		return nil, invalidInput(fmt.Sprintf("frequency axis has %d samples, MTF has %d", len(freqs), len(mtf)))
	}
	if len(freqs) < 2 {
		return nil, invalidInput(fmt.Sprintf("readout needs at least 2 samples, got %d", len(freqs)))
	}
	ip := &Interpolator{}
	if err := ip.pl.Fit(freqs, mtf); err != nil {
		return nil, &Error{Kind: KindInvalidInput, Message: "cannot interpolate MTF curve", Cause: err}
	}
	return ip, nil
}

// At returns the interpolated MTF at frequency f (lp/mm).
func (ip *Interpolator) At(f float64) float64 {
	return ip.pl.Predict(f)
}

// ReadoutAt interpolates the MTF curve at every requested frequency.
func ReadoutAt(freqs, mtf, at []float64) ([]Readout, error) {
	if len(at) == 0 {
		return nil, nil
	}
	ip, err := NewInterpolator(freqs, mtf)
	if err != nil {
		return nil, err
	}
	out := make([]Readout, len(at))
	for i, f := range at {
		out[i] = Readout{FrequencyLPMM: f, MTF: ip.At(f)}
	}
	return out, nil
}
