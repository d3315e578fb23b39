package sfr

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// maxCorrection caps the derivative roll-off correction.
const maxCorrection = 10.0

// Spectrum is the frequency-domain part of a calculation.
type Spectrum struct {
	// PSF is the re-centred, windowed derivative of the ESF.
	PSF []float64 `json:"psf"`
	// Frequencies in cycles (line pairs) per mm, truncated at the output cutoff.
	Frequencies []float64 `json:"frequencies"`
	// MTF values matching Frequencies; MTF[0] is 1.
	MTF []float64 `json:"mtf"`
	// CorrectedInterval is the pixel pitch in mm scaled by cos(edge angle).
	CorrectedInterval float64 `json:"corrected_interval_mm"`
}

// Fir2Fix returns the frequency-domain correction for the MTF of an n-sample
// half spectrum after differentiation with an m-tap finite-difference filter.
// The first element is always 1 and no element exceeds 10.
func Fir2Fix(n, m int) []float64 {
	if n <= 0 {
		return nil
	}
	correct := make([]float64, n)
	m--
	const scale = 1.0
	for i := 1; i < n; i++ {
		x := math.Pi * float64(i) * float64(m) / (2.0 * (float64(n) + 1.0))
		c := math.Abs(x / math.Sin(x))
		c = round4(1.0 + scale*(c-1.0))
		if c > maxCorrection || math.IsNaN(c) {
			c = maxCorrection
		}
		correct[i] = c
	}
	correct[0] = 1
	return correct
}

// ComputeSpectrum derives the PSF and MTF from an oversampled ESF.
//
// slope is the fitted edge slope, samplingIntervalMM the pixel pitch and fac
// the oversampling factor used to build esf. brightLeft selects the derivative
// polarity; it must match the edge the ESF was projected from.
func ComputeSpectrum(esf []float64, slope, samplingIntervalMM float64, fac int, brightLeft bool) (*Spectrum, error) {
	if len(esf) < 4 {
		return nil, invalidInput(fmt.Sprintf("ESF needs at least 4 samples, got %d", len(esf)))
	}
	if fac <= 0 {
		return nil, invalidInput(fmt.Sprintf("binning factor must be positive, got %d", fac))
	}
	if !(samplingIntervalMM > 0) {
		return nil, invalidInput(fmt.Sprintf("sampling interval must be positive, got %v", samplingIntervalMM))
	}
	return computeSpectrum(esf, kernelsFor(brightLeft).esfKernel, slope, samplingIntervalMM, fac)
}

func computeSpectrum(esf, kernel []float64, slope, samplingIntervalMM float64, fac int) (*Spectrum, error) {
	n := len(esf)

	psf := esfDerivative(esf, kernel)
	center := int(math.RoundToEven(centroid(psf)))
	psf = recenter(psf, center)
	psf = multiply(psf, hammingWindow(n, float64(n+1)/2))

	spectrum := fft.FFTReal(psf)
	dc := cmplx.Abs(spectrum[0])
	if dc == 0 || math.IsNaN(dc) {
		return nil, degenerateEdge("PSF has no DC response; the ESF contains no edge")
	}

	half := n / 2
	n2 := half + 1
	correction := Fir2Fix(n2, 3)
	mtf := make([]float64, half)
	for i := range mtf {
		mtf[i] = cmplx.Abs(spectrum[i]) / dc * correction[i]
	}

	// Tilted edge: the pixel pitch across the edge is shorter by cos(angle).
	delfac := round4(math.Cos(math.Atan(slope)))
	del := round4(samplingIntervalMM * delfac)
	if del <= 0 {
		return nil, invalidInput(fmt.Sprintf("sampling interval %v mm rounds to zero after angle correction", samplingIntervalMM))
	}

	freqlim := 1.0
	if fac == 1 {
		freqlim = 2
	}
	nOut := int(math.RoundToEven(float64(n2) * freqlim / 2))
	nOut = min(nOut, len(mtf))

	freqs := make([]float64, nOut)
	for i := range freqs {
		freqs[i] = float64(fac) * float64(i) / (del * float64(n))
	}

	return &Spectrum{
		PSF:               psf,
		Frequencies:       freqs,
		MTF:               mtf[:nOut],
		CorrectedInterval: del,
	}, nil
}
