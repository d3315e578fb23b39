package sfr

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/edge-mtf-mcp/internal/logger"
)

const (
	// MinWidth covers the 5 + 6 border columns used by the contrast check.
	MinWidth = 11
	// MinHeight is the fewest rows that give a usable edge line fit.
	MinHeight = 4

	// DefaultBinningFactor is the ESF oversampling used when none is given.
	DefaultBinningFactor = 4
	// MaxBinningFactor is the largest accepted ESF oversampling.
	MaxBinningFactor = 64
)

// Options controls a Calculate call.
type Options struct {
	// SamplingIntervalMM is the pixel pitch in millimetres. Required.
	SamplingIntervalMM float64
	// BinningFactor is the ESF oversampling. Zero means DefaultBinningFactor.
	BinningFactor int
	// ContrastThresholds are the MTF levels used for sampling efficiency.
	// Empty means DefaultContrastThresholds.
	ContrastThresholds []float64
	// ReadoutFrequencies (lp/mm) at which to report interpolated MTF values.
	ReadoutFrequencies []float64
	// Logger receives debug output for each stage. Nil disables logging.
	Logger logrus.FieldLogger
}

// Result is the outcome of a slanted-edge MTF calculation.
type Result struct {
	ESF                 []float64        `json:"esf"`
	PSF                 []float64        `json:"psf"`
	NyquistFrequency    float64          `json:"nyquist_frequency"`
	Frequencies         []float64        `json:"frequencies"`
	MTF                 []float64        `json:"mtf"`
	Edge                EdgeModel        `json:"edge"`
	Contrast            ContrastResult   `json:"contrast"`
	SamplingEfficiency  EfficiencyResult `json:"sampling_efficiency"`
	Readouts            []Readout        `json:"readouts,omitempty"`
	BinningFactor       int              `json:"binning_factor"`
	SamplingIntervalMM  float64          `json:"sampling_interval_mm"`
	CorrectedIntervalMM float64          `json:"corrected_interval_mm"`
	Diagnostics         Diagnostics      `json:"diagnostics"`
}

// EdgeAngle returns the fitted edge angle in degrees.
func (r *Result) EdgeAngle() float64 { return r.Edge.AngleDegrees }

// EfficiencyPercent returns the sampling efficiency in percent.
func (r *Result) EfficiencyPercent() float64 { return r.SamplingEfficiency.EfficiencyPercent }

// MTFAt interpolates the MTF curve at frequency f (lp/mm).
func (r *Result) MTFAt(f float64) (float64, error) {
	ip, err := NewInterpolator(r.Frequencies, r.MTF)
	if err != nil {
		return 0, err
	}
	return ip.At(f), nil
}

// Calculate measures the MTF of the edge in img.
//
// Non-fatal conditions are collected in Result.Diagnostics. Invalid options,
// an image without a usable slanted edge or an MTF curve that cannot be
// evaluated are returned as *Error.
func Calculate(img *GrayscaleImage, opts Options) (*Result, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if err := validateImage(img); err != nil {
		return nil, err
	}
	log := opts.Logger

	var diags Diagnostics

	contrast := checkContrast(img, &diags)
	k := kernelsFor(contrast.BrightLeft)
	log.WithFields(logrus.Fields{
		"contrast":    contrast.Value,
		"bright_left": contrast.BrightLeft,
	}).Debug("contrast check")

	edge, err := locateEdge(img, k.rowKernel, &diags)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"slope":     edge.Slope,
		"intercept": edge.Intercept,
		"angle":     edge.AngleDegrees,
	}).Debug("edge located")
	if err := checkSlope(edge.Slope); err != nil {
		return nil, err
	}

	esf, err := project(img, edge.Slope, opts.BinningFactor, &diags)
	if err != nil {
		return nil, err
	}
	log.WithField("samples", len(esf)).Debug("edge spread function projected")

	sp, err := computeSpectrum(esf, k.esfKernel, edge.Slope, opts.SamplingIntervalMM, opts.BinningFactor)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"points":       len(sp.MTF),
		"corrected_mm": sp.CorrectedInterval,
	}).Debug("spectrum computed")

	eff, err := samplingEfficiency(sp.Frequencies, sp.MTF, opts.ContrastThresholds, sp.CorrectedInterval, &diags)
	if err != nil {
		return nil, err
	}

	readouts, err := ReadoutAt(sp.Frequencies, sp.MTF, opts.ReadoutFrequencies)
	if err != nil {
		return nil, err
	}

	for _, d := range diags {
		log.WithField("kind", d.Kind).Debug(d.Message)
	}

	return &Result{
		ESF:                 esf,
		PSF:                 sp.PSF,
		NyquistFrequency:    0.5 / opts.SamplingIntervalMM,
		Frequencies:         sp.Frequencies,
		MTF:                 sp.MTF,
		Edge:                edge,
		Contrast:            contrast,
		SamplingEfficiency:  *eff,
		Readouts:            readouts,
		BinningFactor:       opts.BinningFactor,
		SamplingIntervalMM:  opts.SamplingIntervalMM,
		CorrectedIntervalMM: sp.CorrectedInterval,
		Diagnostics:         diags,
	}, nil
}

func (o Options) withDefaults() (Options, error) {
	if !(o.SamplingIntervalMM > 0) {
		return o, invalidInput(fmt.Sprintf("sampling interval must be positive, got %v", o.SamplingIntervalMM))
	}
	if o.BinningFactor == 0 {
		o.BinningFactor = DefaultBinningFactor
	}
	if err := checkBinningFactor(o.BinningFactor); err != nil {
		return o, err
	}
	if len(o.ContrastThresholds) == 0 {
		o.ContrastThresholds = DefaultContrastThresholds
	}
	if err := validateThresholds(o.ContrastThresholds); err != nil {
		return o, err
	}
	if o.Logger == nil {
		o.Logger = logger.Discard()
	}
	return o, nil
}

func checkBinningFactor(fac int) error {
	if fac < 1 || fac > MaxBinningFactor {
		return invalidInput(fmt.Sprintf("binning factor must be in [1, %d], got %d", MaxBinningFactor, fac))
	}
	return nil
}

func validateImage(img *GrayscaleImage) error {
	if img == nil {
		return invalidInput("image is nil")
	}
	if img.width < MinWidth || img.height < MinHeight {
		return invalidInput(fmt.Sprintf("image is %dx%d, need at least %dx%d", img.width, img.height, MinWidth, MinHeight))
	}
	return nil
}
