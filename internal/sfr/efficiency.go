package sfr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// weakBasisThreshold is the lowest threshold that gives a meaningful efficiency.
const weakBasisThreshold = 0.1

// DefaultContrastThresholds are the MTF levels reported when none are given.
var DefaultContrastThresholds = []float64{0.1, 0.5}

// EfficiencyResult summarises how close the MTF gets to the sampling limit.
type EfficiencyResult struct {
	// EfficiencyPercent is the lowest-threshold frequency as a percentage of
	// the half-sampling cutoff, in [0, 100].
	EfficiencyPercent float64 `json:"efficiency_percent"`
	// ThresholdFrequencies holds, per threshold, where the MTF crosses it.
	ThresholdFrequencies []float64 `json:"threshold_frequencies"`
	// ThresholdMagnitudes holds the MTF value at each crossing.
	ThresholdMagnitudes []float64 `json:"threshold_magnitudes"`
	// HalfSamplingFrequency is 0.5 / corrected sampling interval, in lp/mm.
	HalfSamplingFrequency float64 `json:"half_sampling_frequency"`
}

// SamplingEfficiency evaluates where the MTF curve crosses each threshold and
// the resulting sampling efficiency. freqs must be evenly spaced from 0 and
// correctedIntervalMM is the angle-corrected pixel pitch.
func SamplingEfficiency(freqs, mtf, thresholds []float64, correctedIntervalMM float64) (*EfficiencyResult, Diagnostics, error) {
	var diags Diagnostics
	res, err := samplingEfficiency(freqs, mtf, thresholds, correctedIntervalMM, &diags)
	if err != nil {
		return nil, nil, err
	}
	return res, diags, nil
}

func samplingEfficiency(freqs, mtf, thresholds []float64, del float64, diags *Diagnostics) (*EfficiencyResult, error) {
	if len(freqs) != len(mtf) {
		return nil, invalidInput(fmt.Sprintf("frequency axis has %d samples, MTF has %d", len(freqs), len(mtf)))
	}
	if len(freqs) < 2 {
		return nil, thresholdNotReached(fmt.Sprintf("MTF curve has %d samples, need at least 2", len(freqs)))
	}
	if err := validateThresholds(thresholds); err != nil {
		return nil, err
	}
	if !(del > 0) {
		return nil, invalidInput(fmt.Sprintf("sampling interval must be positive, got %v", del))
	}

	lowest := floats.Min(thresholds)
	lowestIdx := floats.MinIdx(thresholds)
	if lowest > weakBasisThreshold {
		diags.add(WeakEfficiencyBasis, lowest, "sampling efficiency is based on SFR %g", lowest)
	}

	hs := 0.5 / del
	delf := freqs[1] + 1e-6

	// Without any sample beyond 1.1x half-sampling, the whole curve is used.
	imax, cutoff := len(freqs)-1, len(freqs)-1
	if i, ok := firstIndex(freqs, func(f float64) bool { return f > 1.1*hs }); ok {
		imax = i
		if j, ok := firstIndex(freqs, func(f float64) bool { return f > hs-delf }); ok {
			cutoff = j
		}
	}
	freqs, mtf = freqs[:imax+1], mtf[:imax+1]

	res := &EfficiencyResult{
		ThresholdFrequencies:  make([]float64, len(thresholds)),
		ThresholdMagnitudes:   make([]float64, len(thresholds)),
		HalfSamplingFrequency: hs,
	}
	for i, v := range thresholds {
		f, m, err := findFrequency(freqs, mtf, v)
		if err != nil {
			return nil, err
		}
		res.ThresholdFrequencies[i] = f
		res.ThresholdMagnitudes[i] = m
	}

	if freqs[cutoff] <= 0 {
		return nil, thresholdNotReached(fmt.Sprintf("cutoff frequency %v is not positive", freqs[cutoff]))
	}
	eff := math.Min(math.RoundToEven(100*res.ThresholdFrequencies[lowestIdx]/freqs[cutoff]), 100)
	res.EfficiencyPercent = math.Max(eff, 0)

	return res, nil
}

// findFrequency locates where mtf first drops below v, interpolating linearly
// between the crossing sample and its predecessor. Crossings past the last
// sample, or no crossing at all, clamp to the last sample.
func findFrequency(freqs, mtf []float64, v float64) (float64, float64, error) {
	last := len(freqs) - 1
	maxf := freqs[last]

	x1, ok := firstIndex(mtf, func(m float64) bool { return m-v < 0 })
	if !ok {
		return maxf, mtf[last], nil
	}
	if x1 == 0 {
		return 0, 0, thresholdNotReached(fmt.Sprintf("MTF is below %g at zero frequency", v))
	}

	y, y2 := mtf[x1-1], mtf[x1]
	slope := (y2 - y) / freqs[1]
	dely := y - v

	f := freqs[x1-1] - dely/slope
	m := y - dely
	if f > maxf {
		f, m = maxf, mtf[last]
	}
	return f, m, nil
}

// firstIndex returns the index of the first element matching pred.
func firstIndex(values []float64, pred func(float64) bool) (int, bool) {
	for i, v := range values {
		if pred(v) {
			return i, true
		}
	}
	return 0, false
}

func validateThresholds(thresholds []float64) error {
	if len(thresholds) == 0 {
		return invalidInput("at least one contrast threshold is required")
	}
	for _, v := range thresholds {
		if !(v > 0 && v < 1) {
			return invalidInput(fmt.Sprintf("contrast threshold %v outside (0, 1)", v))
		}
	}
	return nil
}
