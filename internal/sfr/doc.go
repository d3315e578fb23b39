// Package sfr implements slanted-edge spatial frequency response (SFR) analysis.
//
// Given a grayscale region of interest that contains a single, near-vertical,
// high-contrast edge, the package estimates the modulation transfer function
// (MTF) of the imaging system that recorded it. The pipeline is:
//
//  1. Contrast check: compares the left and right borders of the region.
//  2. Edge location: windowed row derivative, per-row centroid, least-squares
//     line fit, repeated once with windows centred on the first fit.
//  3. Projection: every pixel is binned along the fitted edge direction into an
//     oversampled edge spread function (ESF).
//  4. Spectrum: the ESF derivative (PSF) is re-centred, Hamming windowed and
//     Fourier transformed; the magnitude is normalised to 1 at DC and corrected
//     for the roll-off of the finite-difference derivative.
//  5. Sampling efficiency: the frequency at which the MTF falls to the lowest
//     contrast threshold, relative to the half-sampling frequency.
//
// # Numeric Compatibility
//
// Intermediate values are rounded to 4 decimal places (half to even) at the same
// stages as the reference SFR tooling the results are compared against. The
// rounding is kept deliberately even where it discards precision.
//
// # Diagnostics and Errors
//
// Conditions that degrade but do not invalidate a measurement (low contrast,
// shallow edge angle, empty projection bins, a weak efficiency basis) are
// returned as Diagnostics alongside the Result. Conditions that make the
// measurement impossible are returned as *Error values whose Kind can be tested
// with errors.Is against ErrInvalidInput, ErrDegenerateEdge and
// ErrThresholdNotReached.
//
// # Thread Safety
//
// All functions are pure. The input image is only read, so concurrent
// calculations on the same GrayscaleImage are safe.
package sfr
