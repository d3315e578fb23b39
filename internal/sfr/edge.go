package sfr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// MinEdgeAngle is the edge angle in degrees below which ShallowEdge is raised.
const MinEdgeAngle = 3.5

// degenerateSlope is the |slope| below which projection along the edge is
// impossible (the edge is exactly vertical or no edge was found).
const degenerateSlope = 1e-12

// EdgeModel is the fitted edge line column = Intercept + Slope*row, with rows
// and columns 0-based.
type EdgeModel struct {
	Slope        float64 `json:"slope"`
	Intercept    float64 `json:"intercept"`
	AngleDegrees float64 `json:"angle_degrees"`
}

// Column returns the fitted edge position on the given row.
func (e EdgeModel) Column(row float64) float64 {
	return e.Intercept + e.Slope*row
}

// EdgeFit is the result of LocateEdge.
type EdgeFit struct {
	Edge        EdgeModel      `json:"edge"`
	Contrast    ContrastResult `json:"contrast"`
	Diagnostics Diagnostics    `json:"diagnostics"`
}

// LocateEdge runs the contrast check and the two-pass edge fit on img.
//
// The returned model may have a zero slope (perfectly vertical edge or no edge
// at all); Calculate rejects such models, LocateEdge only reports them.
func LocateEdge(img *GrayscaleImage) (*EdgeFit, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	var diags Diagnostics
	contrast := checkContrast(img, &diags)
	edge, err := locateEdge(img, kernelsFor(contrast.BrightLeft).rowKernel, &diags)
	if err != nil {
		return nil, err
	}
	return &EdgeFit{Edge: edge, Contrast: contrast, Diagnostics: diags}, nil
}

func locateEdge(img *GrayscaleImage, kernel []float64, diags *Diagnostics) (EdgeModel, error) {
	deriv := make([][]float64, img.height)
	for y := range deriv {
		deriv[y] = rowDerivative(img.row(y), kernel)
	}

	rows := make([]float64, img.height)
	for y := range rows {
		rows[y] = float64(y)
	}
	loc := make([]float64, img.height)

	// Pass 1: one window centred on the middle of the region.
	win := hammingWindow(img.width, float64((img.width+1)/2))
	for y := range loc {
		loc[y] = round4(centroid(multiply(deriv[y], win)) - 0.5)
	}
	intercept, slope := stat.LinearRegression(rows, loc, nil, false)

	// Pass 2: a window per row, centred on the pass 1 line.
	for y := range loc {
		place := intercept + slope*float64(y)
		win := hammingWindow(img.width, place)
		loc[y] = round4(centroid(multiply(deriv[y], win)) - 0.5)
	}
	intercept, slope = stat.LinearRegression(rows, loc, nil, false)

	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return EdgeModel{}, degenerateEdge(fmt.Sprintf("edge line fit is not finite (slope %v, intercept %v)", slope, intercept))
	}

	angle := round4(180 * round4(math.Atan(math.Abs(slope))) / pi4)
	if angle < MinEdgeAngle {
		diags.add(ShallowEdge, angle, "edge angle is %.2f degrees, below %.1f", angle, MinEdgeAngle)
	}

	return EdgeModel{Slope: slope, Intercept: intercept, AngleDegrees: angle}, nil
}
