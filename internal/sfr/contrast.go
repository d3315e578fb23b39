package sfr

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	contrastLeftCols  = 5
	contrastRightCols = 6

	// MinContrast is the contrast below which LowContrast is raised.
	MinContrast = 0.20
)

// ContrastResult is the outcome of the border contrast check.
type ContrastResult struct {
	// Value is |left - right| / (left + right) over the border columns.
	Value float64 `json:"value"`
	// BrightLeft is true when the left border is brighter than the right one.
	BrightLeft bool `json:"bright_left"`
}

// ContrastTest compares the summed intensity of the leftmost 5 and rightmost
// 6 columns. The image must be at least 6 columns wide.
func ContrastTest(img *GrayscaleImage) ContrastResult {
	var left, right float64
	for y := 0; y < img.height; y++ {
		row := img.row(y)
		left += floats.Sum(row[:min(contrastLeftCols, img.width)])
		right += floats.Sum(row[max(img.width-contrastRightCols, 0):])
	}

	value := 0.0
	if total := left + right; total != 0 {
		value = math.Abs((left - right) / total)
	}
	return ContrastResult{Value: value, BrightLeft: left > right}
}

func checkContrast(img *GrayscaleImage, diags *Diagnostics) ContrastResult {
	c := ContrastTest(img)
	if c.Value < MinContrast {
		diags.add(LowContrast, c.Value,
			"edge contrast is %.0f%%, below 20%%; this can lead to high error in the SFR measurement", c.Value*100)
	}
	return c
}
