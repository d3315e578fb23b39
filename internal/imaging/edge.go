package imaging

import (
	"math"

	"github.com/ironsheep/edge-mtf-mcp/internal/sfr"
)

// EdgeMap is a binary Canny edge map with the gradient direction kept for
// every edge pixel.
type EdgeMap struct {
	Width  int
	Height int
	edges  []bool
	angles []float64
}

// IsEdge reports whether (x, y) is an edge pixel. Out-of-range coordinates
// are never edges.
func (m *EdgeMap) IsEdge(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.edges[y*m.Width+x]
}

// GradientAngle returns atan2(gy, gx) at (x, y) in radians. A near-vertical
// edge has a gradient angle near 0 or ±π.
func (m *EdgeMap) GradientAngle(x, y int) float64 {
	return m.angles[y*m.Width+x]
}

// Count returns the number of edge pixels.
func (m *EdgeMap) Count() int {
	n := 0
	for _, e := range m.edges {
		if e {
			n++
		}
	}
	return n
}

// DetectEdges performs Canny-style edge detection on a grayscale image.
//
// thresholdLow and thresholdHigh are in the image's intensity units (0-255 for
// the output of ToGrayscale). Gradient magnitudes at or above thresholdHigh
// are strong edges; those between the thresholds are kept only when next to a
// strong edge.
//
// # Algorithm
//
//  1. Gaussian blur: 5x5 kernel to reduce noise
//  2. Gradient computation: Sobel operators, magnitude = sqrt(Gx² + Gy²)
//  3. Non-maximum suppression along the gradient direction
//  4. Hysteresis thresholding
//
// Recommended starting points for 8-bit test charts: low=50, high=150.
func DetectEdges(img *sfr.GrayscaleImage, thresholdLow, thresholdHigh float64) *EdgeMap {
	width, height := img.Width(), img.Height()

	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		gray[y] = img.Row(y)
	}

	blurred := gaussianBlur(gray, width, height)

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)

	sobelX := [][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)

		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					gx += blurred[py][px] * sobelX[ky+1][kx+1]
					gy += blurred[py][px] * sobelY[ky+1][kx+1]
				}
			}
			// Sobel gains 4x on a unit step.
			magnitude[y][x] = math.Sqrt(gx*gx+gy*gy) / 4
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[y][x-1]
				n2 = magnitude[y][x+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[y-1][x+1]
				n2 = magnitude[y+1][x-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[y-1][x]
				n2 = magnitude[y+1][x]
			} else {
				n1 = magnitude[y-1][x-1]
				n2 = magnitude[y+1][x+1]
			}

			// Ties go to the left/upper pixel so a plateau keeps one edge.
			if mag > n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	m := &EdgeMap{
		Width:  width,
		Height: height,
		edges:  make([]bool, width*height),
		angles: make([]float64, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.angles[y*width+x] = direction[y][x]

			val := suppressed[y][x]
			if val >= thresholdHigh {
				m.edges[y*width+x] = true
			} else if val >= thresholdLow {
				hasStrongNeighbor := false
				for ky := -1; ky <= 1 && !hasStrongNeighbor; ky++ {
					for kx := -1; kx <= 1 && !hasStrongNeighbor; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						if suppressed[py][px] >= thresholdHigh {
							hasStrongNeighbor = true
						}
					}
				}
				m.edges[y*width+x] = hasStrongNeighbor
			}
		}
	}
	return m
}

// gaussianBlur applies a 5x5 Gaussian blur (sigma ≈ 1.4, kernel sum 273).
// Border pixels use clamped (replicated) edge values.
func gaussianBlur(img [][]float64, width, height int) [][]float64 {
	kernel := [][]float64{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	kernelSum := 273.0

	result := make([][]float64, height)
	for y := 0; y < height; y++ {
		result[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					sum += img[py][px] * kernel[ky+2][kx+2]
				}
			}
			result[y][x] = sum / kernelSum
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
