package sfr

import (
	"math"
	"testing"
)

// stepEdgeImage renders a dark-to-bright edge at column edge0 + tilt*row with
// exact pixel area coverage, so each row's edge crossing is sub-pixel accurate.
func stepEdgeImage(t *testing.T, width, height int, edge0, tilt, lo, hi float64) *GrayscaleImage {
	t.Helper()
	img, err := NewGrayscaleImageFunc(width, height, func(x, y int) float64 {
		e := edge0 + tilt*float64(y)
		cover := math.Min(math.Max(float64(x)+1-e, 0), 1)
		return lo + (hi-lo)*cover
	})
	if err != nil {
		t.Fatalf("failed to build step image: %v", err)
	}
	return img
}

// blurredEdgeImage renders a dark-to-bright edge blurred by a Gaussian of
// standard deviation sigma pixels, sampled at pixel centres.
func blurredEdgeImage(t *testing.T, width, height int, edge0, tilt, sigma float64) *GrayscaleImage {
	t.Helper()
	img, err := NewGrayscaleImageFunc(width, height, func(x, y int) float64 {
		e := edge0 + tilt*float64(y)
		d := float64(x) + 0.5 - e
		return 20 + 200*0.5*(1+math.Erf(d/(sigma*math.Sqrt2)))
	})
	if err != nil {
		t.Fatalf("failed to build blurred image: %v", err)
	}
	return img
}

// mirrored flips img left to right.
func mirrored(t *testing.T, img *GrayscaleImage) *GrayscaleImage {
	t.Helper()
	out, err := NewGrayscaleImageFunc(img.Width(), img.Height(), func(x, y int) float64 {
		return img.At(img.Width()-1-x, y)
	})
	if err != nil {
		t.Fatalf("failed to mirror image: %v", err)
	}
	return out
}

func flatImage(t *testing.T, width, height int, v float64) *GrayscaleImage {
	t.Helper()
	img, err := NewGrayscaleImageFunc(width, height, func(x, y int) float64 { return v })
	if err != nil {
		t.Fatalf("failed to build flat image: %v", err)
	}
	return img
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
