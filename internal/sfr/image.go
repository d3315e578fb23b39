package sfr

import "fmt"

// GrayscaleImage is an immutable, row-major grid of intensity samples.
//
// Samples are float64 on the 0-255 scale used by 8-bit images, although any
// non-negative scale works. The buffer is never modified after construction.
type GrayscaleImage struct {
	width  int
	height int
	pix    []float64
}

// NewGrayscaleImage wraps a row-major sample buffer of width*height values.
// The slice is copied so later changes by the caller cannot leak in.
func NewGrayscaleImage(width, height int, pix []float64) (*GrayscaleImage, error) {
	if width <= 0 || height <= 0 {
		return nil, invalidInput(fmt.Sprintf("image dimensions must be positive, got %dx%d", width, height))
	}
	if len(pix) != width*height {
		return nil, invalidInput(fmt.Sprintf("pixel buffer has %d samples, want %d", len(pix), width*height))
	}
	buf := make([]float64, len(pix))
	copy(buf, pix)
	return &GrayscaleImage{width: width, height: height, pix: buf}, nil
}

// NewGrayscaleImageFunc builds an image by evaluating fn at every (x, y).
func NewGrayscaleImageFunc(width, height int, fn func(x, y int) float64) (*GrayscaleImage, error) {
	if width <= 0 || height <= 0 {
		return nil, invalidInput(fmt.Sprintf("image dimensions must be positive, got %dx%d", width, height))
	}
	pix := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pix[y*width+x] = fn(x, y)
		}
	}
	return &GrayscaleImage{width: width, height: height, pix: pix}, nil
}

// Width returns the number of columns.
func (g *GrayscaleImage) Width() int { return g.width }

// Height returns the number of rows.
func (g *GrayscaleImage) Height() int { return g.height }

// At returns the sample at column x, row y.
func (g *GrayscaleImage) At(x, y int) float64 {
	return g.pix[y*g.width+x]
}

// Row returns a copy of row y.
func (g *GrayscaleImage) Row(y int) []float64 {
	row := make([]float64, g.width)
	copy(row, g.pix[y*g.width:(y+1)*g.width])
	return row
}

// row returns row y without copying; callers must not write to it.
func (g *GrayscaleImage) row(y int) []float64 {
	return g.pix[y*g.width : (y+1)*g.width]
}
