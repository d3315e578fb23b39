package sfr

import (
	"fmt"
	"math"
)

// maxBins bounds the bin grid a single projection may allocate.
const maxBins = 1 << 24

// binGrid accumulates pixel counts and intensity sums per oversampled bin.
// It is sized from the projection bounds, and every access is range checked.
type binGrid struct {
	count []float64
	sum   []float64
}

func newBinGrid(size int) *binGrid {
	return &binGrid{
		count: make([]float64, size),
		sum:   make([]float64, size),
	}
}

func (b *binGrid) add(idx int, v float64) error {
	if idx < 0 || idx >= len(b.count) {
		return degenerateEdge(fmt.Sprintf("projection bin %d outside [0, %d)", idx, len(b.count)))
	}
	b.count[idx]++
	b.sum[idx] += v
	return nil
}

// countAt returns the count at idx, or 0 outside the grid.
func (b *binGrid) countAt(idx int) float64 {
	if idx < 0 || idx >= len(b.count) {
		return 0
	}
	return b.count[idx]
}

// Project bins every pixel of img along an edge with the given slope
// (columns per row) into an edge spread function oversampled fac times.
// The ESF has exactly img.Width()*fac samples.
func Project(img *GrayscaleImage, slope float64, fac int) ([]float64, Diagnostics, error) {
	if err := validateImage(img); err != nil {
		return nil, nil, err
	}
	if err := checkBinningFactor(fac); err != nil {
		return nil, nil, err
	}
	if err := checkSlope(slope); err != nil {
		return nil, nil, err
	}
	var diags Diagnostics
	esf, err := project(img, slope, fac, &diags)
	if err != nil {
		return nil, nil, err
	}
	return esf, diags, nil
}

func checkSlope(slope float64) error {
	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.Abs(slope) < degenerateSlope {
		return degenerateEdge(fmt.Sprintf("edge slope %v cannot be projected; no slanted edge found", slope))
	}
	return nil
}

func project(img *GrayscaleImage, slope float64, fac int, diags *Diagnostics) ([]float64, error) {
	nlin, npix := img.height, img.width
	nn := npix * fac
	ffac := float64(fac)

	// Projection runs along rows, so the edge is expressed as rows per column.
	inv := 1 / slope

	offset := math.RoundToEven(ffac * (0 - float64(nlin-1)/inv))
	del := math.Abs(offset)
	if offset > 0 {
		offset = 0
	}
	if span := ffac*float64(npix) + del + 3; span > maxBins {
		return nil, invalidInput(fmt.Sprintf("projection needs %.0f bins, limit is %d", span, maxBins))
	}
	start := 1 + int(math.RoundToEven(0.5*del))

	// Largest index written is fac*(npix-1) + del + 2; reads reach start+nn.
	size := max(fac*(npix-1)+int(del)+3, start+nn+1)
	bins := newBinGrid(size)

	for x := 0; x < npix; x++ {
		for y := 0; y < nlin; y++ {
			idx := int(math.Ceil((float64(x)-float64(y)/inv)*ffac)) + 1 - int(offset)
			if err := bins.add(idx, img.At(x, y)); err != nil {
				return nil, err
			}
		}
	}

	for i := start; i < start+nn; i++ {
		if bins.count[i] != 0 {
			continue
		}
		diags.add(ZeroBinCount, float64(i-start),
			"zero count in projection bin %d (ESF sample %d); the edge angle may be large or more rows are needed", i, i-start)
		if i == 1 {
			bins.count[i] = bins.countAt(i + 1)
		} else {
			bins.count[i] = (bins.countAt(i-1) + bins.countAt(i+1)) / 2
		}
	}

	esf := make([]float64, nn)
	for i := range esf {
		c := bins.count[start+i]
		if c == 0 {
			continue
		}
		esf[i] = bins.sum[start+i] / c
	}
	return esf, nil
}
