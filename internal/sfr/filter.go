package sfr

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// pi4 is π rounded to 4 decimals, the value the window and angle formulas use.
var pi4 = round4(math.Pi)

// centroidFloor is the row sum below which a centroid is reported as 0.
const centroidFloor = 1e-4

// round4 rounds to 4 decimal places, ties to even.
func round4(v float64) float64 {
	return math.RoundToEven(v*1e4) / 1e4
}

// kernels holds the 2-tap and 3-tap derivative kernels for one edge polarity.
type kernels struct {
	rowKernel []float64
	esfKernel []float64
}

// kernelsFor returns derivative kernels that give a positive response across
// the edge: bright-to-dark (left to right) uses the plain centred differences,
// dark-to-bright uses the mirrored ones.
func kernelsFor(brightLeft bool) kernels {
	if brightLeft {
		return kernels{
			rowKernel: []float64{-0.5, 0.5},
			esfKernel: []float64{-0.5, 0, 0.5},
		}
	}
	return kernels{
		rowKernel: []float64{0.5, -0.5},
		esfKernel: []float64{0.5, 0, -0.5},
	}
}

// convolveSame convolves a with kernel and trims the result to len(a), keeping
// the samples aligned on the kernel centre (ceil(len/2)-th tap).
func convolveSame(a, kernel []float64) []float64 {
	m := (len(kernel) + 1) / 2
	out := make([]float64, len(a))
	for i := range out {
		var sum float64
		for j, k := range kernel {
			idx := i - j + m - 1
			if idx >= 0 && idx < len(a) {
				sum += a[idx] * k
			}
		}
		out[i] = sum
	}
	return out
}

// clampEnds replaces the first and last samples with their interior neighbours.
func clampEnds(v []float64) {
	if len(v) < 2 {
		return
	}
	v[0] = v[1]
	v[len(v)-1] = v[len(v)-2]
}

// rowDerivative applies the 2-tap kernel to one image row. The 2-tap output
// sits half a sample off centre, so it is rounded, shifted left by one and
// end-clamped.
func rowDerivative(row, kernel []float64) []float64 {
	d := convolveSame(row, kernel)
	for i := range d {
		d[i] = round4(d[i])
	}
	for i := 0; i < len(d)-1; i++ {
		d[i] = d[i+1]
	}
	clampEnds(d)
	return d
}

// esfDerivative applies the centred 3-tap kernel to the ESF.
func esfDerivative(esf, kernel []float64) []float64 {
	d := convolveSame(esf, kernel)
	clampEnds(d)
	return d
}

// centroid returns the 1-based, intensity-weighted centre of x. A sum below
// centroidFloor gives 0.
func centroid(x []float64) float64 {
	sum := floats.Sum(x)
	if sum < centroidFloor {
		return 0
	}
	var moment float64
	for i, v := range x {
		moment += float64(i+1) * v
	}
	return moment / sum
}

// hammingWindow builds a Hamming window of length n centred at the 1-based
// position mid. The half width is the larger distance from mid to either end,
// so an off-centre window is not truncated on its longer side.
func hammingWindow(n int, mid float64) []float64 {
	wid := math.Max(mid-1, float64(n)-mid)
	w := make([]float64, n)
	for i := range w {
		arg := float64(i+1) - mid
		c := 1.0
		if wid > 0 {
			c = math.Cos(pi4 * arg / wid)
		}
		w[i] = round4(0.54 + 0.46*c)
	}
	return w
}

// recenter shifts a so that the 1-based index center moves to the array
// midpoint ceil((n+1)/2). Samples shifted in from outside are zero.
func recenter(a []float64, center int) []float64 {
	n := len(a)
	mid := (n + 2) / 2
	shift := center - mid
	if shift == 0 {
		out := make([]float64, n)
		copy(out, a)
		return out
	}
	out := make([]float64, n)
	for i := range out {
		src := i + shift
		if src >= 0 && src < n {
			out[i] = a[src]
		}
	}
	return out
}

// multiply returns the element-wise product of a and w.
func multiply(a, w []float64) []float64 {
	out := make([]float64, len(a))
	copy(out, a)
	floats.Mul(out, w)
	return out
}
