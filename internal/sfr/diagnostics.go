package sfr

import "fmt"

// DiagnosticKind tags a non-fatal condition found during a calculation.
type DiagnosticKind string

const (
	// LowContrast: the border contrast is below 20%, expect a noisy result.
	LowContrast DiagnosticKind = "low_contrast"
	// ShallowEdge: the edge is within 3.5° of vertical, oversampling is poor.
	ShallowEdge DiagnosticKind = "shallow_edge"
	// ZeroBinCount: a projection bin received no pixels and was filled in.
	ZeroBinCount DiagnosticKind = "zero_bin_count"
	// WeakEfficiencyBasis: sampling efficiency uses a threshold above 0.1.
	WeakEfficiencyBasis DiagnosticKind = "weak_efficiency_basis"
)

// Diagnostic is a warning carried alongside a Result.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
	// Value is the angle, bin index, contrast or threshold the warning refers to.
	Value float64 `json:"value"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Diagnostics accumulates warnings in the order they are raised.
type Diagnostics []Diagnostic

func (d *Diagnostics) add(kind DiagnosticKind, value float64, format string, args ...interface{}) {
	*d = append(*d, Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Value: value})
}

// Has reports whether any diagnostic of the given kind was raised.
func (d Diagnostics) Has(kind DiagnosticKind) bool {
	return d.Count(kind) > 0
}

// Count returns how many diagnostics of the given kind were raised.
func (d Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, diag := range d {
		if diag.Kind == kind {
			n++
		}
	}
	return n
}
