// Package indicator implements the indicator computation pipeline: pure
// functions mapping price arrays to indicator arrays of the same length,
// NaN-padded across the warm-up boundary. Functions never mutate their
// inputs and always allocate fresh output slices.
package indicator

import "math"

// nans returns a slice of the given length filled with NaN.
func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

// finite reports whether v is a usable number (not NaN, not Inf).
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// firstFinite returns the index of the first finite value, or -1.
func firstFinite(values []float64) int {
	for i, v := range values {
		if finite(v) {
			return i
		}
	}

	return -1
}
