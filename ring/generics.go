package ring

import "golang.org/x/exp/constraints"

// minOrdered returns the smaller of a and b. Polynomial.SimpleMultiply and
// Polynomial.FFTMultiply both operate over the lower of two operand
// degrees (§4.5: "the degree of the result equals min(self.d, other.d)"),
// so this one helper backs both instead of each repeating the comparison.
func minOrdered[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}
