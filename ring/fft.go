package ring

import (
	"fmt"
	"math"
	"math/cmplx"
)

// FFTContext holds precomputed roots of unity for a size-N complex FFT,
// grounded in the teacher's ring/complex128.go (which builds a comparable
// root table for its arbitrary-precision Complex type) but specialized here
// to native complex128, since CKKS encoding only needs double-precision
// accuracy (§4.3). N must be a power of two.
type FFTContext struct {
	N int

	rootPow    []complex128 // e^{2*pi*i*k/N}, k = 0..N-1, natural order
	rootInvPow []complex128

	bitrev []int
}

// NewFFTContext builds the FFT context for a size-N transform.
func NewFFTContext(n int) (*FFTContext, error) {
	if !isPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: FFT size %d is not a power of two", ErrInvalidParameter, n)
	}
	ctx := &FFTContext{N: n}
	ctx.rootPow = make([]complex128, n)
	ctx.rootInvPow = make([]complex128, n)
	for k := 0; k < n; k++ {
		angle := 2 * math.Pi * float64(k) / float64(n)
		ctx.rootPow[k] = cmplx.Rect(1, angle)
		ctx.rootInvPow[k] = cmplx.Rect(1, -angle)
	}

	logN := bitLen(uint64(n)) - 1
	ctx.bitrev = make([]int, n)
	for i := range ctx.bitrev {
		ctx.bitrev[i] = int(reverseBits(uint64(i), logN))
	}
	return ctx, nil
}

// Forward computes the standard (non-negacyclic) DFT of a, a length-N
// complex vector, using the same bit-reverse-then-combine structure as
// NTTContext.dftInPlace.
func (ctx *FFTContext) Forward(a []complex128) []complex128 {
	return ctx.dftInPlace(a, ctx.rootPow)
}

// Inverse computes the inverse DFT of A, scaling by 1/N.
func (ctx *FFTContext) Inverse(a []complex128) []complex128 {
	out := ctx.dftInPlace(a, ctx.rootInvPow)
	scale := 1 / float64(ctx.N)
	for i := range out {
		out[i] *= complex(scale, 0)
	}
	return out
}

func (ctx *FFTContext) dftInPlace(a []complex128, rootPow []complex128) []complex128 {
	n := ctx.N
	out := make([]complex128, n)
	for i, r := range ctx.bitrev {
		out[r] = a[i]
	}

	for length := 2; length <= n; length <<= 1 {
		half := length / 2
		stride := n / length
		for start := 0; start < n; start += length {
			for j := 0; j < half; j++ {
				w := rootPow[j*stride]
				u := out[start+j]
				v := out[start+j+half] * w
				out[start+j] = u + v
				out[start+j+half] = u - v
			}
		}
	}
	return out
}

