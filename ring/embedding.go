package ring

import (
	"fmt"
	"math"
	"math/cmplx"
)

// EmbeddingContext implements the canonical embedding CKKS encoding relies
// on (§4.3): the map between a length-D/2 vector of complex slot values and
// the length-D real coefficient vector of a polynomial in
// Z[x]/(x^D+1), realized by evaluating at the odd powers of a primitive
// 2D-th root of unity. Grounded directly in the teacher's sibling project
// smilecjf-lattigo's ckks_fv/encoder.go `fft`/`invfft` helpers, which drive
// the rotation group (powers of 5 mod 2D) through a folded radix-2 network
// instead of embedding via a full-length symmetric FFT.
type EmbeddingContext struct {
	Slots int // D/2
	M     int // 2D

	rotGroup []int
	roots    []complex128
	bitrev   []int
}

// NewEmbeddingContext builds the embedding context for ring degree d.
func NewEmbeddingContext(d int) (*EmbeddingContext, error) {
	if !isPowerOfTwo(d) || d < 2 {
		return nil, fmt.Errorf("%w: ring degree %d is not a power of two >= 2", ErrInvalidParameter, d)
	}

	slots := d / 2
	m := 2 * d

	rotGroup := make([]int, slots)
	fivePows := 1
	for i := range rotGroup {
		rotGroup[i] = fivePows
		fivePows = (fivePows * 5) % m
	}

	roots := make([]complex128, m+1)
	for k := 0; k <= m; k++ {
		angle := 2 * math.Pi * float64(k) / float64(m)
		roots[k] = cmplx.Rect(1, angle)
	}

	logSlots := 0
	if slots > 1 {
		logSlots = bitLen(uint64(slots)) - 1
	}
	bitrev := make([]int, slots)
	for i := range bitrev {
		bitrev[i] = int(reverseBits(uint64(i), logSlots))
	}

	return &EmbeddingContext{Slots: slots, M: m, rotGroup: rotGroup, roots: roots, bitrev: bitrev}, nil
}

// EmbeddingInv maps a length-Slots complex vector to the length-2*Slots
// real coefficient sequence CKKS encodes it as: m[i] = Re(u_i),
// m[i+Slots] = Im(u_i), where u is the pre-image under the canonical
// embedding. Scaling by Delta and rounding to integer coefficients is the
// caller's job (the CKKS encoder).
func (ctx *EmbeddingContext) EmbeddingInv(slots []complex128) ([]float64, error) {
	if len(slots) != ctx.Slots {
		return nil, fmt.Errorf("%w: embedding_inv expects %d slots, got %d", ErrInvalidSize, ctx.Slots, len(slots))
	}

	values := append([]complex128(nil), slots...)
	ctx.invfft(values)

	out := make([]float64, 2*ctx.Slots)
	for i, v := range values {
		out[i] = real(v)
		out[i+ctx.Slots] = imag(v)
	}
	return out, nil
}

// Embedding recovers the length-Slots complex slot vector from the
// length-2*Slots real coefficient sequence EmbeddingInv produced.
func (ctx *EmbeddingContext) Embedding(coeffs []float64) ([]complex128, error) {
	if len(coeffs) != 2*ctx.Slots {
		return nil, fmt.Errorf("%w: embedding expects %d coefficients, got %d", ErrInvalidSize, 2*ctx.Slots, len(coeffs))
	}

	values := make([]complex128, ctx.Slots)
	for i := range values {
		values[i] = complex(coeffs[i], coeffs[i+ctx.Slots])
	}
	ctx.fft(values)
	return values, nil
}

// invfft is the folded inverse transform driving the rotation group
// through successive halvings, ending with a bit-reversal permutation and a
// 1/length scaling.
func (ctx *EmbeddingContext) invfft(values []complex128) {
	n := len(values)
	for length := n; length >= 1; length >>= 1 {
		for i := 0; i < n; i += length {
			half := length >> 1
			quarterLen := length << 2
			gap := ctx.M / quarterLen
			for j := 0; j < half; j++ {
				idx := (quarterLen - (ctx.rotGroup[j] % quarterLen)) * gap
				u := values[i+j] + values[i+j+half]
				v := (values[i+j] - values[i+j+half]) * ctx.roots[idx]
				values[i+j] = u
				values[i+j+half] = v
			}
		}
	}

	scale := complex(1/float64(n), 0)
	for i := range values {
		values[i] *= scale
	}

	out := make([]complex128, n)
	for i, r := range ctx.bitrev {
		out[r] = values[i]
	}
	copy(values, out)
}

// fft is invfft's forward counterpart: bit-reverse first, then combine
// bottom-up.
func (ctx *EmbeddingContext) fft(values []complex128) {
	n := len(values)

	out := make([]complex128, n)
	for i, r := range ctx.bitrev {
		out[r] = values[i]
	}
	copy(values, out)

	for length := 2; length <= n; length <<= 1 {
		half := length >> 1
		quarterLen := length << 2
		gap := ctx.M / quarterLen
		for i := 0; i < n; i += length {
			for j := 0; j < half; j++ {
				idx := (ctx.rotGroup[j] % quarterLen) * gap
				u := values[i+j]
				v := values[i+j+half] * ctx.roots[idx]
				values[i+j] = u + v
				values[i+j+half] = u - v
			}
		}
	}
}
