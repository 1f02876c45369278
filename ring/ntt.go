package ring

import "fmt"

// NTTContext holds the precomputed twiddle tables for the negacyclic
// Number-Theoretic Transform over Z/qZ for a fixed ring degree D, mirroring
// the teacher's Ring.genNTTParams (ring/ring.go) but scoped to a single
// prime instead of an RNS tower — one NTTContext is built per CRT prime by
// CRTContext, and a standalone one can be built directly for single-modulus
// schemes (BFV's plaintext-modulus batch encoder, small-modulus tests).
//
// Forward/Inverse reduce the negacyclic transform to a standard cyclic
// radix-2 NTT by twisting the input with powers of a 2D-th root of unity ψ
// (§4.2): ã_i = a_i·ψ^i turns evaluation at odd powers of ψ into a plain
// DFT_ω with ω = ψ², and the ψ^d = -1 identity recovers the wraparound
// sign flip x^d ≡ -1 when the forward/inverse pair is composed with a
// pointwise product in between.
type NTTContext struct {
	D int
	Q uint64

	psiPow    []uint64 // ψ^i, i = 0..D-1, natural order
	psiInvPow []uint64 // ψ^-i, i = 0..D-1, natural order
	omegaPow    []uint64 // ω^i, i = 0..D-1, natural order
	omegaInvPow []uint64 // ω^-i, i = 0..D-1, natural order
	dInv        uint64   // D^-1 mod Q

	bitrev []int // bitrev[i] = bit-reversal of i over log2(D) bits
}

// NewNTTContext builds the NTT context for degree D (a power of two) and
// prime modulus Q with Q ≡ 1 (mod 2D), finding a primitive 2D-th root of
// unity ψ via RootOfUnity and precomputing its powers (and those of
// ω = ψ²) as described in §4.2.
func NewNTTContext(d int, q uint64) (*NTTContext, error) {
	if !isPowerOfTwo(d) {
		return nil, fmt.Errorf("%w: degree %d is not a power of two", ErrInvalidParameter, d)
	}
	if !IsPrime(q) {
		return nil, fmt.Errorf("%w: modulus %d is not prime", ErrInvalidParameter, q)
	}
	if (q-1)%uint64(2*d) != 0 {
		return nil, fmt.Errorf("%w: modulus %d is not 1 mod 2*%d", ErrInvalidParameter, q, d)
	}

	psi, err := RootOfUnity(uint64(2*d), q)
	if err != nil {
		return nil, err
	}
	psiInv := ModInv(psi, q)
	omega := mulMod64(psi, psi, q)
	omegaInv := ModInv(omega, q)

	ctx := &NTTContext{
		D: d, Q: q,
		dInv: ModInv(uint64(d), q),
	}
	ctx.psiPow = powersNatural(psi, d, q)
	ctx.psiInvPow = powersNatural(psiInv, d, q)
	ctx.omegaPow = powersNatural(omega, d, q)
	ctx.omegaInvPow = powersNatural(omegaInv, d, q)

	logD := bitLen(uint64(d)) - 1
	ctx.bitrev = make([]int, d)
	for i := range ctx.bitrev {
		ctx.bitrev[i] = int(reverseBits(uint64(i), logD))
	}

	return ctx, nil
}

func powersNatural(g uint64, n int, q uint64) []uint64 {
	pow := make([]uint64, n)
	cur := uint64(1)
	for i := 0; i < n; i++ {
		pow[i] = cur
		cur = mulMod64(cur, g, q)
	}
	return pow
}

// Forward computes the negacyclic forward NTT of a, a length-D vector of
// natural-form residues mod Q.
func (ctx *NTTContext) Forward(a []uint64) []uint64 {
	d, q := ctx.D, ctx.Q
	twisted := make([]uint64, d)
	for i, c := range a {
		twisted[i] = mulMod64(c, ctx.psiPow[i], q)
	}
	return ctx.dftInPlace(twisted, ctx.omegaPow)
}

// Inverse computes the negacyclic inverse NTT of A, the output of Forward,
// returning coefficients in natural order.
func (ctx *NTTContext) Inverse(a []uint64) []uint64 {
	d, q := ctx.D, ctx.Q
	untwisted := ctx.dftInPlace(append([]uint64(nil), a...), ctx.omegaInvPow)
	for i := range untwisted {
		untwisted[i] = mulMod64(untwisted[i], ctx.dInv, q)
		untwisted[i] = mulMod64(untwisted[i], ctx.psiInvPow[i], q)
	}
	_ = d
	return untwisted
}

// dftInPlace runs the standard iterative Cooley-Tukey radix-2 transform:
// bit-reverse the input, then combine butterflies bottom-up using powers of
// root (root must be a primitive D-th root of unity) drawn from rootPow at
// stride D/len.
func (ctx *NTTContext) dftInPlace(a []uint64, rootPow []uint64) []uint64 {
	d, q := ctx.D, ctx.Q

	out := make([]uint64, d)
	for i, r := range ctx.bitrev {
		out[r] = a[i]
	}

	for length := 2; length <= d; length <<= 1 {
		half := length / 2
		stride := d / length
		for start := 0; start < d; start += length {
			for j := 0; j < half; j++ {
				w := rootPow[j*stride]
				u := out[start+j]
				v := mulMod64(out[start+j+half], w, q)
				out[start+j] = addMod64(u, v, q)
				out[start+j+half] = subMod64(u, v, q)
			}
		}
	}
	return out
}

func addMod64(a, b, q uint64) uint64 {
	s := a + b
	if s >= q {
		s -= q
	}
	return s
}

func subMod64(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + q - b
}
