package ring

import (
	"fmt"
	"math/big"
	"strings"
)

// coeffPrec is the precision, in bits, carried by every Polynomial
// coefficient. It comfortably exceeds the largest modulus this engine ever
// reconstructs against (CKKS's ~2400-bit Q*P when Q and P are each ~1200
// bits), so integer coefficients are
// always represented exactly; only the handful of literal real inputs
// Round/Floor accept are genuinely inexact, and even those need far less
// than this margin.
const coeffPrec = 4096

// Polynomial is a fixed-degree element of R = Z[x]/(x^D+1) (§3). Degree is
// fixed at construction and always equals len(Coeffs). Values are
// immutable: every method here returns a fresh Polynomial and never
// mutates its receiver or arguments.
//
// Coefficients are carried as *big.Float rather than *big.Int so a single
// representation serves both BFV's exact integers and CKKS's scaled real
// values (design note 9's "enum of coefficient kinds" collapsed into one
// arbitrary-precision numeric type, the same choice the teacher made for
// its own arbitrary-precision Complex type in ring/complex128.go). Native
// uint64 residues and complex128 slots are used only as transient working
// storage inside a single NTT/FFT call and never escape onto this type.
type Polynomial struct {
	D      int
	Coeffs []*big.Float
}

func newCoeffPrec() *big.Float {
	return new(big.Float).SetPrec(coeffPrec)
}

func floatOf(v float64) *big.Float {
	return newCoeffPrec().SetFloat64(v)
}

func floatOfInt(v *big.Int) *big.Float {
	return newCoeffPrec().SetInt(v)
}

func floatOfUint64(v uint64) *big.Float {
	return newCoeffPrec().SetUint64(v)
}

// NewPolynomial builds a degree-d Polynomial from coeffs, failing with
// ErrInvalidSize if len(coeffs) != d.
func NewPolynomial(d int, coeffs []*big.Float) (*Polynomial, error) {
	if len(coeffs) != d {
		return nil, fmt.Errorf("%w: polynomial of degree %d needs %d coefficients, got %d", ErrInvalidSize, d, d, len(coeffs))
	}
	out := make([]*big.Float, d)
	for i, c := range coeffs {
		out[i] = newCoeffPrec().Set(c)
	}
	return &Polynomial{D: d, Coeffs: out}, nil
}

// NewPolynomialFromInts builds a Polynomial whose degree is len(coeffs),
// each value taken as an exact integer.
func NewPolynomialFromInts(coeffs []int64) *Polynomial {
	out := make([]*big.Float, len(coeffs))
	for i, c := range coeffs {
		out[i] = newCoeffPrec().SetInt64(c)
	}
	return &Polynomial{D: len(coeffs), Coeffs: out}
}

// NewPolynomialFromBigInts builds a Polynomial whose degree is len(coeffs).
func NewPolynomialFromBigInts(coeffs []*big.Int) *Polynomial {
	out := make([]*big.Float, len(coeffs))
	for i, c := range coeffs {
		out[i] = floatOfInt(c)
	}
	return &Polynomial{D: len(coeffs), Coeffs: out}
}

// NewPolynomialFromFloats builds a Polynomial whose degree is len(coeffs),
// for the real-valued inputs Round/Floor and CKKS encoding stage on.
func NewPolynomialFromFloats(coeffs []float64) *Polynomial {
	out := make([]*big.Float, len(coeffs))
	for i, c := range coeffs {
		out[i] = floatOf(c)
	}
	return &Polynomial{D: len(coeffs), Coeffs: out}
}

// ZeroPolynomial returns the additive identity of degree d.
func ZeroPolynomial(d int) *Polynomial {
	out := make([]*big.Float, d)
	for i := range out {
		out[i] = newCoeffPrec()
	}
	return &Polynomial{D: d, Coeffs: out}
}

func (p *Polynomial) clone() *Polynomial {
	out := make([]*big.Float, p.D)
	for i, c := range p.Coeffs {
		out[i] = newCoeffPrec().Set(c)
	}
	return &Polynomial{D: p.D, Coeffs: out}
}

// Int returns coefficient i truncated to the nearest big.Int toward zero.
// Coefficients produced by modular-arithmetic paths are always exact
// integers, so truncation is lossless there; callers that might hold a
// genuinely fractional value should call Round or Floor first.
func (p *Polynomial) Int(i int) *big.Int {
	v, _ := p.Coeffs[i].Int(nil)
	return v
}

func reduceMod(v, q *big.Int) *big.Int {
	return new(big.Int).Mod(v, q)
}

// Add returns the coefficient-wise sum of p and other, reduced into [0, q)
// if q is non-nil.
func (p *Polynomial) Add(other *Polynomial, q *big.Int) (*Polynomial, error) {
	if p.D != other.D {
		return nil, fmt.Errorf("%w: add operands have degrees %d and %d", ErrInvalidSize, p.D, other.D)
	}
	out := make([]*big.Float, p.D)
	for i := range out {
		sum := newCoeffPrec().Add(p.Coeffs[i], other.Coeffs[i])
		if q != nil {
			sum = floatOfInt(reduceMod(mustInt(sum), q))
		}
		out[i] = sum
	}
	return &Polynomial{D: p.D, Coeffs: out}, nil
}

func mustInt(f *big.Float) *big.Int {
	v, _ := f.Int(nil)
	return v
}

// Subtract returns the coefficient-wise difference p - other, reduced into
// [0, q) if q is non-nil.
func (p *Polynomial) Subtract(other *Polynomial, q *big.Int) (*Polynomial, error) {
	if p.D != other.D {
		return nil, fmt.Errorf("%w: subtract operands have degrees %d and %d", ErrInvalidSize, p.D, other.D)
	}
	out := make([]*big.Float, p.D)
	for i := range out {
		diff := newCoeffPrec().Sub(p.Coeffs[i], other.Coeffs[i])
		if q != nil {
			diff = floatOfInt(reduceMod(mustInt(diff), q))
		}
		out[i] = diff
	}
	return &Polynomial{D: p.D, Coeffs: out}, nil
}

// ScalarMultiply multiplies every coefficient by s, reducing into [0, q) if
// q is non-nil (s itself need not be an integer when q is nil).
func (p *Polynomial) ScalarMultiply(s *big.Float, q *big.Int) *Polynomial {
	out := make([]*big.Float, p.D)
	for i, c := range p.Coeffs {
		v := newCoeffPrec().Mul(c, s)
		if q != nil {
			v = floatOfInt(reduceMod(mustInt(v), q))
		}
		out[i] = v
	}
	return &Polynomial{D: p.D, Coeffs: out}
}

// Divide performs floor division of every coefficient by the integer s,
// reducing into [0, q) afterward if q is non-nil. The source's divide
// filters its comprehension on `if coeff_modulus`, silently dropping every
// coefficient when no modulus is supplied; this always divides first and
// only conditionally reduces (§9).
func (p *Polynomial) Divide(s *big.Int, q *big.Int) (*Polynomial, error) {
	if s.Sign() == 0 {
		return nil, fmt.Errorf("%w: division by zero", ErrInvalidParameter)
	}
	out := make([]*big.Float, p.D)
	for i := range out {
		v := new(big.Int).Div(p.Int(i), s)
		if q != nil {
			v = reduceMod(v, q)
		}
		out[i] = floatOfInt(v)
	}
	return &Polynomial{D: p.D, Coeffs: out}, nil
}

// Mod reduces every coefficient into [0, q).
func (p *Polynomial) Mod(q *big.Int) *Polynomial {
	out := make([]*big.Float, p.D)
	for i := range out {
		out[i] = floatOfInt(reduceMod(p.Int(i), q))
	}
	return &Polynomial{D: p.D, Coeffs: out}
}

// ModSmall reduces every coefficient into the balanced representation
// (-q/2, q/2]: first into [0, q), then subtracting q from anything past
// floor(q/2).
func (p *Polynomial) ModSmall(q *big.Int) *Polynomial {
	half := new(big.Int).Rsh(q, 1)
	out := make([]*big.Float, p.D)
	for i := range out {
		v := reduceMod(p.Int(i), q)
		if v.Cmp(half) > 0 {
			v = new(big.Int).Sub(v, q)
		}
		out[i] = floatOfInt(v)
	}
	return &Polynomial{D: p.D, Coeffs: out}
}

// Round rounds every coefficient to the nearest integer, half away from
// zero.
func (p *Polynomial) Round() *Polynomial {
	out := make([]*big.Float, p.D)
	for i, c := range p.Coeffs {
		out[i] = floatOfInt(roundHalfAwayFromZero(c))
	}
	return &Polynomial{D: p.D, Coeffs: out}
}

func roundHalfAwayFromZero(x *big.Float) *big.Int {
	half := floatOf(0.5)
	if x.Sign() >= 0 {
		shifted := newCoeffPrec().Add(x, half)
		return mustInt(shifted)
	}
	shifted := newCoeffPrec().Sub(x, half)
	return mustInt(shifted)
}

// Floor truncates every coefficient toward negative infinity.
func (p *Polynomial) Floor() *Polynomial {
	out := make([]*big.Float, p.D)
	for i, c := range p.Coeffs {
		out[i] = floatOfInt(floorBigFloat(c))
	}
	return &Polynomial{D: p.D, Coeffs: out}
}

func floorBigFloat(x *big.Float) *big.Int {
	trunc := mustInt(x)
	if x.Sign() < 0 {
		check := floatOfInt(trunc)
		if check.Cmp(x) != 0 {
			trunc = new(big.Int).Sub(trunc, big.NewInt(1))
		}
	}
	return trunc
}

// Rotate applies the Galois automorphism m(x) -> m(x^k), k = 5^r mod 2D,
// which rotates slot-encoded vectors by r positions.
func (p *Polynomial) Rotate(r int) (*Polynomial, error) {
	if r < 0 {
		return nil, fmt.Errorf("%w: rotation step must be non-negative", ErrInvalidParameter)
	}
	d := p.D
	twoD := uint64(2 * d)
	k := ModExp(5, uint64(r), twoD)

	out := make([]*big.Float, d)
	for i := range out {
		out[i] = newCoeffPrec()
	}
	for i := 0; i < d; i++ {
		j := (uint64(i) * k) % twoD
		if j < uint64(d) {
			out[j] = newCoeffPrec().Set(p.Coeffs[i])
		} else {
			out[j-uint64(d)] = newCoeffPrec().Neg(p.Coeffs[i])
		}
	}
	return &Polynomial{D: d, Coeffs: out}, nil
}

// Conjugate applies m(x) -> m(x^-1).
func (p *Polynomial) Conjugate() *Polynomial {
	d := p.D
	out := make([]*big.Float, d)
	out[0] = newCoeffPrec().Set(p.Coeffs[0])
	for i := 1; i < d; i++ {
		out[i] = newCoeffPrec().Neg(p.Coeffs[d-i])
	}
	return &Polynomial{D: d, Coeffs: out}
}

// BaseDecompose splits p into l polynomials D_0..D_{l-1} with
// D_i = floor(P / T^i) mod T, so that P = sum D_i * T^i. Coefficients of p
// must already be non-negative integers (true of any ciphertext component
// after modular reduction). Used to tame noise growth during BFV
// relinearization.
func (p *Polynomial) BaseDecompose(t *big.Int, l int) ([]*Polynomial, error) {
	if l <= 0 {
		return nil, fmt.Errorf("%w: base decomposition needs at least one digit", ErrInvalidParameter)
	}
	digits := make([][]*big.Float, l)
	for i := range digits {
		digits[i] = make([]*big.Float, p.D)
	}

	for c := 0; c < p.D; c++ {
		remaining := p.Int(c)
		for i := 0; i < l; i++ {
			d := new(big.Int).Mod(remaining, t)
			digits[i][c] = floatOfInt(d)
			remaining = new(big.Int).Div(remaining, t)
		}
	}

	out := make([]*Polynomial, l)
	for i := range out {
		out[i] = &Polynomial{D: p.D, Coeffs: digits[i]}
	}
	return out, nil
}

// SimpleMultiply computes the negacyclic convolution of p and other by
// direct O(d^2) summation (§4.5), operating over the lower of the two
// degrees. If q is non-nil the result is reduced into [0, q).
func (p *Polynomial) SimpleMultiply(other *Polynomial, q *big.Int) (*Polynomial, error) {
	dPrime := minOrdered(p.D, other.D)

	conv := make([]*big.Int, 2*dPrime-1)
	for i := range conv {
		conv[i] = big.NewInt(0)
	}
	for i := 0; i < dPrime; i++ {
		ai := p.Int(i)
		if ai.Sign() == 0 {
			continue
		}
		for j := 0; j < dPrime; j++ {
			bj := other.Int(j)
			if bj.Sign() == 0 {
				continue
			}
			conv[i+j].Add(conv[i+j], new(big.Int).Mul(ai, bj))
		}
	}

	out := make([]*big.Int, dPrime)
	for i := 0; i < dPrime; i++ {
		out[i] = new(big.Int).Set(conv[i])
	}
	for i := dPrime; i < 2*dPrime-1; i++ {
		out[i-dPrime].Sub(out[i-dPrime], conv[i])
	}

	if q != nil {
		for i := range out {
			out[i] = reduceMod(out[i], q)
		}
	}
	return NewPolynomialFromBigInts(out), nil
}

// NTTMultiply computes the negacyclic convolution of p and other via
// pointwise multiplication in the NTT domain of ctx, which must have been
// built for degree p.D == other.D.
func (p *Polynomial) NTTMultiply(other *Polynomial, ctx *NTTContext) (*Polynomial, error) {
	if p.D != ctx.D || other.D != ctx.D {
		return nil, fmt.Errorf("%w: NTT context is for degree %d, operands have degrees %d and %d", ErrInvalidSize, ctx.D, p.D, other.D)
	}

	a := p.residues(ctx.Q)
	b := other.residues(ctx.Q)
	c := nttMultiply(ctx, a, b)

	out := make([]*big.Int, ctx.D)
	for i, v := range c {
		out[i] = new(big.Int).SetUint64(v)
	}
	return NewPolynomialFromBigInts(out), nil
}

// CRTMultiply computes the negacyclic convolution of p and other across
// every prime in ctx's tower, reconstructs the per-coefficient big integer,
// and rebalances the result to (-Q/2, Q/2].
func (p *Polynomial) CRTMultiply(other *Polynomial, ctx *CRTContext) (*Polynomial, error) {
	if p.D != ctx.D || other.D != ctx.D {
		return nil, fmt.Errorf("%w: CRT context is for degree %d, operands have degrees %d and %d", ErrInvalidSize, ctx.D, p.D, other.D)
	}

	l := len(ctx.Primes)
	aRes := make([][]uint64, l)
	bRes := make([][]uint64, l)
	for i, prime := range ctx.Primes {
		aRes[i] = p.residues(prime)
		bRes[i] = other.residues(prime)
	}
	products := ctx.multiplyResidues(aRes, bRes)

	out := make([]*big.Int, ctx.D)
	residues := make([]uint64, l)
	for c := 0; c < ctx.D; c++ {
		for i := range residues {
			residues[i] = products[i][c]
		}
		v, err := ctx.Reconstruct(residues)
		if err != nil {
			return nil, err
		}
		out[c] = v
	}

	result := NewPolynomialFromBigInts(out)
	return result.ModSmall(ctx.Q), nil
}

// FFTMultiply computes the negacyclic convolution of p and other via an
// oversampled complex FFT (§4.5): the operands are zero-padded well beyond
// the length needed for a linear convolution to keep floating-point error
// from the transform away from the coefficients that matter, multiplied
// pointwise in the spectrum, and folded back down negacyclically. If round
// is true the recovered coefficients are rounded to the nearest integer;
// otherwise they are returned as the raw floating-point values.
func (p *Polynomial) FFTMultiply(other *Polynomial, round bool) (*Polynomial, error) {
	dPrime := minOrdered(p.D, other.D)

	n := 8 * dPrime
	fftCtx, err := NewFFTContext(n)
	if err != nil {
		return nil, err
	}

	a := make([]complex128, n)
	b := make([]complex128, n)
	for i := 0; i < dPrime; i++ {
		av, _ := p.Coeffs[i].Float64()
		bv, _ := other.Coeffs[i].Float64()
		a[i] = complex(av, 0)
		b[i] = complex(bv, 0)
	}

	A := fftCtx.Forward(a)
	B := fftCtx.Forward(b)
	C := make([]complex128, n)
	for i := range C {
		C[i] = A[i] * B[i]
	}
	conv := fftCtx.Inverse(C)

	out := make([]*big.Float, dPrime)
	for i := range out {
		out[i] = newCoeffPrec()
	}
	for i := 0; i < 2*dPrime-1; i++ {
		v := real(conv[i])
		idx, sign := i, 1.0
		if i >= dPrime {
			idx, sign = i-dPrime, -1.0
		}
		out[idx] = newCoeffPrec().Add(out[idx], floatOf(sign*v))
	}

	result := &Polynomial{D: dPrime, Coeffs: out}
	if round {
		return result.Round(), nil
	}
	return result, nil
}

// residues returns p's coefficients reduced mod q as native uint64
// residues, the representation NTT/CRT contexts operate on.
func (p *Polynomial) residues(q uint64) []uint64 {
	qBig := new(big.Int).SetUint64(q)
	out := make([]uint64, p.D)
	for i, c := range p.Coeffs {
		v, _ := c.Int(nil)
		out[i] = reduceMod(v, qBig).Uint64()
	}
	return out
}

// String pretty-prints p as a polynomial in x, highest degree first,
// omitting zero coefficients and an explicit coefficient of 1 on
// non-constant terms (§6). This format is load-bearing for equality in
// tests.
func (p *Polynomial) String() string {
	var terms []string
	for i := p.D - 1; i >= 0; i-- {
		c := mustInt(p.Coeffs[i])
		if c.Sign() == 0 {
			continue
		}
		terms = append(terms, formatTerm(c, i))
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " + ")
}

func formatTerm(c *big.Int, degree int) string {
	switch degree {
	case 0:
		return c.String()
	case 1:
		if c.Cmp(big.NewInt(1)) == 0 {
			return "x"
		}
		return c.String() + "x"
	default:
		if c.Cmp(big.NewInt(1)) == 0 {
			return fmt.Sprintf("x^%d", degree)
		}
		return fmt.Sprintf("%sx^%d", c.String(), degree)
	}
}
