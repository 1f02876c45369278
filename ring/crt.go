package ring

import (
	"fmt"
	"math/big"

	"github.com/klauspost/cpuid/v2"
)

// parallelCRTThreshold is the minimum number of CRT primes before
// CRTContext.multiplyResidues bothers fanning per-prime NTT multiplications
// out across goroutines; below it the scheduling overhead dwarfs the work.
const parallelCRTThreshold = 4

// crtWorkers caches the goroutine budget for parallel per-prime CRT
// multiplication, probed once via cpuid as the teacher's dgen/dbfv packages
// probe runtime.NumCPU for their own worker pools. A single logical core
// (or a CPU cpuid cannot read) degrades to serial execution, matching the
// spec's requirement that parallelism never change the observable result.
var crtWorkers = func() int {
	n := cpuid.CPU.LogicalCores
	if n < 1 {
		return 1
	}
	return n
}()

// CRTContext represents a composite modulus Q as a tower of distinct
// NTT-friendly primes (the Chinese Remainder / RNS representation, §4.4):
// an integer is carried as its residues modulo each prime, letting
// arithmetic that would otherwise require big-integer NTTs run as native
// 64-bit NTTs per prime, recombined only when a caller needs the composed
// value back.
type CRTContext struct {
	D      int
	Primes []uint64
	Q      *big.Int

	ntts []*NTTContext

	qDivPi    []*big.Int // Q / p_i
	qDivPiInv []uint64   // (Q / p_i)^-1 mod p_i
}

// NewCRTContext builds a CRT context for ring degree d with l primes, each
// approximately bitSize bits, found by enumerating candidates of the form
// k*2d+1 starting from 2^bitSize and testing primality (§4.4).
func NewCRTContext(d, l, bitSize int) (*CRTContext, error) {
	if !isPowerOfTwo(d) {
		return nil, fmt.Errorf("%w: degree %d is not a power of two", ErrInvalidParameter, d)
	}
	if l <= 0 {
		return nil, fmt.Errorf("%w: CRT context needs at least one prime", ErrInvalidParameter)
	}

	primes, err := findCRTPrimes(d, l, bitSize, nil)
	if err != nil {
		return nil, err
	}
	return NewCRTContextFromPrimes(d, primes)
}

// NewDisjointCRTContext builds a CRT context like NewCRTContext, but skips
// any candidate prime already present in exclude. CKKS's special-modulus
// tower P (§4.7) is searched this way against the primes already claimed by
// Q, since both towers are found by the same deterministic k*2d+1 sweep and
// would otherwise collide whenever QBitSize and PBitSize agree, leaving Q*P
// with repeated prime factors instead of a valid CRT basis.
func NewDisjointCRTContext(d, l, bitSize int, exclude []uint64) (*CRTContext, error) {
	if !isPowerOfTwo(d) {
		return nil, fmt.Errorf("%w: degree %d is not a power of two", ErrInvalidParameter, d)
	}
	if l <= 0 {
		return nil, fmt.Errorf("%w: CRT context needs at least one prime", ErrInvalidParameter)
	}

	skip := make(map[uint64]bool, len(exclude))
	for _, p := range exclude {
		skip[p] = true
	}

	primes, err := findCRTPrimes(d, l, bitSize, skip)
	if err != nil {
		return nil, err
	}
	return NewCRTContextFromPrimes(d, primes)
}

// NewCRTContextFromPrimes builds a CRT context over an explicit, caller-
// supplied prime tower instead of searching for one. CKKS's special-modulus
// relinearization (§4.7) needs a tower for the combined modulus Q*P: this
// lets the evaluator concatenate the Q-tower's primes with the P-tower's
// primes into one CRTContext rather than searching for a fresh set. A new
// NTTContext is built for every prime in the list; the contexts of the Q
// and P towers are not shared.
func NewCRTContextFromPrimes(d int, primes []uint64) (*CRTContext, error) {
	if !isPowerOfTwo(d) {
		return nil, fmt.Errorf("%w: degree %d is not a power of two", ErrInvalidParameter, d)
	}
	if len(primes) == 0 {
		return nil, fmt.Errorf("%w: CRT context needs at least one prime", ErrInvalidParameter)
	}

	ctx := &CRTContext{D: d, Primes: append([]uint64(nil), primes...), Q: big.NewInt(1)}
	l := len(ctx.Primes)
	ctx.ntts = make([]*NTTContext, l)
	for i, p := range ctx.Primes {
		nttCtx, err := NewNTTContext(d, p)
		if err != nil {
			return nil, fmt.Errorf("%w: prime %d failed NTT setup: %v", ErrInvalidParameter, p, err)
		}
		ctx.ntts[i] = nttCtx
		ctx.Q.Mul(ctx.Q, new(big.Int).SetUint64(p))
	}

	ctx.qDivPi = make([]*big.Int, l)
	ctx.qDivPiInv = make([]uint64, l)
	for i, p := range ctx.Primes {
		qDivPi := new(big.Int).Div(ctx.Q, new(big.Int).SetUint64(p))
		ctx.qDivPi[i] = qDivPi

		pBig := new(big.Int).SetUint64(p)
		qDivPiModP := new(big.Int).Mod(qDivPi, pBig).Uint64()
		ctx.qDivPiInv[i] = ModInv(qDivPiModP, p)
	}

	return ctx, nil
}

// findCRTPrimes enumerates candidates of the form k*2d+1 upward from 2^s and
// returns the first l that are prime and not present in skip, exactly as
// §4.4 specifies (skip may be nil).
func findCRTPrimes(d, l, bitSize int, skip map[uint64]bool) ([]uint64, error) {
	twoD := uint64(2 * d)
	base := new(big.Int).Lsh(big.NewInt(1), uint(bitSize))
	k := new(big.Int).Div(base, new(big.Int).SetUint64(twoD))
	if new(big.Int).Mod(base, new(big.Int).SetUint64(twoD)).Sign() != 0 {
		k.Add(k, big.NewInt(1))
	}

	primes := make([]uint64, 0, l)
	candidate := new(big.Int)
	for len(primes) < l {
		candidate.Mul(k, new(big.Int).SetUint64(twoD))
		candidate.Add(candidate, big.NewInt(1))
		if !candidate.IsUint64() {
			return nil, fmt.Errorf("%w: exhausted uint64 range searching for CRT primes", ErrInvalidParameter)
		}
		p := candidate.Uint64()
		if IsPrime(p) && !skip[p] {
			primes = append(primes, p)
		}
		k.Add(k, big.NewInt(1))
	}
	return primes, nil
}

// Reconstruct composes a single big integer from its CRT residues (one per
// prime, in ctx.Primes order): sum r_i * (Q/p_i) * (Q/p_i)^-1-mod-p_i, mod
// Q. The result lies in [0, Q); callers typically rebalance it to
// (-Q/2, Q/2] via ModSmall.
func (ctx *CRTContext) Reconstruct(residues []uint64) (*big.Int, error) {
	if len(residues) != len(ctx.Primes) {
		return nil, fmt.Errorf("%w: expected %d residues, got %d", ErrInvalidSize, len(ctx.Primes), len(residues))
	}

	acc := new(big.Int)
	term := new(big.Int)
	for i, r := range residues {
		coeff := mulMod64(r, ctx.qDivPiInv[i], ctx.Primes[i])
		term.Mul(ctx.qDivPi[i], new(big.Int).SetUint64(coeff))
		acc.Add(acc, term)
	}
	acc.Mod(acc, ctx.Q)
	return acc, nil
}

// multiplyResidues runs the negacyclic convolution of a and b (each length
// D native residues) under every prime in the tower, returning one result
// vector per prime. Work fans out across goroutines once there are enough
// primes to make it worthwhile; each prime's multiplication is independent
// and pure, so parallelizing it cannot change the result (§5).
func (ctx *CRTContext) multiplyResidues(a, b [][]uint64) [][]uint64 {
	l := len(ctx.Primes)
	out := make([][]uint64, l)

	multiplyOne := func(i int) {
		out[i] = nttMultiply(ctx.ntts[i], a[i], b[i])
	}

	if l < parallelCRTThreshold || crtWorkers <= 1 {
		for i := 0; i < l; i++ {
			multiplyOne(i)
		}
		return out
	}

	sem := make(chan struct{}, crtWorkers)
	done := make(chan struct{}, l)
	for i := 0; i < l; i++ {
		i := i
		sem <- struct{}{}
		go func() {
			defer func() { <-sem; done <- struct{}{} }()
			multiplyOne(i)
		}()
	}
	for i := 0; i < l; i++ {
		<-done
	}
	return out
}

// nttMultiply computes the negacyclic product of a and b under ctx's
// modulus via pointwise multiplication in the NTT domain.
func nttMultiply(ctx *NTTContext, a, b []uint64) []uint64 {
	A := ctx.Forward(a)
	B := ctx.Forward(b)
	C := make([]uint64, ctx.D)
	for i := range C {
		C[i] = mulMod64(A[i], B[i], ctx.Q)
	}
	return ctx.Inverse(C)
}
