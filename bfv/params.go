// Package bfv implements the BFV scheme (exact integer plaintext
// arithmetic) over the shared polynomial ring engine: parameters, key
// generation, encryption, decryption, homomorphic evaluation, and a
// batching encoder (§4.6).
package bfv

import (
	"fmt"
	"math/big"

	"github.com/ALTree/bigfloat"

	"github.com/latticecrypt/hecore/ring"
)

// ParametersLiteral is the unchecked, user-facing parameter
// specification, the same role the teacher's bfv.ParametersLiteral plays:
// public fields, passed through NewParametersFromLiteral for validation.
type ParametersLiteral struct {
	D int      // ring degree, power of two
	P uint64   // plaintext modulus
	Q *big.Int // ciphertext modulus
}

// Parameters is a validated, immutable BFV parameter set (§4.6).
type Parameters struct {
	D     int
	P     uint64
	Q     *big.Int
	Delta *big.Float // Q/P as a real number (not floored), the scaling factor

	// RelinBase is T = ceil(sqrt(Q)), the base used to decompose the
	// degree-2 ciphertext term during relinearization.
	RelinBase *big.Int
	// RelinDigits is L = floor(log_T(Q)) + 1, the number of decomposition
	// digits the relinearization key carries.
	RelinDigits int

	NTT *ring.NTTContext
}

// NewParametersFromLiteral validates pl and derives the scaling factor and
// relinearization sizing.
func NewParametersFromLiteral(pl ParametersLiteral) (Parameters, error) {
	if !isPowerOfTwo(pl.D) {
		return Parameters{}, fmt.Errorf("%w: ring degree %d is not a power of two", ring.ErrInvalidParameter, pl.D)
	}
	if pl.Q == nil || pl.Q.Sign() <= 0 {
		return Parameters{}, fmt.Errorf("%w: ciphertext modulus must be positive", ring.ErrInvalidParameter)
	}
	if pl.P == 0 || new(big.Int).SetUint64(pl.P).Cmp(pl.Q) >= 0 {
		return Parameters{}, fmt.Errorf("%w: plaintext modulus must be positive and smaller than the ciphertext modulus", ring.ErrInvalidParameter)
	}
	if !pl.Q.IsUint64() {
		return Parameters{}, fmt.Errorf("%w: BFV ciphertext modulus must fit in 64 bits for a single-modulus ring engine", ring.ErrInvalidParameter)
	}

	nttCtx, err := ring.NewNTTContext(pl.D, pl.Q.Uint64())
	if err != nil {
		return Parameters{}, err
	}

	delta := new(big.Float).SetPrec(4096).Quo(new(big.Float).SetInt(pl.Q), new(big.Float).SetUint64(pl.P))

	relinBase := relinerizationBase(pl.Q)
	relinDigits := relinearizationDigits(pl.Q, relinBase)

	return Parameters{
		D: pl.D, P: pl.P, Q: new(big.Int).Set(pl.Q), Delta: delta,
		RelinBase: relinBase, RelinDigits: relinDigits,
		NTT: nttCtx,
	}, nil
}

// relinerizationBase computes T = ceil(sqrt(Q)) using bigfloat.Sqrt, since
// a 64-bit Q may exceed the 53-bit mantissa a plain float64 sqrt carries.
func relinerizationBase(q *big.Int) *big.Int {
	qFloat := new(big.Float).SetPrec(4096).SetInt(q)
	root := bigfloat.Sqrt(qFloat)
	t, acc := root.Int(nil)
	if acc == big.Below {
		t.Add(t, big.NewInt(1))
	}
	return t
}

// relinearizationDigits computes L = floor(log_T(Q)) + 1.
func relinearizationDigits(q, t *big.Int) int {
	digits := 0
	remaining := new(big.Int).Set(q)
	for remaining.Sign() > 0 {
		remaining.Div(remaining, t)
		digits++
	}
	if digits == 0 {
		digits = 1
	}
	return digits
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
