// Package ckks implements the CKKS scheme (approximate fixed-point
// arithmetic over complex/real vectors) over the shared polynomial ring
// engine: parameters, key generation, pk/sk encryption, decryption,
// homomorphic evaluation with special-modulus relinearization and
// rotation, the canonical-embedding encoder, and a precision diagnostic
// (§4.7, §4.8).
package ckks

import (
	"fmt"
	"math/big"

	"golang.org/x/exp/slices"

	"github.com/latticecrypt/hecore/ring"
)

// ParametersLiteral is the unchecked, user-facing parameter specification,
// mirroring bfv.ParametersLiteral's role and the teacher's
// ckks.ParametersLiteral: public fields passed through
// NewParametersFromLiteral for validation and derivation.
type ParametersLiteral struct {
	D int // ring degree, power of two

	// QPrimes/QBitSize describe the ciphertext-modulus CRT tower Q.
	QPrimes  int
	QBitSize int

	// PPrimes/PBitSize describe the special-modulus CRT tower P used for
	// key switching (relinearization, rotation, conjugation).
	PPrimes  int
	PBitSize int

	Delta            float64 // scaling factor applied by the encoder
	TaylorIterations int     // reserved for the (out of scope) bootstrapping pipeline
}

// Parameters is a validated, immutable CKKS parameter set (§4.7). Unlike
// BFV's single-modulus Q, CKKS's Q and P are each carried as a tower of
// NTT-friendly primes (ring.CRTContext) since the spec's target sizes
// (Q, P >= 2^1200) are far beyond what a single 64-bit NTT prime can carry
// directly (§4.4's CRT/RNS rationale, §9's arbitrary-precision note).
type Parameters struct {
	D int

	Q *big.Int
	P *big.Int

	Delta *big.Float

	// HammingWeight is h = D/4, the number of nonzero secret-key
	// coefficients (§4.7).
	HammingWeight int

	TaylorIterations int

	CRTQ  *ring.CRTContext // tower for Q
	CRTP  *ring.CRTContext // tower for P
	CRTQP *ring.CRTContext // tower for Q*P, used by special-modulus key switching

	Embedding *ring.EmbeddingContext
}

// NewParametersFromLiteral validates pl, builds the Q and P CRT towers
// (and their concatenation Q*P), and derives the scaling factor and
// Hamming weight.
//
// The CRT prime-count heuristic 1 + log2(d) + 4*log2(P)/bitSize (§9) is a
// sizing estimate for callers choosing QPrimes/PPrimes, not an invariant
// this constructor enforces; it is documented here rather than checked.
func NewParametersFromLiteral(pl ParametersLiteral) (Parameters, error) {
	if !isPowerOfTwo(pl.D) {
		return Parameters{}, fmt.Errorf("%w: ring degree %d is not a power of two", ring.ErrInvalidParameter, pl.D)
	}
	if pl.QPrimes <= 0 || pl.PPrimes <= 0 {
		return Parameters{}, fmt.Errorf("%w: Q and P towers each need at least one prime", ring.ErrInvalidParameter)
	}
	if pl.Delta <= 0 {
		return Parameters{}, fmt.Errorf("%w: scaling factor must be positive", ring.ErrInvalidParameter)
	}

	crtQ, err := ring.NewCRTContext(pl.D, pl.QPrimes, pl.QBitSize)
	if err != nil {
		return Parameters{}, fmt.Errorf("%w: building Q tower: %v", ring.ErrInvalidParameter, err)
	}
	// Searched disjoint from crtQ's primes: the same deterministic k*2d+1
	// sweep would otherwise hand P the exact same tower as Q whenever
	// QBitSize and PBitSize agree, leaving Q*P with repeated prime factors
	// instead of a valid CRT basis for special-modulus key switching.
	crtP, err := ring.NewDisjointCRTContext(pl.D, pl.PPrimes, pl.PBitSize, crtQ.Primes)
	if err != nil {
		return Parameters{}, fmt.Errorf("%w: building P tower: %v", ring.ErrInvalidParameter, err)
	}

	// Order within the combined tower has no effect on correctness (each
	// prime gets its own independent NTT context), but sorting gives the
	// Q*P tower a canonical, reproducible prime ordering regardless of
	// which of Q/P happened to claim the smaller primes.
	combined := append(append([]uint64(nil), crtQ.Primes...), crtP.Primes...)
	slices.Sort(combined)
	crtQP, err := ring.NewCRTContextFromPrimes(pl.D, combined)
	if err != nil {
		return Parameters{}, fmt.Errorf("%w: building Q*P tower: %v", ring.ErrInvalidParameter, err)
	}

	embedding, err := ring.NewEmbeddingContext(pl.D)
	if err != nil {
		return Parameters{}, err
	}

	delta := new(big.Float).SetPrec(4096).SetFloat64(pl.Delta)

	return Parameters{
		D:                pl.D,
		Q:                new(big.Int).Set(crtQ.Q),
		P:                new(big.Int).Set(crtP.Q),
		Delta:            delta,
		HammingWeight:    pl.D / 4,
		TaylorIterations: pl.TaylorIterations,
		CRTQ:             crtQ,
		CRTP:             crtP,
		CRTQP:            crtQP,
		Embedding:        embedding,
	}, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
