package bfv

import (
	"fmt"
	"math/big"

	"github.com/latticecrypt/hecore/ring"
)

// BatchEncoder packs D integers mod P into the D NTT-domain slots of a
// plaintext polynomial, using the plaintext-modulus NTT as the evaluation
// map: Encode stores values at the roots of unity mod P (an inverse
// transform), Decode reads them back (a forward transform). P must be an
// NTT-friendly prime (p = 1 mod 2D) for this to exist.
type BatchEncoder struct {
	params Parameters
	nttP   *ring.NTTContext
}

// NewBatchEncoder builds a BatchEncoder, failing if the plaintext modulus
// admits no 2D-th root of unity.
func NewBatchEncoder(params Parameters) (*BatchEncoder, error) {
	nttP, err := ring.NewNTTContext(params.D, params.P)
	if err != nil {
		return nil, fmt.Errorf("%w: plaintext modulus does not support batching: %v", ring.ErrInvalidParameter, err)
	}
	return &BatchEncoder{params: params, nttP: nttP}, nil
}

// Encode packs values, one per slot, into a plaintext polynomial.
func (be *BatchEncoder) Encode(values []int64) (*Plaintext, error) {
	if len(values) != be.params.D {
		return nil, fmt.Errorf("%w: batch encoder has %d slots, got %d values", ring.ErrInvalidSize, be.params.D, len(values))
	}
	slots := make([]uint64, be.params.D)
	pBig := new(big.Int).SetUint64(be.params.P)
	for i, v := range values {
		slots[i] = new(big.Int).Mod(big.NewInt(v), pBig).Uint64()
	}
	coeffs := be.nttP.Inverse(slots)
	out := make([]*big.Int, be.params.D)
	for i, c := range coeffs {
		out[i] = new(big.Int).SetUint64(c)
	}
	return &Plaintext{Value: ring.NewPolynomialFromBigInts(out)}, nil
}

// Decode reads the D slot values back out of a plaintext polynomial.
func (be *BatchEncoder) Decode(pt *Plaintext) ([]int64, error) {
	if pt.Value.D != be.params.D {
		return nil, fmt.Errorf("%w: plaintext has degree %d, encoder expects %d", ring.ErrInvalidSize, pt.Value.D, be.params.D)
	}
	coeffs := make([]uint64, be.params.D)
	pBig := new(big.Int).SetUint64(be.params.P)
	for i := 0; i < be.params.D; i++ {
		coeffs[i] = new(big.Int).Mod(pt.Value.Int(i), pBig).Uint64()
	}
	slots := be.nttP.Forward(coeffs)

	out := make([]int64, be.params.D)
	half := be.params.P / 2
	for i, s := range slots {
		if s > half {
			out[i] = int64(s) - int64(be.params.P)
		} else {
			out[i] = int64(s)
		}
	}
	return out, nil
}
