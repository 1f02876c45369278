package ckks

import (
	"fmt"
	"math/big"

	"github.com/latticecrypt/hecore/ring"
)

// Encoder packs a length-D/2 complex slot vector into a scaled polynomial
// via the canonical embedding (§4.3, §4.7), and unpacks it back out.
type Encoder struct {
	params Parameters
}

// NewEncoder builds an Encoder for params.
func NewEncoder(params Parameters) *Encoder {
	return &Encoder{params: params}
}

// Encode applies the canonical-embedding inverse to values, scales by the
// parameter set's Delta, and rounds to the nearest integer coefficient
// (§4.7): m[i] = round(Delta*Re(u_i)), m[i+D/2] = round(Delta*Im(u_i)),
// where u is the pre-image of values under the canonical embedding.
func (e *Encoder) Encode(values []complex128) (*Plaintext, error) {
	if len(values) != e.params.Embedding.Slots {
		return nil, fmt.Errorf("%w: encoder has %d slots, got %d values", ring.ErrInvalidSize, e.params.Embedding.Slots, len(values))
	}
	u, err := e.params.Embedding.EmbeddingInv(values)
	if err != nil {
		return nil, err
	}
	coeffs := ring.NewPolynomialFromFloats(u)
	scaled := coeffs.ScalarMultiply(e.params.Delta, nil).Round()
	return &Plaintext{Value: scaled, Delta: e.params.Delta}, nil
}

// Decode divides pt's coefficients by its scaling factor and applies the
// canonical embedding to recover the length-D/2 complex slot vector.
func (e *Encoder) Decode(pt *Plaintext) ([]complex128, error) {
	if pt.Value.D != e.params.D {
		return nil, fmt.Errorf("%w: plaintext has degree %d, encoder expects %d", ring.ErrInvalidSize, pt.Value.D, e.params.D)
	}
	invDelta := new(big.Float).SetPrec(4096).Quo(big.NewFloat(1), pt.Delta)
	unscaled := pt.Value.ScalarMultiply(invDelta, nil)

	coeffs := make([]float64, pt.Value.D)
	for i, c := range unscaled.Coeffs {
		coeffs[i], _ = c.Float64()
	}
	return e.params.Embedding.Embedding(coeffs)
}
