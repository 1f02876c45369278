package bfv

import (
	"fmt"
	"math/big"

	"github.com/latticecrypt/hecore/ring"
)

// Evaluator performs homomorphic operations on BFV ciphertexts.
type Evaluator struct {
	params Parameters
}

// NewEvaluator builds an Evaluator for params.
func NewEvaluator(params Parameters) *Evaluator {
	return &Evaluator{params: params}
}

// Add returns the coefficient-wise sum of two same-degree ciphertexts.
func (ev *Evaluator) Add(a, b *Ciphertext) (*Ciphertext, error) {
	if len(a.Value) != len(b.Value) {
		return nil, fmt.Errorf("%w: ciphertext operands have degrees %d and %d", ring.ErrInvalidSize, a.Degree(), b.Degree())
	}
	out := make([]*ring.Polynomial, len(a.Value))
	for i := range out {
		sum, err := a.Value[i].Add(b.Value[i], ev.params.Q)
		if err != nil {
			return nil, err
		}
		out[i] = sum
	}
	return &Ciphertext{Value: out}, nil
}

// AddPlain adds a plaintext (scaled by Delta) into a ciphertext's constant
// term.
func (ev *Evaluator) AddPlain(a *Ciphertext, pt *Plaintext) (*Ciphertext, error) {
	scaled := pt.Value.ScalarMultiply(ev.params.Delta, ev.params.Q)
	c0, err := a.Value[0].Add(scaled, ev.params.Q)
	if err != nil {
		return nil, err
	}
	out := make([]*ring.Polynomial, len(a.Value))
	copy(out, a.Value)
	out[0] = c0
	return &Ciphertext{Value: out}, nil
}

// Multiply computes the tensor product of two degree-1 ciphertexts,
// producing a degree-2 ciphertext (§4.6):
//
//	d0 = round(P/Q * c0*c0'), d1 = round(P/Q * (c0*c1' + c1*c0')),
//	d2 = round(P/Q * c1*c1')
//
// The pre-scaling products are computed exactly over the integers (not in
// the NTT domain, which would silently wrap at Q) since they can exceed Q
// before the P/Q rescale brings them back down.
func (ev *Evaluator) Multiply(a, b *Ciphertext) (*Ciphertext, error) {
	if a.Degree() != 1 || b.Degree() != 1 {
		return nil, fmt.Errorf("%w: multiply requires two degree-1 ciphertexts", ring.ErrInvalidSize)
	}

	c0c0, err := a.Value[0].SimpleMultiply(b.Value[0], nil)
	if err != nil {
		return nil, err
	}
	c1c1, err := a.Value[1].SimpleMultiply(b.Value[1], nil)
	if err != nil {
		return nil, err
	}
	c0c1, err := a.Value[0].SimpleMultiply(b.Value[1], nil)
	if err != nil {
		return nil, err
	}
	c1c0, err := a.Value[1].SimpleMultiply(b.Value[0], nil)
	if err != nil {
		return nil, err
	}
	cross, err := c0c1.Add(c1c0, nil)
	if err != nil {
		return nil, err
	}

	pOverQ := new(big.Float).SetPrec(4096).Quo(new(big.Float).SetPrec(4096).SetUint64(ev.params.P), new(big.Float).SetPrec(4096).SetInt(ev.params.Q))

	d0 := rescale(c0c0, pOverQ, ev.params.Q)
	d1 := rescale(cross, pOverQ, ev.params.Q)
	d2 := rescale(c1c1, pOverQ, ev.params.Q)

	return &Ciphertext{Value: []*ring.Polynomial{d0, d1, d2}}, nil
}

func rescale(p *ring.Polynomial, factor *big.Float, q *big.Int) *ring.Polynomial {
	scaled := p.ScalarMultiply(factor, nil)
	return scaled.Round().Mod(q)
}

// Relinearize folds a degree-2 ciphertext back down to degree 1 using rlk,
// decomposing the degree-2 term in base rlk.Base and absorbing each digit
// against the matching switching-key pair (§4.6).
func (ev *Evaluator) Relinearize(ct *Ciphertext, rlk *RelinearizationKey) (*Ciphertext, error) {
	if ct.Degree() != 2 {
		return nil, fmt.Errorf("%w: relinearize requires a degree-2 ciphertext", ring.ErrInvalidSize)
	}

	digits, err := ct.Value[2].BaseDecompose(big.NewInt(int64(rlk.Base)), len(rlk.K0))
	if err != nil {
		return nil, err
	}

	c0 := ct.Value[0]
	c1 := ct.Value[1]
	for i, digit := range digits {
		term0, err := digit.NTTMultiply(rlk.K0[i], ev.params.NTT)
		if err != nil {
			return nil, err
		}
		term1, err := digit.NTTMultiply(rlk.K1[i], ev.params.NTT)
		if err != nil {
			return nil, err
		}
		c0, err = c0.Add(term0, ev.params.Q)
		if err != nil {
			return nil, err
		}
		c1, err = c1.Add(term1, ev.params.Q)
		if err != nil {
			return nil, err
		}
	}

	return &Ciphertext{Value: []*ring.Polynomial{c0, c1}}, nil
}
