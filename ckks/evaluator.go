package ckks

import (
	"fmt"
	"math/big"

	"github.com/latticecrypt/hecore/ring"
)

// Evaluator performs homomorphic operations on CKKS ciphertexts.
type Evaluator struct {
	params Parameters
}

// NewEvaluator builds an Evaluator for params.
func NewEvaluator(params Parameters) *Evaluator {
	return &Evaluator{params: params}
}

// Add returns the coefficient-wise sum of two ciphertexts that share a
// ciphertext modulus and scaling factor (§4.7); mismatched operands are
// ErrModulusMismatch.
func (ev *Evaluator) Add(a, b *Ciphertext) (*Ciphertext, error) {
	if !sameModulus(a, b) {
		return nil, fmt.Errorf("%w: add operands do not share a modulus or scaling factor", ring.ErrModulusMismatch)
	}
	if len(a.Value) != len(b.Value) {
		return nil, fmt.Errorf("%w: ciphertext operands have degrees %d and %d", ring.ErrInvalidSize, a.Degree(), b.Degree())
	}
	out := make([]*ring.Polynomial, len(a.Value))
	for i := range out {
		sum, err := a.Value[i].Add(b.Value[i], a.Q)
		if err != nil {
			return nil, err
		}
		out[i] = sum
	}
	return &Ciphertext{Value: out, Q: a.Q, Delta: a.Delta}, nil
}

// AddPlain adds a plaintext into a ciphertext's constant ring element; both
// must share a scaling factor (§4.7).
func (ev *Evaluator) AddPlain(a *Ciphertext, pt *Plaintext) (*Ciphertext, error) {
	if a.Delta.Cmp(pt.Delta) != 0 {
		return nil, fmt.Errorf("%w: ciphertext and plaintext scaling factors differ", ring.ErrModulusMismatch)
	}
	c0, err := a.Value[0].Add(pt.Value, a.Q)
	if err != nil {
		return nil, err
	}
	out := make([]*ring.Polynomial, len(a.Value))
	copy(out, a.Value)
	out[0] = c0
	return &Ciphertext{Value: out, Q: a.Q, Delta: a.Delta}, nil
}

// Multiply computes the tensor product of two degree-1 ciphertexts sharing
// a ciphertext modulus, producing a degree-2 ciphertext with scaling factor
// Delta_a*Delta_b (§4.7):
//
//	t0 = c0*c0', t1 = c0*c1' + c1*c0', t2 = c1*c1' (mod Q).
func (ev *Evaluator) Multiply(a, b *Ciphertext) (*Ciphertext, error) {
	if a.Q.Cmp(b.Q) != 0 {
		return nil, fmt.Errorf("%w: multiply operands do not share a ciphertext modulus", ring.ErrModulusMismatch)
	}
	if a.Degree() != 1 || b.Degree() != 1 {
		return nil, fmt.Errorf("%w: multiply requires two degree-1 ciphertexts", ring.ErrInvalidSize)
	}

	c0c0, err := a.Value[0].CRTMultiply(b.Value[0], ev.params.CRTQ)
	if err != nil {
		return nil, err
	}
	c1c1, err := a.Value[1].CRTMultiply(b.Value[1], ev.params.CRTQ)
	if err != nil {
		return nil, err
	}
	c0c1, err := a.Value[0].CRTMultiply(b.Value[1], ev.params.CRTQ)
	if err != nil {
		return nil, err
	}
	c1c0, err := a.Value[1].CRTMultiply(b.Value[0], ev.params.CRTQ)
	if err != nil {
		return nil, err
	}
	cross, err := c0c1.Add(c1c0, a.Q)
	if err != nil {
		return nil, err
	}

	delta := new(big.Float).SetPrec(4096).Mul(a.Delta, b.Delta)

	return &Ciphertext{Value: []*ring.Polynomial{c0c0, cross, c1c1}, Q: a.Q, Delta: delta}, nil
}

// Relinearize folds a degree-2 ciphertext back to degree 1 via the
// special-modulus technique (§4.7): the degree-2 term t2 is multiplied
// against the switching key at the combined modulus Q*P, divided by P, and
// folded into c0/c1.
func (ev *Evaluator) Relinearize(ct *Ciphertext, swk *SwitchingKey) (*Ciphertext, error) {
	if ct.Degree() != 2 {
		return nil, fmt.Errorf("%w: relinearize requires a degree-2 ciphertext", ring.ErrInvalidSize)
	}
	c0, c1, err := ev.keySwitchTerm(ct.Value[2], swk)
	if err != nil {
		return nil, err
	}
	c0, err = c0.Add(ct.Value[0], ct.Q)
	if err != nil {
		return nil, err
	}
	c1, err = c1.Add(ct.Value[1], ct.Q)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{
		Value: []*ring.Polynomial{c0.ModSmall(ct.Q), c1.ModSmall(ct.Q)},
		Q:     ct.Q, Delta: ct.Delta,
	}, nil
}

// keySwitchTerm computes (floor(Sw0*t/P), floor(Sw1*t/P)) mod Q, the shared
// core of relinearization, rotation and conjugation: t is multiplied
// against the switching key at the combined modulus Q*P (so the product
// never wraps before the P-division), then divided down and reduced to Q.
func (ev *Evaluator) keySwitchTerm(t *ring.Polynomial, swk *SwitchingKey) (c0, c1 *ring.Polynomial, err error) {
	q, p := ev.params.Q, ev.params.P

	sw0t, err := swk.Sw0.CRTMultiply(t, ev.params.CRTQP)
	if err != nil {
		return nil, nil, err
	}
	sw1t, err := swk.Sw1.CRTMultiply(t, ev.params.CRTQP)
	if err != nil {
		return nil, nil, err
	}

	c0, err = sw0t.Divide(p, q)
	if err != nil {
		return nil, nil, err
	}
	c1, err = sw1t.Divide(p, q)
	if err != nil {
		return nil, nil, err
	}
	return c0, c1, nil
}

// Rotate applies the Galois automorphism for rotation step rk.Step to both
// ciphertext components, then key-switches the transformed c1 term back to
// the original secret using rk.Key (§4.7).
func (ev *Evaluator) Rotate(ct *Ciphertext, rk *RotationKey) (*Ciphertext, error) {
	if ct.Degree() != 1 {
		return nil, fmt.Errorf("%w: rotate requires a degree-1 ciphertext", ring.ErrInvalidSize)
	}
	return ev.automorphismAndSwitch(ct, rk.Step, rk.Key)
}

// Conjugate applies m(x) -> m(x^-1) to both ciphertext components, then
// key-switches the transformed c1 term back to the original secret using
// conjKey (§4.7).
func (ev *Evaluator) Conjugate(ct *Ciphertext, conjKey *SwitchingKey) (*Ciphertext, error) {
	if ct.Degree() != 1 {
		return nil, fmt.Errorf("%w: conjugate requires a degree-1 ciphertext", ring.ErrInvalidSize)
	}
	rotatedC0 := ct.Value[0].Conjugate()
	rotatedC1 := ct.Value[1].Conjugate()
	return ev.switchAfterAutomorphism(ct, rotatedC0, rotatedC1, conjKey)
}

func (ev *Evaluator) automorphismAndSwitch(ct *Ciphertext, step int, swk *SwitchingKey) (*Ciphertext, error) {
	rotatedC0, err := ct.Value[0].Rotate(step)
	if err != nil {
		return nil, err
	}
	rotatedC1, err := ct.Value[1].Rotate(step)
	if err != nil {
		return nil, err
	}
	return ev.switchAfterAutomorphism(ct, rotatedC0, rotatedC1, swk)
}

func (ev *Evaluator) switchAfterAutomorphism(ct *Ciphertext, rotatedC0, rotatedC1 *ring.Polynomial, swk *SwitchingKey) (*Ciphertext, error) {
	c0, c1, err := ev.keySwitchTerm(rotatedC1, swk)
	if err != nil {
		return nil, err
	}
	c0, err = c0.Add(rotatedC0, ct.Q)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{
		Value: []*ring.Polynomial{c0.ModSmall(ct.Q), c1.ModSmall(ct.Q)},
		Q:     ct.Q, Delta: ct.Delta,
	}, nil
}
