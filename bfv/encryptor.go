package bfv

import "github.com/latticecrypt/hecore/ring"

// Encryptor encrypts plaintexts under a fixed public key.
type Encryptor struct {
	params Parameters
	pk     *PublicKey
	prng   ring.PRNG
}

// NewEncryptor builds an Encryptor for pk. A nil prng draws from
// crypto/rand via ring.NewCSPRNG.
func NewEncryptor(params Parameters, pk *PublicKey, prng ring.PRNG) *Encryptor {
	if prng == nil {
		prng = ring.NewCSPRNG()
	}
	return &Encryptor{params: params, pk: pk, prng: prng}
}

// Encrypt produces c0 = P0*u + e1 + Delta*m, c1 = P1*u + e2 (mod Q), with u
// a ternary mask and e1, e2 independent triangle errors. The source samples
// e1 and e2 and then discards them before folding them in; this keeps the
// sampled error (§9).
func (enc *Encryptor) Encrypt(pt *Plaintext) (*Ciphertext, error) {
	q := enc.params.Q

	uCoeffs, err := ring.SampleTriangleVector(enc.prng, enc.params.D)
	if err != nil {
		return nil, err
	}
	u := ring.NewPolynomialFromBigInts(uCoeffs)

	e1Coeffs, err := ring.SampleTriangleVector(enc.prng, enc.params.D)
	if err != nil {
		return nil, err
	}
	e1 := ring.NewPolynomialFromBigInts(e1Coeffs)

	e2Coeffs, err := ring.SampleTriangleVector(enc.prng, enc.params.D)
	if err != nil {
		return nil, err
	}
	e2 := ring.NewPolynomialFromBigInts(e2Coeffs)

	p0u, err := enc.pk.P0.NTTMultiply(u, enc.params.NTT)
	if err != nil {
		return nil, err
	}
	p1u, err := enc.pk.P1.NTTMultiply(u, enc.params.NTT)
	if err != nil {
		return nil, err
	}

	scaledMessage := pt.Value.ScalarMultiply(enc.params.Delta, q)

	c0, err := p0u.Add(e1, q)
	if err != nil {
		return nil, err
	}
	c0, err = c0.Add(scaledMessage, q)
	if err != nil {
		return nil, err
	}

	c1, err := p1u.Add(e2, q)
	if err != nil {
		return nil, err
	}

	return &Ciphertext{Value: []*ring.Polynomial{c0, c1}}, nil
}
