package ckks

import "github.com/latticecrypt/hecore/ring"

// Encryptor encrypts plaintexts under either a public key (EncryptPk, the
// usual case) or directly under a secret key (EncryptSk, used for
// lower-noise encryption when the secret is locally available) (§4.7).
type Encryptor struct {
	params Parameters
	pk     *PublicKey
	sk     *SecretKey
	prng   ring.PRNG
}

// NewEncryptor builds an Encryptor carrying both a public and (optionally
// nil) secret key; EncryptPk only needs pk, EncryptSk only needs sk. A nil
// prng draws from crypto/rand via ring.NewCSPRNG.
func NewEncryptor(params Parameters, pk *PublicKey, sk *SecretKey, prng ring.PRNG) *Encryptor {
	if prng == nil {
		prng = ring.NewCSPRNG()
	}
	return &Encryptor{params: params, pk: pk, sk: sk, prng: prng}
}

// EncryptPk produces c0 = P0*r + e1 + m, c1 = P1*r + e2 (mod Q), with r a
// ternary mask and e1, e2 independent triangle errors, rebalanced to
// (-Q/2, Q/2] (§4.7's pk-variant encrypt).
func (enc *Encryptor) EncryptPk(pt *Plaintext) (*Ciphertext, error) {
	q := enc.params.Q

	rCoeffs, err := ring.SampleTriangleVector(enc.prng, enc.params.D)
	if err != nil {
		return nil, err
	}
	r := ring.NewPolynomialFromBigInts(rCoeffs)

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

	p0r, err := enc.pk.P0.CRTMultiply(r, enc.params.CRTQ)
	if err != nil {
		return nil, err
	}
	p1r, err := enc.pk.P1.CRTMultiply(r, enc.params.CRTQ)
	if err != nil {
		return nil, err
	}

	c0, err := p0r.Add(e1, q)
	if err != nil {
		return nil, err
	}
	c0, err = c0.Add(pt.Value, q)
	if err != nil {
		return nil, err
	}

	c1, err := p1r.Add(e2, q)
	if err != nil {
		return nil, err
	}

	return &Ciphertext{
		Value: []*ring.Polynomial{c0.ModSmall(q), c1.ModSmall(q)},
		Q:     q, Delta: pt.Delta,
	}, nil
}

// EncryptSk produces c0 = s*r + e + m, c1 = -r (mod Q), with r a ternary
// mask and e a triangle error (§4.7's sk-variant encrypt): lower noise than
// EncryptPk since it avoids the public key's own noise term.
func (enc *Encryptor) EncryptSk(pt *Plaintext) (*Ciphertext, error) {
	q := enc.params.Q

	rCoeffs, err := ring.SampleTriangleVector(enc.prng, enc.params.D)
	if err != nil {
		return nil, err
	}
	r := ring.NewPolynomialFromBigInts(rCoeffs)

	eCoeffs, err := ring.SampleTriangleVector(enc.prng, enc.params.D)
	if err != nil {
		return nil, err
	}
	e := ring.NewPolynomialFromBigInts(eCoeffs)

	sr, err := enc.sk.Value.CRTMultiply(r, enc.params.CRTQ)
	if err != nil {
		return nil, err
	}
	c0, err := sr.Add(e, q)
	if err != nil {
		return nil, err
	}
	c0, err = c0.Add(pt.Value, q)
	if err != nil {
		return nil, err
	}

	c1 := r.ScalarMultiply(negOne, q)

	return &Ciphertext{
		Value: []*ring.Polynomial{c0.ModSmall(q), c1.ModSmall(q)},
		Q:     q, Delta: pt.Delta,
	}, nil
}
