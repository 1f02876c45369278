package ckks

import (
	"math/big"

	"github.com/latticecrypt/hecore/ring"
)

// KeyGenerator produces CKKS key material for a fixed parameter set,
// sampling from prng (or a fresh CSPRNG if prng is nil), mirroring
// bfv.KeyGenerator's shape.
type KeyGenerator struct {
	params Parameters
	prng   ring.PRNG
}

// NewKeyGenerator builds a KeyGenerator. A nil prng draws from crypto/rand
// via ring.NewCSPRNG.
func NewKeyGenerator(params Parameters, prng ring.PRNG) *KeyGenerator {
	if prng == nil {
		prng = ring.NewCSPRNG()
	}
	return &KeyGenerator{params: params, prng: prng}
}

// GenSecretKey draws a Hamming-weight-h ternary secret, h = D/4 (§4.7),
// unlike BFV's fully dense ternary secret.
func (kg *KeyGenerator) GenSecretKey() (*SecretKey, error) {
	coeffs, err := ring.SampleHammingWeightVector(kg.prng, kg.params.D, kg.params.HammingWeight)
	if err != nil {
		return nil, err
	}
	return &SecretKey{Value: ring.NewPolynomialFromBigInts(coeffs)}, nil
}

// GenPublicKey derives (P0, P1) at the ciphertext modulus Q: draw a uniform
// a and a triangle error e, then set P1 = a, P0 = -a*s + e (§4.7), so that
// P0 + P1*s ~ 0 (mod Q) holds for EncryptPk's arithmetic mod Q.
func (kg *KeyGenerator) GenPublicKey(sk *SecretKey) (*PublicKey, error) {
	q := kg.params.Q

	aCoeffs, err := ring.SampleUniformVector(kg.prng, q, kg.params.D)
	if err != nil {
		return nil, err
	}
	a := ring.NewPolynomialFromBigInts(aCoeffs)

	eCoeffs, err := ring.SampleTriangleVector(kg.prng, kg.params.D)
	if err != nil {
		return nil, err
	}
	e := ring.NewPolynomialFromBigInts(eCoeffs)

	as, err := a.SimpleMultiply(sk.Value, q)
	if err != nil {
		return nil, err
	}
	negAs := as.ScalarMultiply(big.NewFloat(-1), q)
	p0, err := negAs.Add(e, q)
	if err != nil {
		return nil, err
	}

	return &PublicKey{P0: p0, P1: a}, nil
}

// genSwitchingKey builds the special-modulus switching key for an arbitrary
// target polynomial t: at modulus Q*P, draw swk_a uniform and swk_e
// triangle, then set Sw0 = -swk_a*s + swk_e + P*t, Sw1 = swk_a (§4.7), so
// that Sw0 + Sw1*s ~ P*t (mod Q*P), the modulus the evaluator key-switches
// at. Every CKKS key-switching key (relinearization, rotation, conjugation)
// is this same construction applied to a different target.
func (kg *KeyGenerator) genSwitchingKey(sk *SecretKey, target *ring.Polynomial) (*SwitchingKey, error) {
	qp := new(big.Int).Mul(kg.params.Q, kg.params.P)

	aCoeffs, err := ring.SampleUniformVector(kg.prng, qp, kg.params.D)
	if err != nil {
		return nil, err
	}
	a := ring.NewPolynomialFromBigInts(aCoeffs)

	eCoeffs, err := ring.SampleTriangleVector(kg.prng, kg.params.D)
	if err != nil {
		return nil, err
	}
	e := ring.NewPolynomialFromBigInts(eCoeffs)

	as, err := a.SimpleMultiply(sk.Value, qp)
	if err != nil {
		return nil, err
	}
	negAs := as.ScalarMultiply(big.NewFloat(-1), qp)
	negAsE, err := negAs.Add(e, qp)
	if err != nil {
		return nil, err
	}

	pScaled := target.ScalarMultiply(new(big.Float).SetPrec(4096).SetInt(kg.params.P), qp)
	sw0, err := negAsE.Add(pScaled, qp)
	if err != nil {
		return nil, err
	}

	return &SwitchingKey{Sw0: sw0, Sw1: a}, nil
}

// GenRelinearizationKey builds the switching key for t = s^2, used by the
// evaluator to fold a freshly-multiplied three-term ciphertext back down to
// two terms (§4.7).
func (kg *KeyGenerator) GenRelinearizationKey(sk *SecretKey) (*SwitchingKey, error) {
	s2, err := sk.Value.SimpleMultiply(sk.Value, nil)
	if err != nil {
		return nil, err
	}
	return kg.genSwitchingKey(sk, s2)
}

// GenRotationKey builds the switching key for s(x^{5^r}), the rotation-by-r
// target (§4.7).
func (kg *KeyGenerator) GenRotationKey(sk *SecretKey, step int) (*RotationKey, error) {
	rotated, err := sk.Value.Rotate(step)
	if err != nil {
		return nil, err
	}
	swk, err := kg.genSwitchingKey(sk, rotated)
	if err != nil {
		return nil, err
	}
	return &RotationKey{Step: step, Key: swk}, nil
}

// GenConjugationKey builds the switching key for s(x^-1) (§4.7).
func (kg *KeyGenerator) GenConjugationKey(sk *SecretKey) (*SwitchingKey, error) {
	return kg.genSwitchingKey(sk, sk.Value.Conjugate())
}
