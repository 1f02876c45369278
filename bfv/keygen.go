package bfv

import (
	"math/big"

	"github.com/latticecrypt/hecore/ring"
)

// KeyGenerator produces BFV key material for a fixed parameter set,
// sampling from prng (or a fresh CSPRNG if prng is nil).
type KeyGenerator struct {
	params Parameters
	prng   ring.PRNG
}

// NewKeyGenerator builds a KeyGenerator. A nil prng draws from
// crypto/rand via ring.NewCSPRNG.
func NewKeyGenerator(params Parameters, prng ring.PRNG) *KeyGenerator {
	if prng == nil {
		prng = ring.NewCSPRNG()
	}
	return &KeyGenerator{params: params, prng: prng}
}

// GenSecretKey draws a ternary secret from the centered triangle
// distribution over {-1, 0, 1} (§4.6).
func (kg *KeyGenerator) GenSecretKey() (*SecretKey, error) {
	coeffs, err := ring.SampleTriangleVector(kg.prng, kg.params.D)
	if err != nil {
		return nil, err
	}
	return &SecretKey{Value: ring.NewPolynomialFromBigInts(coeffs)}, nil
}

// GenPublicKey derives (P0, P1) satisfying P0 + P1*s ~ 0 (mod Q): draw a
// uniform A and an error e, then set P1 = A, P0 = -(A*s + e).
func (kg *KeyGenerator) GenPublicKey(sk *SecretKey) (*PublicKey, error) {
	aCoeffs, err := ring.SampleUniformVector(kg.prng, kg.params.Q, kg.params.D)
	if err != nil {
		return nil, err
	}
	a := ring.NewPolynomialFromBigInts(aCoeffs)

	eCoeffs, err := ring.SampleTriangleVector(kg.prng, kg.params.D)
	if err != nil {
		return nil, err
	}
	e := ring.NewPolynomialFromBigInts(eCoeffs)

	as, err := a.NTTMultiply(sk.Value, kg.params.NTT)
	if err != nil {
		return nil, err
	}
	ase, err := as.Add(e, kg.params.Q)
	if err != nil {
		return nil, err
	}
	p0 := ase.ScalarMultiply(big.NewFloat(-1), kg.params.Q)

	return &PublicKey{P0: p0, P1: a}, nil
}

// GenRelinearizationKey builds the base-T switching key used to fold the
// degree-2 term s^2 produced by multiplication back down to a degree-1
// ciphertext (§4.6): each digit i satisfies K0_i + K1_i*s ~ s^2*T^i (mod Q).
func (kg *KeyGenerator) GenRelinearizationKey(sk *SecretKey) (*RelinearizationKey, error) {
	t := kg.params.RelinBase
	l := kg.params.RelinDigits

	s2, err := sk.Value.NTTMultiply(sk.Value, kg.params.NTT)
	if err != nil {
		return nil, err
	}

	k0 := make([]*ring.Polynomial, l)
	k1 := make([]*ring.Polynomial, l)
	power := big.NewInt(1)
	for i := 0; i < l; i++ {
		aCoeffs, err := ring.SampleUniformVector(kg.prng, kg.params.Q, kg.params.D)
		if err != nil {
			return nil, err
		}
		a := ring.NewPolynomialFromBigInts(aCoeffs)

		eCoeffs, err := ring.SampleTriangleVector(kg.prng, kg.params.D)
		if err != nil {
			return nil, err
		}
		e := ring.NewPolynomialFromBigInts(eCoeffs)

		as, err := a.NTTMultiply(sk.Value, kg.params.NTT)
		if err != nil {
			return nil, err
		}
		ase, err := as.Add(e, kg.params.Q)
		if err != nil {
			return nil, err
		}
		target := s2.ScalarMultiply(new(big.Float).SetPrec(4096).SetInt(power), kg.params.Q)
		k0i, err := target.Subtract(ase, kg.params.Q)
		if err != nil {
			return nil, err
		}

		k0[i] = k0i
		k1[i] = a
		power = new(big.Int).Mul(power, t)
	}

	return &RelinearizationKey{Base: int(t.Int64()), K0: k0, K1: k1}, nil
}
