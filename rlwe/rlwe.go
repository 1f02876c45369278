// Package rlwe collects the key types shared by the BFV and CKKS scheme
// layers (§3): secret/public keys, the two relinearization-key shapes, and
// rotation keys, plus a Galois-element helper that computes the exponent of
// the ring automorphism realizing a slot rotation.
package rlwe

import (
	"fmt"

	"github.com/latticecrypt/hecore/ring"
)

// SecretKey is a ring element with ternary (BFV) or Hamming-weight-h
// ternary (CKKS) coefficients.
type SecretKey struct {
	Value *ring.Polynomial
}

// PublicKey is a pair (P0, P1) of ring elements satisfying
// P0 + P1*s ~ 0 (mod q) with small error.
type PublicKey struct {
	P0, P1 *ring.Polynomial
}

// SwitchingKey is the BFV relinearization/key-switching shape: a base T and
// L = floor(log_T q) + 1 pairs (K0_i, K1_i) satisfying
// K0_i + K1_i*s ~ s^2*T^i (mod q).
type SwitchingKey struct {
	Base int
	K0   []*ring.Polynomial
	K1   []*ring.Polynomial
}

// SpecialModulusKey is the CKKS relinearization/rotation/conjugation shape:
// a single switching key constructed at the special modulus Q*P,
// satisfying Sw0 + Sw1*s ~ P*t (mod Q*P) for whatever target polynomial t
// it was generated for (s^2 for relinearization, s(x^{5^r}) for rotation,
// s(x^-1) for conjugation).
type SpecialModulusKey struct {
	Sw0, Sw1 *ring.Polynomial
}

// RotationKey pairs a rotation step with the special-modulus key that
// switches from s(x^{5^r}) back to s.
type RotationKey struct {
	Step int
	Key  *SpecialModulusKey
}

// GaloisElement returns k = 5^r mod 2d, the exponent of the automorphism
// m(x) -> m(x^k) that realizes a rotation by r slots (§4.5); 5 generates
// the odd-index subgroup of Z/2dZ.
func GaloisElement(r, d int) uint64 {
	twoD := uint64(2 * d)
	return ring.ModExp(5, uint64(r), twoD)
}

// ErrMissingRotationKey describes a rotation step with no RotationKey. No
// function in this module returns it: ckks.Evaluator.Rotate takes the
// RotationKey directly and rotates by its Step.
var ErrMissingRotationKey = fmt.Errorf("%w: no rotation key for requested step", ring.ErrInvalidParameter)
