// Package ring implements the polynomial ring engine shared by the BFV and
// CKKS schemes: number theory, bit utilities, cryptographically secure
// sampling, the negacyclic NTT, the complex FFT and canonical embedding, the
// CRT/RNS tower, and the Polynomial type that ties them together.
package ring

import "errors"

// Sentinel errors returned by this module and the scheme packages built on
// top of it. Failures are always explicit and typed; nothing is recovered
// internally, and the library never logs or prints on these paths.
var (
	// ErrInvalidSize is returned when a coefficient vector's length does not
	// match a stated degree, when add/multiply operands have mismatched
	// degrees, or when an encoded vector's length does not match the number
	// of available slots.
	ErrInvalidSize = errors.New("ring: invalid size")

	// ErrModulusMismatch is returned when ciphertext operands do not share
	// a ciphertext modulus or scaling factor that an operation requires them
	// to share.
	ErrModulusMismatch = errors.New("ring: modulus mismatch")

	// ErrMissingMetadata is returned when decryption is attempted on a
	// ciphertext lacking a required ciphertext modulus or scaling factor.
	ErrMissingMetadata = errors.New("ring: missing metadata")

	// ErrInvalidParameter is returned when requested scheme or ring
	// parameters cannot be satisfied: no NTT root exists for the requested
	// modulus, an order does not divide m-1, or a degree is not a power of
	// two.
	ErrInvalidParameter = errors.New("ring: invalid parameter")

	// ErrSamplingFailure is returned when the cryptographically secure
	// random source is unavailable.
	ErrSamplingFailure = errors.New("ring: sampling failure")
)
