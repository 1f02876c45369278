package bfv

import "github.com/latticecrypt/hecore/ring"

// Plaintext wraps a degree-D polynomial whose coefficients are residues mod
// the plaintext modulus P, either a raw message polynomial (before
// encoding) or a batched slot vector (after BatchEncoder.Encode).
type Plaintext struct {
	Value *ring.Polynomial
}

// NewPlaintext wraps an already-reduced polynomial as a Plaintext.
func NewPlaintext(value *ring.Polynomial) *Plaintext {
	return &Plaintext{Value: value}
}
