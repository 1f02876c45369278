package ckks

import (
	"math/big"

	"github.com/latticecrypt/hecore/ring"
)

// Plaintext wraps a degree-D polynomial encoding a complex slot vector,
// scaled by Delta, the CKKS analogue of bfv.Plaintext.
type Plaintext struct {
	Value *ring.Polynomial
	Delta *big.Float
}

// NewPlaintext wraps an already-scaled polynomial as a Plaintext.
func NewPlaintext(value *ring.Polynomial, delta *big.Float) *Plaintext {
	return &Plaintext{Value: value, Delta: delta}
}
