package ckks

import (
	"math/big"

	"github.com/latticecrypt/hecore/ring"
)

// Ciphertext is a CKKS ciphertext: a tuple of ring elements over the
// ciphertext modulus Q, carrying its own scaling factor Delta (§3). Length
// 2 fresh from encryption or after relinearization, length 3 immediately
// after a multiplication (the state machine described in §4.7).
type Ciphertext struct {
	Value []*ring.Polynomial
	Q     *big.Int
	Delta *big.Float
}

// Degree returns len(Value) - 1: 1 for a linear ciphertext, 2 for an
// un-relinearized product.
func (c *Ciphertext) Degree() int {
	return len(c.Value) - 1
}

// sameModulus reports whether a and b share a ciphertext modulus and
// scaling factor, the precondition most binary operations require (§7's
// ErrModulusMismatch).
func sameModulus(a, b *Ciphertext) bool {
	return a.Q.Cmp(b.Q) == 0 && a.Delta.Cmp(b.Delta) == 0
}
