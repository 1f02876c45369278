package bfv

import "github.com/latticecrypt/hecore/ring"

// Ciphertext is a BFV ciphertext: a tuple of ring elements over the
// ciphertext modulus Q, length 2 fresh from encryption or after
// relinearization, length 3 immediately after a multiplication.
type Ciphertext struct {
	Value []*ring.Polynomial
}

// Degree returns len(Value) - 1: 1 for a linear ciphertext, 2 for an
// un-relinearized product.
func (c *Ciphertext) Degree() int {
	return len(c.Value) - 1
}
