package bfv

import "github.com/latticecrypt/hecore/rlwe"

// SecretKey, PublicKey and RelinearizationKey are BFV-flavored names for
// the shared rlwe key shapes. They are type aliases, so bfv.SecretKey and
// ckks.SecretKey (and likewise bfv.PublicKey and ckks.PublicKey) are the
// same type; the compiler does not keep a key of one scheme from being used
// with the other.
type (
	SecretKey          = rlwe.SecretKey
	PublicKey          = rlwe.PublicKey
	RelinearizationKey = rlwe.SwitchingKey
)
