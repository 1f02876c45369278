package ckks

import "github.com/latticecrypt/hecore/rlwe"

// SecretKey, PublicKey, SwitchingKey and RotationKey are CKKS-flavored
// names for the shared rlwe key shapes. They are type aliases, so
// ckks.SecretKey and bfv.SecretKey (and likewise the public keys) are the
// same type; the compiler does not keep a key of one scheme from being used
// with the other.
type (
	SecretKey    = rlwe.SecretKey
	PublicKey    = rlwe.PublicKey
	SwitchingKey = rlwe.SpecialModulusKey
	RotationKey  = rlwe.RotationKey
)
