package ckks

import (
	"fmt"

	"github.com/latticecrypt/hecore/ring"
)

// Decryptor decrypts ciphertexts under a fixed secret key.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
}

// NewDecryptor builds a Decryptor for sk.
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {
	return &Decryptor{params: params, sk: sk}
}

// Decrypt requires ct to carry both a ciphertext modulus and a scaling
// factor (§7's ErrMissingMetadata) and evaluates phase = sum_i c_i*s^i
// (mod Q), rebalanced to (-Q/2, Q/2] (§4.7). The result is returned as a
// Plaintext still carrying ct's scaling factor; Encoder.Decode divides
// it out.
func (dec *Decryptor) Decrypt(ct *Ciphertext) (*Plaintext, error) {
	if ct.Q == nil || ct.Delta == nil {
		return nil, fmt.Errorf("%w: CKKS decrypt requires a ciphertext modulus and scaling factor", ring.ErrMissingMetadata)
	}
	if ct.Q.Cmp(dec.params.Q) != 0 {
		return nil, fmt.Errorf("%w: ciphertext modulus does not match decryptor parameters", ring.ErrModulusMismatch)
	}

	phase := ct.Value[0]
	sPower := dec.sk.Value
	for i := 1; i < len(ct.Value); i++ {
		term, err := ct.Value[i].CRTMultiply(sPower, dec.params.CRTQ)
		if err != nil {
			return nil, err
		}
		phase, err = phase.Add(term, ct.Q)
		if err != nil {
			return nil, err
		}
		if i+1 < len(ct.Value) {
			sPower, err = sPower.CRTMultiply(dec.sk.Value, dec.params.CRTQ)
			if err != nil {
				return nil, err
			}
		}
	}

	return &Plaintext{Value: phase.ModSmall(ct.Q), Delta: ct.Delta}, nil
}
