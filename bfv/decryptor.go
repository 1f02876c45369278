package bfv

import "math/big"

// Decryptor decrypts ciphertexts under a fixed secret key.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
}

// NewDecryptor builds a Decryptor for sk.
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {
	return &Decryptor{params: params, sk: sk}
}

// Decrypt evaluates phase = sum_i c_i*s^i (mod Q), rebalances it to
// (-Q/2, Q/2], scales by P/Q, and rounds to recover the message polynomial
// mod P.
func (dec *Decryptor) Decrypt(ct *Ciphertext) (*Plaintext, error) {
	q := dec.params.Q
	nttCtx := dec.params.NTT

	phase := ct.Value[0]
	sPower := dec.sk.Value
	for i := 1; i < len(ct.Value); i++ {
		term, err := ct.Value[i].NTTMultiply(sPower, nttCtx)
		if err != nil {
			return nil, err
		}
		phase, err = phase.Add(term, q)
		if err != nil {
			return nil, err
		}
		if i+1 < len(ct.Value) {
			sPower, err = sPower.NTTMultiply(dec.sk.Value, nttCtx)
			if err != nil {
				return nil, err
			}
		}
	}

	balanced := phase.ModSmall(q)
	scaled := balanced.ScalarMultiply(new(big.Float).SetPrec(4096).Quo(big.NewFloat(1), dec.params.Delta), nil)
	rounded := scaled.Round()
	message := rounded.Mod(new(big.Int).SetUint64(dec.params.P))

	return &Plaintext{Value: message}, nil
}
