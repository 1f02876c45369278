package ring

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// PRNG is a source of random bytes. The default implementation backs onto
// crypto/rand; NewKeyedPRNG and NewSeededPRNG provide deterministic variants
// for reproducible tests, mirroring the teacher's utils.PRNG abstraction
// (ckks/utils.go's CRPGenerator) that lets a common reference polynomial be
// regenerated from a seed instead of transmitted.
type PRNG interface {
	Read(p []byte) (int, error)
}

// csprng is the default cryptographically secure PRNG, backed directly by
// crypto/rand.Reader.
type csprng struct{}

func (csprng) Read(p []byte) (int, error) { return rand.Read(p) }

// NewCSPRNG returns the default cryptographically secure PRNG.
func NewCSPRNG() PRNG { return csprng{} }

// blake2bPRNG is a keyed, counter-mode expansion of a blake2b hash into an
// arbitrarily long deterministic byte stream. Grounded in the teacher's
// CRPGenerator (ckks/utils.go, dbfv/collective_CRS.go), which derives
// reproducible "common reference polynomials" from a blake2b-keyed PRNG so
// two parties can agree on a public value without transmitting it.
type blake2bPRNG struct {
	key     []byte
	counter uint64
	buf     []byte
}

// NewKeyedPRNG returns a deterministic PRNG seeded by key, suitable for
// reproducible test vectors or common-reference-string derivation. key may
// be nil, in which case a fixed all-zero key is used.
func NewKeyedPRNG(key []byte) (PRNG, error) {
	if key == nil {
		key = make([]byte, 32)
	}
	if len(key) > blake2b.Size {
		return nil, fmt.Errorf("%w: blake2b key must be at most %d bytes", ErrInvalidParameter, blake2b.Size)
	}
	return &blake2bPRNG{key: key}, nil
}

func (p *blake2bPRNG) Read(out []byte) (int, error) {
	n := 0
	for n < len(out) {
		if len(p.buf) == 0 {
			h, err := blake2b.New512(p.key)
			if err != nil {
				return n, fmt.Errorf("%w: %v", ErrSamplingFailure, err)
			}
			var ctr [8]byte
			binary.BigEndian.PutUint64(ctr[:], p.counter)
			if _, err := h.Write(ctr[:]); err != nil {
				return n, fmt.Errorf("%w: %v", ErrSamplingFailure, err)
			}
			p.buf = h.Sum(nil)
			p.counter++
		}
		c := copy(out[n:], p.buf)
		p.buf = p.buf[c:]
		n += c
	}
	return n, nil
}

// NewSeededPRNG returns a deterministic PRNG expanding seed with BLAKE3's
// extendable output function, grounded in luxfi-ringtail's use of
// zeebo/blake3 to turn lattice key material into keyed hash output
// (primitives/hash.go). Unlike blake2bPRNG's fixed-digest counter mode,
// blake3's native XOF lets the whole output stream be read incrementally
// from a single hash state.
func NewSeededPRNG(seed []byte) PRNG {
	h := blake3.New()
	_, _ = h.Write(seed)
	return h.Digest()
}

// uniformMask returns the smallest 2^k-1 mask covering [0, bound).
func uniformMask(bound *big.Int) *big.Int {
	mask := new(big.Int).Sub(bound, big.NewInt(1))
	mask.Or(mask, new(big.Int).Rsh(mask, 1))
	// Propagate the top bit down (standard "smear" trick), bounded by the
	// bit length of bound since bound fits comfortably under 2^4096 here.
	for shift := 1; shift < mask.BitLen(); shift <<= 1 {
		mask.Or(mask, new(big.Int).Rsh(mask, uint(shift)))
	}
	return mask
}

// SampleUniformBigInt draws a uniform value in [0, bound) using rejection
// sampling against a power-of-two mask, the same technique as the teacher's
// sampler_uniform.go RandUniform/randInt64.
func SampleUniformBigInt(prng PRNG, bound *big.Int) (*big.Int, error) {
	if bound.Sign() <= 0 {
		return nil, fmt.Errorf("%w: bound must be positive", ErrInvalidParameter)
	}
	mask := uniformMask(bound)
	numBytes := (mask.BitLen() + 7) / 8
	if numBytes == 0 {
		return big.NewInt(0), nil
	}
	buf := make([]byte, numBytes)
	for {
		if _, err := prng.Read(buf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSamplingFailure, err)
		}
		candidate := new(big.Int).SetBytes(buf)
		candidate.And(candidate, mask)
		if candidate.Cmp(bound) < 0 {
			return candidate, nil
		}
	}
}

// SampleUniformVector draws d independent values uniform on [0, bound).
func SampleUniformVector(prng PRNG, bound *big.Int, d int) ([]*big.Int, error) {
	out := make([]*big.Int, d)
	for i := range out {
		v, err := SampleUniformBigInt(prng, bound)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// SampleTriangleVector draws d independent samples from the centered
// triangle distribution over {-1, 0, 1} with probabilities {1/4, 1/2, 1/4},
// used for both ternary secrets and error polynomials.
func SampleTriangleVector(prng PRNG, d int) ([]*big.Int, error) {
	out := make([]*big.Int, d)
	buf := make([]byte, d)
	if _, err := prng.Read(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSamplingFailure, err)
	}
	for i, b := range buf {
		switch b & 3 {
		case 0:
			out[i] = big.NewInt(-1)
		case 1:
			out[i] = big.NewInt(1)
		default:
			out[i] = big.NewInt(0)
		}
	}
	return out, nil
}

// SampleHammingWeightVector draws a ternary vector of length d with exactly
// h nonzero entries, each independently +-1. Used for the CKKS secret key.
func SampleHammingWeightVector(prng PRNG, d, h int) ([]*big.Int, error) {
	if h > d {
		return nil, fmt.Errorf("%w: Hamming weight %d exceeds degree %d", ErrInvalidParameter, h, d)
	}
	out := make([]*big.Int, d)
	for i := range out {
		out[i] = big.NewInt(0)
	}

	placed := 0
	idxBound := big.NewInt(int64(d))
	for placed < h {
		idx, err := SampleUniformBigInt(prng, idxBound)
		if err != nil {
			return nil, err
		}
		i := int(idx.Int64())
		if out[i].Sign() != 0 {
			continue
		}
		sign, err := SampleUniformBigInt(prng, big.NewInt(2))
		if err != nil {
			return nil, err
		}
		if sign.Sign() == 0 {
			out[i] = big.NewInt(-1)
		} else {
			out[i] = big.NewInt(1)
		}
		placed++
	}
	return out, nil
}

// SampleRealVector draws d independent uniform values in [0, 1).
func SampleRealVector(prng PRNG, d int) ([]float64, error) {
	out := make([]float64, d)
	buf := make([]byte, 8)
	for i := range out {
		if _, err := prng.Read(buf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSamplingFailure, err)
		}
		out[i] = float64(binary.BigEndian.Uint64(buf)>>11) / float64(uint64(1)<<53)
	}
	return out, nil
}

// SampleComplexVector draws d independent values with real and imaginary
// parts uniform in [0, 1).
func SampleComplexVector(prng PRNG, d int) ([]complex128, error) {
	re, err := SampleRealVector(prng, d)
	if err != nil {
		return nil, err
	}
	im, err := SampleRealVector(prng, d)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, d)
	for i := range out {
		out[i] = complex(re[i], im[i])
	}
	return out, nil
}
