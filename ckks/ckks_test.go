package ckks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const testTolerance = 1e-2

func testParams(t *testing.T) Parameters {
	t.Helper()
	params, err := NewParametersFromLiteral(ParametersLiteral{
		D: 16, QPrimes: 4, QBitSize: 30, PPrimes: 4, PBitSize: 30, Delta: 1 << 20,
	})
	require.NoError(t, err)
	return params
}

type testKeySet struct {
	sk   *SecretKey
	pk   *PublicKey
	rlk  *SwitchingKey
	rot  *RotationKey
	conj *SwitchingKey
}

func genKeys(t *testing.T, params Parameters) testKeySet {
	t.Helper()
	kg := NewKeyGenerator(params, nil)

	sk, err := kg.GenSecretKey()
	require.NoError(t, err)
	pk, err := kg.GenPublicKey(sk)
	require.NoError(t, err)
	rlk, err := kg.GenRelinearizationKey(sk)
	require.NoError(t, err)
	rot, err := kg.GenRotationKey(sk, 1)
	require.NoError(t, err)
	conj, err := kg.GenConjugationKey(sk)
	require.NoError(t, err)

	return testKeySet{sk: sk, pk: pk, rlk: rlk, rot: rot, conj: conj}
}

func requireClose(t *testing.T, expected, actual []complex128) {
	t.Helper()
	require.Equal(t, len(expected), len(actual))
	for i := range expected {
		require.InDeltaf(t, real(expected[i]), real(actual[i]), testTolerance, "slot %d real part", i)
		require.InDeltaf(t, imag(expected[i]), imag(actual[i]), testTolerance, "slot %d imaginary part", i)
	}
}

func TestEncoderRoundTrip(t *testing.T) {
	params := testParams(t)
	enc := NewEncoder(params)

	values := make([]complex128, params.Embedding.Slots)
	for i := range values {
		values[i] = complex(float64(i)-2, float64(i)*0.5)
	}

	pt, err := enc.Encode(values)
	require.NoError(t, err)

	decoded, err := enc.Decode(pt)
	require.NoError(t, err)
	requireClose(t, values, decoded)
}

func TestEncryptDecryptPkApproximate(t *testing.T) {
	params := testParams(t)
	keys := genKeys(t, params)

	encoder := NewEncoder(params)
	values := make([]complex128, params.Embedding.Slots)
	for i := range values {
		values[i] = complex(float64(i%3)-1, 0)
	}
	pt, err := encoder.Encode(values)
	require.NoError(t, err)

	encryptor := NewEncryptor(params, keys.pk, nil, nil)
	ct, err := encryptor.EncryptPk(pt)
	require.NoError(t, err)

	decryptor := NewDecryptor(params, keys.sk)
	decryptedPt, err := decryptor.Decrypt(ct)
	require.NoError(t, err)

	decoded, err := encoder.Decode(decryptedPt)
	require.NoError(t, err)
	requireClose(t, values, decoded)
}

func TestEncryptDecryptSkApproximate(t *testing.T) {
	params := testParams(t)
	keys := genKeys(t, params)

	encoder := NewEncoder(params)
	values := make([]complex128, params.Embedding.Slots)
	for i := range values {
		values[i] = complex(0, float64(i)*0.25)
	}
	pt, err := encoder.Encode(values)
	require.NoError(t, err)

	encryptor := NewEncryptor(params, nil, keys.sk, nil)
	ct, err := encryptor.EncryptSk(pt)
	require.NoError(t, err)

	decryptor := NewDecryptor(params, keys.sk)
	decryptedPt, err := decryptor.Decrypt(ct)
	require.NoError(t, err)

	decoded, err := encoder.Decode(decryptedPt)
	require.NoError(t, err)
	requireClose(t, values, decoded)
}

func TestAdditiveHomomorphism(t *testing.T) {
	params := testParams(t)
	keys := genKeys(t, params)
	encoder := NewEncoder(params)
	encryptor := NewEncryptor(params, keys.pk, nil, nil)
	decryptor := NewDecryptor(params, keys.sk)
	evaluator := NewEvaluator(params)

	a := make([]complex128, params.Embedding.Slots)
	b := make([]complex128, params.Embedding.Slots)
	want := make([]complex128, params.Embedding.Slots)
	for i := range a {
		a[i] = complex(float64(i), 0)
		b[i] = complex(float64(i)*2-1, 0)
		want[i] = a[i] + b[i]
	}

	ptA, err := encoder.Encode(a)
	require.NoError(t, err)
	ptB, err := encoder.Encode(b)
	require.NoError(t, err)

	ctA, err := encryptor.EncryptPk(ptA)
	require.NoError(t, err)
	ctB, err := encryptor.EncryptPk(ptB)
	require.NoError(t, err)

	ctSum, err := evaluator.Add(ctA, ctB)
	require.NoError(t, err)

	sumPt, err := decryptor.Decrypt(ctSum)
	require.NoError(t, err)
	sum, err := encoder.Decode(sumPt)
	require.NoError(t, err)

	requireClose(t, want, sum)
}

func TestMultiplicativeHomomorphism(t *testing.T) {
	params := testParams(t)
	keys := genKeys(t, params)
	encoder := NewEncoder(params)
	encryptor := NewEncryptor(params, keys.pk, nil, nil)
	decryptor := NewDecryptor(params, keys.sk)
	evaluator := NewEvaluator(params)

	a := []complex128{complex(1.5, 0)}
	b := []complex128{complex(2.0, 0)}
	a = padSlots(a, params.Embedding.Slots)
	b = padSlots(b, params.Embedding.Slots)

	ptA, err := encoder.Encode(a)
	require.NoError(t, err)
	ptB, err := encoder.Encode(b)
	require.NoError(t, err)

	ctA, err := encryptor.EncryptPk(ptA)
	require.NoError(t, err)
	ctB, err := encryptor.EncryptPk(ptB)
	require.NoError(t, err)

	ctProd, err := evaluator.Multiply(ctA, ctB)
	require.NoError(t, err)
	require.Equal(t, 2, ctProd.Degree())

	ctRelin, err := evaluator.Relinearize(ctProd, keys.rlk)
	require.NoError(t, err)
	require.Equal(t, 1, ctRelin.Degree())

	prodPt, err := decryptor.Decrypt(ctRelin)
	require.NoError(t, err)
	prod, err := encoder.Decode(prodPt)
	require.NoError(t, err)

	require.InDelta(t, 3.0, real(prod[0]), testTolerance)
}

func TestRotate(t *testing.T) {
	params := testParams(t)
	keys := genKeys(t, params)
	encoder := NewEncoder(params)
	encryptor := NewEncryptor(params, keys.pk, nil, nil)
	decryptor := NewDecryptor(params, keys.sk)
	evaluator := NewEvaluator(params)

	slots := params.Embedding.Slots
	values := make([]complex128, slots)
	for i := range values {
		values[i] = complex(float64(i), 0)
	}

	pt, err := encoder.Encode(values)
	require.NoError(t, err)
	ct, err := encryptor.EncryptPk(pt)
	require.NoError(t, err)

	rotated, err := evaluator.Rotate(ct, keys.rot)
	require.NoError(t, err)

	rotatedPt, err := decryptor.Decrypt(rotated)
	require.NoError(t, err)
	decoded, err := encoder.Decode(rotatedPt)
	require.NoError(t, err)
	require.Len(t, decoded, slots)
}

func TestConjugate(t *testing.T) {
	params := testParams(t)
	keys := genKeys(t, params)
	encoder := NewEncoder(params)
	encryptor := NewEncryptor(params, keys.pk, nil, nil)
	decryptor := NewDecryptor(params, keys.sk)
	evaluator := NewEvaluator(params)

	slots := params.Embedding.Slots
	values := make([]complex128, slots)
	for i := range values {
		values[i] = complex(float64(i), float64(i)*0.5)
	}

	pt, err := encoder.Encode(values)
	require.NoError(t, err)
	ct, err := encryptor.EncryptPk(pt)
	require.NoError(t, err)

	conjCt, err := evaluator.Conjugate(ct, keys.conj)
	require.NoError(t, err)

	conjPt, err := decryptor.Decrypt(conjCt)
	require.NoError(t, err)
	decoded, err := encoder.Decode(conjPt)
	require.NoError(t, err)

	want := make([]complex128, slots)
	for i, v := range values {
		want[i] = complex(real(v), -imag(v))
	}
	requireClose(t, want, decoded)
}

func TestPrecisionDiagnostic(t *testing.T) {
	expected := []complex128{complex(1, 1), complex(2, -1)}
	decoded := []complex128{complex(1.01, 0.99), complex(1.98, -1.02)}

	p, err := MeasurePrecision(expected, decoded)
	require.NoError(t, err)
	require.InDelta(t, 0.015, p.MeanRealError, 0.01)
	require.True(t, math.Abs(p.MaxRealError) < 0.05)
}

func padSlots(values []complex128, n int) []complex128 {
	out := make([]complex128, n)
	copy(out, values)
	return out
}

// TestEndToEndLiteralSizes exercises the literal spec scenario 9 parameter
// set (d=64, Q and P each ~2^1200, Delta=2^30), which is heavy enough (two
// 1200-bit CRT towers and the corresponding prime search) to gate behind
// -short, mirroring
// how the teacher gates its own heavier suites.
func TestEndToEndLiteralSizes(t *testing.T) {
	if testing.Short() {
		t.Skip("literal 1200-bit parameter set is too slow for -short")
	}

	params, err := NewParametersFromLiteral(ParametersLiteral{
		D: 64, QPrimes: 40, QBitSize: 30, PPrimes: 40, PBitSize: 30, Delta: 1 << 30,
	})
	require.NoError(t, err)

	keys := genKeys(t, params)
	encoder := NewEncoder(params)
	encryptor := NewEncryptor(params, keys.pk, nil, nil)
	decryptor := NewDecryptor(params, keys.sk)

	values := make([]complex128, params.Embedding.Slots)
	for i := range values {
		values[i] = complex(float64(i)/float64(len(values)), -float64(i)/float64(len(values)))
	}

	pt, err := encoder.Encode(values)
	require.NoError(t, err)
	ct, err := encryptor.EncryptPk(pt)
	require.NoError(t, err)

	decryptedPt, err := decryptor.Decrypt(ct)
	require.NoError(t, err)
	decoded, err := encoder.Decode(decryptedPt)
	require.NoError(t, err)

	for i := range values {
		require.Less(t, math.Abs(real(values[i])-real(decoded[i])), 1e-5)
		require.Less(t, math.Abs(imag(values[i])-imag(decoded[i])), 1e-5)
	}
}
