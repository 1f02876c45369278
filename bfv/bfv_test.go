package bfv

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticecrypt/hecore/ring"
)

func testParams(t *testing.T) Parameters {
	t.Helper()
	q, ok := new(big.Int).SetString("3fffffff000001", 16)
	require.True(t, ok)
	params, err := NewParametersFromLiteral(ParametersLiteral{D: 2048, P: 256, Q: q})
	require.NoError(t, err)
	return params
}

func smallTestParams(t *testing.T) Parameters {
	t.Helper()
	q, ok := new(big.Int).SetString("3fffffff000001", 16)
	require.True(t, ok)
	params, err := NewParametersFromLiteral(ParametersLiteral{D: 16, P: 17, Q: q})
	require.NoError(t, err)
	return params
}

func genKeys(t *testing.T, params Parameters) (*SecretKey, *PublicKey, *RelinearizationKey) {
	t.Helper()
	kg := NewKeyGenerator(params, nil)
	sk, err := kg.GenSecretKey()
	require.NoError(t, err)
	pk, err := kg.GenPublicKey(sk)
	require.NoError(t, err)
	rlk, err := kg.GenRelinearizationKey(sk)
	require.NoError(t, err)
	return sk, pk, rlk
}

// TestEndToEndEncryptDecrypt exercises the degree 2048, plaintext modulus
// 256, ciphertext modulus 0x3fffffff000001 parameter set end to end; the
// literal-size parameters make a single run slow enough to gate behind
// -short, mirroring ckks_test.go's TestEndToEndLiteralSizes.
func TestEndToEndEncryptDecrypt(t *testing.T) {
	if testing.Short() {
		t.Skip("literal D=2048 parameter set is too slow for -short")
	}

	params := testParams(t)
	sk, pk, _ := genKeys(t, params)

	msg := make([]int64, params.D)
	for i := range msg {
		msg[i] = int64(i % 256)
	}
	pt := NewPlaintext(ring.NewPolynomialFromInts(msg))

	enc := NewEncryptor(params, pk, nil)
	ct, err := enc.Encrypt(pt)
	require.NoError(t, err)

	dec := NewDecryptor(params, sk)
	recovered, err := dec.Decrypt(ct)
	require.NoError(t, err)

	for i := range msg {
		require.Equal(t, big.NewInt(msg[i]%256).Int64(), recovered.Value.Int(i).Int64())
	}
}

func TestAdditiveHomomorphism(t *testing.T) {
	params := smallTestParams(t)
	sk, pk, _ := genKeys(t, params)

	a := ring.NewPolynomialFromInts([]int64{1, 2, 3, 4, 5, 6, 7, 8, 0, 0, 0, 0, 0, 0, 0, 0})
	b := ring.NewPolynomialFromInts([]int64{9, 8, 7, 6, 5, 4, 3, 2, 0, 0, 0, 0, 0, 0, 0, 0})

	enc := NewEncryptor(params, pk, nil)
	ctA, err := enc.Encrypt(NewPlaintext(a))
	require.NoError(t, err)
	ctB, err := enc.Encrypt(NewPlaintext(b))
	require.NoError(t, err)

	ev := NewEvaluator(params)
	ctSum, err := ev.Add(ctA, ctB)
	require.NoError(t, err)

	dec := NewDecryptor(params, sk)
	sum, err := dec.Decrypt(ctSum)
	require.NoError(t, err)

	for i := 0; i < params.D; i++ {
		want := (a.Int(i).Int64() + b.Int(i).Int64()) % int64(params.P)
		require.Equal(t, want, sum.Value.Int(i).Int64())
	}
}

func TestMultiplicativeHomomorphism(t *testing.T) {
	params := smallTestParams(t)
	sk, pk, rlk := genKeys(t, params)

	a := ring.NewPolynomialFromInts([]int64{2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	b := ring.NewPolynomialFromInts([]int64{3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})

	enc := NewEncryptor(params, pk, nil)
	ctA, err := enc.Encrypt(NewPlaintext(a))
	require.NoError(t, err)
	ctB, err := enc.Encrypt(NewPlaintext(b))
	require.NoError(t, err)

	ev := NewEvaluator(params)
	ctProd, err := ev.Multiply(ctA, ctB)
	require.NoError(t, err)
	require.Equal(t, 2, ctProd.Degree())

	ctRelin, err := ev.Relinearize(ctProd, rlk)
	require.NoError(t, err)
	require.Equal(t, 1, ctRelin.Degree())

	dec := NewDecryptor(params, sk)
	prod, err := dec.Decrypt(ctRelin)
	require.NoError(t, err)

	require.Equal(t, int64(6), prod.Value.Int(0).Int64()%int64(params.P))
}

func TestBatchEncoderRoundTrip(t *testing.T) {
	params, err := NewParametersFromLiteral(ParametersLiteral{D: 8, P: 17, Q: big.NewInt(12289)})
	require.NoError(t, err)

	be, err := NewBatchEncoder(params)
	require.NoError(t, err)

	values := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	pt, err := be.Encode(values)
	require.NoError(t, err)

	recovered, err := be.Decode(pt)
	require.NoError(t, err)
	require.Equal(t, values, recovered)
}
