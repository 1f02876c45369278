package ring

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCRTContextReconstructRoundTrip(t *testing.T) {
	ctx, err := NewCRTContext(4, 2, 7)
	require.NoError(t, err)
	require.Len(t, ctx.Primes, 2)

	want := []uint64{5, 9}
	residues := make([]uint64, len(ctx.Primes))
	for i, p := range ctx.Primes {
		residues[i] = want[i%len(want)] % p
	}

	v, err := ctx.Reconstruct(residues)
	require.NoError(t, err)
	for i, p := range ctx.Primes {
		mod := new(big.Int).SetUint64(p)
		r := new(big.Int).Mod(v, mod)
		require.Equal(t, residues[i], r.Uint64())
	}
}

func TestCRTMultiplyMatchesSimpleMultiply(t *testing.T) {
	ctx, err := NewCRTContext(4, 3, 8)
	require.NoError(t, err)

	a := NewPolynomialFromInts([]int64{0, 1, 4, 5})
	b := NewPolynomialFromInts([]int64{1, 2, 4, 3})

	viaCRT, err := a.CRTMultiply(b, ctx)
	require.NoError(t, err)

	viaSimple, err := a.SimpleMultiply(b, ctx.Q)
	require.NoError(t, err)
	rebalanced := viaSimple.ModSmall(ctx.Q)

	require.Equal(t, toInt64s(rebalanced), toInt64s(viaCRT))
}
