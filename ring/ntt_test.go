package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNTTRoundTrip(t *testing.T) {
	ctx, err := NewNTTContext(4, 73)
	require.NoError(t, err)

	a := []uint64{0, 1, 4, 5}
	recovered := ctx.Inverse(ctx.Forward(a))
	require.Equal(t, a, recovered)
}

func TestNTTMultiplyMatchesSimpleMultiply(t *testing.T) {
	ctx, err := NewNTTContext(4, 73)
	require.NoError(t, err)

	a := NewPolynomialFromInts([]int64{0, 1, 4, 5})
	b := NewPolynomialFromInts([]int64{1, 2, 4, 3})

	viaNTT, err := a.NTTMultiply(b, ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{44, 42, 64, 17}, toInt64s(viaNTT))
}

func TestRootOfUnityOrder(t *testing.T) {
	psi, err := RootOfUnity(8, 73)
	require.NoError(t, err)

	// psi must be a primitive 8th root of unity mod 73: psi^8 == 1 and
	// psi^4 == -1 (mod 73), per the NTT context's invariant (§3).
	require.Equal(t, uint64(1), ModExp(psi, 8, 73))
	require.Equal(t, uint64(72), ModExp(psi, 4, 73))
}
