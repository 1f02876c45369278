package ring

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// bigFloatEqual lets cmp.Diff compare Polynomials directly: *big.Float has
// no exported fields for cmp to walk on its own, so every structural
// comparison needs this Comparer to fall back to Cmp's numeric equality.
var bigFloatEqual = cmp.Comparer(func(a, b *big.Float) bool {
	return a.Cmp(b) == 0
})

func TestPolynomialAdd(t *testing.T) {
	a := NewPolynomialFromInts([]int64{0, 1, 4, 5, 59})
	b := NewPolynomialFromInts([]int64{1, 2, 4, 3, 2})

	sum, err := a.Add(b, big.NewInt(60))
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3, 8, 8, 1}, toInt64s(sum))
}

func TestPolynomialSubtract(t *testing.T) {
	a := NewPolynomialFromInts([]int64{0, 1, 4, 5, 59})
	b := NewPolynomialFromInts([]int64{1, 2, 4, 3, 2})

	diff, err := a.Subtract(b, big.NewInt(60))
	require.NoError(t, err)
	require.Equal(t, []int64{59, 59, 0, 2, 57}, toInt64s(diff))
}

func TestPolynomialSimpleMultiply(t *testing.T) {
	a := NewPolynomialFromInts([]int64{0, 1, 4, 5})
	b := NewPolynomialFromInts([]int64{1, 2, 4, 3})

	prod, err := a.SimpleMultiply(b, big.NewInt(73))
	require.NoError(t, err)
	require.Equal(t, []int64{44, 42, 64, 17}, toInt64s(prod))
}

func TestPolynomialRotate(t *testing.T) {
	a := NewPolynomialFromInts([]int64{0, 1, 4, 59})

	rotated, err := a.Rotate(3)
	require.NoError(t, err)
	require.Equal(t, []int64{0, -1, 4, -59}, toInt64s(rotated))
}

func TestPolynomialRound(t *testing.T) {
	a := NewPolynomialFromFloats([]float64{0.51, -3.2, 54.666, 39.01, 0})

	rounded := a.Round()
	require.Equal(t, []int64{1, -3, 55, 39, 0}, toInt64s(rounded))
}

func TestPolynomialBaseDecompose(t *testing.T) {
	a := NewPolynomialFromInts([]int64{0, 1, 4, 5, 59})

	digits, err := a.BaseDecompose(big.NewInt(8), 2)
	require.NoError(t, err)
	require.Len(t, digits, 2)
	require.Equal(t, []int64{0, 1, 4, 5, 3}, toInt64s(digits[0]))
	require.Equal(t, []int64{0, 0, 0, 0, 7}, toInt64s(digits[1]))
}

func TestPolynomialString(t *testing.T) {
	a := NewPolynomialFromInts([]int64{0, 1, 4, 5, 59})
	require.Equal(t, "59x^4 + 5x^3 + 4x^2 + x", a.String())

	b := NewPolynomialFromInts([]int64{1, 2, 4, 3, 2})
	require.Equal(t, "2x^4 + 3x^3 + 4x^2 + 2x + 1", b.String())
}

func TestPolynomialModIdempotent(t *testing.T) {
	a := NewPolynomialFromInts([]int64{-5, 70, 12, 999})
	q := big.NewInt(60)

	once := a.Mod(q)
	twice := once.Mod(q)
	require.Equal(t, toInt64s(once), toInt64s(twice))
}

func TestPolynomialModSmallRange(t *testing.T) {
	a := NewPolynomialFromInts([]int64{-5, 70, 12, 999, 30, -30})
	q := big.NewInt(60)
	half := int64(30)

	balanced := a.ModSmall(q)
	for _, c := range toInt64s(balanced) {
		require.True(t, c > -half && c <= half, "coefficient %d out of balanced range", c)
	}
}

func TestPolynomialRotateZeroIsIdentity(t *testing.T) {
	a := NewPolynomialFromInts([]int64{3, -7, 11, 0})
	rotated, err := a.Rotate(0)
	require.NoError(t, err)
	require.Equal(t, toInt64s(a), toInt64s(rotated))
}

func TestPolynomialConjugateInvolution(t *testing.T) {
	a := NewPolynomialFromInts([]int64{3, -7, 11, 0})
	twice := a.Conjugate().Conjugate()
	require.Equal(t, toInt64s(a), toInt64s(twice))
}

func TestPolynomialAddCommutative(t *testing.T) {
	a := NewPolynomialFromInts([]int64{0, 1, 4, 5, 59})
	b := NewPolynomialFromInts([]int64{1, 2, 4, 3, 2})
	q := big.NewInt(60)

	ab, err := a.Add(b, q)
	require.NoError(t, err)
	ba, err := b.Add(a, q)
	require.NoError(t, err)
	require.Equal(t, toInt64s(ab), toInt64s(ba))
}

func TestPolynomialDivideUnconditional(t *testing.T) {
	// §9: the source's divide silently drops every coefficient when no
	// modulus is supplied; this must perform the division regardless.
	a := NewPolynomialFromInts([]int64{16, 24, 100})
	quotient, err := a.Divide(big.NewInt(8), nil)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3, 12}, toInt64s(quotient))
}

func TestPolynomialMultiplyStrategiesAgree(t *testing.T) {
	// Simple O(d^2) convolution and NTT-domain pointwise multiplication are
	// two independent multiply strategies (§4.5); both must land on the
	// exact same Polynomial once rebalanced to the same prime's residues.
	ctx, err := NewNTTContext(4, 73)
	require.NoError(t, err)

	a := NewPolynomialFromInts([]int64{0, 1, 4, 5})
	b := NewPolynomialFromInts([]int64{1, 2, 4, 3})

	viaSimple, err := a.SimpleMultiply(b, big.NewInt(73))
	require.NoError(t, err)
	viaNTT, err := a.NTTMultiply(b, ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(viaSimple, viaNTT, bigFloatEqual); diff != "" {
		t.Errorf("SimpleMultiply and NTTMultiply disagree (-simple +ntt):\n%s", diff)
	}
}

func TestFFTMultiplyMatchesSimpleMultiply(t *testing.T) {
	// Spec scenario 3's values, checked against FFTMultiply instead of
	// SimpleMultiply/NTTMultiply: FFTMultiply takes no modulus, so this
	// compares its raw (unreduced) convolution, reduced mod 73 afterward,
	// against SimpleMultiply's already-reduced result (§4.5).
	a := NewPolynomialFromInts([]int64{0, 1, 4, 5})
	b := NewPolynomialFromInts([]int64{1, 2, 4, 3})

	viaSimple, err := a.SimpleMultiply(b, big.NewInt(73))
	require.NoError(t, err)

	viaFFT, err := a.FFTMultiply(b, true)
	require.NoError(t, err)

	require.Equal(t, toInt64s(viaSimple), toInt64s(viaFFT.Mod(big.NewInt(73))))
}

func toInt64s(p *Polynomial) []int64 {
	out := make([]int64, p.D)
	for i := 0; i < p.D; i++ {
		out[i] = p.Int(i).Int64()
	}
	return out
}
