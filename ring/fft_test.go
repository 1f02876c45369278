package ring

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFFTRoundTrip(t *testing.T) {
	ctx, err := NewFFTContext(8)
	require.NoError(t, err)

	a := []complex128{1, 2, 3, 4, 5, 6, 7, 8}
	recovered := ctx.Inverse(ctx.Forward(a))

	for i, v := range a {
		require.InDelta(t, real(v), real(recovered[i]), 1e-9)
		require.InDelta(t, imag(v), imag(recovered[i]), 1e-9)
	}
}

func TestEmbeddingRoundTrip(t *testing.T) {
	d := 8
	ctx, err := NewEmbeddingContext(d)
	require.NoError(t, err)

	slots := []complex128{
		complex(1.5, -0.5),
		complex(-2.0, 3.0),
		complex(0.25, 0.25),
		complex(7.0, 0.0),
	}

	coeffs, err := ctx.EmbeddingInv(slots)
	require.NoError(t, err)

	recovered, err := ctx.Embedding(coeffs)
	require.NoError(t, err)

	for i, v := range slots {
		require.InDelta(t, 0, cmplx.Abs(v-recovered[i]), 1e-6)
	}
}
