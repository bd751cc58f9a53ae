package checks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecks(t *testing.T) {

	t.Run("Positive", func(t *testing.T) {
		require.NoError(t, Positive("scale", 1))
		require.NoError(t, Positive("scale", math.SmallestNonzeroFloat64))
		for _, v := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
			require.ErrorIs(t, Positive("scale", v), ErrInvalidArgument)
		}
	})

	t.Run("OpenUnit", func(t *testing.T) {
		require.NoError(t, OpenUnit("p", 0.5))
		for _, v := range []float64{0, 1, -0.5, 2, math.NaN()} {
			require.ErrorIs(t, OpenUnit("p", v), ErrInvalidArgument)
		}
	})

	t.Run("IntInRange", func(t *testing.T) {
		require.NoError(t, IntInRange("precision", 0, -1, 1))
		require.ErrorIs(t, IntInRange("precision", 2, -1, 1), ErrInvalidArgument)
		require.ErrorIs(t, IntInRange("precision", -2, -1, 1), ErrInvalidArgument)
	})

	t.Run("Count", func(t *testing.T) {
		require.NoError(t, Count("count", 0))
		require.ErrorIs(t, Count("count", -1), ErrInvalidArgument)
	})

	t.Run("FiniteSlice", func(t *testing.T) {
		require.NoError(t, FiniteSlice("data", []float64{0, 1, -1e300}))
		require.NoError(t, FiniteSlice("data", nil))
		err := FiniteSlice("data", []float64{0, math.NaN()})
		require.ErrorIs(t, err, ErrInvalidArgument)
		require.Contains(t, err.Error(), "data[1]")
	})
}
