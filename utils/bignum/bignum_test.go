package bignum

import (
	"math"
	"math/big"
	"testing"

	"github.com/Pro7ech/dpnoise/utils/sampling"
	"github.com/stretchr/testify/require"
)

func TestBignum(t *testing.T) {

	t.Run("NewInt", func(t *testing.T) {
		require.Equal(t, int64(-3), NewInt(-3).Int64())
		require.Equal(t, uint64(1<<63), NewInt(uint64(1<<63)).Uint64())
		require.Equal(t, "340282366920938463463374607431768211455", NewInt("0xffffffffffffffffffffffffffffffff").String())
		require.Equal(t, int64(2), NewInt(NewFloat(2.75, 64)).Int64())
	})

	t.Run("AppendWord", func(t *testing.T) {
		x := AppendWord(NewInt(1), 2)
		want := new(big.Int).Lsh(big.NewInt(1), 64)
		want.Add(want, big.NewInt(2))
		require.Equal(t, 0, x.Cmp(want))
	})

	t.Run("CmpWithin", func(t *testing.T) {
		require.Equal(t, 0, CmpWithin(NewInt(10), NewInt(11)))
		require.Equal(t, 0, CmpWithin(NewInt(11), NewInt(10)))
		require.Equal(t, 0, CmpWithin(NewInt(10), NewInt(10)))
		require.Equal(t, -1, CmpWithin(NewInt(8), NewInt(10)))
		require.Equal(t, 1, CmpWithin(NewInt(12), NewInt(10)))
	})

	t.Run("Mask", func(t *testing.T) {
		require.Equal(t, uint64(math.MaxUint64), Mask(64).Uint64())
		require.Equal(t, 128, Mask(128).BitLen())
	})

	t.Run("Exp/Log", func(t *testing.T) {
		x := NewFloat(1.5, 256)
		y := Log(Exp(x))
		y.Sub(y, x)
		y.Abs(y)
		require.Equal(t, -1, y.Cmp(Pow2(-240, 256)))
	})
}

func TestLnRN(t *testing.T) {

	t.Run("SpecialCases", func(t *testing.T) {
		require.Equal(t, 0.0, LnRN(1))
		require.True(t, math.IsInf(LnRN(0), -1))
		require.True(t, math.IsInf(LnRN(math.Inf(1)), 1))
		require.True(t, math.IsNaN(LnRN(-1)))
		require.True(t, math.IsNaN(LnRN(math.NaN())))
	})

	t.Run("Constants", func(t *testing.T) {
		require.Equal(t, math.Ln2, LnRN(2))
		require.Equal(t, math.Ln10, LnRN(10))
		require.Equal(t, 1.0, LnRN(math.E))
	})

	t.Run("CloseToOne", func(t *testing.T) {
		above := math.Nextafter(1, 2)
		below := math.Nextafter(1, 0)
		require.Equal(t, 0x1p-52-0x1p-105, LnRN(above))
		require.Equal(t, -0x1p-53, LnRN(below))
	})

	t.Run("WithinOneUlpOfMathLog", func(t *testing.T) {
		r := sampling.NewSource([32]byte{})
		for i := 0; i < 512; i++ {
			x := math.Ldexp(float64(r.Uint64()>>11)*0x1p-53+0.5, int(r.Uint64()%256)-128)
			got, want := LnRN(x), math.Log(x)
			ulp := math.Abs(math.Nextafter(want, math.Inf(1)) - want)
			require.LessOrEqual(t, math.Abs(got-want), ulp, "x=%v", x)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		for _, x := range []float64{-700, -20, -1, -0.5, 0, 1e-10, 0.25, 1, 3.5, 100, 700} {
			require.InDelta(t, x, LnRN(math.Exp(x)), 4*math.Max(math.Abs(x), 1)*0x1p-52, "x=%v", x)
		}
	})
}
