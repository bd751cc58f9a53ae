package fixedpoint

import (
	"fmt"
	"math"

	"github.com/google/go-cmp/cmp"

	"github.com/Pro7ech/dpnoise/utils/checks"
)

const (
	// MinPrecision is the smallest supported precision: the largest
	// magnitude 2^63 * 2^-MinPrecision is a finite float64.
	MinPrecision = -960
	// MaxPrecision is the largest supported precision: the grid spacing
	// 2^-MaxPrecision is the smallest positive float64.
	MaxPrecision = 1074
)

// Parameters are the parameters of a fixed-point Laplace distribution:
// samples live on the grid 2^-Precision * Z and have scale Scale.
type Parameters struct {
	Scale     float64
	Precision int
}

// Validate checks that the scale is finite and strictly positive, that
// the precision lies in [MinPrecision, MaxPrecision] and that the 63
// magnitude bits of a sample cover the distribution: the bias of the most
// significant magnitude bit must be zero at 64 bits of resolution.
func (p Parameters) Validate() error {

	if err := checks.Positive("scale", p.Scale); err != nil {
		return err
	}

	if err := checks.IntInRange("precision", p.Precision, MinPrecision, MaxPrecision); err != nil {
		return err
	}

	if ExponentialBias(p.Scale, p.pow2(1), 64).Sign() != 0 {
		return fmt.Errorf("%w: precision %d is too large for scale %v: the 63 magnitude bits would truncate the distribution", checks.ErrInvalidArgument, p.Precision, p.Scale)
	}

	return nil
}

// Equal returns true if the receiver and other are identical.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p, *other)
}

// GridSpacing returns 2^-Precision.
func (p Parameters) GridSpacing() float64 {
	return math.Ldexp(1, -p.Precision)
}

// pow2 returns the base-2 logarithm, in real units, of the weight of the magnitude
// bit sampled at iteration idx, which is the bit of weight 2^(63-idx) on the grid.
func (p Parameters) pow2(idx int) int {
	return 64 - p.Precision - idx - 1
}

// ToFloat64 returns k * 2^-precision.
// The result is exact as long as |k| < 2^53.
func ToFloat64(k int64, precision int) float64 {
	return math.Ldexp(float64(k), -precision)
}

// FromFloat64 returns the grid point of 2^-precision * Z closest to x,
// expressed in grid units. Returns an error if the result does not fit
// on 64 bits.
func FromFloat64(x float64, precision int) (int64, error) {
	if err := checks.Finite("x", x); err != nil {
		return 0, err
	}
	k := math.Round(math.Ldexp(x, precision))
	if k < math.MinInt64 || k >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %v does not fit on the 2^-%d grid with 64 bits", checks.ErrInvalidArgument, x, precision)
	}
	return int64(k), nil
}
