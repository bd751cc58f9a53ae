package mechanisms

import (
	"fmt"
	"math"

	"github.com/Pro7ech/dpnoise/noise"
	"github.com/Pro7ech/dpnoise/utils/bignum"
	"github.com/Pro7ech/dpnoise/utils/checks"
	"github.com/Pro7ech/dpnoise/utils/sampling"
)

// Snapping applies the snapping mechanism to each element of data:
//
//	clamp(quanta * round((clamp(x) + S * lambda * LnRN(U)) / quanta))
//
// where clamp restricts to [-bound, bound], S is a uniform sign and U a
// full-resolution uniform sample of (0, 1). quanta is usually the smallest
// power of two greater than or equal to lambda.
//
// bound/quanta must be finite, so that rounding a value within the bounds to
// the nearest multiple of quanta cannot overflow.
//
// The steps are applied in this exact order: the set of reachable float64
// outputs, and therefore the guarantee, depends on it.
func Snapping(r *sampling.Source, data []float64, bound, lambda, quanta float64) (out []float64, err error) {

	if err = checks.Positive("bound", bound); err != nil {
		return nil, err
	}
	if err = checks.Positive("lambda", lambda); err != nil {
		return nil, err
	}
	if err = checks.Positive("quanta", quanta); err != nil {
		return nil, err
	}
	if math.IsInf(bound/quanta, 0) {
		return nil, fmt.Errorf("%w: quanta %v is too small for bound %v: bound/quanta overflows", checks.ErrInvalidArgument, quanta, bound)
	}
	if err = checks.FiniteSlice("data", data); err != nil {
		return nil, err
	}

	out = make([]float64, len(data))
	for i, x := range data {
		out[i] = snap(r, x, bound, lambda, quanta)
	}

	return
}

func snap(r *sampling.Source, x, bound, lambda, quanta float64) float64 {

	x = clamp(x, bound)

	sign := 1.0
	if r.Bit() == 0 {
		sign = -1.0
	}

	x += sign * lambda * bignum.LnRN(noise.SampleDoubleUniform(r, 1))

	x = quanta * math.Round(x/quanta)

	return clamp(x, bound)
}

func clamp(x, bound float64) float64 {
	return math.Max(-bound, math.Min(bound, x))
}
