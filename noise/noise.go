// Package noise implements floating-point samplers for the uniform, exponential,
// Laplace, geometric, two-sided geometric and full-resolution uniform distributions.
//
// These samplers consume a [sampling.Source] and are not exact: their outputs are
// subject to floating-point rounding. They must not be used where rounding artifacts
// can leak information; see package fixedpoint for the exact Laplace sampler.
package noise

import (
	"math"
	"math/bits"

	"github.com/Pro7ech/dpnoise/utils/sampling"
)

// unitUniform returns a uniform sample on the 2^-53 grid of [0, 1).
func unitUniform(r *sampling.Source) float64 {
	return float64(r.Uint64()>>11) * 0x1p-53
}

// openUniform returns a uniform sample on the midpoints of the 2^-52 grid of [0, 1),
// hence in the open interval (0, 1).
func openUniform(r *sampling.Source) float64 {
	return (float64(r.Uint64()>>12) + 0.5) * 0x1p-52
}

// signum returns -1 if x < 0 and 1 otherwise.
func signum(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// SampleUniform returns a sample from the uniform distribution on [0, scale).
func SampleUniform(r *sampling.Source, scale float64) float64 {
	return unitUniform(r) * scale
}

// SampleExponential returns a sample from the exponential distribution with the given scale.
func SampleExponential(r *sampling.Source, scale float64) float64 {
	return -scale * math.Log(openUniform(r))
}

// SampleLaplace returns a sample from the Laplace distribution centered at zero
// with the given scale, by inversion of its CDF.
func SampleLaplace(r *sampling.Source, scale float64) float64 {
	y := openUniform(r) - 0.5
	sgn := signum(y)
	return sgn * math.Log(2*sgn*y) * scale
}

// SampleGeometric returns the number of failures before the first success of
// independent Bernoulli trials with success probability p.
func SampleGeometric(r *sampling.Source, p float64) float64 {
	return math.Floor(math.Log(openUniform(r)) / math.Log(1-p))
}

// SampleTwoSidedGeometric returns a sample k with probability (1-q)/(1+q) * q^|k|.
func SampleTwoSidedGeometric(r *sampling.Source, q float64) float64 {
	y := (openUniform(r) - 0.5) * (1 + q)
	sgn := signum(y)
	k := sgn * math.Floor(math.Log(sgn*y)/math.Log(q))
	if k == 0 {
		return 0 // drops the sign of -0
	}
	return k
}

// SampleDoubleUniform returns a sample from the uniform distribution on (0, scale)
// in which every float64 of (0, 1) is reachable: the binade is selected by a
// geometric draw and the significand is filled with 52 uniform bits.
func SampleDoubleUniform(r *sampling.Source, scale float64) float64 {
	exponent := int(sampleGeometricHalf(r)) + 53
	significand := (r.Uint64() >> 11) | (1 << 52)
	return scale * math.Ldexp(float64(significand), -exponent)
}

// sampleGeometricHalf returns a sample from the geometric distribution with
// success probability 1/2, read exactly from the trailing zeros of the source.
func sampleGeometricHalf(r *sampling.Source) (n uint64) {
	for {
		if w := r.Uint64(); w != 0 {
			return n + uint64(bits.TrailingZeros64(w))
		}
		n += 64
	}
}
