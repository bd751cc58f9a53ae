package mechanisms

import (
	"fmt"

	"github.com/Pro7ech/dpnoise/fixedpoint"
	"github.com/Pro7ech/dpnoise/utils/checks"
	"github.com/Pro7ech/dpnoise/utils/sampling"
)

// addInt64 returns a+b or an error on overflow.
func addInt64(a, b int64) (int64, error) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, fmt.Errorf("%w: %d + %d overflows int64", checks.ErrInvalidArgument, a, b)
	}
	return s, nil
}

// LaplaceMechanism rounds each element of data to the grid 2^-precision * Z and
// adds exact fixed-point Laplace noise of the given scale. The output lies on the grid.
func LaplaceMechanism(r *sampling.Source, data []float64, scale float64, precision int) (out []float64, err error) {

	var s *fixedpoint.Sampler
	if s, err = fixedpoint.NewSampler(r, fixedpoint.Parameters{Scale: scale, Precision: precision}); err != nil {
		return nil, err
	}

	grid := make([]int64, len(data))
	for i, x := range data {
		if grid[i], err = fixedpoint.FromFloat64(x, precision); err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
	}

	out = make([]float64, len(data))
	for i := range grid {
		var k int64
		if k, err = addInt64(grid[i], s.Sample()); err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
		out[i] = fixedpoint.ToFloat64(k, precision)
	}

	return
}

// GeometricMechanism adds to each element of data exact discrete Laplace noise
// Pr[k] = (1-r)/(1+r) * r^|k| with r = exp(-1/scale).
func GeometricMechanism(r *sampling.Source, data []int64, scale float64) (out []int64, err error) {

	var s *fixedpoint.Sampler
	if s, err = fixedpoint.NewSampler(r, fixedpoint.Parameters{Scale: scale, Precision: 0}); err != nil {
		return nil, err
	}

	out = make([]int64, len(data))
	for i, x := range data {
		if out[i], err = addInt64(x, s.Sample()); err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
	}

	return
}

// ReportNoisyMax returns the index of the largest element of data after adding
// exact fixed-point Laplace noise of the given scale on the grid 2^-precision * Z
// to each element. Ties are broken in favor of the lowest index.
// Returns -1 if data is empty.
func ReportNoisyMax(r *sampling.Source, data []float64, scale float64, precision int) (index int, err error) {

	var s *fixedpoint.Sampler
	if s, err = fixedpoint.NewSampler(r, fixedpoint.Parameters{Scale: scale, Precision: precision}); err != nil {
		return -1, err
	}

	index = -1

	var best int64
	for i, x := range data {

		var k int64
		if k, err = fixedpoint.FromFloat64(x, precision); err != nil {
			return -1, fmt.Errorf("data[%d]: %w", i, err)
		}

		if k, err = addInt64(k, s.Sample()); err != nil {
			return -1, fmt.Errorf("data[%d]: %w", i, err)
		}

		if index == -1 || k > best {
			index, best = i, k
		}
	}

	return
}
