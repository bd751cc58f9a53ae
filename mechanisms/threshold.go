// Package mechanisms implements differentially private release mechanisms
// on top of the noise and fixedpoint samplers.
//
// Mechanisms only add noise: choosing the scale from a privacy budget and
// accounting for the budget spent is left to the caller.
package mechanisms

import (
	"github.com/Pro7ech/dpnoise/noise"
	"github.com/Pro7ech/dpnoise/utils/checks"
	"github.com/Pro7ech/dpnoise/utils/sampling"
)

func checkThresholdArgs(data []float64, scale, threshold float64) error {
	if err := checks.Positive("scale", scale); err != nil {
		return err
	}
	if err := checks.Finite("threshold", threshold); err != nil {
		return err
	}
	return checks.FiniteSlice("data", data)
}

// AllAboveThreshold returns, in increasing order, the indices of the elements of data
// whose noisy value exceeds the noisy threshold.
//
// The threshold is noised once with Laplace noise of the given scale, then each element,
// in order, is noised with fresh Laplace noise of the same scale and compared against it.
// The elements must be evaluated sequentially against the single noisy threshold:
// this function must not be parallelized over data.
func AllAboveThreshold(r *sampling.Source, data []float64, scale, threshold float64) (indices []int, err error) {

	if err = checkThresholdArgs(data, scale, threshold); err != nil {
		return nil, err
	}

	noisyThreshold := threshold + noise.SampleLaplace(r, scale)

	indices = []int{}
	for i, v := range data {
		if v+noise.SampleLaplace(r, scale) > noisyThreshold {
			indices = append(indices, i)
		}
	}

	return
}

// AboveThreshold returns the index of the first element of data whose noisy value
// exceeds the noisy threshold, or -1 if there is none. Noise is drawn as in
// [AllAboveThreshold] and evaluation stops at the first hit.
func AboveThreshold(r *sampling.Source, data []float64, scale, threshold float64) (index int, err error) {

	if err = checkThresholdArgs(data, scale, threshold); err != nil {
		return -1, err
	}

	noisyThreshold := threshold + noise.SampleLaplace(r, scale)

	for i, v := range data {
		if v+noise.SampleLaplace(r, scale) > noisyThreshold {
			return i, nil
		}
	}

	return -1, nil
}

// SparseIndicator returns the indices of at most cutoff elements of data whose
// noisy value exceeds the noisy threshold. The threshold is noised again after
// each hit and evaluation stops once cutoff hits have been found.
func SparseIndicator(r *sampling.Source, data []float64, scale, threshold float64, cutoff int) (indices []int, err error) {

	if err = checkThresholdArgs(data, scale, threshold); err != nil {
		return nil, err
	}

	if err = checks.Count("cutoff", cutoff); err != nil {
		return nil, err
	}

	indices = []int{}

	if cutoff == 0 {
		return
	}

	noisyThreshold := threshold + noise.SampleLaplace(r, scale)

	for i, v := range data {
		if v+noise.SampleLaplace(r, scale) > noisyThreshold {
			if indices = append(indices, i); len(indices) == cutoff {
				break
			}
			noisyThreshold = threshold + noise.SampleLaplace(r, scale)
		}
	}

	return
}

// SparseNumeric runs [SparseIndicator] and additionally releases the value of each
// selected element with fresh Laplace noise of scale valueScale.
func SparseNumeric(r *sampling.Source, data []float64, scale, threshold float64, cutoff int, valueScale float64) (indices []int, values []float64, err error) {

	if err = checks.Positive("valueScale", valueScale); err != nil {
		return nil, nil, err
	}

	if indices, err = SparseIndicator(r, data, scale, threshold, cutoff); err != nil {
		return nil, nil, err
	}

	values = make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = data[idx] + noise.SampleLaplace(r, valueScale)
	}

	return
}
