// Package fixedpoint implements an exact sampler of the Laplace distribution
// discretized on the grid 2^-precision * Z.
//
// A sample is assembled from a sign (mix) bit and 63 magnitude bits, each
// drawn independently from its exact Bernoulli distribution. Each bit is
// decided by comparing a uniform draw against the bit's bias, extending both
// to arbitrary precision when they are too close to be told apart at 64 bits.
// No floating-point operation is involved in the decision of a bit or in the
// assembly of the sample, so the output carries no rounding artifact.
package fixedpoint

import (
	"github.com/Pro7ech/dpnoise/utils/sampling"
)

// Sampler keeps the state of a fixed-point Laplace sampler.
type Sampler struct {
	*sampling.Source
	Parameters
	Table *BiasTable
}

// NewSampler instantiates a new [Sampler] from a [sampling.Source] and [Parameters].
// The [BiasTable] is computed once and reused by every sample.
func NewSampler(source *sampling.Source, params Parameters) (s *Sampler, err error) {
	var table *BiasTable
	if table, err = NewBiasTable(params); err != nil {
		return nil, err
	}
	return &Sampler{
		Source:     source,
		Parameters: params,
		Table:      table,
	}, nil
}

// GetSource returns the underlying [sampling.Source] used by the sampler.
func (s Sampler) GetSource() *sampling.Source {
	return s.Source
}

// WithSource returns an instance of the underlying sampler with
// a new [sampling.Source]. The [BiasTable] is shared.
// It can be used concurrently with the original sampler.
func (s Sampler) WithSource(source *sampling.Source) *Sampler {
	return &Sampler{
		Source:     source,
		Parameters: s.Parameters,
		Table:      s.Table,
	}
}

// Sample returns a sample k, in grid units, with probability
//
//	Pr[k] = (1-r)/(1+r) * r^|k|, r = exp(-2^-precision/scale).
func (s *Sampler) Sample() int64 {
	return Sample(s.Source, s.Table, s.Parameters)
}

// Read populates buf with independent samples.
func (s *Sampler) Read(buf []int64) {
	for i := range buf {
		buf[i] = s.Sample()
	}
}

// ReadNew returns a new slice of n independent samples.
func (s *Sampler) ReadNew(n int) (buf []int64) {
	buf = make([]int64, n)
	s.Read(buf)
	return
}

// Sample draws a fixed-point Laplace sample from r, given the [BiasTable]
// of params. The table must have been created with the same params.
func Sample(r WordSource, table *BiasTable, params Parameters) int64 {

	mix := sampleBit(r, table[0], -params.Scale, -params.Precision)

	var magnitude uint64
	for idx := 1; idx < 64; idx++ {
		magnitude |= sampleBit(r, table[idx], params.Scale, params.pow2(idx)) << (63 - idx)
	}

	// mix = 1: magnitude, mix = 0: -1-magnitude.
	return (int64(mix) - 1) ^ int64(magnitude)
}
