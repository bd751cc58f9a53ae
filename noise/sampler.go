package noise

import (
	"fmt"

	"github.com/Pro7ech/dpnoise/utils/sampling"
)

// Sampler keeps the state of a floating-point sampler: a source and
// validated distribution parameters.
type Sampler struct {
	*sampling.Source
	X Distribution
}

// NewSampler instantiates a new [Sampler] from a [sampling.Source] and a
// [Distribution]. Returns an error if the parameters are invalid.
func NewSampler(source *sampling.Source, X Distribution) (*Sampler, error) {
	if X == nil {
		return nil, fmt.Errorf("cannot NewSampler: distribution is nil")
	}
	if err := X.Validate(); err != nil {
		return nil, fmt.Errorf("cannot NewSampler: %s: %w", X, err)
	}
	return &Sampler{Source: source, X: X}, nil
}

// GetSource returns the underlying [sampling.Source] used by the sampler.
func (s Sampler) GetSource() *sampling.Source {
	return s.Source
}

// WithSource returns an instance of the underlying sampler with
// a new [sampling.Source].
// It can be used concurrently with the original sampler.
func (s Sampler) WithSource(source *sampling.Source) *Sampler {
	return &Sampler{Source: source, X: s.X}
}

// Sample returns a single sample.
func (s *Sampler) Sample() float64 {
	return s.X.Sample(s.Source)
}

// Read populates buf with independent samples.
func (s *Sampler) Read(buf []float64) {
	for i := range buf {
		buf[i] = s.X.Sample(s.Source)
	}
}

// ReadNew returns a new slice of n independent samples.
func (s *Sampler) ReadNew(n int) (buf []float64) {
	buf = make([]float64, n)
	s.Read(buf)
	return
}
