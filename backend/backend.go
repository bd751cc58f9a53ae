// Package backend exposes the samplers and mechanisms as batch entry points.
//
// Each call draws a fresh root source from the backend's seeded stream. The
// per-sample entry points split the output into chunks, key the i-th chunk with
// the i-th child of the root source and fill the chunks concurrently. The output
// is therefore a deterministic function of the seed and of the sequence of calls,
// independently of the number of workers.
package backend

import (
	"fmt"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/exp/constraints"

	"github.com/Pro7ech/dpnoise/fixedpoint"
	"github.com/Pro7ech/dpnoise/mechanisms"
	"github.com/Pro7ech/dpnoise/noise"
	"github.com/Pro7ech/dpnoise/utils/bignum"
	"github.com/Pro7ech/dpnoise/utils/checks"
	"github.com/Pro7ech/dpnoise/utils/concurrency"
	"github.com/Pro7ech/dpnoise/utils/sampling"
)

// DefaultChunkSize is the number of samples filled by a single task.
const DefaultChunkSize = 1 << 12

// Literal is a literal representation of the configuration of a [Backend].
// Zero fields are replaced by their default when the backend is created.
type Literal struct {
	// Workers is the maximum number of concurrent tasks.
	// Defaults to runtime.GOMAXPROCS(0).
	Workers int
	// ChunkSize is the number of samples filled by a single task.
	// Defaults to DefaultChunkSize.
	ChunkSize int
	// Seed keys the backend's random stream.
	// Defaults to a seed read from crypto/rand.
	Seed *[32]byte
}

// Backend is the batch driver of the samplers and mechanisms.
// It is safe for concurrent use.
type Backend struct {
	workers   int
	chunkSize int

	mu     sync.Mutex
	source *sampling.Source
}

// NewBackend instantiates a new [Backend] from a [Literal].
// Returns an error if Workers or ChunkSize are negative.
func NewBackend(lit Literal) (*Backend, error) {

	if err := checks.Count("Workers", lit.Workers); err != nil {
		return nil, fmt.Errorf("cannot NewBackend: %w", err)
	}

	if err := checks.Count("ChunkSize", lit.ChunkSize); err != nil {
		return nil, fmt.Errorf("cannot NewBackend: %w", err)
	}

	b := &Backend{
		workers:   lit.Workers,
		chunkSize: lit.ChunkSize,
	}

	if b.workers == 0 {
		b.workers = runtime.GOMAXPROCS(0)
	}

	if b.chunkSize == 0 {
		b.chunkSize = DefaultChunkSize
	}

	if lit.Seed != nil {
		b.source = sampling.NewSource(*lit.Seed)
	} else {
		b.source = sampling.NewSource(sampling.NewSeed())
	}

	return b, nil
}

// Literal returns the resolved [Literal] of the backend.
// The seed is the one the backend was created with.
func (b *Backend) Literal() Literal {
	b.mu.Lock()
	defer b.mu.Unlock()
	seed := b.source.Seed()
	return Literal{
		Workers:   b.workers,
		ChunkSize: b.chunkSize,
		Seed:      &seed,
	}
}

// newSource returns the root source of a call.
func (b *Backend) newSource() *sampling.Source {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.source.NewSource()
}

// fill returns count samples filled concurrently by chunks: read fills the
// i-th chunk from a worker source keyed with root.ChildSeed(i).
func fill[T constraints.Integer | constraints.Float](b *Backend, root *sampling.Source, count int, read func(r *sampling.Source, buf []T)) (out []T, err error) {

	if err = checks.Count("count", count); err != nil {
		return nil, err
	}

	out = make([]T, count)

	workers := make([]*sampling.Source, min(b.workers, (count+b.chunkSize-1)/b.chunkSize))
	for i := range workers {
		workers[i] = sampling.NewSource([32]byte{})
	}

	rm := concurrency.NewResourceManager(workers)

	for chunk := 0; chunk*b.chunkSize < count; chunk++ {
		start := chunk * b.chunkSize
		end := min(start+b.chunkSize, count)
		rm.Run(func(r *sampling.Source) error {
			r.Reseed(root.ChildSeed(uint64(chunk)))
			read(r, out[start:end])
			return nil
		})
	}

	if err = rm.Wait(); err != nil {
		return nil, err
	}

	return
}

// float64s validates X once with [noise.NewSampler], then fills each chunk
// with a copy of the sampler bound to the chunk's source.
func (b *Backend) float64s(X noise.Distribution, count int) ([]float64, error) {

	root := b.newSource()

	s, err := noise.NewSampler(root, X)
	if err != nil {
		return nil, err
	}

	return fill(b, root, count, func(r *sampling.Source, buf []float64) {
		s.WithSource(r).Read(buf)
	})
}

// Uniform returns count samples of the uniform distribution on [0, 1).
func (b *Backend) Uniform(count int) ([]float64, error) {
	return b.float64s(noise.Uniform{Scale: 1}, count)
}

// Exponential returns count samples of the exponential distribution of the given scale.
func (b *Backend) Exponential(scale float64, count int) ([]float64, error) {
	return b.float64s(noise.Exponential{Scale: scale}, count)
}

// Laplace returns count samples of the Laplace distribution of the given scale.
func (b *Backend) Laplace(scale float64, count int) ([]float64, error) {
	return b.float64s(noise.Laplace{Scale: scale}, count)
}

// Geometric returns count samples of the geometric distribution of success probability p.
func (b *Backend) Geometric(p float64, count int) ([]float64, error) {
	return b.float64s(noise.Geometric{P: p}, count)
}

// TwoSidedGeometric returns count samples of the two-sided geometric distribution of ratio q.
func (b *Backend) TwoSidedGeometric(q float64, count int) ([]float64, error) {
	return b.float64s(noise.TwoSidedGeometric{Q: q}, count)
}

// DoubleUniform returns count samples of the full-resolution uniform distribution on (0, 1).
func (b *Backend) DoubleUniform(count int) ([]float64, error) {
	return b.float64s(noise.DoubleUniform{Scale: 1}, count)
}

// FixedPointLaplace returns count samples, in grid units, of the Laplace distribution
// of the given scale discretized on the grid 2^-precision * Z.
// The bias table is computed once and shared by all the workers.
func (b *Backend) FixedPointLaplace(scale float64, count, precision int) ([]int64, error) {

	root := b.newSource()

	s, err := fixedpoint.NewSampler(root, fixedpoint.Parameters{Scale: scale, Precision: precision})
	if err != nil {
		return nil, err
	}

	return fill(b, root, count, func(r *sampling.Source, buf []int64) {
		s.WithSource(r).Read(buf)
	})
}

// AllAboveThreshold runs [mechanisms.AllAboveThreshold] on a copy of data.
// The evaluation is sequential.
func (b *Backend) AllAboveThreshold(data []float64, scale, threshold float64) ([]int, error) {
	return mechanisms.AllAboveThreshold(b.newSource(), slices.Clone(data), scale, threshold)
}

// SparseIndicator runs [mechanisms.SparseIndicator] on a copy of data.
func (b *Backend) SparseIndicator(data []float64, scale, threshold float64, cutoff int) ([]int, error) {
	return mechanisms.SparseIndicator(b.newSource(), slices.Clone(data), scale, threshold, cutoff)
}

// Snapping runs [mechanisms.Snapping] on a copy of data.
func (b *Backend) Snapping(data []float64, bound, lambda, quanta float64) ([]float64, error) {
	return mechanisms.Snapping(b.newSource(), slices.Clone(data), bound, lambda, quanta)
}

// LaplaceMechanism runs [mechanisms.LaplaceMechanism] on a copy of data.
func (b *Backend) LaplaceMechanism(data []float64, scale float64, precision int) ([]float64, error) {
	return mechanisms.LaplaceMechanism(b.newSource(), slices.Clone(data), scale, precision)
}

// GeometricMechanism runs [mechanisms.GeometricMechanism] on a copy of data.
func (b *Backend) GeometricMechanism(data []int64, scale float64) ([]int64, error) {
	return mechanisms.GeometricMechanism(b.newSource(), slices.Clone(data), scale)
}

// ReportNoisyMax runs [mechanisms.ReportNoisyMax] on a copy of data.
func (b *Backend) ReportNoisyMax(data []float64, scale float64, precision int) (int, error) {
	return mechanisms.ReportNoisyMax(b.newSource(), slices.Clone(data), scale, precision)
}

// ExponentialMechanism runs [mechanisms.ExponentialMechanism] on a copy of utilities.
func (b *Backend) ExponentialMechanism(utilities []float64, scale float64, method mechanisms.ExponentialMethod) (int, error) {
	return mechanisms.ExponentialMechanism(b.newSource(), slices.Clone(utilities), scale, method)
}

// PermuteAndFlip runs [mechanisms.PermuteAndFlip] on a copy of utilities.
func (b *Backend) PermuteAndFlip(utilities []float64, scale float64) (int, error) {
	return mechanisms.PermuteAndFlip(b.newSource(), slices.Clone(utilities), scale)
}

// LnRN returns the correctly rounded natural logarithm of x.
func (b *Backend) LnRN(x float64) float64 {
	return bignum.LnRN(x)
}
