package mechanisms

import (
	"fmt"
	"math"
	mathrand "math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/Pro7ech/dpnoise/noise"
	"github.com/Pro7ech/dpnoise/utils/checks"
	"github.com/Pro7ech/dpnoise/utils/sampling"
)

// ExponentialMethod is the sampling algorithm of [ExponentialMechanism].
// All methods release the same distribution.
type ExponentialMethod int

const (
	// WeightedIndex inverts the cumulative sum of the weights at a uniform point.
	WeightedIndex ExponentialMethod = iota
	// GumbelTrick returns the argmax of the scaled utilities perturbed with Gumbel noise.
	GumbelTrick
	// SampleAndFlip proposes uniformly random indices until one is accepted.
	SampleAndFlip
)

var exponentialMethodNames = map[ExponentialMethod]string{
	WeightedIndex: "weighted_index",
	GumbelTrick:   "gumbel_trick",
	SampleAndFlip: "sample_and_flip",
}

func (m ExponentialMethod) String() string {
	if name, ok := exponentialMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ExponentialMethod(%d)", int(m))
}

// ParseExponentialMethod returns the [ExponentialMethod] of the given name.
func ParseExponentialMethod(name string) (ExponentialMethod, error) {
	for m, n := range exponentialMethodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown exponential mechanism method %q", checks.ErrInvalidArgument, name)
}

func checkSelectionArgs(utilities []float64, scale float64) error {
	if err := checks.Positive("scale", scale); err != nil {
		return err
	}
	if len(utilities) == 0 {
		return fmt.Errorf("%w: utilities must not be empty", checks.ErrInvalidArgument)
	}
	return checks.FiniteSlice("utilities", utilities)
}

// selectionWeights returns exp((u - max(u)) / scale) for each utility u.
// The weights lie in [0, 1] and every maximal utility has weight 1.
func selectionWeights(utilities []float64, scale float64) (w []float64) {
	top := floats.Max(utilities)
	w = make([]float64, len(utilities))
	for i, u := range utilities {
		w[i] = math.Exp((u - top) / scale)
	}
	return
}

// bernoulli returns true with probability p, for p in [0, 1].
func bernoulli(r *sampling.Source, p float64) bool {
	return noise.SampleUniform(r, 1) < p
}

// ExponentialMechanism returns index i with probability proportional to
// exp(utilities[i] / scale). For a utility of sensitivity s, scale = 2s/epsilon
// gives epsilon-differential privacy.
func ExponentialMechanism(r *sampling.Source, utilities []float64, scale float64, method ExponentialMethod) (index int, err error) {

	if err = checkSelectionArgs(utilities, scale); err != nil {
		return -1, err
	}

	switch method {
	case WeightedIndex:
		return weightedIndex(r, selectionWeights(utilities, scale)), nil
	case GumbelTrick:
		return gumbelTrick(r, utilities, scale), nil
	case SampleAndFlip:
		return sampleAndFlip(r, selectionWeights(utilities, scale)), nil
	default:
		return -1, fmt.Errorf("%w: unknown exponential mechanism method %v", checks.ErrInvalidArgument, method)
	}
}

func weightedIndex(r *sampling.Source, w []float64) int {

	cumsum := floats.CumSum(make([]float64, len(w)), w)

	x := noise.SampleUniform(r, cumsum[len(cumsum)-1])

	if i := sort.Search(len(cumsum), func(i int) bool { return cumsum[i] > x }); i < len(cumsum) {
		return i
	}

	// x rounded up to the total weight.
	i := len(w) - 1
	for w[i] == 0 {
		i--
	}
	return i
}

func gumbelTrick(r *sampling.Source, utilities []float64, scale float64) int {
	top := floats.Max(utilities)
	perturbed := make([]float64, len(utilities))
	for i, u := range utilities {
		// -ln(E) is standard Gumbel for E standard exponential.
		perturbed[i] = (u-top)/scale - math.Log(noise.SampleExponential(r, 1))
	}
	return floats.MaxIdx(perturbed)
}

func sampleAndFlip(r *sampling.Source, w []float64) int {
	rng := mathrand.New(r)
	for {
		if i := rng.IntN(len(w)); bernoulli(r, w[i]) {
			return i
		}
	}
}

// PermuteAndFlip visits the indices of utilities in a uniformly random order
// and returns the first one accepted, index i being accepted with probability
// exp((utilities[i] - max(utilities)) / scale). For a utility of sensitivity s,
// scale = 2s/epsilon gives epsilon-differential privacy, and the expected
// utility is never lower than that of [ExponentialMechanism].
func PermuteAndFlip(r *sampling.Source, utilities []float64, scale float64) (index int, err error) {

	if err = checkSelectionArgs(utilities, scale); err != nil {
		return -1, err
	}

	w := selectionWeights(utilities, scale)

	rng := mathrand.New(r)

	perm := make([]int, len(w))
	for i := range perm {
		perm[i] = i
	}

	// Lazy Fisher-Yates: the permutation is drawn only up to the accepted index.
	for k := range perm {
		j := k + rng.IntN(len(perm)-k)
		perm[k], perm[j] = perm[j], perm[k]
		if bernoulli(r, w[perm[k]]) {
			return perm[k], nil
		}
	}

	// Unreachable: a maximal utility has weight 1 and is always accepted.
	return floats.MaxIdx(utilities), nil
}
