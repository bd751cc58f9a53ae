package noise

import (
	"fmt"

	"github.com/Pro7ech/dpnoise/utils/checks"
	"github.com/Pro7ech/dpnoise/utils/sampling"
)

// Distribution is an interface for the parameters of a floating-point
// distribution. There are six implementations of this interface:
//   - Uniform on [0, Scale).
//   - Exponential of scale Scale.
//   - Laplace of scale Scale.
//   - Geometric of success probability P.
//   - TwoSidedGeometric of ratio Q.
//   - DoubleUniform on (0, Scale) at full double precision.
type Distribution interface {
	Validate() error
	Sample(r *sampling.Source) float64
	Equal(other Distribution) bool
	fmt.Stringer
}

// Uniform represents the uniform distribution on [0, Scale).
type Uniform struct {
	Scale float64
}

// Exponential represents the exponential distribution of scale Scale.
type Exponential struct {
	Scale float64
}

// Laplace represents the Laplace distribution centered at zero of scale Scale.
type Laplace struct {
	Scale float64
}

// Geometric represents the distribution of the number of failures before the
// first success of Bernoulli trials with success probability P.
type Geometric struct {
	P float64
}

// TwoSidedGeometric represents the discrete Laplace distribution
// Pr[k] = (1-Q)/(1+Q) * Q^|k| on the integers.
type TwoSidedGeometric struct {
	Q float64
}

// DoubleUniform represents the uniform distribution on (0, Scale) sampled
// with full double precision.
type DoubleUniform struct {
	Scale float64
}

func (d Uniform) Validate() error                   { return checks.Positive("scale", d.Scale) }
func (d Uniform) Sample(r *sampling.Source) float64 { return SampleUniform(r, d.Scale) }
func (d Uniform) String() string                    { return fmt.Sprintf("Uniform(scale=%v)", d.Scale) }
func (d Uniform) Equal(other Distribution) bool {
	o, ok := other.(Uniform)
	return ok && o == d
}

func (d Exponential) Validate() error                   { return checks.Positive("scale", d.Scale) }
func (d Exponential) Sample(r *sampling.Source) float64 { return SampleExponential(r, d.Scale) }
func (d Exponential) String() string                    { return fmt.Sprintf("Exponential(scale=%v)", d.Scale) }
func (d Exponential) Equal(other Distribution) bool {
	o, ok := other.(Exponential)
	return ok && o == d
}

func (d Laplace) Validate() error                   { return checks.Positive("scale", d.Scale) }
func (d Laplace) Sample(r *sampling.Source) float64 { return SampleLaplace(r, d.Scale) }
func (d Laplace) String() string                    { return fmt.Sprintf("Laplace(scale=%v)", d.Scale) }
func (d Laplace) Equal(other Distribution) bool {
	o, ok := other.(Laplace)
	return ok && o == d
}

func (d Geometric) Validate() error                   { return checks.OpenUnit("p", d.P) }
func (d Geometric) Sample(r *sampling.Source) float64 { return SampleGeometric(r, d.P) }
func (d Geometric) String() string                    { return fmt.Sprintf("Geometric(p=%v)", d.P) }
func (d Geometric) Equal(other Distribution) bool {
	o, ok := other.(Geometric)
	return ok && o == d
}

func (d TwoSidedGeometric) Validate() error { return checks.OpenUnit("q", d.Q) }
func (d TwoSidedGeometric) Sample(r *sampling.Source) float64 {
	return SampleTwoSidedGeometric(r, d.Q)
}
func (d TwoSidedGeometric) String() string { return fmt.Sprintf("TwoSidedGeometric(q=%v)", d.Q) }
func (d TwoSidedGeometric) Equal(other Distribution) bool {
	o, ok := other.(TwoSidedGeometric)
	return ok && o == d
}

func (d DoubleUniform) Validate() error                   { return checks.Positive("scale", d.Scale) }
func (d DoubleUniform) Sample(r *sampling.Source) float64 { return SampleDoubleUniform(r, d.Scale) }
func (d DoubleUniform) String() string                    { return fmt.Sprintf("DoubleUniform(scale=%v)", d.Scale) }
func (d DoubleUniform) Equal(other Distribution) bool {
	o, ok := other.(DoubleUniform)
	return ok && o == d
}
