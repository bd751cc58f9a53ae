package fixedpoint

import (
	"math"
	"math/big"

	"github.com/Pro7ech/dpnoise/utils/bignum"
)

// guardBits is the number of bits of precision carried beyond the requested
// width when evaluating a bias.
const guardBits = 64

// ExponentialBias returns B, an approximation of p * 2^bits with |B - p * 2^bits| < 1, where
//
//	p = 1 / (1 + exp(2^pow2 / scale))
//
// is the probability that the bit of weight 2^pow2 of an exponentially distributed
// variable of the given scale is set. A negative scale yields 1-p, which is the
// convention used for the sign (mix) bit of the Laplace sampler.
//
// The result is a refinement of the result at a lower width: the top bits of
// ExponentialBias(scale, pow2, bits+64) agree with ExponentialBias(scale, pow2, bits)
// up to one unit. When exp(2^pow2/scale) makes p indistinguishable from 0 (resp. 1)
// at the requested width, the result saturates to 0 (resp. 2^bits - 1).
func ExponentialBias(scale float64, pow2 int, bits uint) (b *big.Int) {

	prec := bits + guardBits

	x := bignum.Pow2(pow2, prec)
	x.Quo(x, bignum.NewFloat(scale, prec))

	// p < exp(-x) and 1-p < exp(x).
	limit := float64(bits+1) * math.Ln2
	switch xf, _ := x.Float64(); {
	case xf > limit:
		return new(big.Int)
	case xf < -limit:
		return bignum.Mask(bits)
	}

	one := bignum.NewFloat(1, prec)

	p := bignum.Exp(x)
	p.Add(p, one)
	p.Quo(one, p)
	p.SetMantExp(p, int(bits))

	b, _ = p.Int(nil)

	if mask := bignum.Mask(bits); b.Cmp(mask) > 0 {
		b.Set(mask)
	}

	return
}

// BiasTable stores the 64-bit biases of the 64 bits of a fixed-point Laplace sample.
// Entry 0 is the bias of the sign (mix) bit and entry i, for 1 <= i < 64, is the bias
// of the magnitude bit of weight 2^(63-i) on the grid.
//
// A BiasTable is immutable once created and can be shared among concurrent samplers
// operating with the same parameters.
type BiasTable [64]uint64

// NewBiasTable computes the [BiasTable] for the given parameters.
func NewBiasTable(params Parameters) (t *BiasTable, err error) {

	if err = params.Validate(); err != nil {
		return nil, err
	}

	t = new(BiasTable)

	t[0] = ExponentialBias(-params.Scale, -params.Precision, 64).Uint64()

	for idx := 1; idx < 64; idx++ {
		t[idx] = ExponentialBias(params.Scale, params.pow2(idx), 64).Uint64()
	}

	return
}
