package fixedpoint

import (
	"fmt"
	"math/big"

	"lukechampine.com/uint128"

	"github.com/Pro7ech/dpnoise/utils/bignum"
)

// WordSource is a source of uniformly random 64-bit words.
// [sampling.Source] implements this interface.
type WordSource interface {
	Uint64() uint64
}

// decision is the outcome of comparing a uniform draw against a bias.
type decision uint8

const (
	// needMorePrecision: the draw is within one unit of the bias.
	needMorePrecision decision = iota
	decidedZero
	decidedOne
)

func (d decision) bit() uint64 {
	if d == decidedOne {
		return 1
	}
	return 0
}

// decide64 compares a 64-bit draw against a 64-bit bias.
func decide64(r, b uint64) decision {
	switch {
	case r < b && b-r > 1:
		return decidedOne
	case r > b && r-b > 1:
		return decidedZero
	default:
		return needMorePrecision
	}
}

// decide128 compares a 128-bit draw against a 128-bit bias.
func decide128(r, b uint128.Uint128) decision {
	switch r.Cmp(b) {
	case -1:
		if b.Sub(r).Cmp64(1) > 0 {
			return decidedOne
		}
	case 1:
		if r.Sub(b).Cmp64(1) > 0 {
			return decidedZero
		}
	}
	return needMorePrecision
}

// decideBig compares an arbitrary width draw against a bias of the same width.
func decideBig(r, b *big.Int) decision {
	switch bignum.CmpWithin(r, b) {
	case -1:
		return decidedOne
	case 1:
		return decidedZero
	default:
		return needMorePrecision
	}
}

// sampleBit returns 1 with probability p = 1/(1+exp(2^pow2/scale)), given bias,
// the 64-bit approximation of p * 2^64 computed by [ExponentialBias].
//
// The uniform draw is compared against the bias 64 bits at a time: while the
// draw is within one unit of the bias, both are extended by 64 more bits.
// The expected number of words consumed is 1 + O(2^-63) and no maximum
// depth is enforced.
func sampleBit(r WordSource, bias uint64, scale float64, pow2 int) uint64 {
	w := r.Uint64()
	d := decide64(w, bias)
	if d == needMorePrecision {
		d = newEscalation(scale, pow2, bias, w).run(r)
	}
	return d.bit()
}

// escalation holds the state of a comparison that could not be decided at
// 64 bits: the draw and the bias at the current width.
type escalation struct {
	scale float64
	pow2  int
	bits  uint
	bias  *big.Int
	draw  uint64
}

func newEscalation(scale float64, pow2 int, bias, draw uint64) *escalation {
	return &escalation{
		scale: scale,
		pow2:  pow2,
		bits:  64,
		bias:  new(big.Int).SetUint64(bias),
		draw:  draw,
	}
}

// refine extends the bias by 64 bits and checks that the new bias
// agrees with the previous one.
func (e *escalation) refine() {

	e.bits += 64

	next := ExponentialBias(e.scale, e.pow2, e.bits)

	if bignum.CmpWithin(new(big.Int).Rsh(next, 64), e.bias) != 0 {
		panic(fmt.Errorf("fixedpoint: bias of 2^%d/%v at %d bits is not a refinement of the bias at %d bits", e.pow2, e.scale, e.bits, e.bits-64))
	}

	e.bias = next
}

// run extends the draw with words read from r until the comparison is decided.
func (e *escalation) run(r WordSource) decision {

	// 128 bits: fixed-width comparison.
	e.refine()
	draw := uint128.New(r.Uint64(), e.draw)
	if d := decide128(draw, uint128.FromBig(e.bias)); d != needMorePrecision {
		return d
	}

	// Beyond 128 bits: arbitrary width comparison.
	drawBig := draw.Big()
	for {
		e.refine()
		bignum.AppendWord(drawBig, r.Uint64())
		if d := decideBig(drawBig, e.bias); d != needMorePrecision {
			return d
		}
	}
}
