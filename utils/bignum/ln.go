package bignum

import (
	"math"
	"math/big"
)

const (
	// lnStartPrec is the working precision of the first evaluation of LnRN.
	lnStartPrec = 128
	// lnSlack bounds the error of Log, in units in the last place of the working precision.
	lnSlack = 8
)

// LnRN returns the natural logarithm of x correctly rounded to the nearest
// float64, ties to even.
//
// The logarithm is evaluated in arbitrary precision and the working precision
// is doubled until both ends of the error interval round to the same float64.
// Since ln(x) is transcendental for every float64 x other than 1, the loop
// always terminates.
//
// Special cases are:
//
//	LnRN(+Inf) = +Inf
//	LnRN(1) = 0
//	LnRN(0) = -Inf
//	LnRN(x < 0) = NaN
//	LnRN(NaN) = NaN
func LnRN(x float64) float64 {

	switch {
	case math.IsNaN(x) || x < 0:
		return math.NaN()
	case x == 0:
		return math.Inf(-1)
	case math.IsInf(x, 1):
		return x
	case x == 1:
		return 0
	}

	for prec := uint(lnStartPrec); ; prec <<= 1 {

		y := Log(NewFloat(x, prec))

		// |error| <= 2^(exponent(y) - prec + lnSlack)
		eps := Pow2(y.MantExp(nil)-int(prec)+lnSlack, prec)

		lo, _ := new(big.Float).SetPrec(prec).Sub(y, eps).Float64()
		hi, _ := new(big.Float).SetPrec(prec).Add(y, eps).Float64()

		if lo == hi {
			return lo
		}
	}
}
