// Package bignum implements arbitrary precision arithmetic helpers on top of math/big.
package bignum

import (
	"fmt"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// NewFloat allocates a new *big.Float set to x with precision prec.
// Accepted types are: int, int64, uint64, float64, *big.Int or *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float).SetPrec(prec)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint64:
		y.SetUint64(x)
	case float64:
		y.SetFloat64(x)
	case *big.Int:
		y.SetInt(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Sprintf("cannot NewFloat: accepted types are int, int64, uint64, float64, *big.Int, *big.Float, but is %T", x))
	}

	return
}

// Pow2 returns 2^exp with precision prec.
func Pow2(exp int, prec uint) *big.Float {
	one := NewFloat(1, prec)
	return one.SetMantExp(one, exp)
}

// Exp returns exp(x) with the precision of x.
func Exp(x *big.Float) *big.Float {
	return bigfloat.Exp(x)
}

// Log returns ln(x) with the precision of x.
// Panics if x is negative.
func Log(x *big.Float) *big.Float {
	return bigfloat.Log(x)
}
