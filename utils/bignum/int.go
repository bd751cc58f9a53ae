package bignum

import (
	"fmt"
	"math/big"
)

// NewInt allocates a new *big.Int.
// Accepted types are: string, uint, uint64, int64, int, *big.Float or *big.Int.
func NewInt(x interface{}) (y *big.Int) {

	y = new(big.Int)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case string:
		y.SetString(x, 0)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case int64:
		y.SetInt64(x)
	case int:
		y.SetInt64(int64(x))
	case *big.Float:
		x.Int(y)
	case *big.Int:
		y.Set(x)
	default:
		panic(fmt.Sprintf("cannot NewInt: accepted types are string, uint, uint64, int, int64, *big.Float, *big.Int, but is %T", x))
	}

	return
}

// AppendWord sets x to x * 2^64 + w and returns x.
func AppendWord(x *big.Int, w uint64) *big.Int {
	x.Lsh(x, 64)
	return x.Or(x, new(big.Int).SetUint64(w))
}

// CmpWithin compares a and b with a tolerance of one unit: it returns
// 0 if |a-b| <= 1, -1 if a < b-1 and 1 if a > b+1.
func CmpWithin(a, b *big.Int) int {
	d := new(big.Int).Sub(a, b)
	switch {
	case d.CmpAbs(big.NewInt(1)) <= 0:
		return 0
	case d.Sign() < 0:
		return -1
	default:
		return 1
	}
}

// Mask returns 2^bits - 1.
func Mask(bits uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), bits)
	return m.Sub(m, big.NewInt(1))
}
