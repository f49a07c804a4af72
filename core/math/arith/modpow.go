package arith

import (
	"math/big"

	"github.com/pkg/errors"
)

var (
	ErrInvalidModulus   = errors.New("arith: modulus must be positive")
	ErrNegativeExponent = errors.New("arith: exponent must be non-negative")
)

// ModPow returns baseᵉˣᵖ (mod m) in [0, m).
//
// The exponent is consumed from its least significant bit: the accumulator is
// multiplied by the current power of base whenever the bit is set, and the
// power is squared at every step. Running time depends on the bit pattern of
// exp.
func ModPow(base, exp, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	if exp.Sign() < 0 {
		return nil, ErrNegativeExponent
	}

	// 1 (mod m) so that m = 1 yields 0
	result := new(big.Int).Mod(big.NewInt(1), m)
	b := new(big.Int).Mod(base, m)
	e := new(big.Int).Set(exp)

	for e.Sign() > 0 {
		if e.Bit(0) == 1 {
			result.Mul(result, b)
			result.Mod(result, m)
		}
		b.Mul(b, b)
		b.Mod(b, m)
		e.Rsh(e, 1)
	}
	return result, nil
}
