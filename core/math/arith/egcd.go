package arith

import (
	"math/big"

	"github.com/pkg/errors"
)

var ErrNotInvertible = errors.New("arith: value is not invertible")

// EGCD returns (g, x, y) such that a⋅x + b⋅y = g = gcd(|a|, |b|).
//
// Quotients truncate toward zero. g is always non-negative; EGCD(0, b) is
// (|b|, 0, sign(b)) and EGCD(0, 0) is (0, 1, 0).
func EGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)

		// (oldR, r) = (r, oldR - q⋅r)
		tmp.Mul(q, r)
		oldR, r = r, oldR.Sub(oldR, tmp)

		// (oldS, s) = (s, oldS - q⋅s)
		tmp.Mul(q, s)
		oldS, s = s, oldS.Sub(oldS, tmp)

		// (oldT, t) = (t, oldT - q⋅t)
		tmp.Mul(q, t)
		oldT, t = t, oldT.Sub(oldT, tmp)
	}

	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldS.Neg(oldS)
		oldT.Neg(oldT)
	}
	return oldR, oldS, oldT
}

// GCD returns gcd(|a|, |b|).
func GCD(a, b *big.Int) *big.Int {
	g, _, _ := EGCD(a, b)
	return g
}

// Coprime reports whether gcd(a, b) = 1.
func Coprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(big.NewInt(1)) == 0
}

// ModInverse returns a⁻¹ (mod m) in [0, m).
//
// The inverse is the Bézout coefficient of a in EGCD(m, a), shifted into range
// by adding m while it is negative.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}

	g, _, y := EGCD(m, a)
	if g.Cmp(big.NewInt(1)) != 0 {
		return nil, errors.WithMessagef(ErrNotInvertible, "gcd is %s", g.String())
	}

	// |y| < m after the truncated remainder, so one addition is enough
	y.Rem(y, m)
	for y.Sign() < 0 {
		y.Add(y, m)
	}
	return y, nil
}
