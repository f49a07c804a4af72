package rsa

import (
	"io"
	"math/big"

	"github.com/mr-shifu/textbook-rsa/core/math/arith"
	"github.com/mr-shifu/textbook-rsa/core/math/sample"
	"github.com/pkg/errors"
)

// FindE returns an odd e with φ/2 < e < φ and gcd(e, φ) = 1.
//
// A random odd starting point is drawn from (φ/2, φ) and the search walks
// upward in steps of two. For an even φ the walk always ends at φ-1 at the
// latest, so ErrNoCoprimeFound means φ was not a valid totient.
func FindE(rand io.Reader, phi *big.Int) (*big.Int, error) {
	// (φ/2, φ) = [⌊φ/2⌋ + 1, φ - 1]
	lo := new(big.Int).Rsh(phi, 1)
	lo.Add(lo, one)
	hi := new(big.Int).Sub(phi, one)
	if phi.Sign() <= 0 || lo.Cmp(hi) > 0 {
		return nil, errors.WithMessagef(ErrNoCoprimeFound, "empty interval for φ = %s", phi.String())
	}

	e, err := sample.Interval(rand, lo, hi)
	if err != nil {
		return nil, errors.WithMessage(err, "rsa: failed to sample exponent")
	}
	if e.Bit(0) == 0 {
		e.Add(e, one)
	}

	for ; e.Cmp(hi) <= 0; e.Add(e, two) {
		if g, _, _ := arith.EGCD(phi, e); g.Cmp(one) == 0 {
			return e, nil
		}
	}
	return nil, ErrNoCoprimeFound
}
