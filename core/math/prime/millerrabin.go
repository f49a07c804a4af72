package prime

import (
	"io"
	"math/big"

	"github.com/mr-shifu/textbook-rsa/core/math/arith"
	"github.com/mr-shifu/textbook-rsa/core/math/sample"
	"github.com/pkg/errors"
)

var (
	ErrInvalidRounds    = errors.New("prime: rounds must be at least 1")
	ErrInvalidBitLength = errors.New("prime: bit length must be at least 2")
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// IsProbablePrime runs rounds of the Miller-Rabin test on n.
//
// Every round draws a fresh witness uniformly from [2, n-2] out of rand; a
// composite n survives a round with probability at most 1/4, so a false
// positive after all rounds has probability at most 4⁻ʳᵒᵘⁿᵈˢ. A primality
// result for n ≤ 3 or an even n is decided without randomness. Errors are only
// returned for invalid rounds or a failing reader.
func IsProbablePrime(rand io.Reader, n *big.Int, rounds int) (bool, error) {
	if rounds < 1 {
		return false, ErrInvalidRounds
	}
	if n.Cmp(two) < 0 {
		return false, nil
	}
	if n.Cmp(three) <= 0 {
		return true, nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}

	nMinusOne := new(big.Int).Sub(n, one)
	nMinusTwo := new(big.Int).Sub(n, two)

	// n - 1 = 2ˢ⋅d with d odd
	d := new(big.Int).Set(nMinusOne)
	s := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}

	for i := 0; i < rounds; i++ {
		a, err := sample.Interval(rand, two, nMinusTwo)
		if err != nil {
			return false, errors.WithMessage(err, "prime: failed to sample witness")
		}

		x, err := arith.ModPow(a, d, n)
		if err != nil {
			return false, err
		}
		if x.Cmp(one) == 0 || x.Cmp(nMinusOne) == 0 {
			continue
		}

		composite := true
		for j := 1; j < s; j++ {
			x.Mul(x, x)
			x.Mod(x, n)
			if x.Cmp(nMinusOne) == 0 {
				composite = false
				break
			}
			// a non-trivial square root of 1
			if x.Cmp(one) == 0 {
				return false, nil
			}
		}
		if composite {
			return false, nil
		}
	}
	return true, nil
}
