package prime

import (
	"context"
	"io"
	"math/big"

	"github.com/mr-shifu/textbook-rsa/core/math/sample"
	"github.com/mr-shifu/textbook-rsa/lib/params"
	"github.com/pkg/errors"
)

// product of smallPrimes, fits in a uint64
var (
	smallPrimes        = []uint64{3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53}
	smallPrimesProduct = new(big.Int).SetUint64(16294579238595022365)
)

// Generate returns a probable prime of exactly bits bits.
//
// See GenerateContext. Generate never gives up: the search is expected to take
// O(bits) candidates but has no upper bound.
func Generate(rand io.Reader, bits, rounds int) (*big.Int, error) {
	return GenerateContext(context.Background(), rand, bits, rounds)
}

// GenerateContext samples a random bits-bit odd integer and walks upward in
// steps of two until a candidate passes IsProbablePrime with the given number
// of rounds. If the walk carries the candidate past bits bits, a fresh
// starting point is sampled, so the result always has its top bit set.
//
// The search has no iteration bound. ctx is checked between candidates and
// its error returned once it is done; this is the only way to bound latency.
func GenerateContext(ctx context.Context, rand io.Reader, bits, rounds int) (*big.Int, error) {
	if bits < params.MinPrimeBits {
		return nil, ErrInvalidBitLength
	}
	if rounds < 1 {
		return nil, ErrInvalidRounds
	}

	for {
		candidate, err := sample.Bits(rand, bits)
		if err != nil {
			return nil, errors.WithMessage(err, "prime: failed to sample candidate")
		}
		if candidate.Bit(0) == 0 {
			candidate.Add(candidate, one)
		}

		for candidate.BitLen() == bits {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			if !hasSmallFactor(candidate) {
				ok, err := IsProbablePrime(rand, candidate, rounds)
				if err != nil {
					return nil, err
				}
				if ok {
					return candidate, nil
				}
			}
			candidate.Add(candidate, two)
		}
	}
}

// hasSmallFactor reports whether an odd n is divisible by one of smallPrimes
// other than itself. It only rejects composites.
func hasSmallFactor(n *big.Int) bool {
	r := new(big.Int).Mod(n, smallPrimesProduct).Uint64()
	small := n.IsUint64()
	for _, p := range smallPrimes {
		if r%p != 0 {
			continue
		}
		if small && n.Uint64() == p {
			return false
		}
		return true
	}
	return false
}
