package sample

import (
	cryptorand "crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

var (
	ErrInvalidBitLength = errors.New("sample: bit length must be positive")
	ErrEmptyInterval    = errors.New("sample: empty interval")
)

func reader(rand io.Reader) io.Reader {
	if rand == nil {
		return cryptorand.Reader
	}
	return rand
}

// Bits returns a uniformly random integer of exactly bits bits, that is with
// its most significant bit set. A nil rand falls back to crypto/rand.
func Bits(rand io.Reader, bits int) (*big.Int, error) {
	if bits < 1 {
		return nil, ErrInvalidBitLength
	}

	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(reader(rand), buf); err != nil {
		return nil, errors.WithMessage(err, "sample: failed to read random bytes")
	}

	// clear the bits above the requested length, then force the top one
	excess := uint(len(buf)*8 - bits)
	buf[0] &= byte(0xff >> excess)
	buf[0] |= byte(0x80 >> excess)

	return new(big.Int).SetBytes(buf), nil
}

// Interval returns a uniformly random integer in the closed interval [lo, hi].
func Interval(rand io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if lo.Cmp(hi) > 0 {
		return nil, ErrEmptyInterval
	}

	// span = hi - lo + 1
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, big.NewInt(1))

	x, err := cryptorand.Int(reader(rand), span)
	if err != nil {
		return nil, errors.WithMessage(err, "sample: failed to sample interval")
	}
	return x.Add(x, lo), nil
}
