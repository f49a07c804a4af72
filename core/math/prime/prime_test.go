package prime

import (
	"context"
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/mr-shifu/textbook-rsa/core/math/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1024 bit, 309 decimal digits
const knownPrime = "118595363679537468261258276757550704318651155601593299292198496313960907653004730006758459999825003212944725610469590674020124506249770566394260832237809252494505683255861199449482385196474342481641301503121142740933186279111209376061535491003888763334916103110474472949854230628809878558752830476310536476569"

func mersenne(p uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), p)
	return m.Sub(m, big.NewInt(1))
}

func TestIsProbablePrime_Small(t *testing.T) {
	source := mrand.New(mrand.NewSource(1))

	for i := int64(-5); i < 3000; i++ {
		n := big.NewInt(i)
		want := i > 1 && n.ProbablyPrime(20)
		got, err := IsProbablePrime(source, n, 40)
		require.NoError(t, err)
		assert.Equal(t, want, got, "n = %d", i)
	}
}

func TestIsProbablePrime_KnownPrimes(t *testing.T) {
	source := mrand.New(mrand.NewSource(2))

	p, ok := new(big.Int).SetString(knownPrime, 10)
	require.True(t, ok)

	primes := []*big.Int{
		p,
		mersenne(127),
		mersenne(521),
		mersenne(607),
		mersenne(1279), // 386 digits
	}
	for _, p := range primes {
		for _, rounds := range []int{1, 2, 10} {
			ok, err := IsProbablePrime(source, p, rounds)
			require.NoError(t, err)
			assert.True(t, ok, "%d bit prime rejected with %d rounds", p.BitLen(), rounds)
		}
	}
}

func TestIsProbablePrime_Composites(t *testing.T) {
	source := mrand.New(mrand.NewSource(3))

	composites := []string{
		// Carmichael numbers
		"561", "1105", "1729", "2465", "2821", "6601", "8911", "41041", "825265", "321197185",
		// strong pseudoprimes to base 2
		"2047", "3215031751",
		// strong pseudoprime to the first nine prime bases
		"3825123056546413051",
	}
	for _, c := range composites {
		n, ok := new(big.Int).SetString(c, 10)
		require.True(t, ok)
		for trial := 0; trial < 25; trial++ {
			ok, err := IsProbablePrime(source, n, 20)
			require.NoError(t, err)
			assert.False(t, ok, "%s reported prime", c)
		}
	}

	// product of two large primes
	n := new(big.Int).Mul(mersenne(521), mersenne(607))
	ok, err := IsProbablePrime(source, n, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	// even number, no witness needed
	ok, err = IsProbablePrime(nil, new(big.Int).Lsh(mersenne(521), 1), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsProbablePrime_InvalidRounds(t *testing.T) {
	_, err := IsProbablePrime(nil, big.NewInt(7), 0)
	assert.ErrorIs(t, err, ErrInvalidRounds)
}

func TestGenerate(t *testing.T) {
	source := mrand.New(mrand.NewSource(4))

	for _, bits := range []int{2, 3, 4, 8, 16, 31, 64, 128, 256} {
		for i := 0; i < 5; i++ {
			p, err := Generate(source, bits, 20)
			require.NoError(t, err)
			assert.Equal(t, bits, p.BitLen(), "prime must have exactly %d bits", bits)
			assert.Equal(t, uint(1), p.Bit(0), "prime must be odd")
			assert.True(t, p.ProbablyPrime(20), "%v is not prime", p)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	p1, err := Generate(sample.NewSeededReader([]byte("prime")), 256, 20)
	require.NoError(t, err)
	p2, err := Generate(sample.NewSeededReader([]byte("prime")), 256, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, p1.Cmp(p2))
}

func TestGenerate_InvalidParams(t *testing.T) {
	_, err := Generate(nil, 1, 10)
	assert.ErrorIs(t, err, ErrInvalidBitLength)

	_, err = Generate(nil, 64, 0)
	assert.ErrorIs(t, err, ErrInvalidRounds)
}

func TestGenerateContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateContext(ctx, nil, 512, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHasSmallFactor(t *testing.T) {
	for _, p := range smallPrimes {
		assert.False(t, hasSmallFactor(new(big.Int).SetUint64(p)), "%d is prime", p)
	}
	assert.True(t, hasSmallFactor(big.NewInt(9)))
	assert.True(t, hasSmallFactor(big.NewInt(53*59)))
	assert.False(t, hasSmallFactor(big.NewInt(59*61)))
	assert.False(t, hasSmallFactor(mersenne(521)))
}
