package arith

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModPow(t *testing.T) {
	vectors := []struct {
		base, exp, mod, want int64
	}{
		{4, 13, 497, 445},
		{5, 3, 13, 8},
		{2, 0, 7, 1},
		{0, 0, 7, 1},
		{0, 5, 7, 0},
		{7, 1, 7, 0},
		{3, 200, 1, 0},
		{-2, 3, 11, 3}, // (-8) mod 11
	}
	for _, v := range vectors {
		got, err := ModPow(big.NewInt(v.base), big.NewInt(v.exp), big.NewInt(v.mod))
		require.NoError(t, err)
		assert.Equal(t, v.want, got.Int64(), "%d^%d mod %d", v.base, v.exp, v.mod)
	}
}

func TestModPow_MatchesBigExp(t *testing.T) {
	source := mrand.New(mrand.NewSource(1))
	limit := new(big.Int).Lsh(big.NewInt(1), 512)

	for i := 0; i < 50; i++ {
		base := new(big.Int).Rand(source, limit)
		exp := new(big.Int).Rand(source, limit)
		mod := new(big.Int).Rand(source, limit)
		mod.Add(mod, big.NewInt(1))

		got, err := ModPow(base, exp, mod)
		require.NoError(t, err)
		assert.Equal(t, 0, new(big.Int).Exp(base, exp, mod).Cmp(got))
		assert.True(t, got.Sign() >= 0 && got.Cmp(mod) < 0)
	}
}

func TestModPow_InvalidModulus(t *testing.T) {
	_, err := ModPow(big.NewInt(2), big.NewInt(3), big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidModulus)

	_, err = ModPow(big.NewInt(2), big.NewInt(3), big.NewInt(-5))
	assert.ErrorIs(t, err, ErrInvalidModulus)

	_, err = ModPow(big.NewInt(2), big.NewInt(3), nil)
	assert.ErrorIs(t, err, ErrInvalidModulus)

	_, err = ModPow(big.NewInt(2), big.NewInt(-1), big.NewInt(5))
	assert.ErrorIs(t, err, ErrNegativeExponent)
}

func TestModPow_DoesNotMutateInputs(t *testing.T) {
	base, exp, mod := big.NewInt(4), big.NewInt(13), big.NewInt(497)
	_, err := ModPow(base, exp, mod)
	require.NoError(t, err)
	assert.Equal(t, int64(4), base.Int64())
	assert.Equal(t, int64(13), exp.Int64())
	assert.Equal(t, int64(497), mod.Int64())
}

func checkBezout(t *testing.T, a, b *big.Int) {
	g, x, y := EGCD(a, b)

	lhs := new(big.Int).Mul(a, x)
	lhs.Add(lhs, new(big.Int).Mul(b, y))
	assert.Equal(t, 0, lhs.Cmp(g), "a⋅x + b⋅y = g for a=%v b=%v", a, b)

	want := new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
	assert.Equal(t, 0, want.Cmp(g), "gcd(%v, %v)", a, b)
}

func TestEGCD(t *testing.T) {
	pairs := [][2]int64{
		{240, 46}, {46, 240}, {17, 5}, {0, 9}, {9, 0}, {0, 0},
		{-240, 46}, {240, -46}, {-240, -46}, {0, -9}, {-9, 0},
		{1, 1}, {-1, 1}, {12, 12}, {3120, 17}, {1, 0},
	}
	for _, p := range pairs {
		checkBezout(t, big.NewInt(p[0]), big.NewInt(p[1]))
	}

	source := mrand.New(mrand.NewSource(2))
	limit := new(big.Int).Lsh(big.NewInt(1), 1024)
	for i := 0; i < 100; i++ {
		a := new(big.Int).Rand(source, limit)
		b := new(big.Int).Rand(source, limit)
		if source.Intn(2) == 0 {
			a.Neg(a)
		}
		if source.Intn(2) == 0 {
			b.Neg(b)
		}
		checkBezout(t, a, b)
	}
}

func TestEGCD_BaseCase(t *testing.T) {
	g, x, y := EGCD(big.NewInt(0), big.NewInt(7))
	assert.Equal(t, int64(7), g.Int64())
	assert.Equal(t, int64(0), x.Int64())
	assert.Equal(t, int64(1), y.Int64())
}

func TestCoprime(t *testing.T) {
	assert.True(t, Coprime(big.NewInt(3120), big.NewInt(17)))
	assert.False(t, Coprime(big.NewInt(3120), big.NewInt(15)))
	assert.Equal(t, int64(6), GCD(big.NewInt(-12), big.NewInt(18)).Int64())
}

func TestModInverse(t *testing.T) {
	// classic textbook key: φ = 3120, e = 17, d = 2753
	d, err := ModInverse(big.NewInt(17), big.NewInt(3120))
	require.NoError(t, err)
	assert.Equal(t, int64(2753), d.Int64())

	// negative input is inverted as its residue
	inv, err := ModInverse(big.NewInt(-3), big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, int64(2), inv.Int64())

	_, err = ModInverse(big.NewInt(15), big.NewInt(3120))
	assert.ErrorIs(t, err, ErrNotInvertible)

	_, err = ModInverse(big.NewInt(3), big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidModulus)

	source := mrand.New(mrand.NewSource(3))
	m := new(big.Int).Lsh(big.NewInt(1), 2048)
	m.Sub(m, big.NewInt(159)) // odd modulus
	for i := 0; i < 30; i++ {
		a := new(big.Int).Rand(source, m)
		if !Coprime(a, m) {
			continue
		}
		inv, err := ModInverse(a, m)
		require.NoError(t, err)
		assert.True(t, inv.Sign() >= 0 && inv.Cmp(m) < 0)
		prod := new(big.Int).Mul(a, inv)
		assert.Equal(t, int64(1), prod.Mod(prod, m).Int64())
	}
}

func TestModulus(t *testing.T) {
	_, err := NewModulus(big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidModulus)

	m, err := NewModulus(big.NewInt(497))
	require.NoError(t, err)
	assert.Equal(t, 9, m.BitLen())
	assert.True(t, m.Contains(big.NewInt(0)))
	assert.True(t, m.Contains(big.NewInt(496)))
	assert.False(t, m.Contains(big.NewInt(497)))
	assert.False(t, m.Contains(big.NewInt(-1)))

	got, err := m.Exp(big.NewInt(4), big.NewInt(13))
	require.NoError(t, err)
	assert.Equal(t, int64(445), got.Int64())
	assert.Equal(t, int64(445), m.ExpNat(big.NewInt(4), big.NewInt(13)).Int64())

	// Big hands out copies
	m.Big().SetInt64(1)
	assert.Equal(t, int64(497), m.Big().Int64())
}

func TestModulus_ExpNatMatchesModPow(t *testing.T) {
	source := mrand.New(mrand.NewSource(4))
	limit := new(big.Int).Lsh(big.NewInt(1), 256)

	for i := 0; i < 20; i++ {
		n := new(big.Int).Rand(source, limit)
		n.Add(n, big.NewInt(2))
		n.SetBit(n, 0, 1)
		m, err := NewModulus(n)
		require.NoError(t, err)

		x := new(big.Int).Rand(source, limit)
		e := new(big.Int).Rand(source, limit)
		want, err := m.Exp(x, e)
		require.NoError(t, err)
		assert.Equal(t, 0, want.Cmp(m.ExpNat(x, e)))
	}
}
