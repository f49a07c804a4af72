package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"
)

// Modulus holds a positive modulus n in both math/big and saferith form.
//
// The big.Int form drives ModPow; the saferith form gives an independent
// implementation of the same arithmetic, which key validation uses as a
// cross-check.
type Modulus struct {
	n   *big.Int
	nat *saferith.Modulus
}

// NewModulus copies n and caches its saferith representation.
func NewModulus(n *big.Int) (*Modulus, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	return &Modulus{
		n:   new(big.Int).Set(n),
		nat: saferith.ModulusFromBytes(n.Bytes()),
	}, nil
}

// Big returns a copy of n.
func (m *Modulus) Big() *big.Int {
	return new(big.Int).Set(m.n)
}

// Nat returns the saferith form of n.
func (m *Modulus) Nat() *saferith.Modulus {
	return m.nat
}

// BitLen returns the bit length of n.
func (m *Modulus) BitLen() int {
	return m.n.BitLen()
}

// Contains reports whether 0 ≤ x < n.
func (m *Modulus) Contains(x *big.Int) bool {
	return x.Sign() >= 0 && x.Cmp(m.n) < 0
}

// Exp returns xᵉ (mod n) using ModPow.
func (m *Modulus) Exp(x, e *big.Int) (*big.Int, error) {
	return ModPow(x, e, m.n)
}

// ExpNat returns xᵉ (mod n) computed by saferith. x and e must be non-negative.
func (m *Modulus) ExpNat(x, e *big.Int) *big.Int {
	xNat := NatFromBig(x)
	xNat.Mod(xNat, m.nat)
	return new(saferith.Nat).Exp(xNat, NatFromBig(e), m.nat).Big()
}

// NatFromBig converts a non-negative x to a saferith.Nat announcing at least
// one bit.
func NatFromBig(x *big.Int) *saferith.Nat {
	size := x.BitLen()
	if size == 0 {
		size = 1
	}
	return new(saferith.Nat).SetBig(x, size)
}
