package rsa

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/textbook-rsa/core/math/arith"
	"github.com/mr-shifu/textbook-rsa/core/math/prime"
	"github.com/mr-shifu/textbook-rsa/core/math/sample"
	"github.com/mr-shifu/textbook-rsa/lib/params"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// KeyPair holds a public and secret key sharing the modulus n = p⋅q, along
// with φ(n) so that the pair can be validated and persisted.
type KeyPair struct {
	pk        *PublicKey
	sk        *SecretKey
	phi       *big.Int
	bitSize   int
	threshold Threshold
}

// Generate builds a key pair from two probable primes of bits bits each, so
// n has 2⋅bits or 2⋅bits-1 bits. Randomness is drawn from rand, or from
// crypto/rand when rand is nil.
//
// Prime search is unbounded (see prime.Generate); use GenerateConcurrent to
// bound it with a context.
func Generate(rand io.Reader, bits int, threshold Threshold) (*KeyPair, error) {
	if bits < params.MinKeyBits {
		return nil, errors.WithMessagef(ErrInvalidKeySize, "%d bits, minimum is %d", bits, params.MinKeyBits)
	}
	rounds := threshold.Rounds()

	p, err := prime.Generate(rand, bits, rounds)
	if err != nil {
		return nil, err
	}
	q, err := distinctPrime(context.Background(), rand, p, bits, rounds)
	if err != nil {
		return nil, err
	}
	return fromPrimes(rand, p, q, bits, threshold)
}

// GenerateConcurrent is Generate with p and q searched on two goroutines.
// rand is shared between them through a sample.LockedReader. The search stops
// with ctx's error once ctx is done.
func GenerateConcurrent(ctx context.Context, rand io.Reader, bits int, threshold Threshold) (*KeyPair, error) {
	if bits < params.MinKeyBits {
		return nil, errors.WithMessagef(ErrInvalidKeySize, "%d bits, minimum is %d", bits, params.MinKeyBits)
	}
	rounds := threshold.Rounds()
	lr := sample.NewLockedReader(rand)

	var p, q *big.Int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = prime.GenerateContext(gctx, lr, bits, rounds)
		return err
	})
	g.Go(func() error {
		var err error
		q, err = prime.GenerateContext(gctx, lr, bits, rounds)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if p.Cmp(q) == 0 {
		var err error
		if q, err = distinctPrime(ctx, lr, p, bits, rounds); err != nil {
			return nil, err
		}
	}
	return fromPrimes(lr, p, q, bits, threshold)
}

// distinctPrime samples primes until one differs from p.
func distinctPrime(ctx context.Context, rand io.Reader, p *big.Int, bits, rounds int) (*big.Int, error) {
	for {
		q, err := prime.GenerateContext(ctx, rand, bits, rounds)
		if err != nil {
			return nil, err
		}
		if q.Cmp(p) != 0 {
			return q, nil
		}
	}
}

// fromPrimes derives n, φ(n), e and d from two distinct primes.
func fromPrimes(rand io.Reader, p, q *big.Int, bits int, threshold Threshold) (*KeyPair, error) {
	n := new(big.Int).Mul(p, q)

	// φ(n) = (p - 1)(q - 1)
	phi := new(big.Int).Mul(
		new(big.Int).Sub(p, one),
		new(big.Int).Sub(q, one),
	)

	e, err := FindE(rand, phi)
	if err != nil {
		return nil, err
	}

	// d = e⁻¹ (mod φ(n)) from EGCD(φ(n), e)
	d, err := arith.ModInverse(e, phi)
	if err != nil {
		return nil, errors.WithMessage(err, "rsa: failed to invert public exponent")
	}

	return NewKeyPair(n, phi, e, d, bits, threshold)
}

// NewKeyPair rebuilds a key pair from persisted material. Both exponents go
// through the validating constructors and the pair is checked with Validate.
func NewKeyPair(n, phi, e, d *big.Int, bitSize int, threshold Threshold) (*KeyPair, error) {
	pk, err := PublicKeyFromPhi(n, phi, e)
	if err != nil {
		return nil, err
	}
	sk, err := SecretKeyFromPhi(n, phi, d)
	if err != nil {
		return nil, err
	}

	kp := &KeyPair{
		pk:        pk,
		sk:        sk,
		phi:       new(big.Int).Set(phi),
		bitSize:   bitSize,
		threshold: threshold,
	}
	if err := kp.Validate(); err != nil {
		return nil, err
	}
	return kp, nil
}

// PublicKey returns the public half of the pair.
func (kp *KeyPair) PublicKey() *PublicKey { return kp.pk }

// SecretKey returns the secret half of the pair.
func (kp *KeyPair) SecretKey() *SecretKey { return kp.sk }

// Phi returns a copy of φ(n).
func (kp *KeyPair) Phi() *big.Int { return new(big.Int).Set(kp.phi) }

// BitSize returns the size in bits of each prime factor.
func (kp *KeyPair) BitSize() int { return kp.bitSize }

// Threshold returns the Miller-Rabin threshold the primes were generated with.
func (kp *KeyPair) Threshold() Threshold { return kp.threshold }

// Validate re-checks the pair independently of the way it was built:
//   - both halves share n;
//   - e⋅d ≡ 1 (mod φ(n)), computed with saferith;
//   - 2ᵉ (mod n) agrees between ModPow and saferith, and 2ᵉᵈ ≡ 2 (mod n).
func (kp *KeyPair) Validate() error {
	n, e, d := kp.pk.n, kp.pk.e, kp.sk.d
	if n.Cmp(kp.sk.n) != 0 {
		return errors.WithMessage(ErrKeyValidationFailed, "public and secret modulus differ")
	}
	if kp.phi.Sign() <= 0 || kp.phi.Cmp(n) >= 0 {
		return errors.WithMessage(ErrKeyValidationFailed, "φ(n) must be in (0, n)")
	}

	phiMod := saferith.ModulusFromBytes(kp.phi.Bytes())
	eNat := new(saferith.Nat).Mod(arith.NatFromBig(e), phiMod)
	dNat := new(saferith.Nat).Mod(arith.NatFromBig(d), phiMod)
	ed := new(saferith.Nat).ModMul(eNat, dNat, phiMod)
	if ed.Big().Cmp(one) != 0 {
		return errors.WithMessage(ErrKeyValidationFailed, "e⋅d is not 1 modulo φ(n)")
	}

	nMod, err := arith.NewModulus(n)
	if err != nil {
		return err
	}
	c, err := nMod.Exp(two, e)
	if err != nil {
		return err
	}
	if c.Cmp(nMod.ExpNat(two, e)) != 0 {
		return errors.WithMessage(ErrKeyValidationFailed, "exponentiation mismatch")
	}
	m, err := nMod.Exp(c, d)
	if err != nil {
		return err
	}
	if m.Cmp(new(big.Int).Mod(two, n)) != 0 {
		return errors.WithMessage(ErrKeyValidationFailed, "2^(e·d) mod n did not return 2")
	}
	return nil
}

func (kp *KeyPair) String() string {
	return fmt.Sprintf("Public Key:\n%s\nSecret Key:\n%s\nSize: %d\nThreshold: %s", kp.pk, kp.sk, kp.bitSize, kp.threshold)
}
