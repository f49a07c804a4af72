package rsa

import (
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/mr-shifu/textbook-rsa/core/math/arith"
	"github.com/mr-shifu/textbook-rsa/lib/params"
	"github.com/pkg/errors"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// PublicKey is the public half (n, e) of a key pair. It is immutable: the
// accessors hand out copies.
type PublicKey struct {
	n *big.Int
	e *big.Int
}

// SecretKey is the secret half (n, d) of a key pair. It is immutable: the
// accessors hand out copies.
type SecretKey struct {
	n *big.Int
	d *big.Int
}

// checkParts verifies the shape shared by both halves: n > 1 and 0 < x < n.
func checkParts(n, x *big.Int) error {
	if n == nil || x == nil {
		return errors.WithMessage(ErrKeyValidationFailed, "missing key component")
	}
	if n.Cmp(one) <= 0 {
		return errors.WithMessage(ErrKeyValidationFailed, "modulus must be greater than one")
	}
	if x.Sign() <= 0 || x.Cmp(n) >= 0 {
		return errors.WithMessage(ErrKeyValidationFailed, "exponent must be in (0, n)")
	}
	return nil
}

// checkPhi verifies 1 < x < φ and gcd(x, φ) = 1, with 0 < φ < n.
func checkPhi(n, phi, x *big.Int) error {
	if err := checkParts(n, x); err != nil {
		return err
	}
	if phi == nil || phi.Sign() <= 0 || phi.Cmp(n) >= 0 {
		return errors.WithMessage(ErrKeyValidationFailed, "φ(n) must be in (0, n)")
	}
	if x.Cmp(one) <= 0 || x.Cmp(phi) >= 0 {
		return errors.WithMessage(ErrKeyValidationFailed, "exponent must be in (1, φ(n))")
	}
	if !arith.Coprime(phi, x) {
		return errors.WithMessage(ErrKeyValidationFailed, "exponent is not coprime to φ(n)")
	}
	return nil
}

// NewPublicKey builds a public key from its parts. Only the shape of the
// parts is checked; use PublicKeyFromPhi when φ(n) is known.
func NewPublicKey(n, e *big.Int) (*PublicKey, error) {
	if err := checkParts(n, e); err != nil {
		return nil, err
	}
	return &PublicKey{n: new(big.Int).Set(n), e: new(big.Int).Set(e)}, nil
}

// PublicKeyFromPhi builds a public key after checking that e is coprime to φ(n).
func PublicKeyFromPhi(n, phi, e *big.Int) (*PublicKey, error) {
	if err := checkPhi(n, phi, e); err != nil {
		return nil, err
	}
	return &PublicKey{n: new(big.Int).Set(n), e: new(big.Int).Set(e)}, nil
}

// N returns the modulus.
func (pk *PublicKey) N() *big.Int { return new(big.Int).Set(pk.n) }

// E returns the public exponent.
func (pk *PublicKey) E() *big.Int { return new(big.Int).Set(pk.e) }

// Size returns the bit length of the modulus.
func (pk *PublicKey) Size() int { return pk.n.BitLen() }

// Equal reports whether both keys hold the same (n, e).
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if other == nil {
		return false
	}
	return pk.n.Cmp(other.n) == 0 && pk.e.Cmp(other.e) == 0
}

// Encrypt returns msgᵉ (mod n) as a lowercase hex string, msg read as a
// big-endian integer.
//
// The integer must be smaller than n, otherwise ErrMessageTooLarge is returned.
// A leading zero byte does not survive the integer encoding and is rejected
// with ErrInvalidMessage.
func (pk *PublicKey) Encrypt(msg []byte) (string, error) {
	if len(msg) > 0 && msg[0] == 0 {
		return "", errors.WithMessage(ErrInvalidMessage, "leading zero byte")
	}

	m := new(big.Int).SetBytes(msg)
	if m.Cmp(pk.n) >= 0 {
		return "", errors.WithMessagef(ErrMessageTooLarge, "message is %d bits, modulus is %d bits", m.BitLen(), pk.n.BitLen())
	}

	c, err := arith.ModPow(m, pk.e, pk.n)
	if err != nil {
		return "", err
	}
	return c.Text(params.CiphertextRadix), nil
}

// EncryptString encrypts UTF-8 text.
func (pk *PublicKey) EncryptString(msg string) (string, error) {
	if !utf8.ValidString(msg) {
		return "", errors.WithMessage(ErrInvalidMessage, "message is not valid UTF-8")
	}
	return pk.Encrypt([]byte(msg))
}

func (pk *PublicKey) String() string {
	return fmt.Sprintf("n: %s\ne: %s", pk.n.String(), pk.e.String())
}

// NewSecretKey builds a secret key from its parts. Only the shape of the
// parts is checked; use SecretKeyFromPhi when φ(n) is known.
func NewSecretKey(n, d *big.Int) (*SecretKey, error) {
	if err := checkParts(n, d); err != nil {
		return nil, err
	}
	return &SecretKey{n: new(big.Int).Set(n), d: new(big.Int).Set(d)}, nil
}

// SecretKeyFromPhi builds a secret key after checking that d is coprime to φ(n).
func SecretKeyFromPhi(n, phi, d *big.Int) (*SecretKey, error) {
	if err := checkPhi(n, phi, d); err != nil {
		return nil, err
	}
	return &SecretKey{n: new(big.Int).Set(n), d: new(big.Int).Set(d)}, nil
}

// N returns the modulus.
func (sk *SecretKey) N() *big.Int { return new(big.Int).Set(sk.n) }

// D returns the private exponent.
func (sk *SecretKey) D() *big.Int { return new(big.Int).Set(sk.d) }

// Size returns the bit length of the modulus.
func (sk *SecretKey) Size() int { return sk.n.BitLen() }

// Decrypt parses a hex ciphertext c and returns cᵈ (mod n) as big-endian bytes.
// Malformed, negative or out of range ciphertexts yield ErrInvalidCiphertext.
func (sk *SecretKey) Decrypt(ciphertext string) ([]byte, error) {
	c, ok := new(big.Int).SetString(ciphertext, params.CiphertextRadix)
	if !ok {
		return nil, errors.WithMessage(ErrInvalidCiphertext, "not a hex number")
	}
	if c.Sign() < 0 || c.Cmp(sk.n) >= 0 {
		return nil, errors.WithMessage(ErrInvalidCiphertext, "ciphertext out of range")
	}

	m, err := arith.ModPow(c, sk.d, sk.n)
	if err != nil {
		return nil, err
	}
	return m.Bytes(), nil
}

// DecryptString decrypts a ciphertext produced by EncryptString.
func (sk *SecretKey) DecryptString(ciphertext string) (string, error) {
	msg, err := sk.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(msg) {
		return "", errors.WithMessage(ErrInvalidCiphertext, "plaintext is not valid UTF-8")
	}
	return string(msg), nil
}

func (sk *SecretKey) String() string {
	return fmt.Sprintf("n: %s\nd: (%d bits)", sk.n.String(), sk.d.BitLen())
}
