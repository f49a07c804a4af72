package rsa

import (
	"github.com/mr-shifu/textbook-rsa/core/math/arith"
	"github.com/pkg/errors"
)

var (
	ErrNoCoprimeFound      = errors.New("rsa: no exponent coprime to φ(n) found")
	ErrInvalidKeySize      = errors.New("rsa: invalid key size")
	ErrInvalidThreshold    = errors.New("rsa: threshold must be at least one round")
	ErrMessageTooLarge     = errors.New("rsa: message is too large for the modulus")
	ErrInvalidMessage      = errors.New("rsa: message cannot be encoded")
	ErrInvalidCiphertext   = errors.New("rsa: invalid ciphertext")
	ErrKeyValidationFailed = errors.New("rsa: key validation failed")

	// re-exported from arith so callers only need this package
	ErrInvalidModulus = arith.ErrInvalidModulus
	ErrNotInvertible  = arith.ErrNotInvertible
)
