package rsa

import (
	"github.com/mr-shifu/textbook-rsa/core/rsa"
	"github.com/mr-shifu/textbook-rsa/pkg/common/keyopts"
)

type RSAKey interface {
	// Bytes returns the byte representation of the key.
	Bytes() ([]byte, error)

	// SKI returns the serialized key identifier.
	SKI() []byte

	// Private returns true if the key holds the secret exponent.
	Private() bool

	// PublicKey returns the corresponding public key part of RSA Key.
	PublicKey() RSAKey

	PublicKeyRaw() *rsa.PublicKey

	// KeyPair returns the underlying key pair, or nil for a public key.
	KeyPair() *rsa.KeyPair

	// Encrypt returns the hex ciphertext of message.
	Encrypt(message []byte) (string, error)

	// Decrypt recovers the message encrypted to this key.
	Decrypt(ciphertext string) ([]byte, error)
}

type RSAKeyManager interface {
	// GenerateKey generates a new RSA key pair.
	GenerateKey(opts keyopts.Options) (RSAKey, error)

	// ImportKey imports an RSA key from its byte representation or an RSAKey.
	ImportKey(data interface{}, opts keyopts.Options) (RSAKey, error)

	// GetKey returns the RSA key linked to the ID in opts.
	GetKey(opts keyopts.Options) (RSAKey, error)

	// DeleteKey removes the RSA key linked to the ID in opts.
	DeleteKey(opts keyopts.Options) error

	// ListKeys returns the metadata of every stored key.
	ListKeys() ([]*keyopts.KeyData, error)

	// Encrypt encrypts message with the key linked to the ID in opts.
	Encrypt(message []byte, opts keyopts.Options) (string, error)

	// Decrypt decrypts ciphertext with the key linked to the ID in opts.
	Decrypt(ciphertext string, opts keyopts.Options) ([]byte, error)
}
