package rsa

import (
	"encoding/binary"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-shifu/textbook-rsa/core/rsa"
	cs_rsa "github.com/mr-shifu/textbook-rsa/pkg/common/cryptosuite/rsa"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

var (
	ErrInvalidKey     = errors.New("rsa: invalid key")
	ErrPublicKeyOnly  = errors.New("rsa: key has no secret part")
	ErrUnsupportedKey = errors.New("rsa: unsupported key data")
)

const skiDomain = "TEXTBOOK-RSA-SKI"

var _ cs_rsa.RSAKey = RSAKey{}

type RSAKey struct {
	pk   *rsa.PublicKey
	pair *rsa.KeyPair
}

type rawRSAKey struct {
	N       []byte
	E       []byte
	D       []byte `cbor:",omitempty"`
	Phi     []byte `cbor:",omitempty"`
	BitSize int    `cbor:",omitempty"`
	Rounds  int    `cbor:",omitempty"`
}

// NewRSAKey wraps a generated key pair.
func NewRSAKey(pair *rsa.KeyPair) RSAKey {
	return RSAKey{pk: pair.PublicKey(), pair: pair}
}

// NewRSAPublicKey wraps a public key.
func NewRSAPublicKey(pk *rsa.PublicKey) RSAKey {
	return RSAKey{pk: pk}
}

func (key RSAKey) Bytes() ([]byte, error) {
	if key.pk == nil {
		return nil, ErrInvalidKey
	}
	raw := &rawRSAKey{
		N: key.pk.N().Bytes(),
		E: key.pk.E().Bytes(),
	}

	if key.Private() {
		raw.D = key.pair.SecretKey().D().Bytes()
		raw.Phi = key.pair.Phi().Bytes()
		raw.BitSize = key.pair.BitSize()
		raw.Rounds = key.pair.Threshold().Rounds()
	}
	return cbor.Marshal(raw)
}

// SKI hashes the public key, so a key pair and its public part share an SKI.
func (key RSAKey) SKI() []byte {
	if key.pk == nil {
		return nil
	}
	h := blake3.New()
	_, _ = h.WriteString(skiDomain)
	writeInt(h, key.pk.N())
	writeInt(h, key.pk.E())
	return h.Sum(nil)
}

func writeInt(h *blake3.Hasher, x *big.Int) {
	b := x.Bytes()
	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(len(b)))
	_, _ = h.Write(size[:])
	_, _ = h.Write(b)
}

func (key RSAKey) Private() bool {
	return key.pair != nil
}

func (key RSAKey) PublicKey() cs_rsa.RSAKey {
	return RSAKey{pk: key.pk}
}

func (key RSAKey) PublicKeyRaw() *rsa.PublicKey {
	return key.pk
}

func (key RSAKey) KeyPair() *rsa.KeyPair {
	return key.pair
}

func (key RSAKey) Encrypt(message []byte) (string, error) {
	if key.pk == nil {
		return "", ErrInvalidKey
	}
	return key.pk.Encrypt(message)
}

func (key RSAKey) Decrypt(ciphertext string) ([]byte, error) {
	if !key.Private() {
		return nil, ErrPublicKeyOnly
	}
	return key.pair.SecretKey().Decrypt(ciphertext)
}

// FromBytes decodes a key produced by Bytes. Secret keys are checked with
// rsa.NewKeyPair, public keys with rsa.NewPublicKey.
func FromBytes(data []byte) (RSAKey, error) {
	raw := &rawRSAKey{}
	if err := cbor.Unmarshal(data, raw); err != nil {
		return RSAKey{}, errors.WithMessage(ErrInvalidKey, err.Error())
	}

	n := new(big.Int).SetBytes(raw.N)
	e := new(big.Int).SetBytes(raw.E)

	if len(raw.D) == 0 {
		pk, err := rsa.NewPublicKey(n, e)
		if err != nil {
			return RSAKey{}, errors.WithMessage(ErrInvalidKey, err.Error())
		}
		return NewRSAPublicKey(pk), nil
	}

	threshold, err := rsa.NewThreshold(raw.Rounds)
	if err != nil {
		return RSAKey{}, errors.WithMessage(ErrInvalidKey, err.Error())
	}
	d := new(big.Int).SetBytes(raw.D)
	phi := new(big.Int).SetBytes(raw.Phi)
	pair, err := rsa.NewKeyPair(n, phi, e, d, raw.BitSize, threshold)
	if err != nil {
		return RSAKey{}, errors.WithMessage(ErrInvalidKey, err.Error())
	}
	return NewRSAKey(pair), nil
}
