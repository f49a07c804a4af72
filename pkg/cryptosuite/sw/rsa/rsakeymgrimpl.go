package rsa

import (
	"context"
	"encoding/hex"
	"io"

	"github.com/google/uuid"
	"github.com/mr-shifu/textbook-rsa/core/rsa"
	cs_rsa "github.com/mr-shifu/textbook-rsa/pkg/common/cryptosuite/rsa"
	"github.com/mr-shifu/textbook-rsa/pkg/common/keyopts"
	"github.com/mr-shifu/textbook-rsa/pkg/common/keystore"
	"github.com/mr-shifu/textbook-rsa/pkg/logger"
	"github.com/pkg/errors"
)

type Config struct {
	// Bits is the size of each prime factor.
	Bits      int
	Threshold rsa.Threshold
	// Parallel searches p and q concurrently.
	Parallel bool
	// Rand is the randomness source; crypto/rand when nil.
	Rand io.Reader
}

var _ cs_rsa.RSAKeyManager = (*RSAKeyManager)(nil)

type RSAKeyManager struct {
	keystore keystore.Keystore
	cfg      *Config
	log      logger.Logger
}

func NewRSAKeyManager(store keystore.Keystore, cfg *Config, log logger.Logger) *RSAKeyManager {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RSAKeyManager{
		keystore: store,
		cfg:      cfg,
		log:      log,
	}
}

// withKeyID makes sure opts carries an "id" option, assigning a random UUID
// when it is missing.
func withKeyID(opts keyopts.Options) (keyopts.Options, string, error) {
	if opts == nil {
		return nil, "", errors.New("rsa: nil key options")
	}
	if v, ok := opts.Get("id"); ok {
		id, ok := v.(string)
		if !ok || id == "" {
			return nil, "", errors.New("rsa: key id must be a non-empty string")
		}
		return opts, id, nil
	}

	id := uuid.NewString()
	opts, err := opts.Set("id", id)
	if err != nil {
		return nil, "", err
	}
	return opts, id, nil
}

func (mgr *RSAKeyManager) GenerateKey(opts keyopts.Options) (cs_rsa.RSAKey, error) {
	opts, id, err := withKeyID(opts)
	if err != nil {
		return nil, err
	}

	mgr.log.Debug("generating rsa key", "id", id, "bits", mgr.cfg.Bits, "threshold", mgr.cfg.Threshold.Rounds(), "parallel", mgr.cfg.Parallel)

	// Generate a new RSA key pair
	var pair *rsa.KeyPair
	if mgr.cfg.Parallel {
		pair, err = rsa.GenerateConcurrent(context.Background(), mgr.cfg.Rand, mgr.cfg.Bits, mgr.cfg.Threshold)
	} else {
		pair, err = rsa.Generate(mgr.cfg.Rand, mgr.cfg.Bits, mgr.cfg.Threshold)
	}
	if err != nil {
		mgr.log.Error("rsa key generation failed", "id", id, "error", err)
		return nil, err
	}

	key := NewRSAKey(pair)
	if err := mgr.store(key, opts); err != nil {
		return nil, err
	}

	mgr.log.Info("generated rsa key", "id", id, "ski", hex.EncodeToString(key.SKI()), "size", pair.PublicKey().Size())
	return key, nil
}

func (mgr *RSAKeyManager) ImportKey(data interface{}, opts keyopts.Options) (cs_rsa.RSAKey, error) {
	opts, id, err := withKeyID(opts)
	if err != nil {
		return nil, err
	}

	var key RSAKey
	switch t := data.(type) {
	case []byte:
		key, err = FromBytes(t)
		if err != nil {
			return nil, err
		}
	case RSAKey:
		key = t
	case *rsa.KeyPair:
		if t == nil {
			return nil, ErrInvalidKey
		}
		key = NewRSAKey(t)
	case *rsa.PublicKey:
		if t == nil {
			return nil, ErrInvalidKey
		}
		key = NewRSAPublicKey(t)
	default:
		return nil, ErrUnsupportedKey
	}

	if err := mgr.store(key, opts); err != nil {
		return nil, err
	}

	mgr.log.Info("imported rsa key", "id", id, "ski", hex.EncodeToString(key.SKI()), "private", key.Private())
	return key, nil
}

func (mgr *RSAKeyManager) store(key RSAKey, opts keyopts.Options) error {
	// serialize key to store to the keystore
	encoded, err := key.Bytes()
	if err != nil {
		return err
	}

	return mgr.keystore.Import(vaultKey(key), encoded, opts)
}

// vaultKey is the hex encoded SKI with a suffix telling the public and secret
// encodings of one key apart, so importing a public part never overwrites the
// stored pair.
func vaultKey(key RSAKey) string {
	ski := hex.EncodeToString(key.SKI())
	if key.Private() {
		return ski + ":sk"
	}
	return ski + ":pk"
}

func (mgr *RSAKeyManager) GetKey(opts keyopts.Options) (cs_rsa.RSAKey, error) {
	// get the key from the keystore
	encoded, err := mgr.keystore.Get(opts)
	if err != nil {
		return nil, err
	}

	// decode the key
	return FromBytes(encoded)
}

func (mgr *RSAKeyManager) DeleteKey(opts keyopts.Options) error {
	if err := mgr.keystore.Delete(opts); err != nil {
		return err
	}
	id, _ := opts.Get("id")
	mgr.log.Info("deleted rsa key", "id", id)
	return nil
}

func (mgr *RSAKeyManager) ListKeys() ([]*keyopts.KeyData, error) {
	return mgr.keystore.List()
}

func (mgr *RSAKeyManager) Encrypt(message []byte, opts keyopts.Options) (string, error) {
	k, err := mgr.GetKey(opts)
	if err != nil {
		return "", err
	}
	return k.Encrypt(message)
}

func (mgr *RSAKeyManager) Decrypt(ciphertext string, opts keyopts.Options) ([]byte, error) {
	k, err := mgr.GetKey(opts)
	if err != nil {
		return nil, err
	}
	return k.Decrypt(ciphertext)
}
