package keystore

import "github.com/mr-shifu/textbook-rsa/pkg/common/keyopts"

// Keystore stores encoded keys in a vault and their metadata in a KeyOpts.
type Keystore interface {
	Import(ski string, key []byte, opts keyopts.Options) error
	Update(key []byte, opts keyopts.Options) error
	Get(opts keyopts.Options) ([]byte, error)
	Delete(opts keyopts.Options) error
	List() ([]*keyopts.KeyData, error)
	KeyAccessor(ski string, opts keyopts.Options) KeyAccessor
}

// KeyAccessor is a Keystore bound to a single key.
type KeyAccessor interface {
	Import(key []byte) error
	Get() ([]byte, error)
	Delete() error
}
