package keystore

import "github.com/mr-shifu/textbook-rsa/pkg/common/keyopts"

// KeyAccessor binds a Keystore to one key ID and SKI.
type KeyAccessor struct {
	opts keyopts.Options
	ski  string
	ks   *Keystore
}

func NewKeyAccessor(ski string, opts keyopts.Options, ks *Keystore) *KeyAccessor {
	return &KeyAccessor{ski: ski, opts: opts, ks: ks}
}

func (ka *KeyAccessor) Import(key []byte) error {
	return ka.ks.Import(ka.ski, key, ka.opts)
}

func (ka *KeyAccessor) Get() ([]byte, error) {
	return ka.ks.Get(ka.opts)
}

func (ka *KeyAccessor) Delete() error {
	return ka.ks.Delete(ka.opts)
}
