package keystore

import (
	"sync"

	"github.com/mr-shifu/textbook-rsa/pkg/common/keyopts"
	"github.com/mr-shifu/textbook-rsa/pkg/common/keystore"
	"github.com/mr-shifu/textbook-rsa/pkg/common/vault"
	"github.com/mr-shifu/textbook-rsa/pkg/config"
	store_keyopts "github.com/mr-shifu/textbook-rsa/pkg/keyopts"
	store_vault "github.com/mr-shifu/textbook-rsa/pkg/vault"
	"github.com/pkg/errors"
)

var (
	ErrKeyNotFound = errors.New("keystore: key not found")
)

var _ keystore.Keystore = (*Keystore)(nil)

// Keystore links key IDs to vault slots. Several IDs may share one slot; a
// slot is removed once the last ID linked to it is gone.
type Keystore struct {
	// lock keeps link changes and slot removal atomic.
	lock sync.Mutex

	v  vault.Vault
	kr keyopts.KeyOpts
}

func NewKeystore(v vault.Vault, kr keyopts.KeyOpts) *Keystore {
	return &Keystore{
		v:  v,
		kr: kr,
	}
}

// NewInMemoryKeystore returns a keystore backed by an in-memory vault and
// in-memory key metadata.
func NewInMemoryKeystore() *Keystore {
	return NewKeystore(store_vault.NewInMemoryVault(), store_keyopts.NewInMemoryKeyOpts())
}

// Open returns the keystore described by settings. The sqlite store keeps
// both the keys and their ID links in the database at settings.Path.
func Open(settings *config.StoreSettings) (*Keystore, error) {
	if settings == nil || settings.Type != config.StoreTypeSQLite {
		v, err := store_vault.NewVault(settings)
		if err != nil {
			return nil, err
		}
		return NewKeystore(v, store_keyopts.NewInMemoryKeyOpts()), nil
	}

	if settings.Path == "" {
		return nil, errors.New("keystore: sqlite store requires a path")
	}
	v, err := store_vault.NewSQLiteVault(settings.Path)
	if err != nil {
		return nil, err
	}
	kr, err := store_keyopts.NewSQLiteKeyOpts(v.DB())
	if err != nil {
		v.Close()
		return nil, err
	}
	return NewKeystore(v, kr), nil
}

// linked reports whether any key ID still points at ski.
func (ks *Keystore) linked(ski string) (bool, error) {
	kds, err := ks.kr.GetAll()
	if err != nil {
		return false, err
	}
	for _, kd := range kds {
		if kd.SKI == ski {
			return true, nil
		}
	}
	return false, nil
}

// release deletes the slot under ski unless another key ID still uses it.
func (ks *Keystore) release(ski string) error {
	inUse, err := ks.linked(ski)
	if err != nil {
		return err
	}
	if inUse {
		return nil
	}
	return ks.v.Delete(ski)
}

// Import stores key under ski and links the ID in opts to it. A slot the ID
// pointed at before is released.
func (ks *Keystore) Import(ski string, key []byte, opts keyopts.Options) error {
	ks.lock.Lock()
	defer ks.lock.Unlock()

	previous := ""
	if kd, err := ks.kr.Get(opts); err == nil {
		previous = kd.SKI
	}

	if err := ks.v.Import(ski, key); err != nil {
		return err
	}

	if err := ks.kr.Import(ski, opts); err != nil {
		// do not leave an unreachable slot behind
		_ = ks.release(ski)
		return err
	}

	if previous != "" && previous != ski {
		return errors.WithMessage(ks.release(previous), "keystore: release replaced key")
	}
	return nil
}

// Update overwrites the slot the ID in opts points at.
func (ks *Keystore) Update(key []byte, opts keyopts.Options) error {
	kd, err := ks.kr.Get(opts)
	if err != nil {
		return err
	}
	if kd.SKI == "" {
		return ErrKeyNotFound
	}
	return ks.v.Import(kd.SKI, key)
}

func (ks *Keystore) Get(opts keyopts.Options) ([]byte, error) {
	kd, err := ks.kr.Get(opts)
	if err != nil {
		return nil, err
	}

	return ks.v.Get(kd.SKI)
}

// Delete unlinks the ID in opts and removes its slot when no other ID shares
// it.
func (ks *Keystore) Delete(opts keyopts.Options) error {
	ks.lock.Lock()
	defer ks.lock.Unlock()

	kd, err := ks.kr.Get(opts)
	if err != nil {
		return err
	}
	if err := ks.kr.Delete(opts); err != nil {
		return err
	}
	return ks.release(kd.SKI)
}

// List returns the metadata of every stored key, ordered by key ID.
func (ks *Keystore) List() ([]*keyopts.KeyData, error) {
	kds, err := ks.kr.GetAll()
	if err != nil {
		return nil, errors.WithMessage(err, "keystore: list")
	}
	return kds, nil
}

func (ks *Keystore) KeyAccessor(ski string, opts keyopts.Options) keystore.KeyAccessor {
	return NewKeyAccessor(ski, opts, ks)
}

// Close closes the vault.
func (ks *Keystore) Close() error {
	return ks.v.Close()
}
