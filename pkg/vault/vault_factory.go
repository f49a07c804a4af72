package vault

import (
	"github.com/mr-shifu/textbook-rsa/pkg/common/vault"
	"github.com/mr-shifu/textbook-rsa/pkg/config"
	"github.com/pkg/errors"
)

var (
	_ vault.Vault        = (*InMemoryVault)(nil)
	_ vault.Vault        = (*SQLiteVault)(nil)
	_ vault.VaultFactory = VaultFactory{}
)

type VaultFactory struct{}

// NewVault creates the vault described by a *config.StoreSettings; a nil
// configuration gives an in-memory vault.
func (f VaultFactory) NewVault(cfg interface{}) (vault.Vault, error) {
	if cfg == nil {
		return NewInMemoryVault(), nil
	}
	settings, ok := cfg.(*config.StoreSettings)
	if !ok {
		return nil, errors.Errorf("vault: unsupported configuration %T", cfg)
	}
	return NewVault(settings)
}

// NewVault creates the vault selected by settings.Type.
func NewVault(settings *config.StoreSettings) (vault.Vault, error) {
	if settings == nil {
		return NewInMemoryVault(), nil
	}
	switch settings.Type {
	case "", config.StoreTypeMemory:
		return NewInMemoryVault(), nil
	case config.StoreTypeSQLite:
		if settings.Path == "" {
			return nil, errors.New("vault: sqlite store requires a path")
		}
		return NewSQLiteVault(settings.Path)
	default:
		return nil, errors.Errorf("vault: unsupported store type %q", settings.Type)
	}
}
