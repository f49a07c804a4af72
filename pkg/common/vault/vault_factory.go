package vault

// VaultFactory creates Vault instances from a storage configuration.
type VaultFactory interface {
	NewVault(cfg interface{}) (Vault, error)
}
