package vault

// Vault stores encoded keys under their SKI (hex encoded key identifier).
type Vault interface {
	// Import stores key under ski, replacing any previous value.
	Import(ski string, key []byte) error

	// Get returns the key stored under ski.
	Get(ski string) ([]byte, error)

	// Delete removes the key stored under ski. Deleting a missing key is not an error.
	Delete(ski string) error

	// List returns the SKIs of all stored keys in ascending order.
	List() ([]string, error)

	// Close releases the resources held by the vault.
	Close() error
}
