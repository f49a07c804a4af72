package keyopts

// KeyData is the metadata kept for a stored key.
type KeyData struct {
	// ID is the caller facing key ID.
	ID string

	// SKI is the hex encoded key identifier the key is stored under in the vault.
	SKI string
}

type Options interface {
	Set(kVs ...interface{}) (Options, error)
	Get(key string) (interface{}, bool)
}

// KeyOpts maps key IDs, passed as the "id" option, to key metadata.
type KeyOpts interface {
	// Import links the key stored under ski to the ID found in opts.
	Import(ski string, opts Options) error

	// Get returns the metadata of the key ID found in opts.
	Get(opts Options) (*KeyData, error)

	// GetAll returns the metadata of every key, ordered by ID.
	GetAll() ([]*KeyData, error)

	// Delete removes the metadata of the key ID found in opts.
	Delete(opts Options) error
}
