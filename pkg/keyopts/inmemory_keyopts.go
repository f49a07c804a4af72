package keyopts

import (
	"sort"
	"sync"

	"github.com/mr-shifu/textbook-rsa/pkg/common/keyopts"
	"github.com/pkg/errors"
)

var (
	ErrInvalidParamsKeyID = errors.New("keyopts: invalid keyID")
	ErrInvalidSKI         = errors.New("keyopts: invalid SKI")
	ErrKeyNotFound        = errors.New("keyopts: key not found")
)

type KeyOpts struct {
	lock sync.RWMutex

	// keys maps a key ID to its metadata.
	keys map[string]*keyopts.KeyData
}

func NewInMemoryKeyOpts() *KeyOpts {
	return &KeyOpts{
		keys: make(map[string]*keyopts.KeyData),
	}
}

// KeyID returns the "id" option as a non-empty string.
func KeyID(opts keyopts.Options) (string, error) {
	if opts == nil {
		return "", ErrInvalidParamsKeyID
	}
	ID, ok := opts.Get("id")
	if !ok {
		return "", ErrInvalidParamsKeyID
	}
	kid, ok := ID.(string)
	if !ok || kid == "" {
		return "", ErrInvalidParamsKeyID
	}
	return kid, nil
}

func (kr *KeyOpts) Import(ski string, opts keyopts.Options) error {
	if ski == "" {
		return ErrInvalidSKI
	}
	kid, err := KeyID(opts)
	if err != nil {
		return err
	}

	kr.lock.Lock()
	defer kr.lock.Unlock()

	kr.keys[kid] = &keyopts.KeyData{
		ID:  kid,
		SKI: ski,
	}
	return nil
}

func (kr *KeyOpts) Get(opts keyopts.Options) (*keyopts.KeyData, error) {
	kid, err := KeyID(opts)
	if err != nil {
		return nil, err
	}

	kr.lock.RLock()
	defer kr.lock.RUnlock()

	kd, ok := kr.keys[kid]
	if !ok {
		return nil, ErrKeyNotFound
	}

	// copy so callers cannot alter the stored metadata
	return &keyopts.KeyData{ID: kd.ID, SKI: kd.SKI}, nil
}

func (kr *KeyOpts) GetAll() ([]*keyopts.KeyData, error) {
	kr.lock.RLock()
	defer kr.lock.RUnlock()

	result := make([]*keyopts.KeyData, 0, len(kr.keys))
	for _, kd := range kr.keys {
		result = append(result, &keyopts.KeyData{ID: kd.ID, SKI: kd.SKI})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (kr *KeyOpts) Delete(opts keyopts.Options) error {
	kid, err := KeyID(opts)
	if err != nil {
		return err
	}

	kr.lock.Lock()
	defer kr.lock.Unlock()

	if _, ok := kr.keys[kid]; !ok {
		return ErrKeyNotFound
	}
	delete(kr.keys, kid)

	return nil
}
