package vault

import (
	"path/filepath"
	"testing"

	"github.com/mr-shifu/textbook-rsa/pkg/common/vault"
	"github.com/mr-shifu/textbook-rsa/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVault(t *testing.T, v vault.Vault) {
	defer v.Close()

	skis, err := v.List()
	require.NoError(t, err)
	assert.Empty(t, skis)

	require.NoError(t, v.Import("bb", []byte("key-b")))
	require.NoError(t, v.Import("aa", []byte("key-a")))

	key, err := v.Get("aa")
	require.NoError(t, err)
	assert.Equal(t, []byte("key-a"), key)

	// import replaces
	require.NoError(t, v.Import("aa", []byte("key-a2")))
	key, err = v.Get("aa")
	require.NoError(t, err)
	assert.Equal(t, []byte("key-a2"), key)

	skis, err = v.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"aa", "bb"}, skis)

	require.NoError(t, v.Delete("aa"))
	_, err = v.Get("aa")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// deleting a missing key is a no-op
	assert.NoError(t, v.Delete("aa"))

	assert.ErrorIs(t, v.Import("", []byte("x")), ErrInvalidSKI)
}

func TestInMemoryVault(t *testing.T) {
	testVault(t, NewInMemoryVault())
}

func TestInMemoryVault_Copies(t *testing.T) {
	v := NewInMemoryVault()
	data := []byte("key")
	require.NoError(t, v.Import("ski", data))
	data[0] = 'X'

	got, err := v.Get("ski")
	require.NoError(t, err)
	assert.Equal(t, []byte("key"), got)
}

func TestSQLiteVault(t *testing.T) {
	v, err := NewSQLiteVault(":memory:")
	require.NoError(t, err)
	testVault(t, v)
}

func TestSQLiteVault_Persistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.db")

	v, err := NewSQLiteVault(path)
	require.NoError(t, err)
	require.NoError(t, v.Import("ski", []byte("stored")))
	require.NoError(t, v.Close())

	v, err = NewSQLiteVault(path)
	require.NoError(t, err)
	defer v.Close()

	got, err := v.Get("ski")
	require.NoError(t, err)
	assert.Equal(t, []byte("stored"), got)
}

func TestNewVault(t *testing.T) {
	v, err := NewVault(nil)
	require.NoError(t, err)
	assert.IsType(t, &InMemoryVault{}, v)

	v, err = NewVault(&config.StoreSettings{Type: config.StoreTypeMemory})
	require.NoError(t, err)
	assert.IsType(t, &InMemoryVault{}, v)

	v, err = VaultFactory{}.NewVault(&config.StoreSettings{
		Type: config.StoreTypeSQLite,
		Path: filepath.Join(t.TempDir(), "keys.db"),
	})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteVault{}, v)
	require.NoError(t, v.Close())

	_, err = NewVault(&config.StoreSettings{Type: config.StoreTypeSQLite})
	assert.Error(t, err)

	_, err = NewVault(&config.StoreSettings{Type: "etcd"})
	assert.Error(t, err)

	_, err = VaultFactory{}.NewVault("memory")
	assert.Error(t, err)
}
