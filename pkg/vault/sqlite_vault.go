package vault

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const createKeysTable = `
CREATE TABLE IF NOT EXISTS rsa_keys (
	ski        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteVault persists keys in a single SQLite table.
type SQLiteVault struct {
	db *sql.DB
}

// NewSQLiteVault opens (or creates) the database at path. ":memory:" gives a
// private in-memory database.
func NewSQLiteVault(path string) (*SQLiteVault, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithMessagef(err, "vault: open %s", path)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createKeysTable); err != nil {
		db.Close()
		return nil, errors.WithMessage(err, "vault: create schema")
	}
	return &SQLiteVault{db: db}, nil
}

// DB returns the underlying database so that key metadata can be kept next to
// the keys.
func (store *SQLiteVault) DB() *sql.DB {
	return store.db
}

func (store *SQLiteVault) Import(ski string, key []byte) error {
	if ski == "" {
		return ErrInvalidSKI
	}
	_, err := store.db.Exec(
		`INSERT INTO rsa_keys (ski, data) VALUES (?, ?)
		 ON CONFLICT(ski) DO UPDATE SET data = excluded.data`,
		ski, key,
	)
	return errors.WithMessagef(err, "vault: import %s", ski)
}

func (store *SQLiteVault) Get(ski string) ([]byte, error) {
	var key []byte
	err := store.db.QueryRow(`SELECT data FROM rsa_keys WHERE ski = ?`, ski).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "vault: get %s", ski)
	}
	return key, nil
}

func (store *SQLiteVault) Delete(ski string) error {
	_, err := store.db.Exec(`DELETE FROM rsa_keys WHERE ski = ?`, ski)
	return errors.WithMessagef(err, "vault: delete %s", ski)
}

func (store *SQLiteVault) List() ([]string, error) {
	rows, err := store.db.Query(`SELECT ski FROM rsa_keys ORDER BY ski`)
	if err != nil {
		return nil, errors.WithMessage(err, "vault: list")
	}
	defer rows.Close()

	skis := make([]string, 0)
	for rows.Next() {
		var ski string
		if err := rows.Scan(&ski); err != nil {
			return nil, errors.WithMessage(err, "vault: list")
		}
		skis = append(skis, ski)
	}
	return skis, errors.WithMessage(rows.Err(), "vault: list")
}

func (store *SQLiteVault) Close() error {
	return store.db.Close()
}
