package keyopts

import (
	"database/sql"

	"github.com/mr-shifu/textbook-rsa/pkg/common/keyopts"
	"github.com/pkg/errors"
)

const createKeyIDsTable = `
CREATE TABLE IF NOT EXISTS rsa_key_ids (
	id  TEXT PRIMARY KEY,
	ski TEXT NOT NULL
);`

var _ keyopts.KeyOpts = (*SQLiteKeyOpts)(nil)

// SQLiteKeyOpts keeps the key ID links in an SQLite table, usually in the same
// database as the vault.
type SQLiteKeyOpts struct {
	db *sql.DB
}

// NewSQLiteKeyOpts creates the link table in db if needed. The caller owns db.
func NewSQLiteKeyOpts(db *sql.DB) (*SQLiteKeyOpts, error) {
	if _, err := db.Exec(createKeyIDsTable); err != nil {
		return nil, errors.WithMessage(err, "keyopts: create schema")
	}
	return &SQLiteKeyOpts{db: db}, nil
}

func (kr *SQLiteKeyOpts) Import(ski string, opts keyopts.Options) error {
	if ski == "" {
		return ErrInvalidSKI
	}
	kid, err := KeyID(opts)
	if err != nil {
		return err
	}

	_, err = kr.db.Exec(
		`INSERT INTO rsa_key_ids (id, ski) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET ski = excluded.ski`,
		kid, ski,
	)
	return errors.WithMessagef(err, "keyopts: import %s", kid)
}

func (kr *SQLiteKeyOpts) Get(opts keyopts.Options) (*keyopts.KeyData, error) {
	kid, err := KeyID(opts)
	if err != nil {
		return nil, err
	}

	kd := &keyopts.KeyData{ID: kid}
	err = kr.db.QueryRow(`SELECT ski FROM rsa_key_ids WHERE id = ?`, kid).Scan(&kd.SKI)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "keyopts: get %s", kid)
	}
	return kd, nil
}

func (kr *SQLiteKeyOpts) GetAll() ([]*keyopts.KeyData, error) {
	rows, err := kr.db.Query(`SELECT id, ski FROM rsa_key_ids ORDER BY id`)
	if err != nil {
		return nil, errors.WithMessage(err, "keyopts: list")
	}
	defer rows.Close()

	result := make([]*keyopts.KeyData, 0)
	for rows.Next() {
		kd := &keyopts.KeyData{}
		if err := rows.Scan(&kd.ID, &kd.SKI); err != nil {
			return nil, errors.WithMessage(err, "keyopts: list")
		}
		result = append(result, kd)
	}
	return result, errors.WithMessage(rows.Err(), "keyopts: list")
}

func (kr *SQLiteKeyOpts) Delete(opts keyopts.Options) error {
	kid, err := KeyID(opts)
	if err != nil {
		return err
	}

	res, err := kr.db.Exec(`DELETE FROM rsa_key_ids WHERE id = ?`, kid)
	if err != nil {
		return errors.WithMessagef(err, "keyopts: delete %s", kid)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrKeyNotFound
	}
	return nil
}
