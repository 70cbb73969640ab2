package localdb

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/Kwesikendy/academyos/core/session"
)

var _ session.CredentialStore = (*DB)(nil) // interface compliance check

// GetCredential returns the persisted credential, nil when none exists.
// A credential that cannot be unsealed (secret rotated, file tampered)
// is dropped rather than surfaced.
func (d *DB) GetCredential() (*session.Credential, error) {
	var row struct {
		Token    []byte `db:"token"`
		Identity string `db:"identity"`
	}
	err := d.db.Get(&row, `SELECT token, identity FROM credential WHERE id = 1`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading credential")
	}

	token, err := d.seal.open(row.Token)
	if err != nil {
		_ = d.ClearCredential()
		return nil, nil
	}
	var ident session.Identity
	if err = json.Unmarshal([]byte(row.Identity), &ident); err != nil {
		_ = d.ClearCredential()
		return nil, nil
	}
	return &session.Credential{Token: string(token), Identity: ident}, nil
}

func (d *DB) PutCredential(cred session.Credential) error {
	sealed, err := d.seal.seal([]byte(cred.Token))
	if err != nil {
		return errors.Wrap(err, "sealing token")
	}
	ident, err := json.Marshal(cred.Identity)
	if err != nil {
		return errors.Wrap(err, "encoding identity")
	}
	_, err = d.db.Exec(
		`INSERT INTO credential (id, token, identity, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET token = excluded.token, identity = excluded.identity, updated_at = excluded.updated_at`,
		sealed, string(ident), time.Now().UTC(),
	)
	return errors.Wrap(err, "writing credential")
}

func (d *DB) ClearCredential() error {
	_, err := d.db.Exec(`DELETE FROM credential WHERE id = 1`)
	return errors.Wrap(err, "clearing credential")
}
