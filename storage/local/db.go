// Package localdb is the keyed local-persistence layer: the persisted
// credential (bearer token + cached identity) and the per-user profile
// image cache. All access goes through explicit get/put/clear
// operations; nothing else touches the file.
package localdb

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/Kwesikendy/academyos/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS credential (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	token      BLOB NOT NULL,
	identity   TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS profile_image (
	user_id      TEXT PRIMARY KEY,
	content_type TEXT NOT NULL,
	data         BLOB NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);
`

type DB struct {
	db   *sqlx.DB
	seal *sealer
}

// Open opens (creating if needed) the local store. An empty path gives
// an in-memory database, handy for tests. The bearer token is sealed
// at rest with a key derived from the app secret.
func Open(conf core.StorageConfig, secretKey string) (*DB, error) {
	path := conf.Path
	if path == "" {
		path = ":memory:"
	}
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening local store %s", path)
	}
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating local store schema")
	}
	return &DB{db: db, seal: newSealer(secretKey)}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}
