package localdb

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

type CachedImage struct {
	UserID      string `db:"user_id"`
	ContentType string `db:"content_type"`
	Data        []byte `db:"data"`
}

// ImageCache is the per-user profile image cache, keyed by user id.
type ImageCache interface {
	GetProfileImage(userID string) (*CachedImage, error)
	PutProfileImage(img CachedImage) error
	ClearProfileImage(userID string) error
}

var _ ImageCache = (*DB)(nil)

// GetProfileImage returns the cached image for userID, nil when none.
func (d *DB) GetProfileImage(userID string) (*CachedImage, error) {
	var img CachedImage
	err := d.db.Get(&img, `SELECT user_id, content_type, data FROM profile_image WHERE user_id = ?`, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading profile image of %s", userID)
	}
	return &img, nil
}

func (d *DB) PutProfileImage(img CachedImage) error {
	_, err := d.db.Exec(
		`INSERT INTO profile_image (user_id, content_type, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET content_type = excluded.content_type, data = excluded.data, updated_at = excluded.updated_at`,
		img.UserID, img.ContentType, img.Data, time.Now().UTC(),
	)
	return errors.Wrapf(err, "writing profile image of %s", img.UserID)
}

func (d *DB) ClearProfileImage(userID string) error {
	_, err := d.db.Exec(`DELETE FROM profile_image WHERE user_id = ?`, userID)
	return errors.Wrapf(err, "clearing profile image of %s", userID)
}
