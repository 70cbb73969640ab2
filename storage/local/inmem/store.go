// Package inmem is the in-memory local store used by tests.
package inmem

import (
	"sync"

	"github.com/Kwesikendy/academyos/core/session"
	localdb "github.com/Kwesikendy/academyos/storage/local"
)

type Store struct {
	mu     sync.RWMutex
	cred   *session.Credential
	images map[string]localdb.CachedImage
}

var (
	_ session.CredentialStore = (*Store)(nil)
	_ localdb.ImageCache      = (*Store)(nil)
)

func Open() *Store {
	return &Store{images: make(map[string]localdb.CachedImage)}
}

func (s *Store) GetCredential() (*session.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, nil
	}
	cred := *s.cred
	return &cred, nil
}

func (s *Store) PutCredential(cred session.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &cred
	return nil
}

func (s *Store) ClearCredential() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}

func (s *Store) GetProfileImage(userID string) (*localdb.CachedImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if img, ok := s.images[userID]; ok {
		return &img, nil
	}
	return nil, nil
}

func (s *Store) PutProfileImage(img localdb.CachedImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[img.UserID] = img
	return nil
}

func (s *Store) ClearProfileImage(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.images, userID)
	return nil
}
