package registry

import (
	"sync"
	"time"

	"sharebox/model"
	"sharebox/pkg/security"
)

// KeyStore gates the programmatic upload endpoints. Keys are returned
// in cleartext exactly once, at issuance.
type KeyStore struct {
	mu      sync.RWMutex
	path    string
	entries map[string]*model.APIKey
}

func NewKeyStore(path string) *KeyStore {
	s := &KeyStore{
		path:    path,
		entries: make(map[string]*model.APIKey),
	}
	loadDocument(path, &s.entries)
	return s
}

// Issue creates an active key under the given display name.
func (s *KeyStore) Issue(name string) (string, model.APIKey, error) {
	token, err := security.NewToken()
	if err != nil {
		return "", model.APIKey{}, err
	}

	rec := model.APIKey{
		Name:      name,
		CreatedAt: time.Now(),
		Active:    true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[token] = &rec
	saveDocument(s.path, s.entries)
	return token, rec, nil
}

// Verify reports whether key exists and is active. Usage accounting is
// separate (Touch) and best-effort.
func (s *KeyStore) Verify(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.entries[key]
	return ok && rec.Active
}

// Touch bumps the informational usage counter for key.
func (s *KeyStore) Touch(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[key]
	if !ok {
		return
	}
	rec.UsageCount++
	saveDocument(s.path, s.entries)
}

func (s *KeyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
