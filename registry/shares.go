package registry

import (
	"sync"
	"time"

	"sharebox/model"
	"sharebox/pkg/security"
)

const DefaultExpiryDays = 7

// ShareStore maps unguessable tokens to time/count-bounded access
// grants. Expired links are removed lazily, on the access that finds
// them expired.
type ShareStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]*model.ShareLink
}

func NewShareStore(path string) *ShareStore {
	s := &ShareStore{
		path:    path,
		entries: make(map[string]*model.ShareLink),
	}
	loadDocument(path, &s.entries)
	return s
}

// Mint creates a link for (filename, folder) expiring expiryDays from
// now. maxDownloads nil means uncapped.
func (s *ShareStore) Mint(filename, folder string, expiryDays int, maxDownloads *int64) (string, error) {
	token, err := security.NewToken()
	if err != nil {
		return "", err
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[token] = &model.ShareLink{
		Filename:     filename,
		FolderPath:   folder,
		CreatedAt:    now,
		ExpiresAt:    now.AddDate(0, 0, expiryDays),
		MaxDownloads: maxDownloads,
	}
	saveDocument(s.path, s.entries)
	return token, nil
}

// Find returns the token of an existing link for (filename, folder).
func (s *ShareStore) Find(filename, folder string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, l := range s.entries {
		if l.Filename == filename && l.FolderPath == folder {
			return token, true
		}
	}
	return "", false
}

// Ensure returns the token of an existing link for (filename, folder),
// minting a default one when none exists. The listing path relies on
// this, which makes listing a read with a write side effect.
func (s *ShareStore) Ensure(filename, folder string) (string, error) {
	if token, ok := s.Find(filename, folder); ok {
		return token, nil
	}
	return s.Mint(filename, folder, DefaultExpiryDays, nil)
}

// Get returns a copy of the link for token without any side effects.
func (s *ShareStore) Get(token string) (model.ShareLink, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.entries[token]
	if !ok {
		return model.ShareLink{}, false
	}
	return *l, true
}

// Resolve checks only expiry: direct and preview access don't count
// against the download cap. An expired link is deleted, so resolving it
// again reports ErrNotFound.
func (s *ShareStore) Resolve(token string) (model.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resolveLocked(token)
}

// Consume is Resolve plus quota enforcement and a counter increment,
// used by the attachment download path.
func (s *ShareStore) Consume(token string) (model.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.resolveLocked(token); err != nil {
		return model.ShareLink{}, err
	}

	live := s.entries[token]
	if live.MaxDownloads != nil && live.DownloadCount >= *live.MaxDownloads {
		return model.ShareLink{}, ErrQuotaExceeded
	}

	live.DownloadCount++
	saveDocument(s.path, s.entries)
	return *live, nil
}

func (s *ShareStore) resolveLocked(token string) (model.ShareLink, error) {
	l, ok := s.entries[token]
	if !ok {
		return model.ShareLink{}, ErrNotFound
	}

	if time.Now().After(l.ExpiresAt) {
		delete(s.entries, token)
		saveDocument(s.path, s.entries)
		return model.ShareLink{}, ErrExpired
	}

	return *l, nil
}

// DeleteFor removes every link pointing at (filename, folder). The
// explicit file delete cascades through here; the retention sweeper
// intentionally does not.
func (s *ShareStore) DeleteFor(filename, folder string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, l := range s.entries {
		if l.Filename == filename && l.FolderPath == folder {
			delete(s.entries, token)
			removed++
		}
	}
	if removed > 0 {
		saveDocument(s.path, s.entries)
	}
	return removed
}

func (s *ShareStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
