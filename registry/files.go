package registry

import (
	"sync"

	"sharebox/model"
)

// FileStore is the single source of truth for everything known about a
// stored file, keyed by the folder-relative forward-slash path.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	entries map[string]*model.StoredFile
}

func NewFileStore(path string) *FileStore {
	s := &FileStore{
		path:    path,
		entries: make(map[string]*model.StoredFile),
	}
	loadDocument(path, &s.entries)
	return s
}

// Get returns a copy of the entry for key.
func (s *FileStore) Get(key string) (model.StoredFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.entries[key]
	if !ok {
		return model.StoredFile{}, false
	}
	return *f, true
}

func (s *FileStore) Put(key string, f *model.StoredFile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *f
	s.entries[key] = &clone
	saveDocument(s.path, s.entries)
}

// Delete removes the entry for key. Reports whether it existed.
func (s *FileStore) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	saveDocument(s.path, s.entries)
	return true
}

// IncrementDownloads bumps the download counter for key and persists.
func (s *FileStore) IncrementDownloads(key string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.entries[key]
	if !ok {
		return 0, false
	}
	f.Downloads++
	saveDocument(s.path, s.entries)
	return f.Downloads, true
}

// Snapshot returns a copy of all entries, safe to iterate without the lock.
func (s *FileStore) Snapshot() map[string]model.StoredFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]model.StoredFile, len(s.entries))
	for k, f := range s.entries {
		out[k] = *f
	}
	return out
}

func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Totals aggregates file count, byte size and download count for stats.
func (s *FileStore) Totals() (files int, size, downloads int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.entries {
		files++
		size += f.Size
		downloads += f.Downloads
	}
	return
}
