package registry

import (
	"errors"
	"sync"
	"time"

	"sharebox/model"
	"sharebox/pkg/security"

	"go.uber.org/zap"
)

const minPasswordLen = 4

var ErrPasswordTooShort = errors.New("password must be at least 4 characters")

// UserStore holds login credentials. Users are created explicitly or by
// the bootstrap seed; nothing exposed ever deletes one.
type UserStore struct {
	mu      sync.Mutex
	path    string
	hasher  *security.Hasher
	entries map[string]*model.User
}

func NewUserStore(path string, hasher *security.Hasher) *UserStore {
	s := &UserStore{
		path:    path,
		hasher:  hasher,
		entries: make(map[string]*model.User),
	}
	loadDocument(path, &s.entries)
	return s
}

// Create stores a new user with a one-way hash of password.
func (s *UserStore) Create(username, password, role string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[username]; ok {
		return ErrAlreadyExists
	}

	s.entries[username] = &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	saveDocument(s.path, s.entries)
	return nil
}

// Verify checks credentials and on success records the login time.
// Fails closed for unknown usernames.
func (s *UserStore) Verify(username, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.entries[username]
	if !ok {
		return false
	}

	match, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil || !match {
		return false
	}

	now := time.Now()
	u.LastLogin = &now
	saveDocument(s.path, s.entries)
	return true
}

// ChangePassword replaces the hash after re-verifying the old password.
func (s *UserStore) ChangePassword(username, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}

	if !s.Verify(username, oldPassword) {
		return ErrNotFound
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.entries[username]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	saveDocument(s.path, s.entries)
	return nil
}

// Get returns a copy of the user record.
func (s *UserStore) Get(username string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.entries[username]
	if !ok {
		return model.User{}, false
	}
	return *u, true
}

func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Bootstrap seeds a default admin account when the store is empty so a
// fresh install is reachable. The credentials are configurable; running
// with the defaults is logged loudly instead of silently hardened.
func (s *UserStore) Bootstrap(username, password string) error {
	s.mu.Lock()
	empty := len(s.entries) == 0
	s.mu.Unlock()

	if !empty {
		return nil
	}

	if err := s.Create(username, password, model.RoleAdmin); err != nil {
		return err
	}

	zap.L().Warn("Seeded default admin account, change its password after first login",
		zap.String("username", username))
	return nil
}
