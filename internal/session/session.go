// Package session persists the logged-in user's id between storefront
// runs, the way the mobile app keeps it in device key-value storage. The
// id is initialized explicitly on login, read when building requests, and
// cleared on logout; nothing else writes it.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// ErrNoSession is returned by Current when nobody is logged in.
var ErrNoSession = errors.New("no active session")

// Store is a small file-backed key-value record holding the session.
type Store struct {
	path string
}

// NewStore creates a store persisting to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

type record struct {
	UserID string `json:"userId"`
}

// Init records the user id after a successful login.
func (s *Store) Init(userID string) error {
	if userID == "" {
		return errors.New("user id required")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(record{UserID: userID})
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Current returns the logged-in user id, or ErrNoSession.
func (s *Store) Current() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSession
		}
		return "", err
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", err
	}
	if rec.UserID == "" {
		return "", ErrNoSession
	}
	return rec.UserID, nil
}

// Clear tears the session down on logout. Clearing an absent session is
// not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
