// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/velora-app/velora-tui/internal/util"
)

// Session is the persisted record of an authenticated identity.
type Session struct {
	Token       string `json:"token"`
	ID          int64  `json:"id"`
	NumberPhone string `json:"numberPhone"`
	RoleID      int    `json:"roleId"`

	// Avatar is merged from the profile endpoint after login; updating it
	// never invalidates the token.
	Avatar string `json:"avatar,omitempty"`
}

// IsStaff reports whether the session belongs to a staff account.
func (s *Session) IsStaff() bool { return s.RoleID == RoleStaff }

// IsAdmin reports whether the session belongs to an admin account.
func (s *Session) IsAdmin() bool { return s.RoleID == RoleAdmin }

// ErrNoSession is returned by Load when no session record exists, i.e. the
// user is signed out.
var ErrNoSession = errors.New("no session")

// Store persists the session as a single JSON record with owner-only
// permissions. Writes are whole-record replaces; the single-threaded UI is
// the only writer, the mutex just keeps Load/Set/Merge coherent if a
// background command races a sign-out.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store rooted at dataDir (the record lives at
// dataDir/session.json).
func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, "session.json")}
}

// Load reads the persisted session. ErrNoSession means signed out; any
// other error means the record exists but is unreadable.
func (s *Store) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Set replaces the persisted session atomically.
func (s *Store) Set(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(sess)
}

// set writes the record. Caller holds the mutex.
func (s *Store) set(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, data, 0600)
}

// Clear deletes the session record (sign-out). Clearing an absent record is
// not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MergeAvatar updates the avatar field in place, preserving the token and
// identity claims. The lock spans the read-modify-write so a concurrent
// Clear cannot interleave and resurrect the deleted record.
func (s *Store) MergeAvatar(avatar string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessData, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoSession
		}
		return err
	}

	var sess Session
	if err := json.Unmarshal(sessData, &sess); err != nil {
		return err
	}
	sess.Avatar = avatar
	return s.set(&sess)
}
