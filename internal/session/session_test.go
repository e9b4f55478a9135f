// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// mintToken builds a signed token the way the backend does. FromToken never
// verifies signatures, so the key is arbitrary.
func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return signed
}

func TestFromToken(t *testing.T) {
	raw := mintToken(t, jwt.MapClaims{"id": 5, "numberPhone": "0912345678", "roleId": 3})

	sess, err := FromToken(raw)
	if err != nil {
		t.Fatalf("FromToken: %v", err)
	}
	if sess.ID != 5 || sess.NumberPhone != "0912345678" || sess.RoleID != RoleCustomer {
		t.Errorf("session = %+v", sess)
	}
	if sess.Token != raw {
		t.Error("session must keep the raw token")
	}
}

func TestFromTokenMissingClaims(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"missing id", jwt.MapClaims{"numberPhone": "0912345678", "roleId": 3}},
		{"missing phone", jwt.MapClaims{"id": 5, "roleId": 3}},
		{"empty phone", jwt.MapClaims{"id": 5, "numberPhone": "", "roleId": 3}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := FromToken(mintToken(t, c.claims)); !errors.Is(err, ErrMalformedToken) {
				t.Errorf("want ErrMalformedToken, got %v", err)
			}
		})
	}
}

func TestFromTokenGarbage(t *testing.T) {
	if _, err := FromToken("not-a-jwt"); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("want ErrMalformedToken, got %v", err)
	}
}

func TestFromTokenRoleDefaultsToCustomer(t *testing.T) {
	sess, err := FromToken(mintToken(t, jwt.MapClaims{"id": 7, "numberPhone": "0987654321"}))
	if err != nil {
		t.Fatalf("FromToken: %v", err)
	}
	if sess.RoleID != RoleCustomer {
		t.Errorf("roleId = %d, want customer default", sess.RoleID)
	}
}

func TestStoreLifecycle(t *testing.T) {
	store := NewStore(t.TempDir())

	// Absence is the signed-out signal.
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("want ErrNoSession, got %v", err)
	}

	sess := &Session{Token: "tok", ID: 5, NumberPhone: "0912345678", RoleID: RoleCustomer}
	if err := store.Set(sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *sess {
		t.Errorf("loaded = %+v, want %+v", loaded, sess)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("after Clear want ErrNoSession, got %v", err)
	}

	// Clearing twice stays silent.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestStorePermissions(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := store.Set(&Session{Token: "tok", ID: 1, NumberPhone: "0912345678"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("session record perm = %v, want 0600", info.Mode().Perm())
	}
}

func TestMergeAvatarPreservesToken(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Set(&Session{Token: "tok", ID: 5, NumberPhone: "0912345678", RoleID: RoleStaff}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := store.MergeAvatar("https://cdn.velora.example/a.png"); err != nil {
		t.Fatalf("MergeAvatar: %v", err)
	}

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.Avatar != "https://cdn.velora.example/a.png" {
		t.Errorf("avatar = %q", sess.Avatar)
	}
	if sess.Token != "tok" || sess.ID != 5 || sess.RoleID != RoleStaff {
		t.Errorf("merge must not touch identity fields: %+v", sess)
	}
}

func TestClearWinsOverConcurrentMerge(t *testing.T) {
	store := NewStore(t.TempDir())

	// Clear always deletes and MergeAvatar never creates, so whichever order
	// the two serialize in, the record must be gone afterwards.
	for i := 0; i < 50; i++ {
		if err := store.Set(&Session{Token: "tok", ID: 5, NumberPhone: "0912345678", RoleID: RoleCustomer}); err != nil {
			t.Fatalf("Set: %v", err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Clear()
		}()
		go func() {
			defer wg.Done()
			store.MergeAvatar("https://cdn.velora.example/a.png")
		}()
		wg.Wait()

		if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
			t.Fatalf("iteration %d: merge resurrected a cleared session: %v", i, err)
		}
	}
}
