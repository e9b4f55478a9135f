// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsDigits(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"0912345678", true},
		{"000000", true},
		{"", false},
		{"09123a5678", false},
		{"091 345678", false},
		{"-91234567", false},
		{"０９１２", false}, // full-width digits are not ASCII digits
	}

	for _, c := range cases {
		if got := IsDigits(c.in); got != c.want {
			t.Errorf("IsDigits(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTruncateWidth(t *testing.T) {
	if got := TruncateWidth("gội đầu dưỡng sinh", 10); got != "gội đầu..." {
		t.Errorf("TruncateWidth = %q", got)
	}
	if got := TruncateWidth("spa", 10); got != "spa" {
		t.Errorf("short string should be unchanged, got %q", got)
	}
	if got := TruncateWidth("abcdef", 2); got != "ab" {
		t.Errorf("tiny budget should hard-cut, got %q", got)
	}
}

func TestPadWidth(t *testing.T) {
	if got := PadWidth("spa", 6); got != "spa   " {
		t.Errorf("PadWidth = %q", got)
	}
	if got := PadWidth("gội đầu", 9); got != "gội đầu  " {
		t.Errorf("PadWidth on Vietnamese text = %q", got)
	}
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "session.json")

	if err := AtomicWriteFile(path, []byte(`{"id":5}`), 0600); err != nil {
		t.Fatalf("AtomicWriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != `{"id":5}` {
		t.Errorf("content = %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("perm = %v, want 0600", info.Mode().Perm())
	}

	// Overwrite must replace, not append
	if err := AtomicWriteFile(path, []byte(`{}`), 0600); err != nil {
		t.Fatalf("AtomicWriteFile overwrite: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != `{}` {
		t.Errorf("overwrite content = %q", data)
	}

	// No temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if e.Name() != "session.json" {
			t.Errorf("leftover file %q", e.Name())
		}
	}
}
