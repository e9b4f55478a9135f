// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package authflow

import (
	"errors"
	"testing"
)

func field(t *testing.T, err error) string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	return verr.Field
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"0912345678", true},
		{"091234567", false},   // 9 digits
		{"09123456789", false}, // 11 digits
		{"09123a5678", false},
		{"", false},
		{"091 345678", false},
	}

	for _, c := range cases {
		err := ValidatePhone(c.phone)
		if c.ok && err != nil {
			t.Errorf("ValidatePhone(%q) = %v, want nil", c.phone, err)
		}
		if !c.ok && err == nil {
			t.Errorf("ValidatePhone(%q) = nil, want error", c.phone)
		}
	}
}

func TestValidateSignIn(t *testing.T) {
	if err := ValidateSignIn("0912345678", "secret1"); err != nil {
		t.Errorf("valid sign-in rejected: %v", err)
	}
	if got := field(t, ValidateSignIn("091234567", "secret1")); got != "phone" {
		t.Errorf("field = %q", got)
	}
	if got := field(t, ValidateSignIn("0912345678", "short")); got != "password" {
		t.Errorf("field = %q", got)
	}
}

func TestValidateRegistration(t *testing.T) {
	valid := func() (string, string, string, string, string) {
		return "Ngoc Anh", "ngoc@example.com", "0912345678", "secret1", "secret1"
	}

	name, email, phone, pw, confirm := valid()
	if err := ValidateRegistration(name, email, phone, pw, confirm); err != nil {
		t.Fatalf("valid registration rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*string, *string, *string, *string, *string)
		field   string
	}{
		{"empty field", func(n, e, p, pw, c *string) { *e = "" }, "form"},
		{"short name", func(n, e, p, pw, c *string) { *n = "Vy" }, "name"},
		{"bad email", func(n, e, p, pw, c *string) { *e = "ngoc-at-example" }, "email"},
		{"bad phone", func(n, e, p, pw, c *string) { *p = "12345" }, "phone"},
		{"short password", func(n, e, p, pw, c *string) { *pw = "abc"; *c = "abc" }, "password"},
		{"mismatch", func(n, e, p, pw, c *string) { *c = "secret2" }, "confirm"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n, e, p, pw, cf := valid()
			c.mutate(&n, &e, &p, &pw, &cf)
			err := ValidateRegistration(n, e, p, pw, cf)
			if err == nil {
				t.Fatal("want error")
			}
			if got := field(t, err); got != c.field {
				t.Errorf("field = %q, want %q", got, c.field)
			}
		})
	}
}

func TestValidateNewPassword(t *testing.T) {
	if err := ValidateNewPassword("secret1", "secret1"); err != nil {
		t.Errorf("valid new password rejected: %v", err)
	}
	if err := ValidateNewPassword("short", "short"); err == nil {
		t.Error("short password accepted")
	}
	if err := ValidateNewPassword("secret1", "secret2"); err == nil {
		t.Error("mismatch accepted")
	}
}

func TestValidateOTP(t *testing.T) {
	if err := ValidateOTP("123456"); err != nil {
		t.Errorf("valid code rejected: %v", err)
	}
	for _, bad := range []string{"", "12345", "1234567", "12345a"} {
		if err := ValidateOTP(bad); err == nil {
			t.Errorf("ValidateOTP(%q) accepted", bad)
		}
	}
}
