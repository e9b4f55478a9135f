// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package authflow

import (
	"strings"

	"github.com/velora-app/velora-tui/internal/i18n"
	"github.com/velora-app/velora-tui/internal/util"
)

const (
	phoneDigits = 10
	minPassword = 6
	minName     = 3
)

// ValidationError is a client-side rejection; it never reaches the network
// and is recovered locally by correcting the field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Message }

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ValidatePhone checks the 10-digit phone rule shared by sign-in and OTP
// request.
func ValidatePhone(phone string) error {
	if len(phone) != phoneDigits || !util.IsDigits(phone) {
		return invalid("phone", i18n.T("Phone number must be exactly 10 digits."))
	}
	return nil
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < minPassword {
		return invalid("password", i18n.T("Password must be at least 6 characters."))
	}
	return nil
}

// ValidateSignIn validates the login form.
func ValidateSignIn(phone, password string) error {
	if err := ValidatePhone(phone); err != nil {
		return err
	}
	return ValidatePassword(password)
}

// ValidateRegistration validates the sign-up form, reporting the first
// failing field.
func ValidateRegistration(name, email, phone, password, confirm string) error {
	if name == "" || email == "" || phone == "" || password == "" || confirm == "" {
		return invalid("form", i18n.T("All fields are required."))
	}
	if len([]rune(name)) < minName {
		return invalid("name", i18n.T("Full name must be at least 3 characters."))
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return invalid("email", i18n.T("Email address looks invalid."))
	}
	if err := ValidatePhone(phone); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return invalid("confirm", i18n.T("Passwords do not match."))
	}
	return nil
}

// ValidateNewPassword validates the reset form.
func ValidateNewPassword(password, confirm string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return invalid("confirm", i18n.T("Passwords do not match."))
	}
	return nil
}

// ValidateOTP checks that a submitted code has all six digits. The UI shows
// a shake cue on failure; no network call is made.
func ValidateOTP(code string) error {
	if len(code) != OTPLength || !util.IsDigits(code) {
		return invalid("otp", i18n.T("Enter all 6 digits of the code."))
	}
	return nil
}
