// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package authflow

import "testing"

func TestTransitionTable(t *testing.T) {
	t.Run("login to forgot", func(t *testing.T) {
		f := New(ModeLogin)
		f.GoForgot()
		if f.Mode() != ModeForgot {
			t.Errorf("mode = %v", f.Mode())
		}
	})

	t.Run("login to register", func(t *testing.T) {
		f := New(ModeLogin)
		f.GoRegister()
		if f.Mode() != ModeRegister {
			t.Errorf("mode = %v", f.Mode())
		}
	})

	t.Run("register accepted", func(t *testing.T) {
		f := New(ModeLogin)
		f.GoRegister()
		f.RegistrationAccepted("0912345678")
		if f.Mode() != ModeVerify {
			t.Errorf("mode = %v", f.Mode())
		}
		if f.Phone() != "0912345678" {
			t.Errorf("phone = %q", f.Phone())
		}
		if f.Cooldown(TimerRegister) != ResendCooldownSecs {
			t.Errorf("cooldown = %d", f.Cooldown(TimerRegister))
		}
		if cells := f.OTPCells(); cells != [OTPLength]string{} {
			t.Errorf("otp buffer not cleared: %v", cells)
		}
	})

	t.Run("reset otp sent", func(t *testing.T) {
		f := New(ModeLogin)
		f.GoForgot()
		f.ResetOTPSent("0912345678", "cred-1")
		if f.Mode() != ModeVerifyReset {
			t.Errorf("mode = %v", f.Mode())
		}
		if f.ResetCredential() != "cred-1" {
			t.Errorf("credential = %q", f.ResetCredential())
		}
		if f.Cooldown(TimerReset) != ResendCooldownSecs {
			t.Errorf("cooldown = %d", f.Cooldown(TimerReset))
		}
	})

	t.Run("resend replaces credential", func(t *testing.T) {
		f := New(ModeLogin)
		f.GoForgot()
		f.ResetOTPSent("0912345678", "cred-1")
		f.Tick(TimerReset)
		f.ResetOTPSent("0912345678", "cred-2")
		if f.ResetCredential() != "cred-2" {
			t.Errorf("credential not replaced: %q", f.ResetCredential())
		}
		if f.Cooldown(TimerReset) != ResendCooldownSecs {
			t.Errorf("cooldown not restarted: %d", f.Cooldown(TimerReset))
		}
	})

	t.Run("reset otp accepted", func(t *testing.T) {
		f := New(ModeLogin)
		f.ResetOTPSent("0912345678", "cred-1")
		f.ResetOTPAccepted()
		if f.Mode() != ModeReset {
			t.Errorf("mode = %v", f.Mode())
		}
		if f.ResetCredential() != "cred-1" {
			t.Error("credential must survive into reset mode")
		}
	})

	t.Run("password changed clears everything", func(t *testing.T) {
		f := New(ModeLogin)
		f.ResetOTPSent("0912345678", "cred-1")
		f.ResetOTPAccepted()
		f.PasswordChanged()
		if f.Mode() != ModeLogin {
			t.Errorf("mode = %v", f.Mode())
		}
		if f.ResetCredential() != "" {
			t.Error("credential must be cleared")
		}
		if f.Phone() != "" {
			t.Error("phone must be cleared")
		}
	})

	t.Run("back to login from any mode", func(t *testing.T) {
		for _, start := range []Mode{ModeForgot, ModeRegister, ModeVerify, ModeVerifyReset, ModeReset} {
			f := New(start)
			f.phone = "0912345678"
			f.resetCredential = "cred"
			f.RestartCooldown(TimerReset)
			f.BackToLogin()
			if f.Mode() != ModeLogin {
				t.Errorf("from %v: mode = %v", start, f.Mode())
			}
			if f.Phone() != "" || f.ResetCredential() != "" {
				t.Errorf("from %v: fields not discarded", start)
			}
			if f.Cooldown(TimerReset) != 0 {
				t.Errorf("from %v: cooldown not stopped", start)
			}
		}
	})
}

func TestParseMode(t *testing.T) {
	if mode, err := ParseMode("register"); err != nil || mode != ModeRegister {
		t.Errorf("register deep-link: %v, %v", mode, err)
	}
	if mode, err := ParseMode("forgot"); err != nil || mode != ModeForgot {
		t.Errorf("forgot deep-link: %v, %v", mode, err)
	}
	if mode, err := ParseMode(""); err != nil || mode != ModeLogin {
		t.Errorf("empty must mean login: %v, %v", mode, err)
	}
	if mode, err := ParseMode("login"); err != nil || mode != ModeLogin {
		t.Errorf("login: %v, %v", mode, err)
	}
	if _, err := ParseMode("verify"); err == nil {
		t.Error("stateful modes must not be deep-linkable")
	}
	if _, err := ParseMode("nonsense"); err == nil {
		t.Error("unknown values must be rejected")
	}
}

func TestBackToLoginClearsInFlightBusy(t *testing.T) {
	f := New(ModeForgot)
	if !f.Begin(OpSendOTP) {
		t.Fatal("Begin must succeed")
	}
	f.NextEpoch()

	f.BackToLogin()

	if f.AnyBusy() {
		t.Error("abandoning the flow must clear every busy flag")
	}
	if !f.Begin(OpSendOTP) {
		t.Error("a fresh submission must be accepted after abandoning")
	}
}

func TestBusyFlags(t *testing.T) {
	f := New(ModeLogin)

	if !f.Begin(OpSignIn) {
		t.Fatal("first Begin must succeed")
	}
	if f.Begin(OpSignIn) {
		t.Error("duplicate Begin must be refused while in flight")
	}
	// No cross-operation exclusion: a resend may fire during a verify.
	if !f.Begin(OpSendOTP) {
		t.Error("independent operation must not be blocked")
	}

	f.Finish(OpSignIn)
	if f.Busy(OpSignIn) {
		t.Error("Finish must clear the flag")
	}
	if !f.Begin(OpSignIn) {
		t.Error("Begin must succeed again after Finish")
	}
}

func TestEpochStaleness(t *testing.T) {
	f := New(ModeLogin)

	first := f.NextEpoch()
	second := f.NextEpoch()

	if !f.Stale(first) {
		t.Error("superseded epoch must be stale")
	}
	if f.Stale(second) {
		t.Error("current epoch must not be stale")
	}

	// Leaving the flow invalidates in-flight requests.
	f.BackToLogin()
	if !f.Stale(second) {
		t.Error("mode exit must invalidate outstanding epochs")
	}
}

func TestOTPBuffer(t *testing.T) {
	f := New(ModeVerify)

	for _, r := range "123" {
		f.EnterDigit(r)
	}
	if f.OTPFocus() != 3 {
		t.Errorf("focus = %d, want 3", f.OTPFocus())
	}
	if _, complete := f.OTPCode(); complete {
		t.Error("three digits must not be complete")
	}

	// Non-digits are ignored.
	f.EnterDigit('x')
	if f.OTPFocus() != 3 {
		t.Error("non-digit must not move focus")
	}

	for _, r := range "456" {
		f.EnterDigit(r)
	}
	code, complete := f.OTPCode()
	if !complete || code != "123456" {
		t.Errorf("code = %q complete = %v", code, complete)
	}

	// Focus stays on the last cell; overwrite works.
	f.EnterDigit('9')
	code, _ = f.OTPCode()
	if code != "123459" {
		t.Errorf("overwrite code = %q", code)
	}

	// Deleting in a filled cell clears it in place.
	f.Backspace()
	if f.OTPFocus() != OTPLength-1 {
		t.Errorf("focus = %d after clearing filled cell", f.OTPFocus())
	}
	// Deleting in the now-empty cell retreats.
	f.Backspace()
	if f.OTPFocus() != OTPLength-2 {
		t.Errorf("focus = %d, want retreat", f.OTPFocus())
	}
	cells := f.OTPCells()
	if cells[OTPLength-2] != "" {
		t.Error("retreat must clear the previous cell")
	}
}

func TestCooldownRunsToZeroOnce(t *testing.T) {
	f := New(ModeLogin)
	f.ResetOTPSent("0912345678", "cred-1")

	flips := 0
	available := f.ResendAvailable(TimerReset)
	for i := 0; i < ResendCooldownSecs+5; i++ {
		f.Tick(TimerReset)
		if now := f.ResendAvailable(TimerReset); now && !available {
			flips++
		}
		available = f.ResendAvailable(TimerReset)
	}

	if flips != 1 {
		t.Errorf("resend available flipped %d times, want exactly once", flips)
	}
	if f.Cooldown(TimerReset) != 0 {
		t.Errorf("cooldown = %d after running out", f.Cooldown(TimerReset))
	}
}

func TestTimerStopsOnModeExit(t *testing.T) {
	f := New(ModeLogin)
	f.ResetOTPSent("0912345678", "cred-1")

	if !f.TimerActive(TimerReset) {
		t.Fatal("timer must be active in verify-reset")
	}

	f.BackToLogin()
	if f.TimerActive(TimerReset) {
		t.Error("timer must stop when the owning mode is exited")
	}
}

func TestTimersAreIndependent(t *testing.T) {
	f := New(ModeLogin)
	f.RegistrationAccepted("0912345678")
	if f.Cooldown(TimerReset) != 0 {
		t.Error("registration must not start the reset timer")
	}
	if !f.TimerActive(TimerRegister) {
		t.Error("register timer must be active in verify mode")
	}
	if f.TimerActive(TimerReset) {
		t.Error("reset timer is owned by verify-reset, not verify")
	}
}
