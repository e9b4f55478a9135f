// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package authflow

import "fmt"

// =============================================================================
// MODES
// =============================================================================

// Mode identifies the active auth screen step. At most one mode is active
// at a time.
type Mode int

const (
	// ModeLogin is the initial mode: phone + password sign-in.
	ModeLogin Mode = iota
	// ModeForgot requests a password-reset OTP for a phone number.
	ModeForgot
	// ModeRegister collects the sign-up fields.
	ModeRegister
	// ModeVerify enters the registration OTP.
	ModeVerify
	// ModeVerifyReset enters the password-reset OTP.
	ModeVerifyReset
	// ModeReset sets the new password.
	ModeReset
)

// String returns the mode name used in navigation parameters and logs.
func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeForgot:
		return "forgot"
	case ModeRegister:
		return "register"
	case ModeVerify:
		return "verify"
	case ModeVerifyReset:
		return "verify-reset"
	case ModeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// ParseMode maps a navigation parameter to a mode. Deep-linking lands only
// on the modes reachable without flow state; everything else is rejected.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "login":
		return ModeLogin, nil
	case "forgot":
		return ModeForgot, nil
	case "register":
		return ModeRegister, nil
	default:
		return ModeLogin, fmt.Errorf("unknown start mode %q (want login, forgot, or register)", s)
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Op identifies a network operation with its own busy flag. The triggering
// control is disabled while its operation is in flight; there is
// deliberately no cross-operation exclusion.
type Op int

const (
	OpSignIn Op = iota
	OpRegister
	OpSendOTP
	OpVerifyOTP
	OpResetPassword

	opCount
)

// =============================================================================
// TIMERS
// =============================================================================

// Timer identifies one of the two independent resend cooldowns.
type Timer int

const (
	// TimerRegister gates resend while verifying a registration OTP.
	TimerRegister Timer = iota
	// TimerReset gates resend while verifying a password-reset OTP.
	TimerReset

	timerCount
)

// ResendCooldownSecs is the resend cooldown, in seconds. Client-side only;
// the backend applies its own throttle independently.
const ResendCooldownSecs = 30

// OTPLength is the number of OTP input cells.
const OTPLength = 6

// =============================================================================
// FLOW
// =============================================================================

// Flow is the transient state of one auth screen instance. Not safe for
// concurrent use; the single-threaded UI event loop is the only caller.
type Flow struct {
	mode Mode

	// phone is the number under verification (set when entering verify or
	// verify-reset).
	phone string

	otp      [OTPLength]string
	otpFocus int

	// resetCredential authorizes verify-reset and reset-password. Replaced,
	// never reused, on every new OTP request.
	resetCredential string

	cooldown [timerCount]int
	busy     [opCount]bool

	// epoch numbers requests so a superseded response can be recognized and
	// dropped when it finally resolves.
	epoch uint64
}

// New creates a flow starting in the given mode.
func New(initial Mode) *Flow {
	return &Flow{mode: initial}
}

// Mode returns the active mode.
func (f *Flow) Mode() Mode { return f.mode }

// Phone returns the number under verification.
func (f *Flow) Phone() string { return f.phone }

// ResetCredential returns the current reset credential ("" when none).
func (f *Flow) ResetCredential() string { return f.resetCredential }

// =============================================================================
// EPOCHS
// =============================================================================

// NextEpoch starts a new request generation and returns it. Call once per
// dispatched network request and stamp the response with the value.
func (f *Flow) NextEpoch() uint64 {
	f.epoch++
	return f.epoch
}

// Stale reports whether a response generation has been superseded and must
// be discarded instead of applied.
func (f *Flow) Stale(epoch uint64) bool {
	return epoch != f.epoch
}

// =============================================================================
// BUSY FLAGS
// =============================================================================

// Begin marks an operation in flight. Returns false when the operation is
// already busy, in which case the caller must not dispatch a duplicate.
func (f *Flow) Begin(op Op) bool {
	if f.busy[op] {
		return false
	}
	f.busy[op] = true
	return true
}

// Finish clears an operation's busy flag. Called on every outcome, success
// or failure.
func (f *Flow) Finish(op Op) {
	f.busy[op] = false
}

// Busy reports whether an operation is in flight.
func (f *Flow) Busy(op Op) bool {
	return f.busy[op]
}

// AnyBusy reports whether any operation is in flight. The UI keeps the
// spinner alive while this holds.
func (f *Flow) AnyBusy() bool {
	for _, b := range f.busy {
		if b {
			return true
		}
	}
	return false
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// GoForgot moves login → forgot.
func (f *Flow) GoForgot() {
	if f.mode == ModeLogin {
		f.mode = ModeForgot
	}
}

// GoRegister moves login → register.
func (f *Flow) GoRegister() {
	if f.mode == ModeLogin {
		f.mode = ModeRegister
	}
}

// BackToLogin abandons the current step from any mode: in-progress fields,
// the OTP buffer, the reset credential, and both cooldowns are discarded,
// and the epoch advances so in-flight responses land stale. Busy flags are
// cleared too; the responses they were tracking can no longer be applied,
// and a stuck flag would refuse every later submission.
func (f *Flow) BackToLogin() {
	f.mode = ModeLogin
	f.phone = ""
	f.resetCredential = ""
	f.ResetOTPBuffer()
	for t := range f.cooldown {
		f.cooldown[t] = 0
	}
	for op := range f.busy {
		f.busy[op] = false
	}
	f.epoch++
}

// RegistrationAccepted moves register → verify after a successful sign-up:
// the phone is remembered, the OTP buffer cleared, and the registration
// cooldown started.
func (f *Flow) RegistrationAccepted(phone string) {
	f.mode = ModeVerify
	f.phone = phone
	f.ResetOTPBuffer()
	f.cooldown[TimerRegister] = ResendCooldownSecs
}

// ResetOTPSent moves to verify-reset after a reset OTP was issued. Also
// used by resend: the fresh credential replaces the old one and the
// cooldown restarts.
func (f *Flow) ResetOTPSent(phone, credential string) {
	f.mode = ModeVerifyReset
	f.phone = phone
	f.resetCredential = credential
	f.ResetOTPBuffer()
	f.cooldown[TimerReset] = ResendCooldownSecs
}

// VerifyAccepted handles a successful registration OTP. The screen returns
// to login after a short UX delay, which the UI schedules; the flow itself
// transitions immediately.
func (f *Flow) VerifyAccepted() {
	f.BackToLogin()
}

// ResetOTPAccepted moves verify-reset → reset. The credential is kept; the
// reset-password call still needs it.
func (f *Flow) ResetOTPAccepted() {
	if f.mode == ModeVerifyReset {
		f.mode = ModeReset
	}
}

// PasswordChanged completes the reset flow: credential and reset state are
// cleared and the screen returns to login.
func (f *Flow) PasswordChanged() {
	f.BackToLogin()
}

// =============================================================================
// OTP INPUT BUFFER
// =============================================================================

// EnterDigit writes a digit into the focused cell and advances focus.
// Non-digit runes are ignored.
func (f *Flow) EnterDigit(r rune) {
	if r < '0' || r > '9' {
		return
	}
	f.otp[f.otpFocus] = string(r)
	if f.otpFocus < OTPLength-1 {
		f.otpFocus++
	}
}

// Backspace clears the focused cell, or retreats to and clears the previous
// cell when the focused one is already empty.
func (f *Flow) Backspace() {
	if f.otp[f.otpFocus] == "" && f.otpFocus > 0 {
		f.otpFocus--
	}
	f.otp[f.otpFocus] = ""
}

// OTPCode returns the concatenated code and whether all six cells are
// filled. Submission is rejected locally unless complete.
func (f *Flow) OTPCode() (string, bool) {
	code := ""
	for _, cell := range f.otp {
		if cell == "" {
			return "", false
		}
		code += cell
	}
	return code, true
}

// OTPCells returns the cell contents for rendering.
func (f *Flow) OTPCells() [OTPLength]string { return f.otp }

// OTPFocus returns the focused cell index.
func (f *Flow) OTPFocus() int { return f.otpFocus }

// ResetOTPBuffer clears all cells and focuses the first.
func (f *Flow) ResetOTPBuffer() {
	f.otp = [OTPLength]string{}
	f.otpFocus = 0
}

// =============================================================================
// COOLDOWNS
// =============================================================================

// owner maps a timer to the mode that owns it; ticks outside the owning
// mode are a leak and must not happen.
func (t Timer) owner() Mode {
	if t == TimerRegister {
		return ModeVerify
	}
	return ModeVerifyReset
}

// TimerActive reports whether the timer should keep receiving ticks: the
// owning mode is active and the countdown has not reached zero. The UI
// stops scheduling ticks the moment this turns false.
func (f *Flow) TimerActive(t Timer) bool {
	return f.mode == t.owner() && f.cooldown[t] > 0
}

// Tick decrements a timer by one second and returns the remaining value.
// Ticking a stopped timer is a no-op.
func (f *Flow) Tick(t Timer) int {
	if f.cooldown[t] > 0 {
		f.cooldown[t]--
	}
	return f.cooldown[t]
}

// Cooldown returns the remaining seconds on a timer.
func (f *Flow) Cooldown(t Timer) int { return f.cooldown[t] }

// ResendAvailable reports whether the resend control is enabled.
func (f *Flow) ResendAvailable(t Timer) bool { return f.cooldown[t] == 0 }

// RestartCooldown restarts a timer at the full cooldown. Used by the inert
// registration resend control, which resets the countdown even though the
// backend offers no resend endpoint.
func (f *Flow) RestartCooldown(t Timer) {
	f.cooldown[t] = ResendCooldownSecs
}
