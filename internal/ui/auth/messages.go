// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the authentication screen for the TUI.
//
// This file defines all Bubble Tea message types used by the auth screen.
// Result messages carry the request epoch they were dispatched under; the
// update loop drops any result whose epoch the flow has since superseded.
package auth

import (
	"github.com/velora-app/velora-tui/internal/authflow"
	"github.com/velora-app/velora-tui/internal/session"
)

// =============================================================================
// NETWORK RESULT MESSAGES
// =============================================================================

// signInResultMsg delivers the outcome of a sign-in attempt. On success the
// session is already persisted and installed on the API client.
type signInResultMsg struct {
	epoch   uint64
	session session.Session
	err     error
}

// registerResultMsg delivers the outcome of a registration attempt.
type registerResultMsg struct {
	epoch uint64
	phone string
	err   error
}

// verifyResultMsg delivers the outcome of a registration OTP check.
type verifyResultMsg struct {
	epoch uint64
	err   error
}

// resetOTPSentMsg delivers the outcome of a reset OTP request, initial or
// resend. A successful send always carries a fresh credential.
type resetOTPSentMsg struct {
	epoch      uint64
	phone      string
	credential string
	resend     bool
	err        error
}

// verifyResetResultMsg delivers the outcome of a reset OTP check.
type verifyResetResultMsg struct {
	epoch uint64
	err   error
}

// resetPasswordResultMsg delivers the outcome of setting a new password.
type resetPasswordResultMsg struct {
	epoch uint64
	err   error
}

// =============================================================================
// TIMER MESSAGES
// =============================================================================

// cooldownTickMsg fires once per second while a resend cooldown runs.
type cooldownTickMsg struct {
	timer authflow.Timer
}

// backToLoginMsg fires after the post-verification pause so the user can
// read the success notice before landing on the sign-in form.
type backToLoginMsg struct{}

// shakeClearMsg ends the shake cue on the OTP cells.
type shakeClearMsg struct{}

// =============================================================================
// OUTBOUND MESSAGES
// =============================================================================

// DoneMsg tells the parent program that authentication finished. The parent
// routes on Session.RoleID.
type DoneMsg struct {
	Session session.Session
}
