// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the authentication screen for the TUI.
//
// The screen is one Bubble Tea model hosting all six steps of the flow:
// sign-in, forgot password, registration, the two OTP verifications, and
// the new-password form. Which step renders is decided by the authflow
// controller; this package owns the inputs, the network commands, and the
// one-second cooldown ticks, and feeds every outcome back into the flow.
//
// When a sign-in completes the model emits DoneMsg carrying the decoded
// session; the parent program routes to the customer tabs, the staff area,
// or the unsupported-role notice based on the role in it.
package auth
