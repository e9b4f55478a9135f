// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package authflow implements the authentication flow controller.
//
// The controller is pure state: the mode machine (login / forgot / register
// / verify / verify-reset / reset), the OTP input buffer, the reset
// credential, resend cooldown counters, per-operation busy flags, and the
// request epoch used to drop stale responses. All I/O lives elsewhere: the
// UI layer issues the network calls through internal/api and drives the
// one-second cooldown ticks, feeding outcomes back into the flow.
//
// Keeping the controller free of I/O is what makes the transition table and
// every invariant in it directly testable.
package authflow
