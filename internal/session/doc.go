// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the persisted login state.
//
// A Session is the single durable record proving an authenticated identity:
// the bearer token plus the claims decoded from it. Its presence on disk is
// the sole signal startup routing uses to consider the user logged in; it is
// written on login, deleted on sign-out, and mutated in place only to merge
// incidental profile fields.
//
// Tokens are decoded, not verified: the client has no key material and the
// backend is the authority. Decoding only extracts routing claims.
package session
