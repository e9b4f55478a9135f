// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses command line arguments and implements the non-TUI
// commands: login, logout, status, config, cache, serve, and version.
package cli
