// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the velora client:
// atomic file writes, rune- and width-aware string truncation, and digit
// string checks used by input validation.
package util
