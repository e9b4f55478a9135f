// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for velora.
//
// Configuration is TOML with environment variable overrides and built-in
// defaults. File location: ~/.velora/config.toml. A global accessor guards
// the active config behind a RWMutex, and Watch reloads it when the file
// changes on disk.
package config
