// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tabs provides the signed-in customer area of the TUI.
//
// Six tabs: browse, search, bookings, favorites, notifications, and
// profile. Catalog reads go through the local SQLite cache write-through:
// fresh data replaces the cache on every successful fetch, and the cache
// serves as the fallback when the server is unreachable. Service
// descriptions are markdown and render through glamour.
package tabs
