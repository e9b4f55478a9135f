// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package staff provides the signed-in staff area of the TUI.
//
// Four tabs: bookings, services, categories, and ratings. Staff move
// bookings through their lifecycle, maintain the catalog, and read the
// review stream. Catalog edits go through a small inline form.
package staff
