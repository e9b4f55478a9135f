// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local SQLite cache for catalog data.
//
// The cache keeps the last fetched categories, services, and notifications
// so the browse screens can paint instantly on startup and stay usable
// while offline. It is advisory only: the server remains the source of
// truth, and every cached read carries the time it was fetched so callers
// can decide whether to refresh.
package storage
