// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n provides the user-facing message catalog.
//
// The production backend serves a Vietnamese storefront, so every validation
// message and failure notice shown by the client goes through T rather than
// being inlined at the call site. English is the catalog key and the
// fallback; Vietnamese translations are registered at init.
package i18n
