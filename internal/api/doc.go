// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the client for the velora storefront REST backend.
//
// Every endpoint speaks a common JSON envelope: an integer error code
// (`err`, 0 = success) and/or a boolean `success` flag, a human message under
// `mes` or `message` (the backend is inconsistent across endpoints), and a
// `data` payload. Envelope interpretation is centralized in Envelope.OK so
// the per-endpoint methods never repeat the ad-hoc conditionals.
//
// Error taxonomy, matching how the UI reports failures:
//   - transport errors wrap ErrTransport (offline, DNS, timeout)
//   - business rejections surface as *ServerError with the server's message
//   - apparent successes missing a required field surface as *ProtocolError
//     (a backend contract violation, not user error)
package api
