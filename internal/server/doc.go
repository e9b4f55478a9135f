// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the local development backend.
//
// Endpoints (under /api/v1):
//   - POST /auth/login            - Sign in, returns access_token
//   - POST /auth/register         - Create account, sends an OTP
//   - POST /auth/verify           - Confirm registration OTP
//   - POST /auth/forgot-password  - Send reset OTP, returns reset_token
//   - POST /auth/verify-reset-otp - Confirm reset OTP
//   - POST /auth/reset-password   - Set new password
//   - GET  /category, /service, /rating      - Public catalog
//   - /booking, /favorite, /notification     - Customer endpoints
//   - /user/profile, /user/device-token      - Account endpoints
//   - /staff/*                               - Staff management
//
// Everything lives in memory; state is lost on restart. The server exists
// so the app can be developed and demoed without the production backend,
// and it mirrors the production envelope contract exactly, including the
// reset credential traveling as a bearer header or a body field.
package server
