// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
)

// =============================================================================
// REQUEST BODIES
// =============================================================================

type loginRequest struct {
	NumberPhone string `json:"numberPhone"`
	Password    string `json:"password"`
}

// RegisterRequest carries the sign-up fields. Field names follow the
// backend's contract, numberPhone included.
type RegisterRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	NumberPhone string `json:"numberPhone"`
	Password    string `json:"password"`
}

type verifyRequest struct {
	NumberPhone string `json:"numberPhone"`
	OTP         string `json:"otp"`
}

type forgotRequest struct {
	NumberPhone string `json:"numberPhone"`
}

type verifyResetRequest struct {
	OTP string `json:"otp"`
	// ResetToken is only populated on the body-field fallback attempt.
	ResetToken string `json:"reset_token,omitempty"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type deviceTokenRequest struct {
	Token  string `json:"token"`
	Device string `json:"device"`
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Login authenticates with phone and password and returns the raw bearer
// token. The caller decodes the token into a Session; a missing token is a
// protocol error even on an apparently successful response.
func (c *Client) Login(ctx context.Context, phone, password string) (string, error) {
	env, err := c.call(ctx, http.MethodPost, "/auth/login", loginRequest{NumberPhone: phone, Password: password}, noAuth)
	if err != nil {
		return "", err
	}
	token := env.stringField("access_token", "accessToken")
	if token == "" {
		return "", &ProtocolError{Endpoint: "/auth/login", Reason: "access_token missing"}
	}
	return token, nil
}

// Register creates an account. The backend follows up by sending an OTP to
// the registered phone.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	_, err := c.call(ctx, http.MethodPost, "/auth/register", req, noAuth)
	return err
}

// VerifyOTP confirms a registration code. Success detection is permissive
// by design: any 2xx with an absent/zero err or an explicit success flag.
func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) error {
	_, err := c.call(ctx, http.MethodPost, "/auth/verify", verifyRequest{NumberPhone: phone, OTP: otp}, noAuth)
	return err
}

// resetCredentialAliases are the field names the backend has been observed
// using for the short-lived reset credential.
var resetCredentialAliases = []string{"reset_token", "resetToken", "token"}

// RequestResetOTP asks for a password-reset OTP and returns the reset
// credential that authorizes the follow-up verify and reset calls. A
// successful send without a credential under any alias is fatal to the flow
// and reported as ErrNoResetCredential, not as a generic send failure.
func (c *Client) RequestResetOTP(ctx context.Context, phone string) (string, error) {
	env, err := c.call(ctx, http.MethodPost, "/auth/forgot-password", forgotRequest{NumberPhone: phone}, noAuth)
	if err != nil {
		return "", err
	}
	credential := env.stringField(resetCredentialAliases...)
	if credential == "" {
		return "", ErrNoResetCredential
	}
	return credential, nil
}

// VerifyResetOTP submits the reset code. The backend's contract for where
// the credential travels is ambiguous, so this tries bearer-header auth
// first and, if the server rejects it, retries exactly once with the
// credential as a body field. This is a compatibility shim, not a retry
// policy: transport failures are not retried, and there is never a third
// attempt.
func (c *Client) VerifyResetOTP(ctx context.Context, credential, otp string) error {
	_, headerErr := c.call(ctx, http.MethodPost, "/auth/verify-reset-otp", verifyResetRequest{OTP: otp}, credential)
	if headerErr == nil {
		return nil
	}
	var rejected *ServerError
	if !errors.As(headerErr, &rejected) {
		return headerErr
	}

	_, bodyErr := c.call(ctx, http.MethodPost, "/auth/verify-reset-otp", verifyResetRequest{OTP: otp, ResetToken: credential}, noAuth)
	if bodyErr == nil {
		return nil
	}

	// Surface the most specific message either attempt produced.
	var bodyRejected *ServerError
	if errors.As(bodyErr, &bodyRejected) && bodyRejected.Message == "" && rejected.Message != "" {
		return headerErr
	}
	return bodyErr
}

// ResetPassword sets a new password, authorized by the reset credential.
func (c *Client) ResetPassword(ctx context.Context, credential, newPassword string) error {
	_, err := c.call(ctx, http.MethodPost, "/auth/reset-password", resetPasswordRequest{NewPassword: newPassword}, credential)
	return err
}

// RegisterDeviceToken registers a push-notification device token for the
// signed-in user. Callers treat failures as best-effort: a push registration
// problem must never fail a sign-in.
func (c *Client) RegisterDeviceToken(ctx context.Context, deviceToken, deviceName string) error {
	_, err := c.call(ctx, http.MethodPost, "/user/device-token", deviceTokenRequest{Token: deviceToken, Device: deviceName}, "")
	return err
}
