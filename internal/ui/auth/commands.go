// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/authflow"
	"github.com/velora-app/velora-tui/internal/i18n"
	"github.com/velora-app/velora-tui/internal/session"
)

// requestTimeout bounds every auth network call.
const requestTimeout = 20 * time.Second

// verifiedPause is how long the success notice stays up after OTP
// verification before the screen returns to sign-in.
const verifiedPause = 1500 * time.Millisecond

// shakeDuration is how long the OTP cells stay red after an incomplete
// submit.
const shakeDuration = 400 * time.Millisecond

// =============================================================================
// NETWORK COMMANDS
// =============================================================================

// signInCmd authenticates, persists the session, installs the token on the
// client, and registers the device token best-effort.
func (m *Model) signInCmd(epoch uint64, phone, password string) tea.Cmd {
	client, store, deviceName := m.client, m.store, m.deviceName
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		token, err := client.Login(ctx, phone, password)
		if err != nil {
			return signInResultMsg{epoch: epoch, err: err}
		}

		sess, err := session.FromToken(token)
		if err != nil {
			return signInResultMsg{epoch: epoch, err: err}
		}

		if err := store.Set(sess); err != nil {
			return signInResultMsg{epoch: epoch, err: err}
		}
		client.SetToken(token)

		// Push registration must never fail a sign-in.
		if err := client.RegisterDeviceToken(ctx, uuid.NewString(), deviceName); err != nil {
			log.Printf("auth: device token registration failed: %v", err)
		}

		return signInResultMsg{epoch: epoch, session: *sess}
	}
}

func (m *Model) registerCmd(epoch uint64, req api.RegisterRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.Register(ctx, req)
		return registerResultMsg{epoch: epoch, phone: req.NumberPhone, err: err}
	}
}

func (m *Model) verifyOTPCmd(epoch uint64, phone, code string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.VerifyOTP(ctx, phone, code)
		return verifyResultMsg{epoch: epoch, err: err}
	}
}

func (m *Model) requestResetOTPCmd(epoch uint64, phone string, resend bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		credential, err := client.RequestResetOTP(ctx, phone)
		return resetOTPSentMsg{epoch: epoch, phone: phone, credential: credential, resend: resend, err: err}
	}
}

func (m *Model) verifyResetOTPCmd(epoch uint64, credential, code string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.VerifyResetOTP(ctx, credential, code)
		return verifyResetResultMsg{epoch: epoch, err: err}
	}
}

func (m *Model) resetPasswordCmd(epoch uint64, credential, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.ResetPassword(ctx, credential, password)
		return resetPasswordResultMsg{epoch: epoch, err: err}
	}
}

// =============================================================================
// TIMER COMMANDS
// =============================================================================

// tickCooldown schedules the next one-second tick for a resend timer.
func tickCooldown(timer authflow.Timer) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return cooldownTickMsg{timer: timer}
	})
}

// scheduleReturnToLogin pauses, then sends the screen back to sign-in.
func scheduleReturnToLogin() tea.Cmd {
	return tea.Tick(verifiedPause, func(time.Time) tea.Msg {
		return backToLoginMsg{}
	})
}

// scheduleShakeClear ends the OTP shake cue.
func scheduleShakeClear() tea.Cmd {
	return tea.Tick(shakeDuration, func(time.Time) tea.Msg {
		return shakeClearMsg{}
	})
}

// emit wraps an outbound message in a command.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// =============================================================================
// ERROR PRESENTATION
// =============================================================================

// errorText maps an API error to the line shown under the form. Server
// messages win; everything else gets a translated fallback.
func errorText(err error) string {
	var serverErr *api.ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	switch {
	case errors.Is(err, api.ErrTransport):
		return i18n.T("Cannot connect to the server. Check your connection and try again.")
	case errors.Is(err, api.ErrNoResetCredential):
		return i18n.T("The server did not return a reset code. Please try again later.")
	case errors.Is(err, context.DeadlineExceeded):
		return i18n.T("The request timed out. Please try again.")
	default:
		return i18n.T("Something went wrong. Please try again.")
	}
}
