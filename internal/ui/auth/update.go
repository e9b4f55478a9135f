// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/authflow"
	"github.com/velora-app/velora-tui/internal/i18n"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.anyBusy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case cooldownTickMsg:
		m.flow.Tick(msg.timer)
		if m.flow.TimerActive(msg.timer) {
			return m, tickCooldown(msg.timer)
		}
		return m, nil

	case backToLoginMsg:
		// Only act if the user has not already navigated away.
		if m.flow.Mode() == authflow.ModeVerify {
			m.flow.VerifyAccepted()
			m.switchMode()
			m.setNotice(i18n.T("Account verified. Sign in to continue."), false)
		}
		return m, nil

	case shakeClearMsg:
		m.shake = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case signInResultMsg:
		return m.onSignInResult(msg)
	case registerResultMsg:
		return m.onRegisterResult(msg)
	case verifyResultMsg:
		return m.onVerifyResult(msg)
	case resetOTPSentMsg:
		return m.onResetOTPSent(msg)
	case verifyResetResultMsg:
		return m.onVerifyResetResult(msg)
	case resetPasswordResultMsg:
		return m.onResetPasswordResult(msg)
	}

	// Cursor blink and other component messages go to the focused input.
	return m, m.updateFocusedInput(msg)
}

func (m *Model) anyBusy() bool {
	return m.flow.AnyBusy()
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	if m.focus >= len(m.inputs) {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Back) && m.flow.Mode() != authflow.ModeLogin {
		m.flow.BackToLogin()
		m.switchMode()
		return m, nil
	}

	switch m.flow.Mode() {
	case authflow.ModeLogin:
		return m.handleLoginKey(msg)
	case authflow.ModeForgot:
		return m.handleForgotKey(msg)
	case authflow.ModeRegister:
		return m.handleRegisterKey(msg)
	case authflow.ModeVerify, authflow.ModeVerifyReset:
		return m.handleOTPKey(msg)
	case authflow.ModeReset:
		return m.handleResetKey(msg)
	}
	return m, nil
}

func (m *Model) handleFieldNav(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.NextField):
		m.setFocus(m.focus + 1)
		return true
	case key.Matches(msg, m.keys.PrevField):
		m.setFocus(m.focus - 1)
		return true
	}
	return false
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Forgot):
		m.flow.GoForgot()
		m.switchMode()
		return m, nil
	case key.Matches(msg, m.keys.Register):
		m.flow.GoRegister()
		m.switchMode()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitSignIn()
	}
	if m.handleFieldNav(msg) {
		return m, nil
	}
	return m, m.updateFocusedInput(msg)
}

func (m *Model) handleForgotKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		return m.submitForgot()
	}
	if m.handleFieldNav(msg) {
		return m, nil
	}
	return m, m.updateFocusedInput(msg)
}

func (m *Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		return m.submitRegister()
	}
	if m.handleFieldNav(msg) {
		return m, nil
	}
	return m, m.updateFocusedInput(msg)
}

func (m *Model) handleResetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		return m.submitNewPassword()
	}
	if m.handleFieldNav(msg) {
		return m, nil
	}
	return m, m.updateFocusedInput(msg)
}

func (m *Model) handleOTPKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitOTP()
	case key.Matches(msg, m.keys.Resend):
		return m.resendOTP()
	}

	switch msg.Type {
	case tea.KeyBackspace:
		m.flow.Backspace()
		return m, nil
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.flow.EnterDigit(r)
		}
		return m, nil
	}
	return m, nil
}

// =============================================================================
// SUBMISSIONS
// =============================================================================

func (m *Model) submitSignIn() (tea.Model, tea.Cmd) {
	phone := m.inputs[loginFieldPhone].Value()
	password := m.inputs[loginFieldPassword].Value()

	if err := authflow.ValidateSignIn(phone, password); err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}
	if !m.flow.Begin(authflow.OpSignIn) {
		return m, nil
	}

	m.clearNotice()
	epoch := m.flow.NextEpoch()
	return m, tea.Batch(m.signInCmd(epoch, phone, password), m.spinner.Tick)
}

func (m *Model) submitForgot() (tea.Model, tea.Cmd) {
	phone := m.inputs[0].Value()

	if err := authflow.ValidatePhone(phone); err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}
	if !m.flow.Begin(authflow.OpSendOTP) {
		return m, nil
	}

	m.clearNotice()
	epoch := m.flow.NextEpoch()
	return m, tea.Batch(m.requestResetOTPCmd(epoch, phone, false), m.spinner.Tick)
}

func (m *Model) submitRegister() (tea.Model, tea.Cmd) {
	name := m.inputs[registerFieldName].Value()
	email := m.inputs[registerFieldEmail].Value()
	phone := m.inputs[registerFieldPhone].Value()
	password := m.inputs[registerFieldPassword].Value()
	confirm := m.inputs[registerFieldConfirm].Value()

	if err := authflow.ValidateRegistration(name, email, phone, password, confirm); err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}
	if !m.flow.Begin(authflow.OpRegister) {
		return m, nil
	}

	m.clearNotice()
	epoch := m.flow.NextEpoch()
	req := api.RegisterRequest{FullName: name, Email: email, NumberPhone: phone, Password: password}
	return m, tea.Batch(m.registerCmd(epoch, req), m.spinner.Tick)
}

func (m *Model) submitOTP() (tea.Model, tea.Cmd) {
	code, complete := m.flow.OTPCode()
	if !complete {
		// Incomplete code never reaches the network; shake instead.
		m.shake = true
		return m, scheduleShakeClear()
	}
	if !m.flow.Begin(authflow.OpVerifyOTP) {
		return m, nil
	}

	m.clearNotice()
	epoch := m.flow.NextEpoch()
	if m.flow.Mode() == authflow.ModeVerifyReset {
		return m, tea.Batch(m.verifyResetOTPCmd(epoch, m.flow.ResetCredential(), code), m.spinner.Tick)
	}
	return m, tea.Batch(m.verifyOTPCmd(epoch, m.flow.Phone(), code), m.spinner.Tick)
}

func (m *Model) resendOTP() (tea.Model, tea.Cmd) {
	switch m.flow.Mode() {
	case authflow.ModeVerify:
		// The backend offers no registration resend endpoint; the control
		// restarts the countdown and nothing else.
		if m.flow.ResendAvailable(authflow.TimerRegister) {
			m.flow.RestartCooldown(authflow.TimerRegister)
			m.setNotice(i18n.T("Code re-sent. Check your messages."), false)
			return m, tickCooldown(authflow.TimerRegister)
		}
	case authflow.ModeVerifyReset:
		if m.flow.ResendAvailable(authflow.TimerReset) && m.flow.Begin(authflow.OpSendOTP) {
			epoch := m.flow.NextEpoch()
			return m, tea.Batch(m.requestResetOTPCmd(epoch, m.flow.Phone(), true), m.spinner.Tick)
		}
	}
	return m, nil
}

func (m *Model) submitNewPassword() (tea.Model, tea.Cmd) {
	password := m.inputs[resetFieldPassword].Value()
	confirm := m.inputs[resetFieldConfirm].Value()

	if err := authflow.ValidateNewPassword(password, confirm); err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}
	if !m.flow.Begin(authflow.OpResetPassword) {
		return m, nil
	}

	m.clearNotice()
	epoch := m.flow.NextEpoch()
	return m, tea.Batch(m.resetPasswordCmd(epoch, m.flow.ResetCredential(), password), m.spinner.Tick)
}

// =============================================================================
// RESULT HANDLING
// =============================================================================

func (m *Model) onSignInResult(msg signInResultMsg) (tea.Model, tea.Cmd) {
	// Finish runs even for a superseded response; the flag tracked this
	// request and this request is over.
	m.flow.Finish(authflow.OpSignIn)
	if m.flow.Stale(msg.epoch) {
		return m, nil
	}
	if msg.err != nil {
		m.setNotice(errorText(msg.err), true)
		return m, nil
	}
	return m, emit(DoneMsg{Session: msg.session})
}

func (m *Model) onRegisterResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	m.flow.Finish(authflow.OpRegister)
	if m.flow.Stale(msg.epoch) {
		return m, nil
	}
	if msg.err != nil {
		m.setNotice(errorText(msg.err), true)
		return m, nil
	}

	m.flow.RegistrationAccepted(msg.phone)
	m.switchMode()
	m.setNotice(i18n.T("We sent a 6-digit code to your phone."), false)
	return m, tickCooldown(authflow.TimerRegister)
}

func (m *Model) onVerifyResult(msg verifyResultMsg) (tea.Model, tea.Cmd) {
	m.flow.Finish(authflow.OpVerifyOTP)
	if m.flow.Stale(msg.epoch) {
		return m, nil
	}
	if msg.err != nil {
		// The entered code stays put; the user corrects it in place.
		m.setNotice(errorText(msg.err), true)
		return m, nil
	}

	// Flow returns to login after a pause long enough to read the notice.
	m.setNotice(i18n.T("Account verified. Sign in to continue."), false)
	return m, scheduleReturnToLogin()
}

func (m *Model) onResetOTPSent(msg resetOTPSentMsg) (tea.Model, tea.Cmd) {
	m.flow.Finish(authflow.OpSendOTP)
	if m.flow.Stale(msg.epoch) {
		return m, nil
	}
	if msg.err != nil {
		m.setNotice(errorText(msg.err), true)
		return m, nil
	}

	// Initial send and resend both land here; the fresh credential always
	// replaces the old one.
	m.flow.ResetOTPSent(msg.phone, msg.credential)
	if !msg.resend {
		m.switchMode()
	}
	m.setNotice(i18n.T("We sent a 6-digit code to your phone."), false)
	return m, tickCooldown(authflow.TimerReset)
}

func (m *Model) onVerifyResetResult(msg verifyResetResultMsg) (tea.Model, tea.Cmd) {
	m.flow.Finish(authflow.OpVerifyOTP)
	if m.flow.Stale(msg.epoch) {
		return m, nil
	}
	if msg.err != nil {
		// The entered code stays put; the user corrects it in place.
		m.setNotice(errorText(msg.err), true)
		return m, nil
	}

	m.flow.ResetOTPAccepted()
	m.switchMode()
	return m, nil
}

func (m *Model) onResetPasswordResult(msg resetPasswordResultMsg) (tea.Model, tea.Cmd) {
	m.flow.Finish(authflow.OpResetPassword)
	if m.flow.Stale(msg.epoch) {
		return m, nil
	}
	if msg.err != nil {
		m.setNotice(errorText(msg.err), true)
		return m, nil
	}

	m.flow.PasswordChanged()
	m.switchMode()
	m.setNotice(i18n.T("Password changed. Sign in with your new password."), false)
	return m, nil
}
