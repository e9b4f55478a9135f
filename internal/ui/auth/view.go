// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/velora-app/velora-tui/internal/authflow"
	"github.com/velora-app/velora-tui/internal/i18n"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderBrand.Render("Velora"))
	b.WriteString("  ")
	b.WriteString(m.theme.HeaderSubtitle.Render(i18n.T("beauty and wellness bookings")))
	b.WriteString("\n\n")

	switch m.flow.Mode() {
	case authflow.ModeLogin:
		b.WriteString(m.viewForm(i18n.T("Sign in"), m.loginHints()))
	case authflow.ModeForgot:
		b.WriteString(m.viewForm(i18n.T("Forgot password"), m.backHint()))
	case authflow.ModeRegister:
		b.WriteString(m.viewForm(i18n.T("Create account"), m.backHint()))
	case authflow.ModeVerify:
		b.WriteString(m.viewOTP(i18n.T("Verify your phone"), authflow.TimerRegister))
	case authflow.ModeVerifyReset:
		b.WriteString(m.viewOTP(i18n.T("Enter the reset code"), authflow.TimerReset))
	case authflow.ModeReset:
		b.WriteString(m.viewForm(i18n.T("Choose a new password"), m.backHint()))
	}

	if notice := m.viewNotice(); notice != "" {
		b.WriteString("\n")
		b.WriteString(notice)
	}

	return m.theme.Container.Render(b.String())
}

// viewForm renders the active mode's text inputs inside the form box.
func (m *Model) viewForm(title string, hints string) string {
	var rows []string
	rows = append(rows, m.theme.FormTitle.Render(title))

	for i := range m.inputs {
		rows = append(rows, m.inputs[i].View())
	}

	if m.flow.AnyBusy() {
		rows = append(rows, m.spinner.View()+" "+m.theme.Muted.Render(i18n.T("Working...")))
	} else {
		rows = append(rows, m.theme.Hint.Render(hints))
	}

	return m.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// viewOTP renders the six code cells plus the resend line.
func (m *Model) viewOTP(title string, timer authflow.Timer) string {
	var rows []string
	rows = append(rows, m.theme.FormTitle.Render(title))
	rows = append(rows, m.theme.FieldLabel.Render(
		i18n.T("Code sent to %s", m.flow.Phone())))
	rows = append(rows, "")

	cells := m.flow.OTPCells()
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		display := cell
		if display == "" {
			display = " "
		}
		style := m.theme.OTPCell
		switch {
		case m.shake:
			style = m.theme.OTPCellShake
		case i == m.flow.OTPFocus():
			style = m.theme.OTPCellFocus
		}
		rendered[i] = style.Render(display)
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	rows = append(rows, "")

	if m.flow.AnyBusy() {
		rows = append(rows, m.spinner.View()+" "+m.theme.Muted.Render(i18n.T("Working...")))
	} else if m.flow.ResendAvailable(timer) {
		rows = append(rows, m.theme.ResendActive.Render(i18n.T("Press Ctrl+R to resend the code")))
	} else {
		rows = append(rows, m.theme.CooldownText.Render(
			i18n.T("Resend available in %ds.", m.flow.Cooldown(timer))))
	}
	rows = append(rows, m.theme.Hint.Render(m.backHint()))

	return m.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) viewNotice() string {
	if m.notice == "" {
		return ""
	}
	if m.noticeErr {
		return m.theme.NoticeError.Render(m.notice)
	}
	return m.theme.NoticeOK.Render(m.notice)
}

func (m *Model) loginHints() string {
	return i18n.T("enter: sign in - ctrl+f: forgot password - ctrl+n: create account")
}

func (m *Model) backHint() string {
	return i18n.T("enter: submit - esc: back to sign in")
}
