// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/authflow"
	"github.com/velora-app/velora-tui/internal/i18n"
	"github.com/velora-app/velora-tui/internal/session"
	"github.com/velora-app/velora-tui/internal/ui/styles"
)

// Field indexes per mode. The order matches the rendered form.
const (
	loginFieldPhone = iota
	loginFieldPassword
)

const (
	registerFieldName = iota
	registerFieldEmail
	registerFieldPhone
	registerFieldPassword
	registerFieldConfirm
)

const (
	resetFieldPassword = iota
	resetFieldConfirm
)

// Model is the auth screen.
type Model struct {
	flow   *authflow.Flow
	client *api.Client
	store  *session.Store
	theme  *styles.Theme
	keys   KeyMap

	// inputs holds the text fields of the active mode; rebuilt on every
	// mode change so stale values never leak between steps.
	inputs []textinput.Model
	focus  int

	spinner spinner.Model

	// notice is the transient status line under the form.
	notice    string
	noticeErr bool

	// shake marks the OTP cells red after an incomplete submit.
	shake bool

	// deviceName labels the push-token registration after sign-in.
	deviceName string

	width  int
	height int
}

// New creates the auth screen starting in the given mode.
func New(client *api.Client, store *session.Store, theme *styles.Theme, initial authflow.Mode, deviceName string) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	m := &Model{
		flow:       authflow.New(initial),
		client:     client,
		store:      store,
		theme:      theme,
		keys:       DefaultKeyMap(),
		spinner:    sp,
		deviceName: deviceName,
	}
	m.rebuildInputs()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Flow exposes the controller for tests.
func (m *Model) Flow() *authflow.Flow {
	return m.flow
}

// rebuildInputs creates the text fields for the active mode and focuses the
// first one.
func (m *Model) rebuildInputs() {
	newInput := func(placeholder string, password bool, limit int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Prompt = "> "
		if password {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '*'
		}
		return ti
	}

	switch m.flow.Mode() {
	case authflow.ModeLogin:
		m.inputs = []textinput.Model{
			newInput(i18n.T("Phone number"), false, 10),
			newInput(i18n.T("Password"), true, 64),
		}
	case authflow.ModeForgot:
		m.inputs = []textinput.Model{
			newInput(i18n.T("Phone number"), false, 10),
		}
	case authflow.ModeRegister:
		m.inputs = []textinput.Model{
			newInput(i18n.T("Full name"), false, 64),
			newInput(i18n.T("Email"), false, 128),
			newInput(i18n.T("Phone number"), false, 10),
			newInput(i18n.T("Password"), true, 64),
			newInput(i18n.T("Confirm password"), true, 64),
		}
	case authflow.ModeReset:
		m.inputs = []textinput.Model{
			newInput(i18n.T("New password"), true, 64),
			newInput(i18n.T("Confirm password"), true, 64),
		}
	default:
		// Verify modes use the OTP cell buffer, not text inputs.
		m.inputs = nil
	}

	m.focus = 0
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

// setFocus moves keyboard focus to the given field.
func (m *Model) setFocus(idx int) {
	if len(m.inputs) == 0 {
		return
	}
	if idx < 0 {
		idx = len(m.inputs) - 1
	}
	if idx >= len(m.inputs) {
		idx = 0
	}
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	m.focus = idx
}

// setNotice replaces the status line.
func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

// clearNotice removes the status line.
func (m *Model) clearNotice() {
	m.notice = ""
	m.noticeErr = false
}

// switchMode applies a flow transition's UI side: fresh inputs and no
// leftover notice.
func (m *Model) switchMode() {
	m.rebuildInputs()
	m.clearNotice()
	m.shake = false
}
