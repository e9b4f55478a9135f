// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package staff

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/velora-app/velora-tui/internal/api"
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
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case bookingsMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.bookings = msg.bookings
		clamp(&m.bookCursor, len(m.bookings))
		return m, nil

	case servicesMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.services = msg.services
		clamp(&m.svcCursor, len(m.services))
		return m, nil

	case categoriesMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.categories = msg.categories
		clamp(&m.catCursor, len(m.categories))
		return m, nil

	case ratingsMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.ratings = msg.ratings
		clamp(&m.ratingCursor, len(m.ratings))
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.loading = false
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.setNotice(msg.notice, false)
		m.loading = true
		return m, tea.Batch(m.refreshCmd(msg.refresh), m.spinner.Tick)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.formOpen {
		return m.handleFormKey(msg)
	}
	if m.catFormOpen {
		return m.handleCatFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Logout):
		return m, emit(LogoutMsg{})
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % tabCount)
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.tab + tabCount - 1) % tabCount)
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, tea.Batch(m.refreshCmd(m.tab), m.spinner.Tick)
	}

	switch m.tab {
	case TabBookings:
		return m.handleBookingsKey(msg)
	case TabServices:
		return m.handleServicesKey(msg)
	case TabCategories:
		return m.handleCategoriesKey(msg)
	case TabRatings:
		switch {
		case key.Matches(msg, m.keys.Up):
			move(&m.ratingCursor, len(m.ratings), -1)
		case key.Matches(msg, m.keys.Down):
			move(&m.ratingCursor, len(m.ratings), +1)
		}
	}
	return m, nil
}

func (m *Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	m.tab = tab
	m.notice = ""
	m.loading = true
	return m, tea.Batch(m.refreshCmd(tab), m.spinner.Tick)
}

// =============================================================================
// PER-TAB KEY HANDLERS
// =============================================================================

func (m *Model) handleBookingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		move(&m.bookCursor, len(m.bookings), -1)
	case key.Matches(msg, m.keys.Down):
		move(&m.bookCursor, len(m.bookings), +1)
	case key.Matches(msg, m.keys.Confirm):
		if bk := m.selectedBooking(); bk != nil {
			return m, m.setStatusCmd(bk.ID, api.BookingConfirmed)
		}
	case key.Matches(msg, m.keys.Done):
		if bk := m.selectedBooking(); bk != nil {
			return m, m.setStatusCmd(bk.ID, api.BookingDone)
		}
	case key.Matches(msg, m.keys.Cancel):
		if bk := m.selectedBooking(); bk != nil {
			return m, m.setStatusCmd(bk.ID, api.BookingCancelled)
		}
	}
	return m, nil
}

func (m *Model) selectedBooking() *api.Booking {
	if m.bookCursor < 0 || m.bookCursor >= len(m.bookings) {
		return nil
	}
	return &m.bookings[m.bookCursor]
}

func (m *Model) handleServicesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		move(&m.svcCursor, len(m.services), -1)
	case key.Matches(msg, m.keys.Down):
		move(&m.svcCursor, len(m.services), +1)
	case key.Matches(msg, m.keys.New):
		m.openServiceForm(nil)
	case key.Matches(msg, m.keys.Edit):
		if m.svcCursor < len(m.services) {
			m.openServiceForm(&m.services[m.svcCursor])
		}
	case key.Matches(msg, m.keys.Delete):
		if m.svcCursor < len(m.services) {
			return m, m.deleteServiceCmd(m.services[m.svcCursor].ID)
		}
	}
	return m, nil
}

func (m *Model) handleCategoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		move(&m.catCursor, len(m.categories), -1)
	case key.Matches(msg, m.keys.Down):
		move(&m.catCursor, len(m.categories), +1)
	case key.Matches(msg, m.keys.New):
		m.catEditID = 0
		m.catInput.SetValue("")
		m.catInput.Focus()
		m.catFormOpen = true
	case key.Matches(msg, m.keys.Edit):
		if m.catCursor < len(m.categories) {
			cat := m.categories[m.catCursor]
			m.catEditID = cat.ID
			m.catInput.SetValue(cat.Name)
			m.catInput.Focus()
			m.catFormOpen = true
		}
	case key.Matches(msg, m.keys.Delete):
		if m.catCursor < len(m.categories) {
			return m, m.deleteCategoryCmd(m.categories[m.catCursor].ID)
		}
	}
	return m, nil
}

// =============================================================================
// FORMS
// =============================================================================

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.formOpen = false
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.setFormFocus(m.formFocus + 1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setFormFocus(m.formFocus - 1)
		return m, nil
	case tea.KeyEnter:
		return m.submitServiceForm()
	}
	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *Model) setFormFocus(focus int) {
	n := len(m.formInputs)
	focus = ((focus % n) + n) % n
	m.formInputs[m.formFocus].Blur()
	m.formFocus = focus
	m.formInputs[focus].Focus()
}

func (m *Model) submitServiceForm() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.formInputs[formFieldName].Value())
	if name == "" {
		m.setNotice(i18n.T("Name cannot be empty."), true)
		return m, nil
	}
	categoryID, err := strconv.Atoi(m.formInputs[formFieldCategory].Value())
	if err != nil || categoryID <= 0 {
		m.setNotice(i18n.T("Category ID must be a positive number."), true)
		return m, nil
	}
	price, err := strconv.ParseInt(m.formInputs[formFieldPrice].Value(), 10, 64)
	if err != nil || price <= 0 {
		m.setNotice(i18n.T("Price must be a positive number."), true)
		return m, nil
	}
	duration, err := strconv.Atoi(m.formInputs[formFieldDuration].Value())
	if err != nil || duration <= 0 {
		m.setNotice(i18n.T("Duration must be a positive number."), true)
		return m, nil
	}

	m.formOpen = false
	in := api.ServiceInput{
		Name:        name,
		CategoryID:  categoryID,
		Price:       price,
		DurationMin: duration,
	}
	return m, m.saveServiceCmd(m.editID, in)
}

func (m *Model) handleCatFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.catFormOpen = false
		m.catInput.Blur()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.catInput.Value())
		if name == "" {
			m.setNotice(i18n.T("Name cannot be empty."), true)
			return m, nil
		}
		m.catFormOpen = false
		m.catInput.Blur()
		return m, m.saveCategoryCmd(m.catEditID, name)
	}
	var cmd tea.Cmd
	m.catInput, cmd = m.catInput.Update(msg)
	return m, cmd
}

// =============================================================================
// CURSOR HELPERS
// =============================================================================

func move(cursor *int, length, delta int) {
	if length == 0 {
		*cursor = 0
		return
	}
	next := *cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= length {
		next = length - 1
	}
	*cursor = next
}

func clamp(cursor *int, length int) {
	if *cursor >= length {
		*cursor = 0
	}
}
