// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package tabs

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

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

	case categoriesMsg:
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.categories = msg.categories
		if m.catCursor > len(m.categories) {
			m.catCursor = 0
		}
		m.offline = msg.cached
		return m, nil

	case servicesMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.services = msg.services
		clamp(&m.svcCursor, len(m.services))
		m.offline = m.offline || msg.cached
		if msg.cached {
			m.setNotice(i18n.T("Offline. Showing saved data."), false)
		}
		return m, nil

	case searchResultsMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.results = msg.services
		m.resCursor = 0
		if len(m.results) == 0 {
			m.setNotice(i18n.T("No services match %q.", msg.query), false)
		}
		return m, nil

	case detailMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.detail = msg.service
		m.detailRendered = msg.rendered
		m.ratings = msg.ratings
		return m, nil

	case bookingsMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.bookings = msg.bookings
		clamp(&m.bookCursor, len(m.bookings))
		return m, nil

	case favoritesMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.favorites = msg.services
		clamp(&m.favCursor, len(m.favorites))
		return m, nil

	case notificationsMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.notifications = msg.notifications
		clamp(&m.notifCursor, len(m.notifications))
		m.offline = msg.cached
		if msg.cached {
			m.setNotice(i18n.T("Offline. Showing saved data."), false)
		}
		return m, nil

	case profileMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		m.profile = msg.profile
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.loading = false
			m.setNotice(errorText(msg.err), true)
			return m, nil
		}
		if msg.notice != "" {
			m.setNotice(msg.notice, false)
		}
		m.loading = true
		return m, tea.Batch(m.refreshCmd(msg.refresh), m.spinner.Tick)
	}

	return m, nil
}

// handleKey routes keys. Open text inputs swallow everything except enter
// and esc so list shortcuts do not fire while typing.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch {
	case m.bookingOpen:
		return m.handleBookingKey(msg)
	case m.editOpen:
		return m.handleEditKey(msg)
	case m.tab == TabSearch && m.searchInput.Focused():
		return m.handleSearchKey(msg)
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

	if m.detail != nil {
		return m.handleDetailKey(msg)
	}

	switch m.tab {
	case TabBrowse:
		return m.handleBrowseKey(msg)
	case TabSearch:
		return m.handleResultsKey(msg)
	case TabBookings:
		return m.handleBookingsKey(msg)
	case TabFavorites:
		return m.handleFavoritesKey(msg)
	case TabNotifications:
		return m.handleNotificationsKey(msg)
	case TabProfile:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

func (m *Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	m.tab = tab
	m.detail = nil
	m.notice = ""
	m.offline = false
	if tab == TabSearch {
		m.searchInput.Focus()
		return m, nil
	}
	m.searchInput.Blur()
	cmd := m.refreshCmd(tab)
	if cmd == nil {
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// =============================================================================
// PER-TAB KEY HANDLERS
// =============================================================================

func (m *Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		move(&m.svcCursor, len(m.services), -1)
	case key.Matches(msg, m.keys.Down):
		move(&m.svcCursor, len(m.services), +1)
	case key.Matches(msg, m.keys.Category):
		m.catCursor = (m.catCursor + 1) % (len(m.categories) + 1)
		m.svcCursor = 0
		m.loading = true
		return m, tea.Batch(m.refreshCmd(TabBrowse), m.spinner.Tick)
	case key.Matches(msg, m.keys.Select):
		if svc := selected(m.services, m.svcCursor); svc != nil {
			m.loading = true
			return m, tea.Batch(m.fetchDetailCmd(svc.ID), m.spinner.Tick)
		}
	case key.Matches(msg, m.keys.Favorite):
		if svc := selected(m.services, m.svcCursor); svc != nil {
			return m, m.addFavoriteCmd(svc.ID)
		}
	case key.Matches(msg, m.keys.Book):
		if svc := selected(m.services, m.svcCursor); svc != nil {
			m.loading = true
			return m, tea.Batch(m.fetchDetailCmd(svc.ID), m.spinner.Tick)
		}
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		return m.switchTab((m.tab + 1) % tabCount)
	case tea.KeyShiftTab:
		return m.switchTab((m.tab + tabCount - 1) % tabCount)
	case tea.KeyEnter:
		q := m.searchInput.Value()
		if q == "" {
			return m, nil
		}
		m.searchInput.Blur()
		m.loading = true
		return m, tea.Batch(m.searchCmd(q), m.spinner.Tick)
	case tea.KeyEsc:
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		move(&m.resCursor, len(m.results), -1)
	case key.Matches(msg, m.keys.Down):
		move(&m.resCursor, len(m.results), +1)
	case key.Matches(msg, m.keys.Select):
		if svc := selected(m.results, m.resCursor); svc != nil {
			m.loading = true
			return m, tea.Batch(m.fetchDetailCmd(svc.ID), m.spinner.Tick)
		}
	case key.Matches(msg, m.keys.Favorite):
		if svc := selected(m.results, m.resCursor); svc != nil {
			return m, m.addFavoriteCmd(svc.ID)
		}
	case msg.String() == "/":
		m.searchInput.Focus()
	}
	return m, nil
}

func (m *Model) handleBookingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		move(&m.bookCursor, len(m.bookings), -1)
	case key.Matches(msg, m.keys.Down):
		move(&m.bookCursor, len(m.bookings), +1)
	case key.Matches(msg, m.keys.Cancel):
		if m.bookCursor < len(m.bookings) {
			return m, m.cancelBookingCmd(m.bookings[m.bookCursor].ID)
		}
	}
	return m, nil
}

func (m *Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		move(&m.favCursor, len(m.favorites), -1)
	case key.Matches(msg, m.keys.Down):
		move(&m.favCursor, len(m.favorites), +1)
	case key.Matches(msg, m.keys.Select):
		if svc := selected(m.favorites, m.favCursor); svc != nil {
			m.loading = true
			return m, tea.Batch(m.fetchDetailCmd(svc.ID), m.spinner.Tick)
		}
	case key.Matches(msg, m.keys.Favorite):
		if svc := selected(m.favorites, m.favCursor); svc != nil {
			return m, m.removeFavoriteCmd(svc.ID)
		}
	}
	return m, nil
}

func (m *Model) handleNotificationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		move(&m.notifCursor, len(m.notifications), -1)
	case key.Matches(msg, m.keys.Down):
		move(&m.notifCursor, len(m.notifications), +1)
	case key.Matches(msg, m.keys.Select):
		if m.notifCursor < len(m.notifications) {
			n := m.notifications[m.notifCursor]
			if !n.Read {
				return m, m.markReadCmd(n.ID)
			}
		}
	}
	return m, nil
}

func (m *Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Edit) && m.profile != nil {
		m.editOpen = true
		m.nameInput.SetValue(m.profile.FullName)
		m.nameInput.Focus()
	}
	return m, nil
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.detail = nil
		m.detailRendered = ""
		m.ratings = nil
		return m, nil
	case key.Matches(msg, m.keys.Book):
		m.bookingOpen = true
		m.bookingInput.SetValue("")
		m.bookingInput.Focus()
		return m, nil
	case key.Matches(msg, m.keys.Favorite):
		return m, m.addFavoriteCmd(m.detail.ID)
	}
	// Digits 1..5 submit a review with that score.
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '5' {
		return m, m.submitRatingCmd(m.detail.ID, int(s[0]-'0'))
	}
	return m, nil
}

func (m *Model) handleBookingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.bookingOpen = false
		m.bookingInput.Blur()
		return m, nil
	case tea.KeyEnter:
		start := m.bookingInput.Value()
		if _, err := time.Parse(time.RFC3339, start); err != nil {
			m.setNotice(i18n.T("Enter the start time as 2026-09-01T10:00:00Z."), true)
			return m, nil
		}
		if m.detail == nil {
			m.bookingOpen = false
			return m, nil
		}
		m.bookingOpen = false
		m.bookingInput.Blur()
		return m, m.createBookingCmd(m.detail.ID, start)
	}
	var cmd tea.Cmd
	m.bookingInput, cmd = m.bookingInput.Update(msg)
	return m, cmd
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editOpen = false
		m.nameInput.Blur()
		return m, nil
	case tea.KeyEnter:
		name := m.nameInput.Value()
		if name == "" {
			m.setNotice(i18n.T("Name cannot be empty."), true)
			return m, nil
		}
		m.editOpen = false
		m.nameInput.Blur()
		return m, m.updateProfileCmd(name)
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
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

func selected[T any](items []T, cursor int) *T {
	if cursor < 0 || cursor >= len(items) {
		return nil
	}
	return &items[cursor]
}
