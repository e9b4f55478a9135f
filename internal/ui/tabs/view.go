// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package tabs

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/i18n"
	"github.com/velora-app/velora-tui/internal/util"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderBrand.Render("Velora"))
	b.WriteString("  ")
	b.WriteString(m.theme.HeaderSubtitle.Render(m.sess.NumberPhone))
	b.WriteString("\n\n")

	b.WriteString(m.viewTabBar())
	b.WriteString("\n\n")

	switch {
	case m.bookingOpen:
		b.WriteString(m.viewBookingPrompt())
	case m.editOpen:
		b.WriteString(m.viewEditPrompt())
	case m.detail != nil:
		b.WriteString(m.viewDetail())
	case m.loading:
		b.WriteString(m.spinner.View() + " " + m.theme.Muted.Render(i18n.T("Loading...")))
	default:
		b.WriteString(m.viewTab())
	}
	b.WriteString("\n")

	if m.notice != "" {
		style := m.theme.NoticeOK
		if m.isErr {
			style = m.theme.NoticeError
		}
		b.WriteString("\n" + style.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + m.viewStatusBar())
	return m.theme.Container.Render(b.String())
}

func (m *Model) viewTabBar() string {
	labels := make([]string, 0, int(tabCount))
	for t := TabBrowse; t < tabCount; t++ {
		label := t.String()
		if t == TabNotifications {
			if n := m.unreadCount(); n > 0 {
				label += " " + m.theme.TabBadge.Render(strconv.Itoa(n))
			}
		}
		if t == m.tab {
			labels = append(labels, m.theme.TabActive.Render(label))
		} else {
			labels = append(labels, m.theme.Tab.Render(label))
		}
	}
	return m.theme.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, labels...))
}

func (m *Model) unreadCount() int {
	n := 0
	for _, notif := range m.notifications {
		if !notif.Read {
			n++
		}
	}
	return n
}

// =============================================================================
// TAB BODIES
// =============================================================================

func (m *Model) viewTab() string {
	switch m.tab {
	case TabBrowse:
		return m.viewBrowse()
	case TabSearch:
		return m.viewSearch()
	case TabBookings:
		return m.viewBookings()
	case TabFavorites:
		return m.viewFavorites()
	case TabNotifications:
		return m.viewNotifications()
	case TabProfile:
		return m.viewProfile()
	}
	return ""
}

func (m *Model) viewBrowse() string {
	var b strings.Builder

	category := i18n.T("All categories")
	if m.catCursor > 0 && m.catCursor <= len(m.categories) {
		category = m.categories[m.catCursor-1].Name
	}
	b.WriteString(m.theme.CardMeta.Render(category) + "\n\n")

	b.WriteString(m.viewServiceList(m.services, m.svcCursor))
	return b.String()
}

func (m *Model) viewSearch() string {
	var b strings.Builder
	b.WriteString(m.searchInput.View() + "\n\n")
	if len(m.results) == 0 {
		b.WriteString(m.theme.Hint.Render(i18n.T("Press Enter to search.")))
		return b.String()
	}
	b.WriteString(m.viewServiceList(m.results, m.resCursor))
	return b.String()
}

func (m *Model) viewServiceList(services []api.Service, cursor int) string {
	if len(services) == 0 {
		return m.theme.Muted.Render(i18n.T("No services here yet."))
	}
	maxName := 40
	if m.width > 0 && m.width-12 < maxName {
		maxName = m.width - 12
	}
	cards := make([]string, 0, len(services))
	for i, svc := range services {
		body := m.theme.CardTitle.Render(util.TruncateWidth(svc.Name, maxName)) + "\n" +
			m.theme.Price.Render(formatVND(svc.Price)) + "  " +
			m.theme.RatingStars.Render(stars(svc.AvgRating)) + "  " +
			m.theme.CardMeta.Render(i18n.T("%d min", svc.DurationMin))
		style := m.theme.Card
		if i == cursor {
			style = m.theme.CardSelected
		}
		cards = append(cards, style.Render(body))
	}
	return strings.Join(cards, "\n")
}

func (m *Model) viewDetail() string {
	var b strings.Builder
	svc := m.detail

	b.WriteString(m.theme.CardTitle.Render(svc.Name) + "\n")
	b.WriteString(m.theme.Price.Render(formatVND(svc.Price)) + "  ")
	b.WriteString(m.theme.RatingStars.Render(stars(svc.AvgRating)) + "  ")
	b.WriteString(m.theme.CardMeta.Render(i18n.T("%d min", svc.DurationMin)) + "\n")
	b.WriteString(m.detailRendered)

	if len(m.ratings) > 0 {
		b.WriteString("\n" + m.theme.FormTitle.Render(i18n.T("Reviews")) + "\n")
		for _, r := range m.ratings {
			b.WriteString(m.theme.RatingStars.Render(stars(float64(r.Score))))
			if r.Comment != "" {
				b.WriteString(" " + r.Comment)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) viewBookings() string {
	if len(m.bookings) == 0 {
		return m.theme.Muted.Render(i18n.T("No bookings yet. Press b on a service to book."))
	}
	cards := make([]string, 0, len(m.bookings))
	for i, bk := range m.bookings {
		tint, ok := m.theme.StatusTint[bk.Status]
		if !ok {
			tint = m.theme.Muted
		}
		body := m.theme.CardTitle.Render(bk.ServiceName) + "\n" +
			m.theme.CardMeta.Render(bk.TimeStart) + "  " + tint.Render(bk.Status)
		style := m.theme.Card
		if i == m.bookCursor {
			style = m.theme.CardSelected
		}
		cards = append(cards, style.Render(body))
	}
	return strings.Join(cards, "\n")
}

func (m *Model) viewFavorites() string {
	if len(m.favorites) == 0 {
		return m.theme.Muted.Render(i18n.T("No favorites yet. Press f on a service to save it."))
	}
	return m.viewServiceList(m.favorites, m.favCursor)
}

func (m *Model) viewNotifications() string {
	if len(m.notifications) == 0 {
		return m.theme.Muted.Render(i18n.T("No notifications."))
	}
	var b strings.Builder
	for i, n := range m.notifications {
		marker := "  "
		if i == m.notifCursor {
			marker = "> "
		}
		title := n.Title
		if !n.Read {
			title = m.theme.CardTitle.Render(title)
		} else {
			title = m.theme.Muted.Render(title)
		}
		b.WriteString(marker + title + "\n")
		b.WriteString("  " + m.theme.CardMeta.Render(n.Body) + "\n")
	}
	return b.String()
}

func (m *Model) viewProfile() string {
	if m.profile == nil {
		return m.theme.Muted.Render(i18n.T("Loading..."))
	}
	var b strings.Builder
	b.WriteString(m.theme.FieldLabel.Render(i18n.T("Full name")) + "  " + m.profile.FullName + "\n")
	b.WriteString(m.theme.FieldLabel.Render(i18n.T("Email")) + "  " + m.profile.Email + "\n")
	b.WriteString(m.theme.FieldLabel.Render(i18n.T("Phone number")) + "  " + m.profile.NumberPhone + "\n")
	return b.String()
}

// =============================================================================
// PROMPTS
// =============================================================================

func (m *Model) viewBookingPrompt() string {
	var b strings.Builder
	if m.detail != nil {
		b.WriteString(m.theme.CardTitle.Render(m.detail.Name) + "\n\n")
	}
	b.WriteString(m.theme.FieldLabel.Render(i18n.T("Start time (RFC 3339):")) + "\n")
	b.WriteString(m.bookingInput.View())
	return m.theme.FormBox.Render(b.String())
}

func (m *Model) viewEditPrompt() string {
	var b strings.Builder
	b.WriteString(m.theme.FieldLabel.Render(i18n.T("Your name:")) + "\n")
	b.WriteString(m.nameInput.View())
	return m.theme.FormBox.Render(b.String())
}

func (m *Model) viewStatusBar() string {
	shortcuts := [][2]string{
		{"tab", "switch"},
		{"enter", "open"},
		{"b", "book"},
		{"f", "favorite"},
		{"r", "refresh"},
		{"C-l", "sign out"},
	}
	parts := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		parts = append(parts, m.theme.ShortcutKey.Render(s[0])+" "+m.theme.ShortcutDesc.Render(s[1]))
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}

// =============================================================================
// FORMAT HELPERS
// =============================================================================

// formatVND renders a price in Vietnamese dong with thousands separators.
func formatVND(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String() + "đ"
}

// stars renders a 0..5 rating as a five-character bar.
func stars(avg float64) string {
	full := int(avg + 0.5)
	if full < 0 {
		full = 0
	}
	if full > 5 {
		full = 5
	}
	return strings.Repeat("*", full) + strings.Repeat("-", 5-full)
}
