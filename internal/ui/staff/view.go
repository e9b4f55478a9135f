// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package staff

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/velora-app/velora-tui/internal/i18n"
	"github.com/velora-app/velora-tui/internal/util"
)

// svcNameWidth is the display width of the name column in the services list.
const svcNameWidth = 28

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderBrand.Render("Velora"))
	b.WriteString("  ")
	b.WriteString(m.theme.HeaderSubtitle.Render(i18n.T("Staff") + " " + m.sess.NumberPhone))
	b.WriteString("\n\n")

	b.WriteString(m.viewTabBar())
	b.WriteString("\n\n")

	switch {
	case m.formOpen:
		b.WriteString(m.viewServiceForm())
	case m.catFormOpen:
		b.WriteString(m.viewCategoryForm())
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
	for t := TabBookings; t < tabCount; t++ {
		if t == m.tab {
			labels = append(labels, m.theme.TabActive.Render(t.String()))
		} else {
			labels = append(labels, m.theme.Tab.Render(t.String()))
		}
	}
	return m.theme.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, labels...))
}

func (m *Model) viewTab() string {
	switch m.tab {
	case TabBookings:
		return m.viewBookings()
	case TabServices:
		return m.viewServices()
	case TabCategories:
		return m.viewCategories()
	case TabRatings:
		return m.viewRatings()
	}
	return ""
}

func (m *Model) viewBookings() string {
	if len(m.bookings) == 0 {
		return m.theme.Muted.Render(i18n.T("No bookings."))
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

func (m *Model) viewServices() string {
	if len(m.services) == 0 {
		return m.theme.Muted.Render(i18n.T("No services here yet."))
	}
	var b strings.Builder
	for i, svc := range m.services {
		marker := "  "
		if i == m.svcCursor {
			marker = "> "
		}
		name := util.PadWidth(util.TruncateWidth(svc.Name, svcNameWidth), svcNameWidth)
		b.WriteString(marker + m.theme.CardTitle.Render(name))
		b.WriteString("  " + m.theme.Price.Render(strconv.FormatInt(svc.Price, 10)+"đ"))
		b.WriteString("  " + m.theme.CardMeta.Render(i18n.T("%d min", svc.DurationMin)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewCategories() string {
	if len(m.categories) == 0 {
		return m.theme.Muted.Render(i18n.T("No categories yet."))
	}
	var b strings.Builder
	for i, cat := range m.categories {
		marker := "  "
		if i == m.catCursor {
			marker = "> "
		}
		b.WriteString(marker + cat.Name + "\n")
	}
	return b.String()
}

func (m *Model) viewRatings() string {
	if len(m.ratings) == 0 {
		return m.theme.Muted.Render(i18n.T("No ratings yet."))
	}
	var b strings.Builder
	for i, r := range m.ratings {
		marker := "  "
		if i == m.ratingCursor {
			marker = "> "
		}
		b.WriteString(marker + m.theme.RatingStars.Render(strings.Repeat("*", r.Score)))
		if r.Comment != "" {
			b.WriteString(" " + r.Comment)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewServiceForm() string {
	var b strings.Builder
	title := i18n.T("New service")
	if m.editID != 0 {
		title = i18n.T("Edit service")
	}
	b.WriteString(m.theme.FormTitle.Render(title) + "\n")
	labels := []string{i18n.T("Name"), i18n.T("Category ID"), i18n.T("Price (VND)"), i18n.T("Duration (minutes)")}
	for i, in := range m.formInputs {
		b.WriteString(m.theme.FieldLabel.Render(labels[i]) + "\n")
		b.WriteString(in.View() + "\n")
	}
	return m.theme.FormBox.Render(b.String())
}

func (m *Model) viewCategoryForm() string {
	var b strings.Builder
	title := i18n.T("New category")
	if m.catEditID != 0 {
		title = i18n.T("Edit category")
	}
	b.WriteString(m.theme.FormTitle.Render(title) + "\n")
	b.WriteString(m.catInput.View())
	return m.theme.FormBox.Render(b.String())
}

func (m *Model) viewStatusBar() string {
	var shortcuts [][2]string
	switch m.tab {
	case TabBookings:
		shortcuts = [][2]string{{"c", "confirm"}, {"d", "done"}, {"x", "cancel"}}
	case TabServices, TabCategories:
		shortcuts = [][2]string{{"n", "new"}, {"e", "edit"}, {"x", "delete"}}
	default:
		shortcuts = [][2]string{{"r", "refresh"}}
	}
	shortcuts = append(shortcuts, [2]string{"tab", "switch"}, [2]string{"C-l", "sign out"})

	parts := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		parts = append(parts, m.theme.ShortcutKey.Render(s[0])+" "+m.theme.ShortcutDesc.Render(s[1]))
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}
