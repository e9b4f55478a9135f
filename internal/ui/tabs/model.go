// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package tabs

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/i18n"
	"github.com/velora-app/velora-tui/internal/session"
	"github.com/velora-app/velora-tui/internal/storage"
	"github.com/velora-app/velora-tui/internal/ui/styles"
)

// Tab identifies one of the customer tabs.
type Tab int

const (
	TabBrowse Tab = iota
	TabSearch
	TabBookings
	TabFavorites
	TabNotifications
	TabProfile

	tabCount
)

// String returns the tab label shown in the tab bar.
func (t Tab) String() string {
	switch t {
	case TabBrowse:
		return i18n.T("Browse")
	case TabSearch:
		return i18n.T("Search")
	case TabBookings:
		return i18n.T("Bookings")
	case TabFavorites:
		return i18n.T("Favorites")
	case TabNotifications:
		return i18n.T("Alerts")
	case TabProfile:
		return i18n.T("Profile")
	default:
		return "?"
	}
}

// Model is the customer area.
type Model struct {
	client *api.Client
	cache  *storage.Cache // nil when caching is disabled
	theme  *styles.Theme
	sess   session.Session
	keys   KeyMap

	tab     Tab
	loading bool
	spinner spinner.Model

	// notice is the transient status line; offline marks cache-served data.
	notice  string
	isErr   bool
	offline bool

	// Browse state.
	categories []api.Category
	catCursor  int
	services   []api.Service
	svcCursor  int

	// Detail overlay, shown on top of browse/search/favorites.
	detail         *api.Service
	detailRendered string
	ratings        []api.Rating
	bookingInput   textinput.Model
	bookingOpen    bool

	// Search state.
	searchInput textinput.Model
	results     []api.Service
	resCursor   int

	bookings   []api.Booking
	bookCursor int

	favorites []api.Service
	favCursor int

	notifications []api.Notification
	notifCursor   int

	profile   *api.Profile
	nameInput textinput.Model
	editOpen  bool

	width  int
	height int
}

// New creates the customer area for a signed-in session.
func New(client *api.Client, cache *storage.Cache, theme *styles.Theme, sess session.Session) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	search := textinput.New()
	search.Placeholder = i18n.T("Search services")
	search.Prompt = "/ "

	booking := textinput.New()
	booking.Placeholder = "2026-09-01T10:00:00Z"
	booking.Prompt = "> "

	name := textinput.New()
	name.Prompt = "> "

	return &Model{
		client:       client,
		cache:        cache,
		theme:        theme,
		sess:         sess,
		keys:         DefaultKeyMap(),
		spinner:      sp,
		searchInput:  search,
		bookingInput: booking,
		nameInput:    name,
	}
}

// Init implements tea.Model: the browse tab loads immediately.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.fetchCategoriesCmd(), m.fetchServicesCmd(0), m.spinner.Tick)
}

// Tab returns the active tab, for tests.
func (m *Model) Tab() Tab {
	return m.tab
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.isErr = isErr
}

// refreshCmd returns the fetch command for a tab.
func (m *Model) refreshCmd(tab Tab) tea.Cmd {
	switch tab {
	case TabBrowse:
		categoryID := 0
		if m.catCursor > 0 && m.catCursor <= len(m.categories) {
			categoryID = m.categories[m.catCursor-1].ID
		}
		return tea.Batch(m.fetchCategoriesCmd(), m.fetchServicesCmd(categoryID))
	case TabSearch:
		if q := m.searchInput.Value(); q != "" {
			return m.searchCmd(q)
		}
		return nil
	case TabBookings:
		return m.fetchBookingsCmd()
	case TabFavorites:
		return m.fetchFavoritesCmd()
	case TabNotifications:
		return m.fetchNotificationsCmd()
	case TabProfile:
		return m.fetchProfileCmd()
	}
	return nil
}
