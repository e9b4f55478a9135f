// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package staff

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/i18n"
	"github.com/velora-app/velora-tui/internal/session"
	"github.com/velora-app/velora-tui/internal/ui/styles"
)

// Tab identifies one of the staff tabs.
type Tab int

const (
	TabBookings Tab = iota
	TabServices
	TabCategories
	TabRatings

	tabCount
)

// String returns the tab label shown in the tab bar.
func (t Tab) String() string {
	switch t {
	case TabBookings:
		return i18n.T("Bookings")
	case TabServices:
		return i18n.T("Services")
	case TabCategories:
		return i18n.T("Categories")
	case TabRatings:
		return i18n.T("Ratings")
	default:
		return "?"
	}
}

// Service form field order.
const (
	formFieldName = iota
	formFieldCategory
	formFieldPrice
	formFieldDuration
	formFieldCount
)

// KeyMap defines the keyboard bindings for the staff area.
type KeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Back    key.Binding
	Refresh key.Binding
	Confirm key.Binding
	Done    key.Binding
	Cancel  key.Binding
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Logout  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "move down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "confirm booking"),
		),
		Done: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "mark done"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cancel booking"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "sign out"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the staff area.
type Model struct {
	client *api.Client
	theme  *styles.Theme
	sess   session.Session
	keys   KeyMap

	tab     Tab
	loading bool
	spinner spinner.Model

	notice string
	isErr  bool

	bookings   []api.Booking
	bookCursor int

	services  []api.Service
	svcCursor int

	categories []api.Category
	catCursor  int

	ratings      []api.Rating
	ratingCursor int

	// Service form. editID is zero for create.
	formOpen   bool
	formInputs []textinput.Model
	formFocus  int
	editID     int

	// Category name prompt. catEditID is zero for create.
	catFormOpen bool
	catInput    textinput.Model
	catEditID   int

	width  int
	height int
}

// New creates the staff area for a signed-in session.
func New(client *api.Client, theme *styles.Theme, sess session.Session) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	catInput := textinput.New()
	catInput.Prompt = "> "

	return &Model{
		client:   client,
		theme:    theme,
		sess:     sess,
		keys:     DefaultKeyMap(),
		spinner:  sp,
		catInput: catInput,
	}
}

// Init implements tea.Model: the bookings tab loads immediately.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.fetchBookingsCmd(), m.spinner.Tick)
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
	case TabBookings:
		return m.fetchBookingsCmd()
	case TabServices:
		return m.fetchServicesCmd()
	case TabCategories:
		return m.fetchCategoriesCmd()
	case TabRatings:
		return m.fetchRatingsCmd()
	}
	return nil
}

// openServiceForm prepares the four-field form, prefilled when editing.
func (m *Model) openServiceForm(svc *api.Service) {
	labels := []string{i18n.T("Name"), i18n.T("Category ID"), i18n.T("Price (VND)"), i18n.T("Duration (minutes)")}
	m.formInputs = make([]textinput.Model, formFieldCount)
	for i := range m.formInputs {
		in := textinput.New()
		in.Prompt = "> "
		in.Placeholder = labels[i]
		m.formInputs[i] = in
	}
	m.editID = 0
	if svc != nil {
		m.editID = svc.ID
		m.formInputs[formFieldName].SetValue(svc.Name)
		m.formInputs[formFieldCategory].SetValue(strconv.Itoa(svc.CategoryID))
		m.formInputs[formFieldPrice].SetValue(strconv.FormatInt(svc.Price, 10))
		m.formInputs[formFieldDuration].SetValue(strconv.Itoa(svc.DurationMin))
	}
	m.formFocus = 0
	m.formInputs[0].Focus()
	m.formOpen = true
}
