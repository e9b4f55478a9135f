// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package tabs

import "github.com/velora-app/velora-tui/internal/api"

// =============================================================================
// FETCH RESULT MESSAGES
// =============================================================================

// categoriesMsg delivers the category list. cached is true when the data
// came from the local cache because the server was unreachable.
type categoriesMsg struct {
	categories []api.Category
	cached     bool
	err        error
}

type servicesMsg struct {
	services []api.Service
	cached   bool
	err      error
}

type searchResultsMsg struct {
	query    string
	services []api.Service
	err      error
}

// detailMsg delivers one service plus its glamour-rendered description and
// reviews.
type detailMsg struct {
	service  *api.Service
	rendered string
	ratings  []api.Rating
	err      error
}

type bookingsMsg struct {
	bookings []api.Booking
	err      error
}

type favoritesMsg struct {
	services []api.Service
	err      error
}

type notificationsMsg struct {
	notifications []api.Notification
	cached        bool
	err           error
}

type profileMsg struct {
	profile *api.Profile
	err     error
}

// actionDoneMsg reports a mutation (book, cancel, favorite, rate, edit) and
// names the tab whose data should be refetched.
type actionDoneMsg struct {
	notice  string
	refresh Tab
	err     error
}

// =============================================================================
// OUTBOUND MESSAGES
// =============================================================================

// LogoutMsg tells the parent program the customer signed out.
type LogoutMsg struct{}
