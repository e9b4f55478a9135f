// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package staff

import "github.com/velora-app/velora-tui/internal/api"

type bookingsMsg struct {
	bookings []api.Booking
	err      error
}

type servicesMsg struct {
	services []api.Service
	err      error
}

type categoriesMsg struct {
	categories []api.Category
	err        error
}

type ratingsMsg struct {
	ratings []api.Rating
	err     error
}

// actionDoneMsg reports a mutation and names the tab to refetch.
type actionDoneMsg struct {
	notice  string
	refresh Tab
	err     error
}

// LogoutMsg tells the parent program the staff member signed out.
type LogoutMsg struct{}
