// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package staff

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/i18n"
)

const requestTimeout = 20 * time.Second

// =============================================================================
// FETCHES
// =============================================================================

func (m *Model) fetchBookingsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		bookings, err := client.StaffBookings(ctx)
		return bookingsMsg{bookings: bookings, err: err}
	}
}

func (m *Model) fetchServicesCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		services, err := client.Services(ctx, api.ServiceQuery{})
		return servicesMsg{services: services, err: err}
	}
}

func (m *Model) fetchCategoriesCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		categories, err := client.Categories(ctx)
		return categoriesMsg{categories: categories, err: err}
	}
}

func (m *Model) fetchRatingsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ratings, err := client.StaffRatings(ctx)
		return ratingsMsg{ratings: ratings, err: err}
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

func (m *Model) setStatusCmd(id int, status string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.SetBookingStatus(ctx, id, status)
		return actionDoneMsg{notice: i18n.T("Booking updated."), refresh: TabBookings, err: err}
	}
}

func (m *Model) saveServiceCmd(id int, in api.ServiceInput) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var err error
		if id == 0 {
			err = client.CreateService(ctx, in)
		} else {
			err = client.UpdateService(ctx, id, in)
		}
		return actionDoneMsg{notice: i18n.T("Service saved."), refresh: TabServices, err: err}
	}
}

func (m *Model) deleteServiceCmd(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.DeleteService(ctx, id)
		return actionDoneMsg{notice: i18n.T("Service deleted."), refresh: TabServices, err: err}
	}
}

func (m *Model) saveCategoryCmd(id int, name string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var err error
		if id == 0 {
			err = client.CreateCategory(ctx, api.CategoryInput{Name: name})
		} else {
			err = client.UpdateCategory(ctx, id, api.CategoryInput{Name: name})
		}
		return actionDoneMsg{notice: i18n.T("Category saved."), refresh: TabCategories, err: err}
	}
}

func (m *Model) deleteCategoryCmd(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.DeleteCategory(ctx, id)
		return actionDoneMsg{notice: i18n.T("Category deleted."), refresh: TabCategories, err: err}
	}
}

// emit wraps an outbound message in a command.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// errorText maps an API error to a displayable line.
func errorText(err error) string {
	var serverErr *api.ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	if errors.Is(err, api.ErrTransport) {
		return i18n.T("Cannot connect to the server. Check your connection and try again.")
	}
	return i18n.T("Something went wrong. Please try again.")
}
