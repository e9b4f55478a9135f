// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package tabs

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/i18n"
)

const requestTimeout = 20 * time.Second

// descriptionWrap is the word-wrap width for rendered service descriptions.
const descriptionWrap = 72

// =============================================================================
// CATALOG FETCHES (cache write-through)
// =============================================================================

func (m *Model) fetchCategoriesCmd() tea.Cmd {
	client, cache := m.client, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		categories, err := client.Categories(ctx)
		if err == nil {
			if cache != nil {
				cache.PutCategories(ctx, categories)
			}
			return categoriesMsg{categories: categories}
		}
		if cache != nil && errors.Is(err, api.ErrTransport) {
			if cached, _, cerr := cache.Categories(ctx); cerr == nil {
				return categoriesMsg{categories: cached, cached: true}
			}
		}
		return categoriesMsg{err: err}
	}
}

func (m *Model) fetchServicesCmd(categoryID int) tea.Cmd {
	client, cache := m.client, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		services, err := client.Services(ctx, api.ServiceQuery{CategoryID: categoryID})
		if err == nil {
			if cache != nil {
				cache.PutServices(ctx, services)
			}
			return servicesMsg{services: services}
		}
		if cache != nil && errors.Is(err, api.ErrTransport) {
			if cached, _, cerr := cache.Services(ctx, categoryID); cerr == nil {
				return servicesMsg{services: cached, cached: true}
			}
		}
		return servicesMsg{err: err}
	}
}

func (m *Model) searchCmd(query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		services, err := client.Services(ctx, api.ServiceQuery{Query: query})
		if err != nil {
			return searchResultsMsg{query: query, err: err}
		}
		return searchResultsMsg{query: query, services: services}
	}
}

// fetchDetailCmd loads one service, renders its markdown description, and
// loads its reviews.
func (m *Model) fetchDetailCmd(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc, err := client.ServiceDetail(ctx, id)
		if err != nil {
			return detailMsg{err: err}
		}

		rendered := svc.Description
		if r, rerr := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(descriptionWrap),
		); rerr == nil {
			if out, rerr := r.Render(svc.Description); rerr == nil {
				rendered = out
			}
		}

		// Reviews are decoration; the detail view works without them.
		ratings, _ := client.Ratings(ctx, id)

		return detailMsg{service: svc, rendered: rendered, ratings: ratings}
	}
}

// =============================================================================
// ACCOUNT FETCHES
// =============================================================================

func (m *Model) fetchBookingsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		bookings, err := client.Bookings(ctx)
		return bookingsMsg{bookings: bookings, err: err}
	}
}

func (m *Model) fetchFavoritesCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		services, err := client.Favorites(ctx)
		return favoritesMsg{services: services, err: err}
	}
}

func (m *Model) fetchNotificationsCmd() tea.Cmd {
	client, cache := m.client, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		notifications, err := client.Notifications(ctx)
		if err == nil {
			if cache != nil {
				cache.PutNotifications(ctx, notifications)
			}
			return notificationsMsg{notifications: notifications}
		}
		if cache != nil && errors.Is(err, api.ErrTransport) {
			if cached, _, cerr := cache.Notifications(ctx); cerr == nil {
				return notificationsMsg{notifications: cached, cached: true}
			}
		}
		return notificationsMsg{err: err}
	}
}

func (m *Model) fetchProfileCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		profile, err := client.GetProfile(ctx)
		return profileMsg{profile: profile, err: err}
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

func (m *Model) createBookingCmd(serviceID int, timeStart string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.CreateBooking(ctx, api.BookingRequest{ServiceID: serviceID, TimeStart: timeStart})
		return actionDoneMsg{notice: i18n.T("Booking created."), refresh: TabBookings, err: err}
	}
}

func (m *Model) cancelBookingCmd(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.CancelBooking(ctx, id)
		return actionDoneMsg{notice: i18n.T("Booking cancelled."), refresh: TabBookings, err: err}
	}
}

func (m *Model) addFavoriteCmd(serviceID int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.AddFavorite(ctx, serviceID)
		return actionDoneMsg{notice: i18n.T("Added to favorites."), refresh: TabFavorites, err: err}
	}
}

func (m *Model) removeFavoriteCmd(serviceID int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.RemoveFavorite(ctx, serviceID)
		return actionDoneMsg{notice: i18n.T("Removed from favorites."), refresh: TabFavorites, err: err}
	}
}

func (m *Model) markReadCmd(id int) tea.Cmd {
	client, cache := m.client, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.MarkNotificationRead(ctx, id)
		if err == nil && cache != nil {
			cache.MarkRead(ctx, id)
		}
		return actionDoneMsg{refresh: TabNotifications, err: err}
	}
}

func (m *Model) submitRatingCmd(serviceID, score int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.SubmitRating(ctx, api.RatingRequest{ServiceID: serviceID, Score: score})
		return actionDoneMsg{notice: i18n.T("Thanks for the review."), err: err}
	}
}

func (m *Model) updateProfileCmd(fullName string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.UpdateProfile(ctx, api.ProfileUpdate{FullName: fullName})
		return actionDoneMsg{notice: i18n.T("Profile updated."), refresh: TabProfile, err: err}
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
