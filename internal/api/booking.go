// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
)

// =============================================================================
// BOOKING TYPES
// =============================================================================

// Booking statuses as the backend reports them.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingDone      = "done"
	BookingCancelled = "cancelled"
)

// Booking is an appointment for a service.
type Booking struct {
	ID          int    `json:"id"`
	ServiceID   int    `json:"service_id"`
	ServiceName string `json:"service_name"`
	TimeStart   string `json:"time_start"` // RFC 3339 from the backend
	Status      string `json:"status"`
	Note        string `json:"note"`
}

// Notification is a message pushed to the customer.
type Notification struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// Profile is the signed-in user's account record.
type Profile struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	NumberPhone string `json:"numberPhone"`
	Avatar      string `json:"avatar"`
	RoleID      int    `json:"roleId"`
}

// =============================================================================
// BOOKING OPERATIONS (authenticated)
// =============================================================================

// BookingRequest creates an appointment.
type BookingRequest struct {
	ServiceID int    `json:"service_id"`
	TimeStart string `json:"time_start"`
	Note      string `json:"note,omitempty"`
}

// CreateBooking books a service. Conflict resolution happens server-side;
// a slot clash comes back as a *ServerError with the backend's message.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) error {
	_, err := c.call(ctx, http.MethodPost, "/booking", req, "")
	return err
}

// Bookings lists the customer's appointments.
func (c *Client) Bookings(ctx context.Context) ([]Booking, error) {
	var out []Booking
	if err := c.getInto(ctx, "/booking", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelBooking cancels an appointment.
func (c *Client) CancelBooking(ctx context.Context, id int) error {
	_, err := c.call(ctx, http.MethodPut, fmt.Sprintf("/booking/%d/cancel", id), nil, "")
	return err
}

// =============================================================================
// FAVORITES
// =============================================================================

// Favorites lists the customer's favorite services.
func (c *Client) Favorites(ctx context.Context) ([]Service, error) {
	var out []Service
	if err := c.getInto(ctx, "/favorite", &out); err != nil {
		return nil, err
	}
	return out, nil
}

type favoriteRequest struct {
	ServiceID int `json:"service_id"`
}

// AddFavorite marks a service as favorite.
func (c *Client) AddFavorite(ctx context.Context, serviceID int) error {
	_, err := c.call(ctx, http.MethodPost, "/favorite", favoriteRequest{ServiceID: serviceID}, "")
	return err
}

// RemoveFavorite unmarks a favorite service.
func (c *Client) RemoveFavorite(ctx context.Context, serviceID int) error {
	_, err := c.call(ctx, http.MethodDelete, fmt.Sprintf("/favorite/%d", serviceID), nil, "")
	return err
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// Notifications lists the customer's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var out []Notification
	if err := c.getInto(ctx, "/notification", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	_, err := c.call(ctx, http.MethodPut, fmt.Sprintf("/notification/%d/read", id), nil, "")
	return err
}

// =============================================================================
// PROFILE
// =============================================================================

// GetProfile fetches the signed-in user's profile. The session store merges
// incidental fields (avatar) from this without touching the token.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.getInto(ctx, "/user/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProfileUpdate carries editable profile fields.
type ProfileUpdate struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// UpdateProfile edits the signed-in user's profile.
func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdate) error {
	_, err := c.call(ctx, http.MethodPut, "/user/profile", req, "")
	return err
}
