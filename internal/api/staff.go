// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
)

// =============================================================================
// STAFF OPERATIONS (authenticated, staff role)
// =============================================================================

// StaffBookings lists all bookings across customers for management.
func (c *Client) StaffBookings(ctx context.Context) ([]Booking, error) {
	var out []Booking
	if err := c.getInto(ctx, "/staff/booking", &out); err != nil {
		return nil, err
	}
	return out, nil
}

type bookingStatusRequest struct {
	Status string `json:"status"`
}

// SetBookingStatus moves a booking through its lifecycle (confirm, done,
// cancel). Valid values are the Booking* status constants.
func (c *Client) SetBookingStatus(ctx context.Context, id int, status string) error {
	_, err := c.call(ctx, http.MethodPut, fmt.Sprintf("/staff/booking/%d/status", id), bookingStatusRequest{Status: status}, "")
	return err
}

// ServiceInput carries the editable fields of a service for staff CRUD.
type ServiceInput struct {
	Name        string `json:"name"`
	CategoryID  int    `json:"category_id"`
	Price       int64  `json:"price"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	DurationMin int    `json:"duration_min,omitempty"`
}

// CreateService adds a service to the catalog.
func (c *Client) CreateService(ctx context.Context, in ServiceInput) error {
	_, err := c.call(ctx, http.MethodPost, "/staff/service", in, "")
	return err
}

// UpdateService edits a service.
func (c *Client) UpdateService(ctx context.Context, id int, in ServiceInput) error {
	_, err := c.call(ctx, http.MethodPut, fmt.Sprintf("/staff/service/%d", id), in, "")
	return err
}

// DeleteService removes a service from the catalog.
func (c *Client) DeleteService(ctx context.Context, id int) error {
	_, err := c.call(ctx, http.MethodDelete, fmt.Sprintf("/staff/service/%d", id), nil, "")
	return err
}

// CategoryInput carries the editable fields of a category.
type CategoryInput struct {
	Name string `json:"name"`
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) error {
	_, err := c.call(ctx, http.MethodPost, "/staff/category", in, "")
	return err
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id int, in CategoryInput) error {
	_, err := c.call(ctx, http.MethodPut, fmt.Sprintf("/staff/category/%d", id), in, "")
	return err
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	_, err := c.call(ctx, http.MethodDelete, fmt.Sprintf("/staff/category/%d", id), nil, "")
	return err
}

// StaffRatings lists all reviews across services for the ratings overview.
func (c *Client) StaffRatings(ctx context.Context) ([]Rating, error) {
	var out []Rating
	if err := c.getInto(ctx, "/staff/rating", &out); err != nil {
		return nil, err
	}
	return out, nil
}
