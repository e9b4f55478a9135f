// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// =============================================================================
// CATALOG TYPES
// =============================================================================

// Category is a service grouping (nails, spa, gym, ...).
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Service is a bookable storefront service.
type Service struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	CategoryID  int     `json:"category_id"`
	Price       int64   `json:"price"` // VND, no fractional unit
	Description string  `json:"description"`
	Image       string  `json:"image"`
	AvgRating   float64 `json:"avg_rating"`
	DurationMin int     `json:"duration_min"`
}

// Rating is a customer review of a service.
type Rating struct {
	ID        int    `json:"id"`
	ServiceID int    `json:"service_id"`
	UserID    int64  `json:"user_id"`
	Score     int    `json:"score"` // 1..5
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// ServiceQuery filters the service listing. Zero values are omitted.
type ServiceQuery struct {
	CategoryID int
	Query      string
	Page       int
}

func (q ServiceQuery) encode() string {
	values := url.Values{}
	if q.CategoryID > 0 {
		values.Set("category", fmt.Sprint(q.CategoryID))
	}
	if q.Query != "" {
		values.Set("q", q.Query)
	}
	if q.Page > 0 {
		values.Set("page", fmt.Sprint(q.Page))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// =============================================================================
// CATALOG OPERATIONS
// =============================================================================

// Categories lists all service categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.getInto(ctx, "/category", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Services lists services, optionally filtered and paged.
func (c *Client) Services(ctx context.Context, q ServiceQuery) ([]Service, error) {
	var out []Service
	if err := c.getInto(ctx, "/service"+q.encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ServiceDetail fetches one service including its full description.
func (c *Client) ServiceDetail(ctx context.Context, id int) (*Service, error) {
	var out Service
	if err := c.getInto(ctx, fmt.Sprintf("/service/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ratings lists reviews for a service.
func (c *Client) Ratings(ctx context.Context, serviceID int) ([]Rating, error) {
	var out []Rating
	if err := c.getInto(ctx, fmt.Sprintf("/rating?service=%d", serviceID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RatingRequest submits a review for a completed booking.
type RatingRequest struct {
	ServiceID int    `json:"service_id"`
	Score     int    `json:"score"`
	Comment   string `json:"comment"`
}

// SubmitRating posts a review. Requires a signed-in session.
func (c *Client) SubmitRating(ctx context.Context, req RatingRequest) error {
	_, err := c.call(ctx, http.MethodPost, "/rating", req, "")
	return err
}
