// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// The JSON field names here are the client contract; they must not drift.

type categoryJSON struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type serviceJSON struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	CategoryID  int     `json:"category_id"`
	Price       int64   `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	AvgRating   float64 `json:"avg_rating"`
	DurationMin int     `json:"duration_min"`
}

type ratingJSON struct {
	ID        int    `json:"id"`
	ServiceID int    `json:"service_id"`
	UserID    int64  `json:"user_id"`
	Score     int    `json:"score"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

type bookingJSON struct {
	ID          int    `json:"id"`
	ServiceID   int    `json:"service_id"`
	ServiceName string `json:"service_name"`
	TimeStart   string `json:"time_start"`
	Status      string `json:"status"`
	Note        string `json:"note"`
}

type notificationJSON struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

type profileJSON struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	NumberPhone string `json:"numberPhone"`
	Avatar      string `json:"avatar"`
	RoleID      int    `json:"roleId"`
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil && id > 0
}

// =============================================================================
// CATALOG
// =============================================================================

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]categoryJSON, 0, len(s.store.categories))
	for _, c := range s.store.categories {
		out = append(out, categoryJSON{ID: c.ID, Name: c.Name})
	}
	s.writeData(w, out)
}

// avgRating computes the mean review score for a service. Caller holds the
// store lock.
func (s *Server) avgRating(serviceID int) float64 {
	var sum, n int
	for _, rt := range s.store.ratings {
		if rt.ServiceID == serviceID {
			sum += rt.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func (s *Server) serviceToJSON(svc service) serviceJSON {
	return serviceJSON{
		ID:          svc.ID,
		Name:        svc.Name,
		CategoryID:  svc.CategoryID,
		Price:       svc.Price,
		Description: svc.Description,
		Image:       svc.Image,
		AvgRating:   s.avgRating(svc.ID),
		DurationMin: svc.DurationMin,
	}
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	categoryID, _ := strconv.Atoi(r.URL.Query().Get("category"))
	query := strings.ToLower(r.URL.Query().Get("q"))

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]serviceJSON, 0, len(s.store.services))
	for _, svc := range s.store.services {
		if categoryID > 0 && svc.CategoryID != categoryID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(svc.Name), query) {
			continue
		}
		out = append(out, s.serviceToJSON(svc))
	}
	s.writeData(w, out)
}

func (s *Server) handleServiceDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, 400, "Invalid service id")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	svc := s.store.serviceByID(id)
	if svc == nil {
		s.writeError(w, http.StatusNotFound, 404, "Service not found")
		return
	}
	s.writeData(w, s.serviceToJSON(*svc))
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	serviceID, _ := strconv.Atoi(r.URL.Query().Get("service"))

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]ratingJSON, 0)
	for _, rt := range s.store.ratings {
		if serviceID > 0 && rt.ServiceID != serviceID {
			continue
		}
		out = append(out, ratingJSON(rt))
	}
	s.writeData(w, out)
}

type ratingBody struct {
	ServiceID int    `json:"service_id"`
	Score     int    `json:"score"`
	Comment   string `json:"comment"`
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var req ratingBody
	if !s.decode(w, r, &req) {
		return
	}
	if req.Score < 1 || req.Score > 5 {
		s.writeError(w, http.StatusBadRequest, 400, "Score must be between 1 and 5")
		return
	}

	u := currentUser(r)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if s.store.serviceByID(req.ServiceID) == nil {
		s.writeError(w, http.StatusNotFound, 404, "Service not found")
		return
	}
	s.store.ratings = append(s.store.ratings, rating{
		ID:        s.store.nextID,
		ServiceID: req.ServiceID,
		UserID:    u.ID,
		Score:     req.Score,
		Comment:   req.Comment,
		CreatedAt: time.Now().Format(time.RFC3339),
	})
	s.store.nextID++
	s.writeOK(w, "Thank you for your review")
}

// =============================================================================
// BOOKINGS
// =============================================================================

type bookingBody struct {
	ServiceID int    `json:"service_id"`
	TimeStart string `json:"time_start"`
	Note      string `json:"note"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingBody
	if !s.decode(w, r, &req) {
		return
	}
	if _, err := time.Parse(time.RFC3339, req.TimeStart); err != nil {
		s.writeError(w, http.StatusBadRequest, 400, "time_start must be RFC 3339")
		return
	}

	u := currentUser(r)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	svc := s.store.serviceByID(req.ServiceID)
	if svc == nil {
		s.writeError(w, http.StatusNotFound, 404, "Service not found")
		return
	}

	// One active booking per slot per service.
	for _, b := range s.store.bookings {
		if b.ServiceID == req.ServiceID && b.TimeStart == req.TimeStart &&
			b.Status != "cancelled" {
			s.writeError(w, http.StatusConflict, 409, "This time slot is already booked")
			return
		}
	}

	s.store.bookings = append(s.store.bookings, booking{
		ID:          s.store.nextBookingID,
		UserID:      u.ID,
		ServiceID:   req.ServiceID,
		ServiceName: svc.Name,
		TimeStart:   req.TimeStart,
		Status:      "pending",
		Note:        req.Note,
	})
	s.store.nextBookingID++
	s.writeOK(w, "Booking created")
}

var validStatuses = map[string]bool{
	"pending":   true,
	"confirmed": true,
	"done":      true,
	"cancelled": true,
}

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]bookingJSON, 0)
	for _, b := range s.store.bookings {
		if b.UserID != u.ID {
			continue
		}
		out = append(out, bookingJSON{
			ID: b.ID, ServiceID: b.ServiceID, ServiceName: b.ServiceName,
			TimeStart: b.TimeStart, Status: b.Status, Note: b.Note,
		})
	}
	s.writeData(w, out)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, 400, "Invalid booking id")
		return
	}
	u := currentUser(r)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i := range s.store.bookings {
		b := &s.store.bookings[i]
		if b.ID != id || b.UserID != u.ID {
			continue
		}
		if b.Status == "done" {
			s.writeError(w, http.StatusConflict, 409, "Completed bookings cannot be cancelled")
			return
		}
		b.Status = "cancelled"
		s.writeOK(w, "Booking cancelled")
		return
	}
	s.writeError(w, http.StatusNotFound, 404, "Booking not found")
}

// =============================================================================
// FAVORITES
// =============================================================================

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]serviceJSON, 0)
	for id := range s.store.favorites[u.ID] {
		if svc := s.store.serviceByID(id); svc != nil {
			out = append(out, s.serviceToJSON(*svc))
		}
	}
	s.writeData(w, out)
}

type favoriteBody struct {
	ServiceID int `json:"service_id"`
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteBody
	if !s.decode(w, r, &req) {
		return
	}
	u := currentUser(r)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if s.store.serviceByID(req.ServiceID) == nil {
		s.writeError(w, http.StatusNotFound, 404, "Service not found")
		return
	}
	if s.store.favorites[u.ID] == nil {
		s.store.favorites[u.ID] = make(map[int]bool)
	}
	s.store.favorites[u.ID][req.ServiceID] = true
	s.writeOK(w, "Added to favorites")
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, 400, "Invalid service id")
		return
	}
	u := currentUser(r)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	delete(s.store.favorites[u.ID], id)
	s.writeOK(w, "Removed from favorites")
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]notificationJSON, 0)
	// Newest first.
	for i := len(s.store.notifications) - 1; i >= 0; i-- {
		n := s.store.notifications[i]
		if n.UserID != u.ID {
			continue
		}
		out = append(out, notificationJSON{
			ID: n.ID, Title: n.Title, Body: n.Body, Read: n.Read, CreatedAt: n.CreatedAt,
		})
	}
	s.writeData(w, out)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, 400, "Invalid notification id")
		return
	}
	u := currentUser(r)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i := range s.store.notifications {
		n := &s.store.notifications[i]
		if n.ID == id && n.UserID == u.ID {
			n.Read = true
			s.writeOK(w, "Marked as read")
			return
		}
	}
	s.writeError(w, http.StatusNotFound, 404, "Notification not found")
}

// =============================================================================
// PROFILE
// =============================================================================

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	s.writeData(w, profileJSON{
		ID: u.ID, FullName: u.FullName, Email: u.Email,
		NumberPhone: u.NumberPhone, Avatar: u.Avatar, RoleID: u.RoleID,
	})
}

type profileUpdateBody struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateBody
	if !s.decode(w, r, &req) {
		return
	}
	u := currentUser(r)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if req.FullName != "" {
		u.FullName = req.FullName
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.Avatar != "" {
		u.Avatar = req.Avatar
	}
	s.writeOK(w, "Profile updated")
}

type deviceTokenBody struct {
	Token  string `json:"token"`
	Device string `json:"device"`
}

func (s *Server) handleDeviceToken(w http.ResponseWriter, r *http.Request) {
	var req deviceTokenBody
	if !s.decode(w, r, &req) {
		return
	}
	u := currentUser(r)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	s.store.deviceTokens[u.ID] = req.Token
	s.writeOK(w, "Device token registered")
}

// =============================================================================
// STAFF
// =============================================================================

func (s *Server) handleStaffBookings(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]bookingJSON, 0, len(s.store.bookings))
	for _, b := range s.store.bookings {
		out = append(out, bookingJSON{
			ID: b.ID, ServiceID: b.ServiceID, ServiceName: b.ServiceName,
			TimeStart: b.TimeStart, Status: b.Status, Note: b.Note,
		})
	}
	s.writeData(w, out)
}

type statusBody struct {
	Status string `json:"status"`
}

func (s *Server) handleSetBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, 400, "Invalid booking id")
		return
	}
	var req statusBody
	if !s.decode(w, r, &req) {
		return
	}
	if !validStatuses[req.Status] {
		s.writeError(w, http.StatusBadRequest, 400, "Unknown booking status")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i := range s.store.bookings {
		b := &s.store.bookings[i]
		if b.ID != id {
			continue
		}
		b.Status = req.Status
		s.store.pushNotification(b.UserID, "Booking update",
			b.ServiceName+" is now "+req.Status)
		s.writeOK(w, "Status updated")
		return
	}
	s.writeError(w, http.StatusNotFound, 404, "Booking not found")
}

type serviceBody struct {
	Name        string `json:"name"`
	CategoryID  int    `json:"category_id"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	DurationMin int    `json:"duration_min"`
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var req serviceBody
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.CategoryID <= 0 || req.Price <= 0 {
		s.writeError(w, http.StatusBadRequest, 400, "Name, category and price are required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	s.store.services = append(s.store.services, service{
		ID: s.store.nextID, Name: req.Name, CategoryID: req.CategoryID,
		Price: req.Price, Description: req.Description, Image: req.Image,
		DurationMin: req.DurationMin,
	})
	s.store.nextID++
	s.writeOK(w, "Service created")
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, 400, "Invalid service id")
		return
	}
	var req serviceBody
	if !s.decode(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	svc := s.store.serviceByID(id)
	if svc == nil {
		s.writeError(w, http.StatusNotFound, 404, "Service not found")
		return
	}
	if req.Name != "" {
		svc.Name = req.Name
	}
	if req.CategoryID > 0 {
		svc.CategoryID = req.CategoryID
	}
	if req.Price > 0 {
		svc.Price = req.Price
	}
	if req.Description != "" {
		svc.Description = req.Description
	}
	if req.Image != "" {
		svc.Image = req.Image
	}
	if req.DurationMin > 0 {
		svc.DurationMin = req.DurationMin
	}
	s.writeOK(w, "Service updated")
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, 400, "Invalid service id")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, svc := range s.store.services {
		if svc.ID == id {
			s.store.services = append(s.store.services[:i], s.store.services[i+1:]...)
			s.writeOK(w, "Service deleted")
			return
		}
	}
	s.writeError(w, http.StatusNotFound, 404, "Service not found")
}

type categoryBody struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryBody
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, 400, "Name is required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	s.store.categories = append(s.store.categories, category{ID: s.store.nextID, Name: req.Name})
	s.store.nextID++
	s.writeOK(w, "Category created")
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, 400, "Invalid category id")
		return
	}
	var req categoryBody
	if !s.decode(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i := range s.store.categories {
		if s.store.categories[i].ID == id {
			s.store.categories[i].Name = req.Name
			s.writeOK(w, "Category updated")
			return
		}
	}
	s.writeError(w, http.StatusNotFound, 404, "Category not found")
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, 400, "Invalid category id")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, svc := range s.store.services {
		if svc.CategoryID == id {
			s.writeError(w, http.StatusConflict, 409, "Category still has services")
			return
		}
	}
	for i, c := range s.store.categories {
		if c.ID == id {
			s.store.categories = append(s.store.categories[:i], s.store.categories[i+1:]...)
			s.writeOK(w, "Category deleted")
			return
		}
	}
	s.writeError(w, http.StatusNotFound, 404, "Category not found")
}

func (s *Server) handleStaffRatings(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]ratingJSON, 0, len(s.store.ratings))
	for _, rt := range s.store.ratings {
		out = append(out, ratingJSON(rt))
	}
	s.writeData(w, out)
}
