// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/session"
)

func startTestServer(t *testing.T) (*Server, *api.Client) {
	t.Helper()
	srv := New(Options{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, api.New(ts.URL + "/api/v1")
}

const (
	testPhone    = "0912345678"
	testPassword = "secret1"
)

func registerAndVerify(t *testing.T, srv *Server, client *api.Client) {
	t.Helper()
	ctx := context.Background()

	err := client.Register(ctx, api.RegisterRequest{
		FullName:    "Ngoc Anh",
		Email:       "ngoc@example.com",
		NumberPhone: testPhone,
		Password:    testPassword,
	})
	require.NoError(t, err)

	code := srv.DebugOTP(testPhone)
	require.NotEmpty(t, code)
	require.NoError(t, client.VerifyOTP(ctx, testPhone, code))
}

func TestFullAuthFlow(t *testing.T) {
	srv, client := startTestServer(t)
	ctx := context.Background()

	// Register, then attempt login before verification.
	require.NoError(t, client.Register(ctx, api.RegisterRequest{
		FullName:    "Ngoc Anh",
		Email:       "ngoc@example.com",
		NumberPhone: testPhone,
		Password:    testPassword,
	}))

	_, err := client.Login(ctx, testPhone, testPassword)
	var serverErr *api.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusForbidden, serverErr.Status)

	// Wrong code rejected, right code accepted.
	err = client.VerifyOTP(ctx, testPhone, "000000")
	require.Error(t, err)

	code := srv.DebugOTP(testPhone)
	require.NotEmpty(t, code)
	require.NoError(t, client.VerifyOTP(ctx, testPhone, code))

	// Login and decode the token the way the app does.
	token, err := client.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)

	sess, err := session.FromToken(token)
	require.NoError(t, err)
	assert.Equal(t, testPhone, sess.NumberPhone)
	assert.Equal(t, session.RoleCustomer, sess.RoleID)

	// Forgot password round trip.
	credential, err := client.RequestResetOTP(ctx, testPhone)
	require.NoError(t, err)
	require.NotEmpty(t, credential)

	resetCode := srv.DebugOTP(testPhone)
	require.NotEmpty(t, resetCode)
	require.NoError(t, client.VerifyResetOTP(ctx, credential, resetCode))
	require.NoError(t, client.ResetPassword(ctx, credential, "changed1"))

	// Old password dead, new password live, credential single-use.
	_, err = client.Login(ctx, testPhone, testPassword)
	require.Error(t, err)
	_, err = client.Login(ctx, testPhone, "changed1")
	require.NoError(t, err)
	require.Error(t, client.ResetPassword(ctx, credential, "again12"))
}

func TestResendThrottle(t *testing.T) {
	srv, client := startTestServer(t)
	ctx := context.Background()
	registerAndVerify(t, srv, client)

	_, err := client.RequestResetOTP(ctx, testPhone)
	require.NoError(t, err)

	// An immediate resend hits the server-side throttle.
	_, err = client.RequestResetOTP(ctx, testPhone)
	var serverErr *api.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusTooManyRequests, serverErr.Status)
}

func TestVerifyAttemptCap(t *testing.T) {
	srv, client := startTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, api.RegisterRequest{
		FullName:    "Ngoc Anh",
		Email:       "ngoc@example.com",
		NumberPhone: testPhone,
		Password:    testPassword,
	}))

	for i := 0; i < maxOTPAttempts; i++ {
		require.Error(t, client.VerifyOTP(ctx, testPhone, "000000"))
	}

	// The cap now rejects even the right code.
	code := srv.DebugOTP(testPhone)
	err := client.VerifyOTP(ctx, testPhone, code)
	var serverErr *api.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusTooManyRequests, serverErr.Status)
}

func TestVerifyResetAcceptsBodyCredential(t *testing.T) {
	srv, client := startTestServer(t)
	ctx := context.Background()
	registerAndVerify(t, srv, client)

	credential, err := client.RequestResetOTP(ctx, testPhone)
	require.NoError(t, err)
	code := srv.DebugOTP(testPhone)

	// Raw request with the credential as a body field and no header.
	body, _ := json.Marshal(map[string]string{"otp": code, "reset_token": credential})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify-reset-otp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	srv, client := startTestServer(t)
	ctx := context.Background()
	registerAndVerify(t, srv, client)

	err := client.Register(ctx, api.RegisterRequest{
		FullName:    "Someone Else",
		Email:       "other@example.com",
		NumberPhone: testPhone,
		Password:    "another1",
	})
	var serverErr *api.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusConflict, serverErr.Status)
}

func TestCustomerEndpoints(t *testing.T) {
	srv, client := startTestServer(t)
	ctx := context.Background()
	registerAndVerify(t, srv, client)

	token, err := client.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)
	client.SetToken(token)

	// Public catalog.
	categories, err := client.Categories(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, categories)

	services, err := client.Services(ctx, api.ServiceQuery{CategoryID: 1})
	require.NoError(t, err)
	require.NotEmpty(t, services)
	for _, svc := range services {
		assert.Equal(t, 1, svc.CategoryID)
	}

	found, err := client.Services(ctx, api.ServiceQuery{Query: "massage"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Hot Stone Massage", found[0].Name)

	// Booking, slot conflict, cancel.
	slot := "2026-09-01T10:00:00Z"
	require.NoError(t, client.CreateBooking(ctx, api.BookingRequest{ServiceID: 1, TimeStart: slot}))

	err = client.CreateBooking(ctx, api.BookingRequest{ServiceID: 1, TimeStart: slot})
	var serverErr *api.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusConflict, serverErr.Status)

	bookings, err := client.Bookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "pending", bookings[0].Status)

	require.NoError(t, client.CancelBooking(ctx, bookings[0].ID))
	bookings, err = client.Bookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", bookings[0].Status)

	// Favorites.
	require.NoError(t, client.AddFavorite(ctx, 3))
	favorites, err := client.Favorites(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, 3, favorites[0].ID)
	require.NoError(t, client.RemoveFavorite(ctx, 3))

	// The welcome notification from verification is there.
	notifications, err := client.Notifications(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, notifications)
	require.NoError(t, client.MarkNotificationRead(ctx, notifications[0].ID))

	// Profile.
	profile, err := client.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, testPhone, profile.NumberPhone)

	require.NoError(t, client.UpdateProfile(ctx, api.ProfileUpdate{FullName: "Ngoc Anh Tran"}))
	profile, err = client.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ngoc Anh Tran", profile.FullName)

	// Device token is best-effort but should succeed here.
	require.NoError(t, client.RegisterDeviceToken(ctx, "device-token-1", "test"))

	// Rating.
	require.NoError(t, client.SubmitRating(ctx, api.RatingRequest{ServiceID: 1, Score: 5, Comment: "Great"}))
	ratings, err := client.Ratings(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, ratings)
}

func TestStaffEndpoints(t *testing.T) {
	srv, customer := startTestServer(t)
	ctx := context.Background()
	registerAndVerify(t, srv, customer)

	token, err := customer.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)
	customer.SetToken(token)
	require.NoError(t, customer.CreateBooking(ctx, api.BookingRequest{ServiceID: 1, TimeStart: "2026-09-01T10:00:00Z"}))

	// Customers are shut out of the staff area.
	_, err = customer.StaffBookings(ctx)
	var serverErr *api.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusForbidden, serverErr.Status)

	// Seeded staff account manages the booking.
	staff := api.New(customer.BaseURL())
	staffToken, err := staff.Login(ctx, "0900000001", "staffpass")
	require.NoError(t, err)
	staff.SetToken(staffToken)

	sess, err := session.FromToken(staffToken)
	require.NoError(t, err)
	assert.True(t, sess.IsStaff())

	bookings, err := staff.StaffBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	require.NoError(t, staff.SetBookingStatus(ctx, bookings[0].ID, api.BookingConfirmed))

	// The status change notifies the customer.
	notifications, err := customer.Notifications(ctx)
	require.NoError(t, err)
	var sawUpdate bool
	for _, n := range notifications {
		if n.Title == "Booking update" {
			sawUpdate = true
		}
	}
	assert.True(t, sawUpdate)

	// Catalog management.
	require.NoError(t, staff.CreateCategory(ctx, api.CategoryInput{Name: "Hair"}))
	require.NoError(t, staff.CreateService(ctx, api.ServiceInput{Name: "Haircut", CategoryID: 1, Price: 150000}))

	err = staff.DeleteCategory(ctx, 1)
	require.True(t, errors.As(err, &serverErr), "category with services must not be deletable")
	assert.Equal(t, http.StatusConflict, serverErr.Status)

	ratings, err := staff.StaffRatings(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, ratings)
}
