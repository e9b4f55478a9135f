// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:8990"

	// MaxRequestBodySize caps request bodies.
	MaxRequestBodySize = 1 * 1024 * 1024

	// TokenTTL is how long an issued session token stays valid.
	TokenTTL = 24 * time.Hour

	// otpPeriod is the validity window of a one-time code, in seconds.
	// Generous for a development server; nobody is racing a real SMS here.
	otpPeriod = 300

	apiPrefix = "/api/v1"
)

var otpOpts = totp.ValidateOpts{
	Period:    otpPeriod,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// =============================================================================
// SERVER
// =============================================================================

// Options configures the development server.
type Options struct {
	// Addr is the listen address (host:port).
	Addr string

	// OTPDebug logs every generated one-time code. Development convenience;
	// the codes would otherwise be unreachable without an SMS gateway.
	OTPDebug bool
}

// Server is the in-memory development backend.
type Server struct {
	opts   Options
	store  *store
	router *http.ServeMux
	server *http.Server

	// secret signs session tokens. Random per process, so restarting the
	// server invalidates existing sessions.
	secret []byte
}

// New creates a development server.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}

	s := &Server{
		opts:   opts,
		store:  newStore(),
		router: http.NewServeMux(),
		secret: secret,
	}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server: listening on %s", s.opts.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// =============================================================================
// ROUTES
// =============================================================================

func (s *Server) setupRoutes() {
	route := func(pattern string, h http.HandlerFunc) {
		s.router.HandleFunc(pattern, h)
	}

	// Auth flow
	route("POST "+apiPrefix+"/auth/login", s.handleLogin)
	route("POST "+apiPrefix+"/auth/register", s.handleRegister)
	route("POST "+apiPrefix+"/auth/verify", s.handleVerify)
	route("POST "+apiPrefix+"/auth/forgot-password", s.handleForgotPassword)
	route("POST "+apiPrefix+"/auth/verify-reset-otp", s.handleVerifyResetOTP)
	route("POST "+apiPrefix+"/auth/reset-password", s.handleResetPassword)

	// Public catalog
	route("GET "+apiPrefix+"/category", s.handleCategories)
	route("GET "+apiPrefix+"/service", s.handleServices)
	route("GET "+apiPrefix+"/service/{id}", s.handleServiceDetail)
	route("GET "+apiPrefix+"/rating", s.handleRatings)

	// Customer endpoints
	route("POST "+apiPrefix+"/rating", s.requireAuth(s.handleSubmitRating))
	route("POST "+apiPrefix+"/booking", s.requireAuth(s.handleCreateBooking))
	route("GET "+apiPrefix+"/booking", s.requireAuth(s.handleBookings))
	route("PUT "+apiPrefix+"/booking/{id}/cancel", s.requireAuth(s.handleCancelBooking))
	route("GET "+apiPrefix+"/favorite", s.requireAuth(s.handleFavorites))
	route("POST "+apiPrefix+"/favorite", s.requireAuth(s.handleAddFavorite))
	route("DELETE "+apiPrefix+"/favorite/{id}", s.requireAuth(s.handleRemoveFavorite))
	route("GET "+apiPrefix+"/notification", s.requireAuth(s.handleNotifications))
	route("PUT "+apiPrefix+"/notification/{id}/read", s.requireAuth(s.handleMarkNotificationRead))
	route("GET "+apiPrefix+"/user/profile", s.requireAuth(s.handleGetProfile))
	route("PUT "+apiPrefix+"/user/profile", s.requireAuth(s.handleUpdateProfile))
	route("POST "+apiPrefix+"/user/device-token", s.requireAuth(s.handleDeviceToken))

	// Staff endpoints
	route("GET "+apiPrefix+"/staff/booking", s.requireStaff(s.handleStaffBookings))
	route("PUT "+apiPrefix+"/staff/booking/{id}/status", s.requireStaff(s.handleSetBookingStatus))
	route("POST "+apiPrefix+"/staff/service", s.requireStaff(s.handleCreateService))
	route("PUT "+apiPrefix+"/staff/service/{id}", s.requireStaff(s.handleUpdateService))
	route("DELETE "+apiPrefix+"/staff/service/{id}", s.requireStaff(s.handleDeleteService))
	route("POST "+apiPrefix+"/staff/category", s.requireStaff(s.handleCreateCategory))
	route("PUT "+apiPrefix+"/staff/category/{id}", s.requireStaff(s.handleUpdateCategory))
	route("DELETE "+apiPrefix+"/staff/category/{id}", s.requireStaff(s.handleDeleteCategory))
	route("GET "+apiPrefix+"/staff/rating", s.requireStaff(s.handleStaffRatings))
}

// =============================================================================
// ENVELOPE
// =============================================================================

// envelope is the wire format shared with the production backend.
type envelope struct {
	Err     int         `json:"err"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func (s *Server) writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func (s *Server) writeOK(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(envelope{Success: true, Message: message})
}

func (s *Server) writeError(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Err: code, Message: message})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		s.writeError(w, http.StatusBadRequest, 400, "Invalid request format")
		return false
	}
	return true
}

// =============================================================================
// TOKENS
// =============================================================================

// issueToken signs a session token with the claims the client decodes.
func (s *Server) issueToken(u *user) (string, error) {
	claims := jwt.MapClaims{
		"id":          u.ID,
		"numberPhone": u.NumberPhone,
		"roleId":      u.RoleID,
		"exp":         time.Now().Add(TokenTTL).Unix(),
		"iat":         time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parseToken(raw string) (*user, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return nil, errors.New("missing id claim")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	u := s.store.userByID(int64(id))
	if u == nil {
		return nil, errors.New("unknown user")
	}
	return u, nil
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

type contextKey int

const userKey contextKey = 0

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			s.writeError(w, http.StatusUnauthorized, 401, "Authentication required")
			return
		}
		u, err := s.parseToken(raw)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, 401, "Invalid or expired token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	}
}

func (s *Server) requireStaff(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		if u.RoleID != roleStaff && u.RoleID != roleAdmin {
			s.writeError(w, http.StatusForbidden, 403, "Staff access required")
			return
		}
		next(w, r)
	})
}

func currentUser(r *http.Request) *user {
	u, _ := r.Context().Value(userKey).(*user)
	return u
}

// =============================================================================
// OTP
// =============================================================================

func newOTPSecret() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "velora-dev",
		AccountName: hex.EncodeToString(buf[:4]),
		Secret:      buf,
		Period:      otpPeriod,
	})
	if err != nil {
		panic("failed to generate OTP secret: " + err.Error())
	}
	return key.Secret()
}

func currentCode(secret string) (string, error) {
	return totp.GenerateCodeCustom(secret, time.Now(), otpOpts)
}

func validateCode(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now(), otpOpts)
	return err == nil && ok
}

func (s *Server) logOTP(purpose, phone, secret string) {
	if !s.opts.OTPDebug {
		return
	}
	if code, err := currentCode(secret); err == nil {
		log.Printf("server: %s OTP for %s is %s", purpose, phone, code)
	}
}

// DebugOTP returns the current code for a phone's pending verification or
// reset session. Test hook; returns "" when none is pending.
func (s *Server) DebugOTP(phone string) string {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if p, ok := s.store.pending[phone]; ok {
		if code, err := currentCode(p.OTPSecret); err == nil {
			return code
		}
	}
	for _, rs := range s.store.resets {
		if rs.Phone == phone {
			if code, err := currentCode(rs.OTPSecret); err == nil {
				return code
			}
		}
	}
	return ""
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

type credentialsBody struct {
	NumberPhone string `json:"numberPhone"`
	Password    string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsBody
	if !s.decode(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	u, ok := s.store.users[req.NumberPhone]
	s.store.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		s.writeError(w, http.StatusUnauthorized, 401, "Incorrect phone number or password")
		return
	}
	if !u.Verified {
		s.writeError(w, http.StatusForbidden, 403, "Account not verified")
		return
	}

	token, err := s.issueToken(u)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, 500, "Failed to issue token")
		return
	}
	s.writeData(w, map[string]string{"access_token": token})
}

type registerBody struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	NumberPhone string `json:"numberPhone"`
	Password    string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerBody
	if !s.decode(w, r, &req) {
		return
	}
	if req.FullName == "" || req.NumberPhone == "" || len(req.Password) < 6 {
		s.writeError(w, http.StatusBadRequest, 400, "Missing or invalid registration fields")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if existing, ok := s.store.users[req.NumberPhone]; ok && existing.Verified {
		s.writeError(w, http.StatusConflict, 409, "Phone number already registered")
		return
	}
	if !s.store.otpLimiter("register:" + req.NumberPhone).Allow() {
		s.writeError(w, http.StatusTooManyRequests, 429, "Too many OTP requests, try again later")
		return
	}

	// Re-registering an unverified phone replaces the stale account.
	delete(s.store.users, req.NumberPhone)
	if _, err := s.store.addUser(req.FullName, req.Email, req.NumberPhone, req.Password, roleCustomer, false); err != nil {
		s.writeError(w, http.StatusInternalServerError, 500, "Failed to create account")
		return
	}

	secret := newOTPSecret()
	s.store.pending[req.NumberPhone] = &pendingVerify{
		Phone:     req.NumberPhone,
		OTPSecret: secret,
		IssuedAt:  time.Now(),
	}
	s.logOTP("registration", req.NumberPhone, secret)

	s.writeOK(w, "Account created, verification code sent")
}

type verifyBody struct {
	NumberPhone string `json:"numberPhone"`
	OTP         string `json:"otp"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyBody
	if !s.decode(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, ok := s.store.pending[req.NumberPhone]
	if !ok {
		s.writeError(w, http.StatusNotFound, 404, "No pending verification for this phone")
		return
	}
	if p.Attempts >= maxOTPAttempts {
		s.writeError(w, http.StatusTooManyRequests, 429, "Too many incorrect codes, request a new one")
		return
	}
	if !validateCode(req.OTP, p.OTPSecret) {
		p.Attempts++
		s.writeError(w, http.StatusBadRequest, 400, "Incorrect or expired code")
		return
	}

	delete(s.store.pending, req.NumberPhone)
	if u, ok := s.store.users[req.NumberPhone]; ok {
		u.Verified = true
		s.store.pushNotification(u.ID, "Welcome to Velora", "Your account is ready. Book your first appointment!")
	}
	s.writeOK(w, "Account verified")
}

type forgotBody struct {
	NumberPhone string `json:"numberPhone"`
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotBody
	if !s.decode(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	u, ok := s.store.users[req.NumberPhone]
	if !ok || !u.Verified {
		s.writeError(w, http.StatusNotFound, 404, "No account with this phone number")
		return
	}
	if !s.store.otpLimiter("reset:" + req.NumberPhone).Allow() {
		s.writeError(w, http.StatusTooManyRequests, 429, "Too many OTP requests, try again later")
		return
	}

	// A resend invalidates the previous credential.
	for cred, rs := range s.store.resets {
		if rs.Phone == req.NumberPhone {
			delete(s.store.resets, cred)
		}
	}

	credential := uuid.NewString()
	secret := newOTPSecret()
	s.store.resets[credential] = &resetSession{
		Credential: credential,
		Phone:      req.NumberPhone,
		OTPSecret:  secret,
		IssuedAt:   time.Now(),
	}
	s.logOTP("reset", req.NumberPhone, secret)

	s.writeData(w, map[string]string{"reset_token": credential})
}

type verifyResetBody struct {
	OTP        string `json:"otp"`
	ResetToken string `json:"reset_token"`
}

func (s *Server) handleVerifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyResetBody
	if !s.decode(w, r, &req) {
		return
	}

	// The credential may arrive as a bearer header or a body field; the
	// production backend has accepted both at different times.
	credential := bearerToken(r)
	if credential == "" {
		credential = req.ResetToken
	}
	if credential == "" {
		s.writeError(w, http.StatusUnauthorized, 401, "Reset credential required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rs, ok := s.store.resets[credential]
	if !ok {
		s.writeError(w, http.StatusUnauthorized, 401, "Unknown or expired reset credential")
		return
	}
	if rs.Attempts >= maxOTPAttempts {
		s.writeError(w, http.StatusTooManyRequests, 429, "Too many incorrect codes, request a new one")
		return
	}
	if !validateCode(req.OTP, rs.OTPSecret) {
		rs.Attempts++
		s.writeError(w, http.StatusBadRequest, 400, "Incorrect or expired code")
		return
	}

	rs.Verified = true
	s.writeOK(w, "Code verified")
}

type resetPasswordBody struct {
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordBody
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.NewPassword) < 6 {
		s.writeError(w, http.StatusBadRequest, 400, "Password must be at least 6 characters")
		return
	}

	credential := bearerToken(r)
	if credential == "" {
		s.writeError(w, http.StatusUnauthorized, 401, "Reset credential required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rs, ok := s.store.resets[credential]
	if !ok || !rs.Verified {
		s.writeError(w, http.StatusUnauthorized, 401, "Reset not verified")
		return
	}

	u, ok := s.store.users[rs.Phone]
	if !ok {
		s.writeError(w, http.StatusNotFound, 404, "Account no longer exists")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, 500, "Failed to update password")
		return
	}
	u.PasswordHash = hash
	delete(s.store.resets, credential)
	s.store.pushNotification(u.ID, "Password changed", "Your password was just changed. If this wasn't you, contact support.")

	s.writeOK(w, "Password updated")
}
