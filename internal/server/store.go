// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// =============================================================================
// ROLES
// =============================================================================

const (
	roleAdmin    = 1
	roleStaff    = 2
	roleCustomer = 3
)

// =============================================================================
// RECORDS
// =============================================================================

// user is an account record. Password is a bcrypt hash, never plaintext.
type user struct {
	ID           int64
	FullName     string
	Email        string
	NumberPhone  string
	PasswordHash []byte
	Avatar       string
	RoleID       int
	Verified     bool
}

// maxOTPAttempts caps wrong-code guesses per issued OTP. A fresh issue
// resets the count.
const maxOTPAttempts = 5

// pendingVerify tracks an unverified registration and its OTP secret.
type pendingVerify struct {
	Phone     string
	OTPSecret string
	IssuedAt  time.Time
	Attempts  int
}

// resetSession tracks a forgot-password flow. The credential is single-use
// and replaced on every resend.
type resetSession struct {
	Credential string
	Phone      string
	OTPSecret  string
	IssuedAt   time.Time
	Verified   bool
	Attempts   int
}

type booking struct {
	ID          int
	UserID      int64
	ServiceID   int
	ServiceName string
	TimeStart   string
	Status      string
	Note        string
}

type notification struct {
	ID        int
	UserID    int64
	Title     string
	Body      string
	Read      bool
	CreatedAt string
}

type rating struct {
	ID        int
	ServiceID int
	UserID    int64
	Score     int
	Comment   string
	CreatedAt string
}

type category struct {
	ID   int
	Name string
}

type service struct {
	ID          int
	Name        string
	CategoryID  int
	Price       int64
	Description string
	Image       string
	DurationMin int
}

// =============================================================================
// STORE
// =============================================================================

// store holds all server state in memory, guarded by one mutex. Request
// volume is a handful of developers, not production traffic.
type store struct {
	mu sync.Mutex

	users      map[string]*user // keyed by phone
	nextUserID int64

	pending map[string]*pendingVerify // keyed by phone
	resets  map[string]*resetSession  // keyed by credential

	// otpLimiters throttles OTP sends, keyed by purpose and phone,
	// independently of the client's own cooldown.
	otpLimiters map[string]*rate.Limiter

	categories []category
	services   []service
	ratings    []rating
	nextID     int // shared counter for catalog rows

	bookings      []booking
	nextBookingID int

	notifications []notification
	nextNotifID   int

	favorites    map[int64]map[int]bool // userID -> serviceID set
	deviceTokens map[int64]string
}

func newStore() *store {
	s := &store{
		users:       make(map[string]*user),
		nextUserID:  1,
		pending:     make(map[string]*pendingVerify),
		resets:      make(map[string]*resetSession),
		otpLimiters: make(map[string]*rate.Limiter),
		favorites:   make(map[int64]map[int]bool),
		deviceTokens: make(map[int64]string),
		nextBookingID: 1,
		nextNotifID:   1,
	}
	s.seed()
	return s
}

// otpLimiter returns the send limiter for a purpose:phone key, creating it
// on first use. One send allowed immediately, then one per 30 seconds.
func (s *store) otpLimiter(key string) *rate.Limiter {
	lim, ok := s.otpLimiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(30*time.Second), 1)
		s.otpLimiters[key] = lim
	}
	return lim
}

func (s *store) addUser(fullName, email, phone, password string, role int, verified bool) (*user, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &user{
		ID:           s.nextUserID,
		FullName:     fullName,
		Email:        email,
		NumberPhone:  phone,
		PasswordHash: hash,
		RoleID:       role,
		Verified:     verified,
	}
	s.nextUserID++
	s.users[phone] = u
	return u, nil
}

func (s *store) userByID(id int64) *user {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *store) serviceByID(id int) *service {
	for i := range s.services {
		if s.services[i].ID == id {
			return &s.services[i]
		}
	}
	return nil
}

func (s *store) pushNotification(userID int64, title, body string) {
	s.notifications = append(s.notifications, notification{
		ID:        s.nextNotifID,
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().Format(time.RFC3339),
	})
	s.nextNotifID++
}

// seed loads demo accounts and a small catalog so the app has something to
// show on first run. The staff credentials are printed by the serve command.
func (s *store) seed() {
	s.addUser("Velora Staff", "staff@velora.example", "0900000001", "staffpass", roleStaff, true)
	s.addUser("Velora Admin", "admin@velora.example", "0900000000", "adminpass", roleAdmin, true)

	s.categories = []category{
		{ID: 1, Name: "Nails"},
		{ID: 2, Name: "Spa"},
		{ID: 3, Name: "Gym"},
	}
	s.services = []service{
		{ID: 1, Name: "Gel Manicure", CategoryID: 1, Price: 250000, DurationMin: 45,
			Description: "## Gel Manicure\n\nLong-lasting gel polish with nail shaping and cuticle care."},
		{ID: 2, Name: "Classic Pedicure", CategoryID: 1, Price: 200000, DurationMin: 40,
			Description: "Soak, exfoliation, and polish."},
		{ID: 3, Name: "Hot Stone Massage", CategoryID: 2, Price: 600000, DurationMin: 90,
			Description: "## Hot Stone Massage\n\nFull-body massage with heated basalt stones."},
		{ID: 4, Name: "Personal Training", CategoryID: 3, Price: 400000, DurationMin: 60,
			Description: "One-on-one session with a certified trainer."},
	}
	s.ratings = []rating{
		{ID: 1, ServiceID: 1, UserID: 1, Score: 5, Comment: "Lovely work", CreatedAt: "2025-01-10T10:00:00Z"},
		{ID: 2, ServiceID: 3, UserID: 1, Score: 4, Comment: "Very relaxing", CreatedAt: "2025-01-12T15:30:00Z"},
	}
	s.nextID = 5
}
