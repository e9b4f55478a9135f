// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifiers as issued by the backend.
const (
	RoleAdmin    = 1
	RoleStaff    = 2
	RoleCustomer = 3
)

// ErrMalformedToken indicates an access token that decoded but lacks the
// claims the client needs. The HTTP login may have succeeded; the flow still
// treats this as a failure and persists nothing.
var ErrMalformedToken = errors.New("access token missing required claims")

// FromToken decodes a bearer token into a Session without verifying the
// signature. Required claims: id and numberPhone. roleId defaults to
// customer when absent, since routing needs some answer and customer is the
// only surface that degrades safely.
func FromToken(raw string) (*Session, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, errors.Join(ErrMalformedToken, err)
	}

	id, ok := numberClaim(claims, "id")
	if !ok {
		return nil, ErrMalformedToken
	}
	phone, ok := claims["numberPhone"].(string)
	if !ok || phone == "" {
		return nil, ErrMalformedToken
	}

	role := RoleCustomer
	if r, ok := numberClaim(claims, "roleId"); ok {
		role = int(r)
	}

	return &Session{
		Token:       raw,
		ID:          int64(id),
		NumberPhone: phone,
		RoleID:      role,
	}, nil
}

// numberClaim reads a numeric claim. JSON numbers decode as float64.
func numberClaim(claims jwt.MapClaims, key string) (float64, bool) {
	v, ok := claims[key]
	if !ok {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}
