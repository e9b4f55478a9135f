// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL), srv
}

func TestLoginSuccess(t *testing.T) {
	var gotBody map[string]string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{"err": 0, "access_token": "tok-123"})
	}))
	defer srv.Close()

	token, err := client.Login(context.Background(), "0912345678", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, map[string]string{"numberPhone": "0912345678", "password": "secret1"}, gotBody)
}

func TestLoginServerRejection(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"err": 1, "mes": "Wrong phone or password"})
	}))
	defer srv.Close()

	_, err := client.Login(context.Background(), "0912345678", "badpass")
	var rejected *ServerError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Wrong phone or password", rejected.Message)
}

func TestLoginMissingTokenIsProtocolError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"err": 0, "mes": "ok"})
	}))
	defer srv.Close()

	_, err := client.Login(context.Background(), "0912345678", "secret1")
	var protocol *ProtocolError
	require.ErrorAs(t, err, &protocol)
}

func TestLoginTransportError(t *testing.T) {
	client := New("http://127.0.0.1:1") // nothing listens here

	_, err := client.Login(context.Background(), "0912345678", "secret1")
	require.ErrorIs(t, err, ErrTransport)
}

func TestRequestResetOTPAliasTolerance(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Alias form: camelCase instead of the documented snake_case.
		json.NewEncoder(w).Encode(map[string]interface{}{"err": 0, "resetToken": "cred-9"})
	}))
	defer srv.Close()

	credential, err := client.RequestResetOTP(context.Background(), "0912345678")
	require.NoError(t, err)
	assert.Equal(t, "cred-9", credential)
}

func TestRequestResetOTPMissingCredential(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"err": 0, "mes": "OTP sent"})
	}))
	defer srv.Close()

	_, err := client.RequestResetOTP(context.Background(), "0912345678")
	require.ErrorIs(t, err, ErrNoResetCredential)
}

func TestVerifyResetOTPBearerFirst(t *testing.T) {
	var calls int32
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.Equal(t, "Bearer cred-9", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{"err": 0})
	}))
	defer srv.Close()

	err := client.VerifyResetOTP(context.Background(), "cred-9", "123456")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls, "bearer success must not trigger the fallback")
}

func TestVerifyResetOTPBodyFallback(t *testing.T) {
	var calls int32
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)

		if n == 1 {
			// Reject the bearer-header convention.
			require.Equal(t, "Bearer cred-9", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{"err": 1, "mes": "token required in body"})
			return
		}
		// Fallback must carry the credential in the body and no auth header.
		require.Empty(t, r.Header.Get("Authorization"))
		require.Equal(t, "cred-9", body["reset_token"])
		json.NewEncoder(w).Encode(map[string]interface{}{"err": 0})
	}))
	defer srv.Close()

	err := client.VerifyResetOTP(context.Background(), "cred-9", "123456")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls, "exactly one fallback attempt")
}

func TestVerifyResetOTPBothAttemptsFail(t *testing.T) {
	var calls int32
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		if n == 1 {
			json.NewEncoder(w).Encode(map[string]interface{}{"err": 1, "mes": "OTP expired"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"err": 1})
	}))
	defer srv.Close()

	err := client.VerifyResetOTP(context.Background(), "cred-9", "123456")
	var rejected *ServerError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, int32(2), calls, "never more than two attempts per submission")
	assert.Equal(t, "OTP expired", rejected.Message, "most specific message wins")
}

func TestVerifyOTPPermissiveSuccess(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 2xx with no err field at all counts as success.
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, client.VerifyOTP(context.Background(), "0912345678", "123456"))
}

func TestAuthedCallCarriesSessionToken(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer session-tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"err":  0,
			"data": map[string]interface{}{"id": 5, "numberPhone": "0912345678", "full_name": "Ngoc Anh"},
		})
	}))
	defer srv.Close()

	client.SetToken("session-tok")
	profile, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), profile.ID)
	assert.Equal(t, "Ngoc Anh", profile.FullName)
}

func TestLoginDoesNotLeakSessionToken(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"), "auth endpoints must not send a stale session token")
		json.NewEncoder(w).Encode(map[string]interface{}{"err": 0, "access_token": "tok"})
	}))
	defer srv.Close()

	client.SetToken("stale")
	_, err := client.Login(context.Background(), "0912345678", "secret1")
	require.NoError(t, err)
}

func TestGetIntoDataUnparseable(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"err": 0, "data": "not-an-array"})
	}))
	defer srv.Close()

	_, err := client.Categories(context.Background())
	var protocol *ProtocolError
	if !errors.As(err, &protocol) {
		t.Fatalf("want ProtocolError, got %v", err)
	}
}
