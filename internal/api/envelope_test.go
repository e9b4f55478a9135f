// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "testing"

func TestEnvelopeOK(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
		want   bool
	}{
		{"err zero", `{"err":0,"mes":"ok"}`, 200, true},
		{"err nonzero", `{"err":1,"mes":"wrong password"}`, 200, false},
		{"err absent", `{"mes":"ok"}`, 200, true},
		{"empty body 2xx", ``, 204, true},
		{"explicit success", `{"success":true}`, 200, true},
		{"success false err absent", `{"success":false}`, 200, true}, // err absent is authoritative
		{"success overrides err", `{"err":2,"success":true}`, 200, true},
		{"non-2xx", `{"err":0}`, 500, false},
		{"non-2xx with success", `{"success":true}`, 401, false},
		{"non-json body", `<html>gateway error</html>`, 200, true}, // decodes to empty envelope
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := decodeEnvelope([]byte(c.body))
			if got := env.OK(c.status); got != c.want {
				t.Errorf("OK(%d) with body %q = %v, want %v", c.status, c.body, got, c.want)
			}
		})
	}
}

func TestEnvelopeAnomalous(t *testing.T) {
	env := decodeEnvelope([]byte(`{"err":2,"success":true}`))
	if !env.Anomalous() {
		t.Error("err!=0 with success=true should be flagged anomalous")
	}
	env = decodeEnvelope([]byte(`{"err":0,"success":true}`))
	if env.Anomalous() {
		t.Error("err=0 with success=true is consistent")
	}
}

func TestEnvelopeNotice(t *testing.T) {
	env := decodeEnvelope([]byte(`{"err":1,"mes":"sai mật khẩu","message":"wrong password"}`))
	if got := env.Notice(); got != "sai mật khẩu" {
		t.Errorf("mes should win over message, got %q", got)
	}
	env = decodeEnvelope([]byte(`{"err":1,"message":"wrong password"}`))
	if got := env.Notice(); got != "wrong password" {
		t.Errorf("message fallback, got %q", got)
	}
}

func TestEnvelopeStringFieldAliases(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"snake", `{"err":0,"reset_token":"cred-1"}`},
		{"camel", `{"err":0,"resetToken":"cred-1"}`},
		{"bare token", `{"err":0,"token":"cred-1"}`},
		{"nested in data", `{"err":0,"data":{"reset_token":"cred-1"}}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := decodeEnvelope([]byte(c.body))
			if got := env.stringField(resetCredentialAliases...); got != "cred-1" {
				t.Errorf("stringField = %q, want cred-1", got)
			}
		})
	}

	env := decodeEnvelope([]byte(`{"err":0,"data":{}}`))
	if got := env.stringField(resetCredentialAliases...); got != "" {
		t.Errorf("absent credential should be empty, got %q", got)
	}
}
