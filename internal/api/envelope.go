// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "encoding/json"

// Envelope is the backend's response wrapper. Field naming is inconsistent
// across endpoints (`err` vs `success`, `mes` vs `message`), so callers go
// through OK and Notice instead of reading fields directly.
type Envelope struct {
	Err     *int            `json:"err"`
	Success *bool           `json:"success"`
	Mes     string          `json:"mes"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`

	// raw keeps the top-level object so fields outside the envelope proper
	// (access_token, reset_token and its aliases) can be extracted.
	raw map[string]json.RawMessage
}

// decodeEnvelope parses a response body. Bodies that are empty or not a JSON
// object yield an empty envelope: with a 2xx status that still counts as
// success (`err` absent), which matches the backend's behavior on endpoints
// that return nothing.
func decodeEnvelope(body []byte) *Envelope {
	env := &Envelope{}
	if len(body) == 0 {
		return env
	}
	if err := json.Unmarshal(body, env); err != nil {
		return &Envelope{}
	}
	_ = json.Unmarshal(body, &env.raw)
	return env
}

// OK reports whether the response counts as success: a 2xx status combined
// with an absent-or-zero error code, or an explicit success flag.
func (e *Envelope) OK(status int) bool {
	if status < 200 || status > 299 {
		return false
	}
	if e.Success != nil && *e.Success {
		return true
	}
	return e.Err == nil || *e.Err == 0
}

// Anomalous reports a genuinely ambiguous envelope: a nonzero error code
// next to an explicit success flag. OK treats it as success; call sites log
// it so the contract can be tightened server-side.
func (e *Envelope) Anomalous() bool {
	return e.Err != nil && *e.Err != 0 && e.Success != nil && *e.Success
}

// Notice returns the server-provided message, checking both field spellings.
func (e *Envelope) Notice() string {
	if e.Mes != "" {
		return e.Mes
	}
	return e.Message
}

// errCode returns the envelope error code, 0 when absent.
func (e *Envelope) errCode() int {
	if e.Err == nil {
		return 0
	}
	return *e.Err
}

// stringField returns the first non-empty string found under any of the
// given keys, looking at the top level first and then inside data. Used for
// the reset-credential aliases and the access token.
func (e *Envelope) stringField(keys ...string) string {
	if v := firstString(e.raw, keys); v != "" {
		return v
	}
	if len(e.Data) > 0 {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(e.Data, &nested); err == nil {
			return firstString(nested, keys)
		}
	}
	return ""
}

func firstString(obj map[string]json.RawMessage, keys []string) string {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}
