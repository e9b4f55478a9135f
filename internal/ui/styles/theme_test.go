// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}
	for _, status := range []string{"pending", "confirmed", "done", "cancelled"} {
		if _, ok := theme.StatusTint[status]; !ok {
			t.Errorf("missing tint for status %q", status)
		}
	}
}

func TestSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d", theme.Width, theme.Height)
	}
}

func TestRenderHelpersCarryIndicators(t *testing.T) {
	cases := []struct {
		out       string
		indicator string
	}{
		{RenderSuccess("saved"), IndicatorOK},
		{RenderError("failed"), IndicatorError},
		{RenderWarning("careful"), IndicatorWarning},
		{RenderInfo("note"), IndicatorInfo},
	}
	for _, c := range cases {
		if !strings.Contains(c.out, c.indicator) {
			t.Errorf("%q missing indicator %q", c.out, c.indicator)
		}
	}
}

func TestBookingStatusColor(t *testing.T) {
	if BookingStatusColor("confirmed") != Green {
		t.Error("confirmed should be green")
	}
	if BookingStatusColor("unknown") != Amber {
		t.Error("unknown statuses fall back to amber")
	}
}
