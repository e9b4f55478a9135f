// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Coral - Primary brand accent, buttons, highlights
var Coral = lipgloss.AdaptiveColor{Light: "#E0556E", Dark: "#F38BA8"}

// CoralDeep - Darker coral for backgrounds
var CoralDeep = lipgloss.AdaptiveColor{Light: "#B83B52", Dark: "#7A2E41"}

// Teal - Secondary accent, links, active tab
var Teal = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#5EEAD4"}

// TealDeep - Darker teal for backgrounds
var TealDeep = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#134E4A"}

// Gold - Rating stars, prices, promotions
var Gold = lipgloss.AdaptiveColor{Light: "#CA8A04", Dark: "#FACC15"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Green - Success states, confirmed bookings
var Green = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Red - Errors, cancelled bookings, destructive actions
var Red = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

// Amber - Warnings, pending bookings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1B22"}

// SurfaceDim - Headers, footers, status bar
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F4F4F5", Dark: "#16151B"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E4E4E7", Dark: "#37363F"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#27272A", Dark: "#E4E1EC"}

// TextSecondary - Labels, field names
var TextSecondary = lipgloss.AdaptiveColor{Light: "#71717A", Dark: "#A8A4B8"}

// TextMuted - Hints, placeholders, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#A1A1AA", Dark: "#6E6A7E"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1B22"}

// FocusRing highlights the focused input.
var FocusRing = Teal

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// Shape indicators alongside colors, for colorblind users and terminals
// without color support.
const (
	IndicatorOK      = "[OK]"
	IndicatorError   = "[X]"
	IndicatorWarning = "[!]"
	IndicatorInfo    = "[i]"
)

// RenderSuccess renders a success line with its shape indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Green).Bold(true).Render(IndicatorOK + " " + message)
}

// RenderError renders an error line with its shape indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Red).Bold(true).Render(IndicatorError + " " + message)
}

// RenderWarning renders a warning line with its shape indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).Render(IndicatorWarning + " " + message)
}

// RenderInfo renders an informational line with its shape indicator.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Teal).Bold(true).Render(IndicatorInfo + " " + message)
}

// BookingStatusColor maps a booking status to its display color.
func BookingStatusColor(status string) lipgloss.AdaptiveColor {
	switch status {
	case "confirmed":
		return Green
	case "done":
		return Teal
	case "cancelled":
		return Red
	default:
		return Amber
	}
}
