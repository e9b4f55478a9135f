// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderBrand    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormBox      lipgloss.Style
	FormTitle    lipgloss.Style
	FieldLabel   lipgloss.Style
	FieldError   lipgloss.Style
	Hint         lipgloss.Style
	Button       lipgloss.Style
	ButtonFocus  lipgloss.Style
	ButtonBusy   lipgloss.Style
	LinkAction   lipgloss.Style
	NoticeOK     lipgloss.Style
	NoticeError  lipgloss.Style

	// ==========================================================================
	// OTP CELL STYLES
	// ==========================================================================

	OTPCell      lipgloss.Style
	OTPCellFocus lipgloss.Style
	OTPCellShake lipgloss.Style
	CooldownText lipgloss.Style
	ResendActive lipgloss.Style

	// ==========================================================================
	// LIST AND CARD STYLES
	// ==========================================================================

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardTitle    lipgloss.Style
	CardMeta     lipgloss.Style
	Price        lipgloss.Style
	RatingStars  lipgloss.Style

	// ==========================================================================
	// TAB BAR STYLES
	// ==========================================================================

	TabBar      lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	TabBadge    lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// MISC STYLES
	// ==========================================================================

	Spinner    lipgloss.Style
	Muted      lipgloss.Style
	StatusTint map[string]lipgloss.Style
}

// NewTheme creates a theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Coral).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Coral)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Forms
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 3)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	t.FieldLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FieldError = lipgloss.NewStyle().
		Foreground(Red)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 3).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.ButtonFocus = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Coral).
		Bold(true).
		Padding(0, 3).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Coral)

	t.ButtonBusy = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 3).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.LinkAction = lipgloss.NewStyle().
		Foreground(Teal).
		Underline(true)

	t.NoticeOK = lipgloss.NewStyle().
		Foreground(Green).
		Bold(true)

	t.NoticeError = lipgloss.NewStyle().
		Foreground(Red).
		Bold(true)

	// OTP cells
	t.OTPCell = lipgloss.NewStyle().
		Width(3).
		Align(lipgloss.Center).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Foreground(TextPrimary)

	t.OTPCellFocus = t.OTPCell.
		BorderForeground(FocusRing).
		Bold(true)

	t.OTPCellShake = t.OTPCell.
		BorderForeground(Red).
		Foreground(Red)

	t.CooldownText = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ResendActive = lipgloss.NewStyle().
		Foreground(Teal).
		Underline(true)

	// Cards
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.CardSelected = t.Card.
		BorderForeground(Coral)

	t.CardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.CardMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Price = lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true)

	t.RatingStars = lipgloss.NewStyle().
		Foreground(Gold)

	// Tabs
	t.TabBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.TabActive = lipgloss.NewStyle().
		Foreground(Coral).
		Bold(true).
		Underline(true).
		Padding(0, 2)

	t.TabBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Red).
		Padding(0, 1)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Misc
	t.Spinner = lipgloss.NewStyle().
		Foreground(Coral)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatusTint = map[string]lipgloss.Style{
		"pending":   lipgloss.NewStyle().Foreground(Amber),
		"confirmed": lipgloss.NewStyle().Foreground(Green),
		"done":      lipgloss.NewStyle().Foreground(Teal),
		"cancelled": lipgloss.NewStyle().Foreground(Red),
	}
}

// SetSize records the terminal dimensions for layout decisions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
