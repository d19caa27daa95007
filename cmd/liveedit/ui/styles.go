// Package ui provides the bubbletea demo page for the live-edit
// toolkit: a storefront-like screen with an editable headline, a
// replaceable hero image and a resizable promo box, all wired to the
// real widgets and stores.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette, dark and light variants.
var (
	DarkBackground = lipgloss.Color("#141d2b")
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkPrimary    = lipgloss.Color("#8BC34A")
	DarkMuted      = lipgloss.Color("#2a3850")
	DarkBorder     = lipgloss.Color("#2a3850")

	LightBackground = lipgloss.Color("#f4f5f6")
	LightForeground = lipgloss.Color("#101F38")
	LightPrimary    = lipgloss.Color("#101F38")
	LightMuted      = lipgloss.Color("#d6dae0")
	LightBorder     = lipgloss.Color("#dce0e5")

	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#FFC107")
	Destructive = lipgloss.Color("#e53935")
)

// dashedBorder is the selection-highlight border: visible but clearly
// distinct from the solid region frames.
var dashedBorder = lipgloss.Border{
	Top:         "╌",
	Bottom:      "╌",
	Left:        "╎",
	Right:       "╎",
	TopLeft:     "+",
	TopRight:    "+",
	BottomLeft:  "+",
	BottomRight: "+",
}

// Styles bundles the lipgloss styles for the page.
type Styles struct {
	Header     lipgloss.Style
	Region     lipgloss.Style
	Editing    lipgloss.Style
	Highlight  lipgloss.Style
	SizeLabel  lipgloss.Style
	StatusBar  lipgloss.Style
	ModeOn     lipgloss.Style
	ModeOff    lipgloss.Style
	SavedBadge lipgloss.Style
	ErrorFlash lipgloss.Style
	Help       lipgloss.Style
}

// NewStyles builds the style set for the named theme. Anything other
// than "light" gets the dark palette.
func NewStyles(theme string) Styles {
	fg, primary, muted, border := DarkForeground, DarkPrimary, DarkMuted, DarkBorder
	if theme == "light" {
		fg, primary, muted, border = LightForeground, LightPrimary, LightMuted, LightBorder
	}

	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			Padding(0, 1),
		Region: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Editing: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(primary).
			Padding(0, 1),
		Highlight: lipgloss.NewStyle().
			Border(dashedBorder).
			BorderForeground(primary),
		SizeLabel: lipgloss.NewStyle().
			Foreground(fg).
			Background(muted).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(fg).
			Background(muted).
			Padding(0, 1),
		ModeOn: lipgloss.NewStyle().
			Bold(true).
			Foreground(Success),
		ModeOff: lipgloss.NewStyle().
			Foreground(border),
		SavedBadge: lipgloss.NewStyle().
			Bold(true).
			Foreground(Success),
		ErrorFlash: lipgloss.NewStyle().
			Bold(true).
			Foreground(Destructive),
		Help: lipgloss.NewStyle().
			Foreground(border),
	}
}
