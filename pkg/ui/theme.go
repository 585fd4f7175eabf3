// Package ui implements the skiff terminal interface: the welcome wizard
// screens, the usage opt-out form, and the tutorial panel.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme carries the renderer and the color set shared by every view.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Status
	Done    lipgloss.AdaptiveColor
	Current lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
}

// DefaultTheme returns the standard adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"},
		Secondary: lipgloss.AdaptiveColor{Light: "#02A9EA", Dark: "#37C9FB"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#6E6E80", Dark: "#A0A0B0"},
		Done:      lipgloss.AdaptiveColor{Light: "#0CA750", Dark: "#2FD572"},
		Current:   lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F2C744"},
		Border:    lipgloss.AdaptiveColor{Light: "#D0D0D8", Dark: "#3A3A48"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E8E8FF", Dark: "#2A2A40"},
		Muted:     lipgloss.AdaptiveColor{Light: "#B0B0C0", Dark: "#585868"},
	}
}
