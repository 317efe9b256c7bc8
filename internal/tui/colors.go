package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/priority"
)

// Color constants for the agencia TUI theme
const (
	// Base Colors
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorHelpText      = "240"

	// Accent Colors
	ColorAccentMain   = "#7C3AED" // Logo, accent elements, active borders
	ColorAccentBright = "#A78BFA" // Hover, highlights, current step

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)

// scoreColors maps priority color tokens to terminal colors
var scoreColors = map[string]string{
	"red":    "#EF4444",
	"orange": "#F97316",
	"amber":  "#F59E0B",
	"yellow": "#EAB308",
	"blue":   "#3B82F6",
	"green":  "#22C55E",
	"gray":   ColorDisabledText,
}

// ScoreStyle colors text by urgency
func ScoreStyle(s priority.Score) lipgloss.Style {
	c, ok := scoreColors[s.Color]
	if !ok {
		c = ColorSecondaryText
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// StatusStyle colors a task status
func StatusStyle(status models.TaskStatus) lipgloss.Style {
	c := ColorSecondaryText
	switch status {
	case models.StatusInProgress:
		c = ColorAccentBright
	case models.StatusPaused:
		c = ColorWarning
	case models.StatusCompleted:
		c = ColorSuccess
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
}

// statusIcon is the list glyph of a status
func statusIcon(status models.TaskStatus) string {
	switch status {
	case models.StatusInProgress:
		return "▶"
	case models.StatusPaused:
		return "⏸"
	case models.StatusCompleted:
		return "✓"
	}
	return "○"
}
