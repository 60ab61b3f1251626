package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// currentTheme holds the configured theme. nil means shiplaneTheme.
var currentTheme *huh.Theme

// SetTheme selects a theme by name; unknown or empty names fall back to the default.
func SetTheme(name string) {
	currentTheme = GetTheme(name)
}

// currentThemeOrDefault returns the theme used by prompts.
func currentThemeOrDefault() *huh.Theme {
	if currentTheme == nil {
		return shiplaneTheme()
	}
	return currentTheme
}

// shiplaneTheme is huh's base theme with a teal accent.
func shiplaneTheme() *huh.Theme {
	t := huh.ThemeBase()

	accent := lipgloss.Color("#2AA198")
	muted := lipgloss.Color("#839496")

	t.Focused.Base = t.Focused.Base.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(accent)
	t.Focused.Title = t.Focused.Title.Foreground(accent).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(accent).Bold(true).Padding(0, 1)
	t.Focused.BlurredButton = t.Focused.BlurredButton.Foreground(muted).Padding(0, 1)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())

	return t
}
