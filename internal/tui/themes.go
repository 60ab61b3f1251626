package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
)

// themes maps a config name to the huh theme used by the continue prompt.
// Only that prompt is themed; the spinner and printed output are not.
var themes = map[string]func() *huh.Theme{
	DefaultTheme: shiplaneTheme,
	"base":       huh.ThemeBase,
	"base16":     huh.ThemeBase16,
	"catppuccin": huh.ThemeCatppuccin,
	"charm":      huh.ThemeCharm,
	"dracula":    huh.ThemeDracula,
}

// DefaultTheme is used when no theme, or an unknown one, is configured.
const DefaultTheme = "shiplane"

// ThemeNames returns the accepted theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ThemeHelp describes the theme setting for warnings and generated config.
func ThemeHelp() string {
	return "theme styles the \"no new commits\" continue prompt; one of " + strings.Join(ThemeNames(), ", ")
}

// IsValidTheme reports whether name is a known theme.
func IsValidTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// GetTheme returns the theme for name, or nil when unknown.
func GetTheme(name string) *huh.Theme {
	if build, ok := themes[name]; ok {
		return build()
	}
	return nil
}
