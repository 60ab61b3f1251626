// Package printer renders styled console output for shiplane commands.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Output receives every Print* call. Tests swap it for a buffer.
var Output io.Writer = os.Stdout

var (
	faintStyle   = lipgloss.NewStyle().Faint(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// SetNoColor switches every style to plain text. NO_COLOR in the environment
// has the same effect even when noColor is false.
func SetNoColor(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

func Faint(text string) string   { return faintStyle.Render(text) }
func Bold(text string) string    { return boldStyle.Render(text) }
func Success(text string) string { return successStyle.Render(text) }
func Error(text string) string   { return errorStyle.Render(text) }
func Warning(text string) string { return warningStyle.Render(text) }
func Info(text string) string    { return infoStyle.Render(text) }

// Badges mark a package outcome in the release summary.
func SuccessBadge(text string) string { return successStyle.Bold(true).Render(text) }
func ErrorBadge(text string) string   { return errorStyle.Bold(true).Render(text) }
func WarningBadge(text string) string { return warningStyle.Bold(true).Render(text) }

func PrintFaint(text string)   { printLine(Faint, text) }
func PrintSuccess(text string) { printLine(Success, text) }
func PrintError(text string)   { printLine(Error, text) }
func PrintWarning(text string) { printLine(Warning, text) }
func PrintInfo(text string)    { printLine(Info, text) }

func printLine(render func(string) string, text string) {
	_, _ = fmt.Fprintln(Output, render(text))
}
