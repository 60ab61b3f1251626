package tui

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// Confirm shows a yes/no prompt and returns the answer.
func Confirm(title, description string) (bool, error) {
	var answer bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Continue").
				Negative("Abort").
				Value(&answer),
		),
	).WithTheme(currentThemeOrDefault())

	if err := form.Run(); err != nil {
		return false, err
	}
	return answer, nil
}

// Spin runs fn while showing a spinner titled title. Outside an interactive
// terminal fn is simply called.
func Spin(ctx context.Context, title string, fn func() error) error {
	if !IsInteractive() {
		return fn()
	}

	var fnErr error
	err := spinner.New().
		Title(title).
		Context(ctx).
		Action(func() { fnErr = fn() }).
		Run()
	if err != nil {
		return err
	}
	return fnErr
}

// ConfirmPrompter asks questions with Confirm. Outside an interactive
// terminal every question is declined.
type ConfirmPrompter struct{}

func (ConfirmPrompter) Confirm(title, description string) (bool, error) {
	if !IsInteractive() {
		return false, nil
	}
	return Confirm(title, description)
}
