package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/mulberryleaf/mulberry-cli/internal/apperr"
)

// YieldInputs holds the raw strings typed into the yield form.
type YieldInputs struct {
	Quality     string
	Temperature string
	Humidity    string
}

// YieldForm asks for the three yield inputs. Fields already set in in are
// pre-filled. validate returns the validator for a field name ("quality",
// "temperature", "humidity"); it runs on every field before submission.
func YieldForm(in *YieldInputs, validate func(field string) func(string) error) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Yield Prediction").
				Description("Enter environmental conditions to forecast cocoon yield."),
			huh.NewInput().
				Title("Leaf Quality Score (0-1)").
				Placeholder("0.85").
				Value(&in.Quality).
				Validate(validate("quality")),
			huh.NewInput().
				Title("Temperature (°C)").
				Placeholder("25.5").
				Value(&in.Temperature).
				Validate(validate("temperature")),
			huh.NewInput().
				Title("Humidity (%)").
				Placeholder("65").
				Value(&in.Humidity).
				Validate(validate("humidity")),
		),
	)
	if err := form.Run(); err != nil {
		return formErr("yield form", err)
	}
	return nil
}

// Confirm asks a yes/no question.
func Confirm(title, description string) (bool, error) {
	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&confirm).
				Affirmative("Yes").
				Negative("No"),
		),
	)
	if err := form.Run(); err != nil {
		return false, formErr("confirm", err)
	}
	return confirm, nil
}

func formErr(what string, err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return apperr.ErrCancelled
	}
	return fmt.Errorf("%s: %w", what, err)
}
