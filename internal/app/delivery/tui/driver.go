package tui

import "errors"

// ErrAborted is returned when the respondent interrupts a prompt.
var ErrAborted = errors.New("questionnaire aborted")

// PromptDriver is the terminal surface the runner talks to. Select returns
// the index of the picked option.
type PromptDriver interface {
	Select(message string, options []string, defaultOption string) (int, error)
	Input(message, defaultValue string, validate func(string) error) (string, error)
	Multiline(message, defaultValue string) (string, error)
	Info(message string)
}
