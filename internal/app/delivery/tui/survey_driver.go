package tui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

type surveyDriver struct {
	out  io.Writer
	opts []survey.AskOpt
}

func NewSurveyDriver() PromptDriver {
	return &surveyDriver{
		out:  os.Stdout,
		opts: []survey.AskOpt{survey.WithStdio(os.Stdin, os.Stdout, os.Stderr)},
	}
}

func (d *surveyDriver) Select(message string, options []string, defaultOption string) (int, error) {
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	for _, option := range options {
		if option == defaultOption {
			prompt.Default = defaultOption
			break
		}
	}

	var index int
	err := survey.AskOne(prompt, &index, d.opts...)
	return index, translateError(err)
}

func (d *surveyDriver) Input(message, defaultValue string, validate func(string) error) (string, error) {
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}

	opts := d.opts
	if validate != nil {
		opts = append(append([]survey.AskOpt{}, d.opts...), survey.WithValidator(func(answer interface{}) error {
			value, _ := answer.(string)
			return validate(value)
		}))
	}

	var value string
	err := survey.AskOne(prompt, &value, opts...)
	return value, translateError(err)
}

func (d *surveyDriver) Multiline(message, defaultValue string) (string, error) {
	prompt := &survey.Multiline{
		Message: message,
		Default: defaultValue,
	}

	var value string
	err := survey.AskOne(prompt, &value, d.opts...)
	return value, translateError(err)
}

func (d *surveyDriver) Info(message string) {
	fmt.Fprintln(d.out, message)
}

func translateError(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
