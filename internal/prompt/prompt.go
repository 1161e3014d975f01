// Package prompt asks the operator for the company page to migrate.
package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// URLMessage is the question shown to the operator.
const URLMessage = "Paste the company URL here:"

// ErrAborted is returned when the operator interrupts the prompt.
var ErrAborted = errors.New("prompt aborted")

// InputConfig configures a basic text input prompt.
type InputConfig struct {
	Message string
	Default string
	Help    string
}

// Driver abstracts the terminal implementation so callers can be tested
// without a real terminal.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
}

// SurveyDriver asks questions on the controlling terminal.
type SurveyDriver struct{}

// Input shows a single-line text prompt.
func (SurveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	q := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(q, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// URLPrompter asks for exactly one company URL.
type URLPrompter struct {
	driver Driver
}

// NewURLPrompter returns a prompter backed by driver; nil selects SurveyDriver.
func NewURLPrompter(driver Driver) *URLPrompter {
	if driver == nil {
		driver = SurveyDriver{}
	}
	return &URLPrompter{driver: driver}
}

// AskURL returns the trimmed answer. An interrupted prompt is treated as an
// empty answer.
func (p *URLPrompter) AskURL(ctx context.Context) (string, error) {
	answer, err := p.driver.Input(ctx, InputConfig{
		Message: URLMessage,
		Help:    "The company page to scrape, e.g. https://www.annualreports.com/Company/acme-corp",
	})
	if errors.Is(err, ErrAborted) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
