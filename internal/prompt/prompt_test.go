package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDriver struct {
	answer string
	err    error
	asked  []InputConfig
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.asked = append(s.asked, cfg)
	return s.answer, s.err
}

func TestAskURL_TrimsAnswer(t *testing.T) {
	driver := &stubDriver{answer: "  https://example.com/Company/acme-corp \n"}

	got, err := NewURLPrompter(driver).AskURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/Company/acme-corp", got)
	require.Len(t, driver.asked, 1)
	assert.Equal(t, URLMessage, driver.asked[0].Message)
}

func TestAskURL_InterruptIsEmpty(t *testing.T) {
	driver := &stubDriver{err: ErrAborted}

	got, err := NewURLPrompter(driver).AskURL(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAskURL_DriverError(t *testing.T) {
	driver := &stubDriver{err: errors.New("not a terminal")}

	_, err := NewURLPrompter(driver).AskURL(context.Background())
	assert.EqualError(t, err, "not a terminal")
}

func TestTranslateSurveyErr(t *testing.T) {
	assert.ErrorIs(t, translateSurveyErr(terminal.InterruptErr), ErrAborted)

	other := errors.New("boom")
	assert.Equal(t, other, translateSurveyErr(other))
}

func TestSurveyDriver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SurveyDriver{}.Input(ctx, InputConfig{Message: URLMessage})
	assert.ErrorIs(t, err, context.Canceled)
}
