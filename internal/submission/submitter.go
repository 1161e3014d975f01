package submission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/jonathan/company-migrator/internal/types"
)

// DefaultUploadURL is the upload portal form.
const DefaultUploadURL = "https://frontend-react-mu-lake.vercel.app/upload-logo"

// DefaultConfirmPath is the endpoint substring a successful submit responds from.
const DefaultConfirmPath = "/upload-logo"

// Form selectors.
const (
	SelectorFileInput = `input[type="file"]`
	SelectorSubmit    = `button[type='submit']`
)

type formField struct {
	selector string
	value    func(p *types.CompanyProfile) string
	// optional fields are only typed into when the value is present.
	optional bool
}

func social(platform types.Platform) func(p *types.CompanyProfile) string {
	return func(p *types.CompanyProfile) string { return p.Social(platform) }
}

var formFields = []formField{
	{selector: `input[name="name"]`, value: func(p *types.CompanyProfile) string { return p.CompanyName }},
	{selector: `input[name="sector"]`, value: func(p *types.CompanyProfile) string { return p.Sector }},
	{selector: `input[name="industry"]`, value: func(p *types.CompanyProfile) string { return p.Industry }},
	{selector: `input[name="emp_number"]`, value: func(p *types.CompanyProfile) string { return p.Employees }},
	{selector: `textarea[name="address"]`, value: func(p *types.CompanyProfile) string { return p.Location }},
	{selector: `textarea[name="info"]`, value: func(p *types.CompanyProfile) string { return p.Description }},
	{selector: `input[name="web_link"]`, value: func(p *types.CompanyProfile) string { return p.Website }},
	{selector: `input[name="linkedin_link"]`, value: social(types.PlatformLinkedIn), optional: true},
	{selector: `input[name="twitter_link"]`, value: social(types.PlatformTwitter), optional: true},
	{selector: `input[name="face_link"]`, value: social(types.PlatformFacebook), optional: true},
	{selector: `input[name="insta_link"]`, value: social(types.PlatformInstagram), optional: true},
	{selector: `input[name="youtube_link"]`, value: social(types.PlatformYouTube), optional: true},
}

// Options configures a Submitter.
type Options struct {
	UploadURL     string
	ConfirmPath   string
	ConfirmStatus int
	Verbose       bool
}

// Submitter fills and submits the upload form for one profile per call.
type Submitter struct {
	launcher Launcher
	opts     Options
}

// NewSubmitter creates a Submitter, filling unset options with defaults.
func NewSubmitter(launcher Launcher, opts Options) *Submitter {
	if opts.UploadURL == "" {
		opts.UploadURL = DefaultUploadURL
	}
	if opts.ConfirmPath == "" {
		opts.ConfirmPath = DefaultConfirmPath
	}
	if opts.ConfirmStatus == 0 {
		opts.ConfirmStatus = http.StatusOK
	}
	return &Submitter{launcher: launcher, opts: opts}
}

// Submit launches a browser, fills the form from profile, uploads the logo and
// submits. The browser is closed on every exit path. Any failure is returned as
// a *SubmissionError.
func (s *Submitter) Submit(ctx context.Context, profile *types.CompanyProfile) error {
	if profile == nil {
		return &SubmissionError{Step: "prepare", Message: "no profile to submit"}
	}
	if !profile.HasLogo() {
		return &SubmissionError{Step: "prepare", Message: "no logo file to upload for " + profile.CompanyName}
	}

	automation, err := s.launcher.Launch(ctx)
	if err != nil {
		return wrap("launch", "failed to launch browser", err)
	}
	defer func() {
		if closeErr := automation.Close(); closeErr != nil && s.opts.Verbose {
			log.Printf("[SUBMIT] Browser close: %v", closeErr)
		}
	}()

	if err := automation.Navigate(ctx, s.opts.UploadURL); err != nil {
		return wrap("navigate", "failed to open upload form", err)
	}
	if err := s.fillForm(ctx, automation, profile); err != nil {
		return err
	}
	if err := s.uploadFile(ctx, automation, profile.LogoImagePath); err != nil {
		return err
	}
	if err := s.submit(ctx, automation); err != nil {
		return err
	}

	log.Printf("[SUBMIT] Uploaded %s to portal successfully", profile.CompanyName)
	return nil
}

func (s *Submitter) fillForm(ctx context.Context, a Automation, profile *types.CompanyProfile) error {
	for _, field := range formFields {
		value := field.value(profile)
		if field.optional && value == "" {
			continue
		}
		if s.opts.Verbose {
			log.Printf("[SUBMIT] Filling %s", field.selector)
		}
		if err := a.Type(ctx, field.selector, value); err != nil {
			return wrap("fill", "failed to fill "+field.selector, err)
		}
	}
	return nil
}

// uploadFile sets the logo on the file input and then fires a change event,
// since the form's handlers listen for change rather than the input itself.
func (s *Submitter) uploadFile(ctx context.Context, a Automation, path string) error {
	if err := a.SetFiles(ctx, SelectorFileInput, path); err != nil {
		return wrap("upload", "failed to set logo file", err)
	}
	if err := a.DispatchEvent(ctx, SelectorFileInput, "change"); err != nil {
		return wrap("upload", "failed to notify file input", err)
	}
	return nil
}

func (s *Submitter) submit(ctx context.Context, a Automation) error {
	if err := a.WaitFor(ctx, SelectorSubmit); err != nil {
		return wrap("submit", "submit button not available", err)
	}

	confirmation, err := a.SubmitAndConfirm(ctx, SelectorSubmit, ResponseMatch{
		URLContains: s.opts.ConfirmPath,
		Status:      s.opts.ConfirmStatus,
	})
	if err != nil {
		return wrap("submit", "submit failed", err)
	}

	switch confirmation.Outcome {
	case OutcomeConfirmed:
		if s.opts.Verbose {
			log.Printf("[SUBMIT] Confirmed by %s (%d)", confirmation.URL, confirmation.Status)
		}
		return nil
	case OutcomeFailed:
		return &SubmissionError{
			Step:    "submit",
			Message: fmt.Sprintf("upload responded with status %d from %s", confirmation.Status, confirmation.URL),
		}
	default:
		return &SubmissionError{Step: "submit", Message: "upload not confirmed", Cause: ErrNotConfirmed}
	}
}

// wrap keeps an existing *SubmissionError and wraps anything else.
func wrap(step, message string, err error) error {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return err
	}
	return &SubmissionError{Step: step, Message: message, Cause: err}
}
