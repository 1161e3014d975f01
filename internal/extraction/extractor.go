package extraction

import (
	"context"
	"errors"
	"log"

	"github.com/jonathan/company-migrator/internal/fetch"
	"github.com/jonathan/company-migrator/internal/types"
)

// FailureKind classifies why an extraction produced no profile.
type FailureKind string

const (
	// FailureNetwork is a transport or HTTP status failure (page or logo).
	FailureNetwork FailureKind = "network"
	// FailureParse means the page lacked the expected structure.
	FailureParse FailureKind = "parse"
	// FailurePersist means the artifact bundle could not be written.
	FailurePersist FailureKind = "persist"
)

// Failure describes an extraction that yielded no profile.
type Failure struct {
	Kind   FailureKind
	Detail string
	Err    error
}

// Retryable reports whether rerunning the same URL may succeed.
func (f *Failure) Retryable() bool {
	return f.Kind != FailureParse
}

// Result is either a Profile or a Failure, never both.
type Result struct {
	Profile *types.CompanyProfile
	Failure *Failure
}

// OK reports whether extraction produced a profile.
func (r Result) OK() bool {
	return r.Failure == nil && r.Profile != nil
}

// Options configures an Extractor.
type Options struct {
	// DataDir is the root under which artifact bundles are written.
	DataDir string
	// SiteOrigin resolves root-relative logo paths.
	SiteOrigin string
	Fetch      *fetch.Options
	Verbose    bool
}

// Extractor fetches a company page, parses it and persists its artifacts.
type Extractor struct {
	opts Options
}

// NewExtractor creates an Extractor, filling unset options with defaults.
func NewExtractor(opts Options) *Extractor {
	if opts.SiteOrigin == "" {
		opts.SiteOrigin = DefaultSiteOrigin
	}
	if opts.Fetch == nil {
		opts.Fetch = fetch.DefaultOptions()
	}
	if opts.Verbose {
		fetchOpts := *opts.Fetch
		fetchOpts.Verbose = true
		opts.Fetch = &fetchOpts
	}
	return &Extractor{opts: opts}
}

// Extract runs fetch, parse and persist for one URL. It never returns an error;
// any failure is logged and reported through Result.Failure, in which case no
// artifacts are guaranteed to exist.
func (e *Extractor) Extract(ctx context.Context, sourceURL string) Result {
	result, err := fetch.URL(ctx, sourceURL, e.opts.Fetch)
	if err != nil {
		return e.fail(err)
	}
	if e.opts.Verbose {
		log.Printf("[EXTRACT] Fetched HTML: %d bytes", len(result.HTML))
	}

	profile, err := Parse(result.HTML, sourceURL, e.opts.SiteOrigin)
	if err != nil {
		return e.fail(err)
	}
	if e.opts.Verbose {
		log.Printf("[EXTRACT] Parsed %q (%s:%s), %d social links, logo %q",
			profile.CompanyName, profile.Exchange, profile.Ticker, len(profile.SocialLinks), profile.LogoURL)
	}

	if err := Persist(ctx, profile, e.opts.DataDir, e.opts.Fetch); err != nil {
		return e.fail(err)
	}

	log.Printf("[EXTRACT] Data, logo and social links scraped for %s", profile.CompanyName)
	return Result{Profile: profile}
}

func (e *Extractor) fail(err error) Result {
	failure := &Failure{Kind: classify(err), Detail: err.Error(), Err: err}
	log.Printf("[EXTRACT] Error scraping (%s): %v", failure.Kind, err)
	return Result{Failure: failure}
}

func classify(err error) FailureKind {
	var fetchErr *fetch.Error
	var parseErr *ParseError
	switch {
	case errors.As(err, &fetchErr):
		return FailureNetwork
	case errors.As(err, &parseErr):
		return FailureParse
	default:
		return FailurePersist
	}
}
