// Package fetch provides the HTTP retrieval used by extraction: page markup and binary assets.
package fetch

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies requests as coming from a browser.
const DefaultUserAgent = "Mozilla/5.0"

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents a transport or status failure during fetching.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Verbose   bool
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// URL retrieves HTML content from a URL.
// The Result is returned alongside a status error so callers can inspect the code.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	resp, err := get(ctx, urlStr, opts)
	if resp == nil {
		return nil, err
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(resp.Body()),
		ContentType: resp.Header().Get("Content-Type"),
		StatusCode:  resp.StatusCode(),
	}
	return result, err
}

// Download retrieves the raw bytes behind a URL, such as an image.
func Download(ctx context.Context, urlStr string, opts *Options) ([]byte, error) {
	resp, err := get(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func get(ctx context.Context, urlStr string, opts *Options) (*resty.Response, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeaders(opts.Headers)

	if opts.Verbose {
		log.Printf("[FETCH] GET %s", urlStr)
	}

	resp, err := client.R().SetContext(ctx).Get(urlStr)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}

	if opts.Verbose {
		log.Printf("[FETCH] %s -> %d (%d bytes)", urlStr, resp.StatusCode(), len(resp.Body()))
	}

	if !resp.IsSuccess() {
		return resp, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode()),
			StatusCode: resp.StatusCode(),
		}
	}

	return resp, nil
}
