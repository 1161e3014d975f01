package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"
)

// Default per-step timeouts for the Chrome backend.
const (
	DefaultNavigateTimeout = 60 * time.Second
	DefaultStepTimeout     = 30 * time.Second
	DefaultConfirmTimeout  = 30 * time.Second
)

// ChromeOptions configures the chromedp-backed automation.
type ChromeOptions struct {
	// Headless hides the browser window. The migrator runs visible by default.
	Headless        bool
	NavigateTimeout time.Duration
	StepTimeout     time.Duration
	ConfirmTimeout  time.Duration
	Verbose         bool
}

func (o ChromeOptions) withDefaults() ChromeOptions {
	if o.NavigateTimeout <= 0 {
		o.NavigateTimeout = DefaultNavigateTimeout
	}
	if o.StepTimeout <= 0 {
		o.StepTimeout = DefaultStepTimeout
	}
	if o.ConfirmTimeout <= 0 {
		o.ConfirmTimeout = DefaultConfirmTimeout
	}
	return o
}

// ChromeLauncher starts Chrome/Chromium through chromedp.
// Requires Chrome/Chromium to be installed on the system.
type ChromeLauncher struct {
	opts ChromeOptions
}

// NewChromeLauncher creates a launcher with the given options.
func NewChromeLauncher(opts ChromeOptions) *ChromeLauncher {
	return &ChromeLauncher{opts: opts.withDefaults()}
}

// Launch starts a browser and opens a tab with network and lifecycle events enabled.
func (l *ChromeLauncher) Launch(ctx context.Context) (Automation, error) {
	if l.opts.Verbose {
		log.Printf("[BROWSER] Starting browser (headless=%t)", l.opts.Headless)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", l.opts.Headless),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	var ctxOpts []chromedp.ContextOption
	if l.opts.Verbose {
		ctxOpts = append(ctxOpts, chromedp.WithLogf(log.Printf))
	}
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	// The first Run allocates the browser; it must use the long-lived context
	// so a step timeout never tears the browser down.
	if err := chromedp.Run(browserCtx,
		network.Enable(),
		page.SetLifecycleEventsEnabled(true),
	); err != nil {
		browserCancel()
		allocCancel()
		return nil, &SubmissionError{Step: "launch", Message: "failed to start browser", Cause: err}
	}

	return &ChromeAutomation{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
		opts:        l.opts,
	}, nil
}

// ChromeAutomation implements Automation on a single chromedp tab.
type ChromeAutomation struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        ChromeOptions
	closeOnce   sync.Once
	closeErr    error
}

// step derives a context that carries the browser, expires after timeout and
// is also cancelled when the caller's ctx is.
func (a *ChromeAutomation) step(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	stepCtx, cancel := context.WithTimeout(a.ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return stepCtx, func() {
		stop()
		cancel()
	}
}

// Navigate loads url and waits for the page's networkIdle lifecycle event.
func (a *ChromeAutomation) Navigate(ctx context.Context, url string) error {
	stepCtx, cancel := a.step(ctx, a.opts.NavigateTimeout)
	defer cancel()

	// Only events after the new document's "init" count; earlier ones belong
	// to the page being replaced.
	idle := make(chan struct{})
	var (
		once    sync.Once
		started bool
	)
	chromedp.ListenTarget(stepCtx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		switch e.Name {
		case "init":
			started = true
		case "networkIdle":
			if started {
				once.Do(func() { close(idle) })
			}
		}
	})

	if a.opts.Verbose {
		log.Printf("[BROWSER] Navigating to %s", url)
	}
	if err := chromedp.Run(stepCtx, chromedp.Navigate(url)); err != nil {
		return &SubmissionError{Step: "navigate", Message: "failed to load " + url, Cause: err}
	}

	select {
	case <-idle:
		return nil
	case <-stepCtx.Done():
		return &SubmissionError{Step: "navigate", Message: "network did not become idle", Cause: stepCtx.Err()}
	}
}

// WaitFor waits for selector to be visible.
func (a *ChromeAutomation) WaitFor(ctx context.Context, selector string) error {
	stepCtx, cancel := a.step(ctx, a.opts.StepTimeout)
	defer cancel()

	if err := chromedp.Run(stepCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return &SubmissionError{Step: "wait", Message: "element not visible: " + selector, Cause: err}
	}
	return nil
}

// Type sends text as key events to selector.
func (a *ChromeAutomation) Type(ctx context.Context, selector, text string) error {
	stepCtx, cancel := a.step(ctx, a.opts.StepTimeout)
	defer cancel()

	err := chromedp.Run(stepCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return &SubmissionError{Step: "fill", Message: "failed to type into " + selector, Cause: err}
	}
	return nil
}

// SetFiles assigns paths to the file input at selector without waiting for it
// to appear; an absent control is an immediate error.
func (a *ChromeAutomation) SetFiles(ctx context.Context, selector string, paths ...string) error {
	stepCtx, cancel := a.step(ctx, a.opts.StepTimeout)
	defer cancel()

	var nodes []*cdp.Node
	if err := chromedp.Run(stepCtx, chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0))); err != nil {
		return &SubmissionError{Step: "upload", Message: "failed to query " + selector, Cause: err}
	}
	if len(nodes) == 0 {
		return &SubmissionError{Step: "upload", Message: "file input not found", Cause: ErrElementNotFound}
	}

	if err := chromedp.Run(stepCtx, chromedp.SetUploadFiles(selector, paths, chromedp.ByQuery)); err != nil {
		return &SubmissionError{Step: "upload", Message: "failed to set files", Cause: err}
	}
	return nil
}

// DispatchEvent fires a bubbling DOM event of eventType on selector.
func (a *ChromeAutomation) DispatchEvent(ctx context.Context, selector, eventType string) error {
	stepCtx, cancel := a.step(ctx, a.opts.StepTimeout)
	defer cancel()

	script := fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	el.dispatchEvent(new Event(%s, { bubbles: true }));
	return true;
})()`, jsString(selector), jsString(eventType))

	var found bool
	if err := chromedp.Run(stepCtx, chromedp.Evaluate(script, &found)); err != nil {
		return &SubmissionError{Step: "event", Message: "failed to dispatch " + eventType, Cause: err}
	}
	if !found {
		return &SubmissionError{Step: "event", Message: "event target not found: " + selector, Cause: ErrElementNotFound}
	}
	return nil
}

// SubmitAndConfirm clicks selector while listening for the matching response.
// Both halves run under one deadline; the click alone never counts as success.
func (a *ChromeAutomation) SubmitAndConfirm(ctx context.Context, selector string, m ResponseMatch) (Confirmation, error) {
	stepCtx, cancel := a.step(ctx, a.opts.ConfirmTimeout)
	defer cancel()

	matched := make(chan Confirmation, 1)
	var (
		mu       sync.Mutex
		mismatch *Confirmation
	)
	chromedp.ListenTarget(stepCtx, func(ev interface{}) {
		e, ok := ev.(*network.EventResponseReceived)
		if !ok || e.Response == nil || !strings.Contains(e.Response.URL, m.URLContains) {
			return
		}
		c := Confirmation{URL: e.Response.URL, Status: int(e.Response.Status)}
		if c.Status == m.Status {
			c.Outcome = OutcomeConfirmed
			select {
			case matched <- c:
			default:
			}
			return
		}
		c.Outcome = OutcomeFailed
		mu.Lock()
		mismatch = &c
		mu.Unlock()
	})

	var confirmation Confirmation
	g, gctx := errgroup.WithContext(stepCtx)
	g.Go(func() error {
		select {
		case confirmation = <-matched:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	g.Go(func() error {
		if a.opts.Verbose {
			log.Printf("[BROWSER] Clicking %s", selector)
		}
		if err := chromedp.Run(gctx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
			return &SubmissionError{Step: "submit", Message: "failed to click " + selector, Cause: err}
		}
		return nil
	})

	err := g.Wait()
	if err == nil {
		return confirmation, nil
	}

	var subErr *SubmissionError
	if errors.As(err, &subErr) && stepCtx.Err() == nil {
		return Confirmation{}, subErr
	}

	mu.Lock()
	defer mu.Unlock()
	if mismatch != nil {
		return *mismatch, nil
	}
	return Confirmation{Outcome: OutcomeTimeout}, nil
}

// Close shuts the browser down. Subsequent calls return the first result.
func (a *ChromeAutomation) Close() error {
	a.closeOnce.Do(func() {
		if a.opts.Verbose {
			log.Printf("[BROWSER] Closing browser")
		}
		a.closeErr = chromedp.Cancel(a.ctx)
		a.cancel()
		a.allocCancel()
	})
	return a.closeErr
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
