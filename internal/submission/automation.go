// Package submission drives a browser to fill and submit the remote upload form.
package submission

import "context"

// Outcome is the result of an atomic submit-and-confirm.
type Outcome string

const (
	// OutcomeConfirmed means a matching response with the expected status arrived.
	OutcomeConfirmed Outcome = "confirmed"
	// OutcomeFailed means a matching response arrived with a different status.
	OutcomeFailed Outcome = "failed"
	// OutcomeTimeout means no matching response arrived before the deadline.
	OutcomeTimeout Outcome = "timeout"
)

// ResponseMatch selects the network response that confirms a submit.
type ResponseMatch struct {
	URLContains string
	Status      int
}

// Confirmation reports how a submit-and-confirm ended.
type Confirmation struct {
	Outcome Outcome
	URL     string
	Status  int
}

// Automation is the capability set the submitter needs from a browser backend.
// Selectors are CSS query selectors. Implementations apply their own per-step
// timeouts.
type Automation interface {
	// Navigate loads url and waits until the network is idle.
	Navigate(ctx context.Context, url string) error
	// WaitFor waits until selector matches a visible element.
	WaitFor(ctx context.Context, selector string) error
	// Type enters text into the element matching selector.
	Type(ctx context.Context, selector, text string) error
	// SetFiles assigns local files to a file input. It fails with
	// ErrElementNotFound when no element matches.
	SetFiles(ctx context.Context, selector string, paths ...string) error
	// DispatchEvent simulates an interaction event of the given type on the
	// element matching selector. The event bubbles.
	DispatchEvent(ctx context.Context, selector, eventType string) error
	// SubmitAndConfirm clicks selector and waits for a response matching m as
	// one operation. The click is never considered done on its own.
	SubmitAndConfirm(ctx context.Context, selector string, m ResponseMatch) (Confirmation, error)
	// Close releases the browser. It is safe to call more than once.
	Close() error
}

// Launcher starts a fresh Automation instance.
type Launcher interface {
	Launch(ctx context.Context) (Automation, error)
}
