// Package pipeline provides the single-pass orchestration of one company migration.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/company-migrator/internal/extraction"
	"github.com/jonathan/company-migrator/internal/ledger"
	"github.com/jonathan/company-migrator/internal/observability"
	"github.com/jonathan/company-migrator/internal/types"
)

// State is a stage of the migration state machine.
type State string

const (
	StateInit        State = "init"
	StateLoadLedger  State = "load_ledger"
	StatePrompt      State = "prompt"
	StateDedupCheck  State = "dedup_check"
	StateExtract     State = "extract"
	StateSubmit      State = "submit"
	StateRecord      State = "record"
	StateDoneNoInput State = "done_no_input"
	StateDoneSkipped State = "done_skipped"
	StateDoneAborted State = "done_aborted"
	StateDoneSuccess State = "done_success"
)

// ProgressEvent represents a state transition during a run.
type ProgressEvent struct {
	State   State  `json:"state"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Key     string `json:"key,omitempty"`
}

// ProgressCallback is called on every state transition.
type ProgressCallback func(event ProgressEvent)

// Ledger is the dedup store consulted and updated by a run.
type Ledger interface {
	Load() error
	Contains(key string) bool
	Record(key string) error
}

// URLSource supplies the one URL a run processes.
type URLSource interface {
	AskURL(ctx context.Context) (string, error)
}

// Extractor produces a profile and its artifacts from a URL.
type Extractor interface {
	Extract(ctx context.Context, sourceURL string) extraction.Result
}

// Submitter submits a profile to the upload portal.
type Submitter interface {
	Submit(ctx context.Context, profile *types.CompanyProfile) error
}

// Deps are the collaborators a run drives.
type Deps struct {
	Ledger    Ledger
	Prompt    URLSource
	Extractor Extractor
	Submitter Submitter
}

// RunOptions holds configuration for running the pipeline.
type RunOptions struct {
	Verbose    bool
	Out        io.Writer
	OnProgress ProgressCallback
}

// Outcome summarises how a run ended.
type Outcome struct {
	RunID   string
	State   State
	URL     string
	Key     string
	Profile *types.CompanyProfile
	// Failure is set when extraction aborted the run.
	Failure *extraction.Failure
}

type run struct {
	deps    Deps
	opts    RunOptions
	out     io.Writer
	outcome Outcome
}

func (r *run) enter(state State, message string) {
	r.outcome.State = state
	if r.opts.Verbose {
		log.Printf("[PIPELINE] %s: %s", state, message)
	}
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{
			State:   state,
			Message: message,
			RunID:   r.outcome.RunID,
			Key:     r.outcome.Key,
		})
	}
}

// Run processes at most one URL: load the ledger, ask for a URL, skip it if
// already recorded, otherwise extract, submit and record it. The ledger is
// only written after a confirmed submission. An error is returned only when
// submission or recording fails; every other ending is reported through the
// Outcome.
//
// Two processes running concurrently for the same URL can both pass the
// dedup check; the ledger assumes a single process.
//
//nolint:errcheck // writing status lines to the terminal
func Run(ctx context.Context, deps Deps, opts RunOptions) (Outcome, error) {
	r := &run{deps: deps, opts: opts, out: opts.Out}
	if r.out == nil {
		r.out = os.Stdout
	}
	r.outcome.RunID = uuid.NewString()
	r.enter(StateInit, "run started")

	r.enter(StateLoadLedger, "loading ledger")
	if err := deps.Ledger.Load(); err != nil && opts.Verbose {
		log.Printf("[LEDGER] Starting empty: %v", err)
	}

	r.enter(StatePrompt, "waiting for URL")
	sourceURL, err := deps.Prompt.AskURL(ctx)
	if err != nil {
		return r.outcome, fmt.Errorf("failed to read URL: %w", err)
	}
	if sourceURL == "" {
		fmt.Fprintln(r.out, "No URL provided, exiting...")
		r.enter(StateDoneNoInput, "no URL provided")
		return r.outcome, nil
	}
	r.outcome.URL = sourceURL
	r.outcome.Key = ledger.KeyFromURL(sourceURL)

	r.enter(StateDedupCheck, "checking ledger for "+r.outcome.Key)
	if deps.Ledger.Contains(r.outcome.Key) {
		fmt.Fprintf(r.out, "Already uploaded: %s\n", r.outcome.Key)
		r.enter(StateDoneSkipped, "already uploaded")
		return r.outcome, nil
	}

	r.enter(StateExtract, "extracting "+sourceURL)
	result := deps.Extractor.Extract(ctx, sourceURL)
	if !result.OK() {
		r.outcome.Failure = result.Failure
		msg := "extraction produced no profile"
		if result.Failure != nil {
			msg = fmt.Sprintf("extraction failed (%s): %s", result.Failure.Kind, result.Failure.Detail)
		}
		fmt.Fprintln(r.out, "Error scraping:", msg)
		r.enter(StateDoneAborted, msg)
		return r.outcome, nil
	}
	r.outcome.Profile = result.Profile
	fmt.Fprintln(r.out, "Data, logo and social links scraped successfully")
	if opts.Verbose {
		observability.NewPrinter(r.out).PrintCompanyProfile(result.Profile)
	}

	r.enter(StateSubmit, "submitting "+result.Profile.CompanyName)
	if err := deps.Submitter.Submit(ctx, result.Profile); err != nil {
		fmt.Fprintln(r.out, "Upload failed:", err)
		r.enter(StateDoneAborted, "submission failed")
		return r.outcome, fmt.Errorf("upload failed: %w", err)
	}
	fmt.Fprintln(r.out, "Uploaded to portal successfully")

	r.enter(StateRecord, "recording "+r.outcome.Key)
	if err := deps.Ledger.Record(r.outcome.Key); err != nil {
		r.enter(StateDoneAborted, "ledger write failed")
		return r.outcome, fmt.Errorf("submitted but failed to record %s: %w", r.outcome.Key, err)
	}

	r.enter(StateDoneSuccess, "migrated "+r.outcome.Key)
	return r.outcome, nil
}
