package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/company-migrator/internal/extraction"
	"github.com/jonathan/company-migrator/internal/ledger"
	"github.com/jonathan/company-migrator/internal/types"
)

const acmeURL = "https://www.annualreports.com/Company/acme-corp"

type staticURL struct {
	url string
	err error
}

func (s staticURL) AskURL(context.Context) (string, error) {
	return s.url, s.err
}

type fakeExtractor struct {
	result extraction.Result
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, sourceURL string) extraction.Result {
	f.calls++
	if f.result.Profile != nil {
		f.result.Profile.SourceURL = sourceURL
	}
	return f.result
}

type fakeSubmitter struct {
	err      error
	calls    int
	profiles []*types.CompanyProfile
}

func (f *fakeSubmitter) Submit(_ context.Context, profile *types.CompanyProfile) error {
	f.calls++
	f.profiles = append(f.profiles, profile)
	return f.err
}

func okExtractor() *fakeExtractor {
	return &fakeExtractor{result: extraction.Result{Profile: &types.CompanyProfile{
		CompanyName:   "Acme Corp",
		LogoImagePath: "data/Acme_Corp/NASDAQ_ACME.png",
	}}}
}

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	return ledger.New(filepath.Join(t.TempDir(), ledger.FileName))
}

func TestRun_EmptyInputIsNoOp(t *testing.T) {
	led := newLedger(t)
	ext := okExtractor()
	sub := &fakeSubmitter{}
	var out bytes.Buffer

	outcome, err := Run(context.Background(), Deps{
		Ledger: led, Prompt: staticURL{}, Extractor: ext, Submitter: sub,
	}, RunOptions{Out: &out})

	require.NoError(t, err)
	assert.Equal(t, StateDoneNoInput, outcome.State)
	assert.Contains(t, out.String(), "No URL provided")
	assert.Zero(t, ext.calls)
	assert.Zero(t, sub.calls)
	assert.NoFileExists(t, led.Path())
}

func TestRun_PromptErrorPropagates(t *testing.T) {
	_, err := Run(context.Background(), Deps{
		Ledger: newLedger(t), Prompt: staticURL{err: errors.New("stdin closed")},
		Extractor: okExtractor(), Submitter: &fakeSubmitter{},
	}, RunOptions{Out: &bytes.Buffer{}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stdin closed")
}

func TestRun_AlreadyUploadedSkipsExtraction(t *testing.T) {
	led := newLedger(t)
	require.NoError(t, led.Record("acme-corp"))

	ext := okExtractor()
	sub := &fakeSubmitter{}
	var out bytes.Buffer

	outcome, err := Run(context.Background(), Deps{
		Ledger: ledger.New(led.Path()), Prompt: staticURL{url: acmeURL}, Extractor: ext, Submitter: sub,
	}, RunOptions{Out: &out})

	require.NoError(t, err)
	assert.Equal(t, StateDoneSkipped, outcome.State)
	assert.Equal(t, "acme-corp", outcome.Key)
	assert.Contains(t, out.String(), "Already uploaded: acme-corp")
	assert.Zero(t, ext.calls)
	assert.Zero(t, sub.calls)
}

func TestRun_ExtractionFailureAborts(t *testing.T) {
	led := newLedger(t)
	ext := &fakeExtractor{result: extraction.Result{Failure: &extraction.Failure{
		Kind:   extraction.FailureParse,
		Detail: "company name element not found",
	}}}
	sub := &fakeSubmitter{}
	var out bytes.Buffer

	outcome, err := Run(context.Background(), Deps{
		Ledger: led, Prompt: staticURL{url: acmeURL}, Extractor: ext, Submitter: sub,
	}, RunOptions{Out: &out})

	require.NoError(t, err)
	assert.Equal(t, StateDoneAborted, outcome.State)
	require.NotNil(t, outcome.Failure)
	assert.Equal(t, extraction.FailureParse, outcome.Failure.Kind)
	assert.Contains(t, out.String(), "Error scraping")
	assert.Zero(t, sub.calls)
	assert.Zero(t, led.Len())
}

func TestRun_SubmitFailureLeavesLedgerUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ledger.FileName)
	ext := okExtractor()
	sub := &fakeSubmitter{err: errors.New("confirmation timed out")}

	outcome, err := Run(context.Background(), Deps{
		Ledger: ledger.New(path), Prompt: staticURL{url: acmeURL}, Extractor: ext, Submitter: sub,
	}, RunOptions{Out: &bytes.Buffer{}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload failed")
	assert.Equal(t, StateDoneAborted, outcome.State)
	assert.NoFileExists(t, path)

	// A rerun is not treated as a duplicate.
	sub.err = nil
	outcome, err = Run(context.Background(), Deps{
		Ledger: ledger.New(path), Prompt: staticURL{url: acmeURL}, Extractor: ext, Submitter: sub,
	}, RunOptions{Out: &bytes.Buffer{}})

	require.NoError(t, err)
	assert.Equal(t, StateDoneSuccess, outcome.State)
	assert.Equal(t, 2, ext.calls)
	assert.Equal(t, 2, sub.calls)
}

func TestRun_SuccessRecordsKey(t *testing.T) {
	led := newLedger(t)
	ext := okExtractor()
	sub := &fakeSubmitter{}
	var out bytes.Buffer

	outcome, err := Run(context.Background(), Deps{
		Ledger: led, Prompt: staticURL{url: acmeURL}, Extractor: ext, Submitter: sub,
	}, RunOptions{Out: &out})

	require.NoError(t, err)
	assert.Equal(t, StateDoneSuccess, outcome.State)
	assert.Equal(t, "acme-corp", outcome.Key)
	assert.NotEmpty(t, outcome.RunID)
	require.NotNil(t, outcome.Profile)
	assert.Equal(t, acmeURL, sub.profiles[0].SourceURL)
	assert.Contains(t, out.String(), "Uploaded to portal successfully")

	reloaded := ledger.New(led.Path())
	require.NoError(t, reloaded.Load())
	assert.Equal(t, []string{"acme-corp"}, reloaded.Keys())
}

func TestRun_FirstRunCreatesLedger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ledger.FileName)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))

	_, err := Run(context.Background(), Deps{
		Ledger: ledger.New(path), Prompt: staticURL{url: acmeURL},
		Extractor: okExtractor(), Submitter: &fakeSubmitter{},
	}, RunOptions{Out: &bytes.Buffer{}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["acme-corp"]`, string(data))
}

func TestRun_CorruptLedgerStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), ledger.FileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	outcome, err := Run(context.Background(), Deps{
		Ledger: ledger.New(path), Prompt: staticURL{url: acmeURL},
		Extractor: okExtractor(), Submitter: &fakeSubmitter{},
	}, RunOptions{Out: &bytes.Buffer{}, Verbose: true})

	require.NoError(t, err)
	assert.Equal(t, StateDoneSuccess, outcome.State)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["acme-corp"]`, string(data))
}

func TestRun_RecordFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	// A directory where the ledger file should be makes the write fail.
	path := filepath.Join(dir, ledger.FileName)
	require.NoError(t, os.Mkdir(path, 0755))

	sub := &fakeSubmitter{}
	outcome, err := Run(context.Background(), Deps{
		Ledger: ledger.New(path), Prompt: staticURL{url: acmeURL},
		Extractor: okExtractor(), Submitter: sub,
	}, RunOptions{Out: &bytes.Buffer{}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record acme-corp")
	assert.Equal(t, 1, sub.calls)
	assert.Equal(t, StateDoneAborted, outcome.State)
}

func TestRun_ProgressEvents(t *testing.T) {
	var states []State
	var runIDs []string

	outcome, err := Run(context.Background(), Deps{
		Ledger: newLedger(t), Prompt: staticURL{url: acmeURL},
		Extractor: okExtractor(), Submitter: &fakeSubmitter{},
	}, RunOptions{
		Out: &bytes.Buffer{},
		OnProgress: func(e ProgressEvent) {
			states = append(states, e.State)
			runIDs = append(runIDs, e.RunID)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []State{
		StateInit, StateLoadLedger, StatePrompt, StateDedupCheck,
		StateExtract, StateSubmit, StateRecord, StateDoneSuccess,
	}, states)
	for _, id := range runIDs {
		assert.Equal(t, outcome.RunID, id)
	}
}
