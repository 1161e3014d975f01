package main

import (
	"context"
	"fmt"

	"github.com/jonathan/company-migrator/internal/config"
	"github.com/jonathan/company-migrator/internal/extraction"
	"github.com/jonathan/company-migrator/internal/fetch"
	"github.com/jonathan/company-migrator/internal/ledger"
	"github.com/jonathan/company-migrator/internal/pipeline"
	"github.com/jonathan/company-migrator/internal/prompt"
	"github.com/jonathan/company-migrator/internal/submission"
	"github.com/spf13/cobra"
)

// promptDriver asks for the URL; tests replace it.
var promptDriver prompt.Driver = prompt.SurveyDriver{}

func runMigration(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	_, err = pipeline.Run(context.Background(), buildDeps(cfg, promptDriver), pipeline.RunOptions{
		Verbose: cfg.Verbose,
		Out:     cmd.OutOrStdout(),
	})
	return err
}

// buildDeps wires the production collaborators from the effective config.
func buildDeps(cfg config.Config, driver prompt.Driver) pipeline.Deps {
	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = cfg.FetchTimeout()
	fetchOpts.UserAgent = cfg.UserAgent

	launcher := submission.NewChromeLauncher(submission.ChromeOptions{
		Headless:        cfg.Headless,
		NavigateTimeout: cfg.NavigateTimeout(),
		StepTimeout:     cfg.StepTimeout(),
		ConfirmTimeout:  cfg.ConfirmTimeout(),
		Verbose:         cfg.Verbose,
	})

	return pipeline.Deps{
		Ledger: ledger.New(cfg.LedgerPath()),
		Prompt: prompt.NewURLPrompter(driver),
		Extractor: extraction.NewExtractor(extraction.Options{
			DataDir:    cfg.DataDir(),
			SiteOrigin: cfg.SiteOrigin,
			Fetch:      fetchOpts,
			Verbose:    cfg.Verbose,
		}),
		Submitter: submission.NewSubmitter(launcher, submission.Options{
			UploadURL:   cfg.UploadURL,
			ConfirmPath: cfg.ConfirmPath,
			Verbose:     cfg.Verbose,
		}),
	}
}
