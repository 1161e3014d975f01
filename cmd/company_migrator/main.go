// Package main provides the entry point for the company profile migrator.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "company_migrator",
	Short: "Migrate one company profile to the upload portal",
	Long: `Asks for a company page URL, scrapes its profile, logo and social links into
data/<company>/, submits them through the upload portal in a browser and records
the company in uploaded.json so it is never submitted twice.

Settings come from COMPANY_MIGRATOR_* environment variables (a .env file is
loaded if present) and an optional JSON file named by COMPANY_MIGRATOR_CONFIG.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMigration,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
