// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/company-migrator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxDescription is how much of the description verbose output shows
	maxDescription = 120
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		line = truncate(line, boxWidth-4)
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most limit runes, ending in "..." when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

// PrintCompanyProfile outputs a human-readable summary of a scraped company profile.
func (p *Printer) PrintCompanyProfile(profile *types.CompanyProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Company:   %s\n", profile.CompanyName))
	if profile.Ticker != "" || profile.Exchange != "" {
		sb.WriteString(fmt.Sprintf("Ticker:    %s (%s)\n", orDash(profile.Ticker), orDash(profile.Exchange)))
	}
	sb.WriteString(fmt.Sprintf("Industry:  %s\n", orDash(profile.Industry)))
	sb.WriteString(fmt.Sprintf("Sector:    %s\n", orDash(profile.Sector)))
	sb.WriteString(fmt.Sprintf("Employees: %s\n", orDash(profile.Employees)))
	sb.WriteString(fmt.Sprintf("Location:  %s\n", orDash(profile.Location)))
	sb.WriteString(fmt.Sprintf("Website:   %s\n", orDash(profile.Website)))
	sb.WriteString(fmt.Sprintf("Logo:      %s\n", orDash(profile.LogoImagePath)))

	if profile.Description != "" {
		desc := truncate(profile.Description, maxDescription)
		sb.WriteString("\n")
		sb.WriteString(desc)
		sb.WriteString("\n")
	}

	if len(profile.SocialLinks) > 0 {
		sb.WriteString("\nSocial links:\n")
		for _, known := range types.KnownPlatforms {
			if link := profile.Social(known.Platform); link != "" {
				sb.WriteString(fmt.Sprintf("  • %s: %s\n", known.Platform, link))
			}
		}
	}

	p.printBox("SCRAPED COMPANY PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}
