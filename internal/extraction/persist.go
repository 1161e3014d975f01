package extraction

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/company-migrator/internal/fetch"
	"github.com/jonathan/company-migrator/internal/types"
)

// InfoFileName is the text record written into every artifact bundle.
const InfoFileName = "info.txt"

// space matches what browsers treat as whitespace: ASCII space characters,
// vertical tab, every Unicode separator (NBSP included) and the BOM.
const space = `\s\x{0B}\p{Z}\x{FEFF}`

var (
	nonWordPattern   = regexp.MustCompile(`[^\w` + space + `]`)
	separatorPattern = regexp.MustCompile(`[` + space + `_]+`)
)

// Sanitize turns a company name into a folder name: characters that are
// neither word characters nor whitespace are dropped, then runs of whitespace
// (and any underscores inside them) become a single underscore.
func Sanitize(name string) string {
	name = nonWordPattern.ReplaceAllString(name, "")
	return separatorPattern.ReplaceAllString(name, "_")
}

// BundleDir returns the artifact folder for a company under dataDir.
func BundleDir(dataDir, companyName string) string {
	return filepath.Join(dataDir, Sanitize(companyName))
}

// RenderInfo renders the fixed-layout text record for a profile.
// logoFile is the logo file name, or the sentinel when none was written.
func RenderInfo(p *types.CompanyProfile, logoFile string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Company Name : %s\n", p.CompanyName)
	fmt.Fprintf(&sb, "Ticker       : %s\n", p.Ticker)
	fmt.Fprintf(&sb, "Exchange     : %s\n", p.Exchange)
	fmt.Fprintf(&sb, "Industry     : %s\n", p.Industry)
	fmt.Fprintf(&sb, "Sector       : %s\n", p.Sector)
	fmt.Fprintf(&sb, "Employees    : %s\n", p.Employees)
	fmt.Fprintf(&sb, "Location     : %s\n", p.Location)
	fmt.Fprintf(&sb, "Website      : %s\n", p.Website)
	sb.WriteString("\n")

	sb.WriteString("Social Links:\n")
	fmt.Fprintf(&sb, "LinkedIn     : %s\n", p.Social(types.PlatformLinkedIn))
	fmt.Fprintf(&sb, "Twitter      : %s\n", p.Social(types.PlatformTwitter))
	fmt.Fprintf(&sb, "Facebook     : %s\n", p.Social(types.PlatformFacebook))
	fmt.Fprintf(&sb, "Instagram    : %s\n", p.Social(types.PlatformInstagram))
	fmt.Fprintf(&sb, "YouTube      : %s\n", p.Social(types.PlatformYouTube))
	sb.WriteString("\n")

	sb.WriteString("Description:\n")
	sb.WriteString(p.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Logo File:\n")
	sb.WriteString(logoFile)
	sb.WriteString("\n\n")

	sb.WriteString("Source URL:\n")
	sb.WriteString(p.SourceURL)

	return strings.TrimSpace(sb.String())
}

// Persist writes the artifact bundle for a profile under dataDir.
// When a logo URL was resolved it is downloaded and LogoImagePath is set to
// the written file; a download failure aborts persisting. The info record is
// always written.
func Persist(ctx context.Context, p *types.CompanyProfile, dataDir string, opts *fetch.Options) error {
	dir := BundleDir(dataDir, p.CompanyName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &PersistError{
			Path:    dir,
			Message: "failed to create bundle directory",
			Cause:   err,
		}
	}

	logoFile := types.LogoSentinel
	p.LogoImagePath = types.LogoSentinel

	if p.LogoURL != "" {
		data, err := fetch.Download(ctx, p.LogoURL, opts)
		if err != nil {
			return err
		}

		name := LogoFileName(p.Exchange, p.Ticker)
		imagePath := filepath.Join(dir, name)
		if err := os.WriteFile(imagePath, data, 0644); err != nil {
			return &PersistError{
				Path:    imagePath,
				Message: "failed to write logo",
				Cause:   err,
			}
		}
		logoFile = name
		p.LogoImagePath = imagePath

		if opts != nil && opts.Verbose {
			log.Printf("[EXTRACT] Logo written: %s (%d bytes)", imagePath, len(data))
		}
	}

	infoPath := filepath.Join(dir, InfoFileName)
	if err := os.WriteFile(infoPath, []byte(RenderInfo(p, logoFile)), 0644); err != nil {
		return &PersistError{
			Path:    infoPath,
			Message: "failed to write info record",
			Cause:   err,
		}
	}

	return nil
}
