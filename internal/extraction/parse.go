package extraction

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/company-migrator/internal/types"
)

// Selectors for the company page layout.
const (
	selectorCompanyName = ".vendor_name h1"
	selectorTicker      = ".ticker_name"
	selectorLabel       = "span.blue_txt"
	selectorEmployees   = "li.employees"
	selectorLocation    = "li.location"
	selectorDescription = ".company_description"
	selectorWebsite     = ".btn_visit_website a"
)

// Labels used to locate marker-keyed fields.
const (
	LabelExchange = "Exchange"
	LabelIndustry = "Industry"
	LabelSector   = "Sector"
)

// Parse builds a CompanyProfile from company page markup.
// The logo is resolved against siteOrigin but not downloaded; LogoImagePath is
// left as the sentinel until Persist writes the file.
func Parse(markup, sourceURL, siteOrigin string) (*types.CompanyProfile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &ParseError{
			Message: "failed to parse HTML",
			Cause:   err,
		}
	}

	name := doc.Find(selectorCompanyName)
	if name.Length() == 0 {
		return nil, &ParseError{Message: "company name element not found"}
	}

	profile := &types.CompanyProfile{
		CompanyName:   strings.TrimSpace(name.Text()),
		Ticker:        strings.TrimSpace(doc.Find(selectorTicker).Text()),
		Exchange:      TextByLabel(doc, LabelExchange),
		Industry:      TextByLabel(doc, LabelIndustry),
		Sector:        TextByLabel(doc, LabelSector),
		Employees:     strings.TrimSpace(doc.Find(selectorEmployees).Text()),
		Location:      strings.TrimSpace(doc.Find(selectorLocation).Text()),
		Description:   strings.TrimSpace(doc.Find(selectorDescription).Text()),
		SocialLinks:   ExtractSocialLinks(doc),
		LogoURL:       ResolveLogo(doc, siteOrigin),
		LogoImagePath: types.LogoSentinel,
		SourceURL:     sourceURL,
	}

	if href, ok := doc.Find(selectorWebsite).Attr("href"); ok {
		profile.Website = strings.TrimSpace(href)
	}

	return profile, nil
}

// TextByLabel finds the first marker span containing label and returns the
// plain text that sits next to it inside the parent element. Only direct text
// nodes of the parent are read, so the label itself and sibling markup are skipped
// wherever they appear in the subtree.
func TextByLabel(doc *goquery.Document, label string) string {
	var value string
	doc.Find(selectorLabel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), label) {
			return true
		}

		var sb strings.Builder
		s.Parent().Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				sb.WriteString(c.Text())
			}
		})
		value = strings.TrimSpace(sb.String())
		return false
	})
	return value
}

// ExtractSocialLinks scans every anchor and classifies its href against the
// known platform domains. The first anchor seen for a platform wins.
func ExtractSocialLinks(doc *goquery.Document) types.SocialLinks {
	links := make(types.SocialLinks)

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" {
			return
		}

		for _, known := range types.KnownPlatforms {
			if _, seen := links[known.Platform]; seen {
				continue
			}
			if strings.Contains(href, known.Domain) {
				links[known.Platform] = href
			}
		}
	})

	return links
}
