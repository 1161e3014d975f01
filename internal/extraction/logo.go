package extraction

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSiteOrigin is the origin root-relative logo paths are resolved against.
const DefaultSiteOrigin = "https://www.annualreports.com"

// LogoPathMarker identifies company logo images by their src path.
const LogoPathMarker = "CompanyLogos"

// ResolveLogo returns the absolute URL of the first image whose src contains
// LogoPathMarker, or "" when the page has none.
func ResolveLogo(doc *goquery.Document, siteOrigin string) string {
	src, ok := doc.Find("img[src*='" + LogoPathMarker + "']").First().Attr("src")
	if !ok {
		return ""
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}

	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	if strings.HasPrefix(src, "/") {
		if siteOrigin == "" {
			siteOrigin = DefaultSiteOrigin
		}
		return strings.TrimSuffix(siteOrigin, "/") + src
	}
	return src
}

// LogoFileName is the artifact name for a company's logo.
func LogoFileName(exchange, ticker string) string {
	return exchange + "_" + ticker + ".png"
}
