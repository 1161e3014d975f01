// Package types provides type definitions for structured data used throughout the company migrator.
//
//nolint:revive // types is a standard Go package name pattern
package types

// LogoSentinel marks a profile whose logo was not persisted.
const LogoSentinel = "N/A"

// Platform names a social network a company page may link to.
type Platform string

const (
	// PlatformLinkedIn is linkedin.com
	PlatformLinkedIn Platform = "linkedin"
	// PlatformTwitter is twitter.com
	PlatformTwitter Platform = "twitter"
	// PlatformFacebook is facebook.com
	PlatformFacebook Platform = "facebook"
	// PlatformInstagram is instagram.com
	PlatformInstagram Platform = "instagram"
	// PlatformYouTube is youtube.com
	PlatformYouTube Platform = "youtube"
)

// PlatformDomain pairs a platform with the host substring that identifies it.
type PlatformDomain struct {
	Platform Platform
	Domain   string
}

// KnownPlatforms lists the social platforms recognised in anchors, in the
// order they appear in the info record.
var KnownPlatforms = []PlatformDomain{
	{Platform: PlatformLinkedIn, Domain: "linkedin.com"},
	{Platform: PlatformTwitter, Domain: "twitter.com"},
	{Platform: PlatformFacebook, Domain: "facebook.com"},
	{Platform: PlatformInstagram, Domain: "instagram.com"},
	{Platform: PlatformYouTube, Domain: "youtube.com"},
}

// SocialLinks maps a platform to the first URL discovered for it.
// Platforms that were not discovered have no entry.
type SocialLinks map[Platform]string

// CompanyProfile is the structured record extracted from one company page.
type CompanyProfile struct {
	CompanyName string      `json:"company_name"`
	Ticker      string      `json:"ticker"`
	Exchange    string      `json:"exchange"`
	Industry    string      `json:"industry"`
	Sector      string      `json:"sector"`
	Employees   string      `json:"employees"`
	Location    string      `json:"location"`
	Website     string      `json:"website"`
	Description string      `json:"description"`
	SocialLinks SocialLinks `json:"social_links"`

	// LogoURL is the absolute logo URL resolved from the page, "" when none was found.
	LogoURL string `json:"logo_url,omitempty"`
	// LogoImagePath is the persisted logo file, or LogoSentinel.
	LogoImagePath string `json:"logo_image_path"`
	SourceURL     string `json:"source_url"`
}

// HasLogo reports whether a logo file was persisted for the profile.
func (p *CompanyProfile) HasLogo() bool {
	return p.LogoImagePath != "" && p.LogoImagePath != LogoSentinel
}

// Social returns the discovered URL for a platform, or "".
func (p *CompanyProfile) Social(platform Platform) string {
	if p.SocialLinks == nil {
		return ""
	}
	return p.SocialLinks[platform]
}
