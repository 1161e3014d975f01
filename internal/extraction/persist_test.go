package extraction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/company-migrator/internal/fetch"
	"github.com/jonathan/company-migrator/internal/types"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Acme Corp", want: "Acme_Corp"},
		{input: "Procter & Gamble Co.", want: "Procter_Gamble_Co"},
		{input: "  Lots   of\tspace  ", want: "_Lots_of_space_"},
		{input: "AT&T", want: "ATT"},
		{input: "Snake_Case  Inc", want: "Snake_Case_Inc"},
		{input: "Under _ score", want: "Under_score"},
		{input: "Société Générale", want: "Socit_Gnrale"},
		{input: "Acme\u00a0Corp", want: "Acme_Corp"},
		{input: "Acme\vCorp", want: "Acme_Corp"},
		{input: "Acme\u2003\u00a0 Corp", want: "Acme_Corp"},
		{input: "\ufeffAcme Corp", want: "_Acme_Corp"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"Acme Corp",
		"  a  _  b  ",
		"__x__",
		"Berkshire Hathaway Inc. (Class B)",
		"3M",
		"日本電信電話",
		"tab\tnew\nline",
		"a-b-c",
		"Acme\u00a0Corp",
		"vertical\vtab",
		"ideographic\u3000space",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		assert.Equal(t, once, Sanitize(once), "input %q", input)
		assert.NotContains(t, once, "__", "input %q", input)
		assert.Regexp(t, `^[A-Za-z0-9_]*$`, once)
	}
}

func TestBundleDir_NonBreakingSpaceFromMarkup(t *testing.T) {
	profile, err := Parse(`<div class="vendor_name"><h1>Acme&nbsp;Corp</h1></div>`, "https://example.com/Company/acme", "")
	require.NoError(t, err)

	assert.Equal(t, "Acme\u00a0Corp", profile.CompanyName)
	assert.Equal(t, filepath.Join("data", "Acme_Corp"), BundleDir("data", profile.CompanyName))
}

func TestRenderInfo_Layout(t *testing.T) {
	profile := &types.CompanyProfile{
		CompanyName: "Acme Corp",
		Ticker:      "ACME",
		Exchange:    "NASDAQ",
		Industry:    "Software",
		Sector:      "Technology",
		Employees:   "1,200",
		Location:    "Austin, TX",
		Website:     "https://acme.example",
		Description: "Acme builds everything.",
		SocialLinks: types.SocialLinks{
			types.PlatformLinkedIn: "https://www.linkedin.com/company/acme",
			types.PlatformTwitter:  "https://twitter.com/acme",
		},
		SourceURL: "https://example.com/Company/acme-corp",
	}

	want := `Company Name : Acme Corp
Ticker       : ACME
Exchange     : NASDAQ
Industry     : Software
Sector       : Technology
Employees    : 1,200
Location     : Austin, TX
Website      : https://acme.example

Social Links:
LinkedIn     : https://www.linkedin.com/company/acme
Twitter      : https://twitter.com/acme
Facebook     : 
Instagram    : 
YouTube      : 

Description:
Acme builds everything.

Logo File:
NASDAQ_ACME.png

Source URL:
https://example.com/Company/acme-corp`

	assert.Equal(t, want, RenderInfo(profile, "NASDAQ_ACME.png"))
}

func TestPersist_WithLogo(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(png)
	}))
	defer server.Close()

	dataDir := filepath.Join(t.TempDir(), "data")
	profile := &types.CompanyProfile{
		CompanyName: "Acme Corp",
		Ticker:      "ACME",
		Exchange:    "NASDAQ",
		LogoURL:     server.URL + "/img/CompanyLogos/acme.png",
		SourceURL:   "https://example.com/Company/acme-corp",
	}

	err := Persist(context.Background(), profile, dataDir, nil)
	require.NoError(t, err)

	imagePath := filepath.Join(dataDir, "Acme_Corp", "NASDAQ_ACME.png")
	assert.Equal(t, imagePath, profile.LogoImagePath)
	data, err := os.ReadFile(imagePath)
	require.NoError(t, err)
	assert.Equal(t, png, data)

	info, err := os.ReadFile(filepath.Join(dataDir, "Acme_Corp", InfoFileName))
	require.NoError(t, err)
	assert.Contains(t, string(info), "Exchange     : NASDAQ")
	assert.Contains(t, string(info), "Logo File:\nNASDAQ_ACME.png")
}

func TestPersist_WithoutLogo(t *testing.T) {
	dataDir := t.TempDir()
	profile := &types.CompanyProfile{
		CompanyName:   "No Logo Inc",
		Ticker:        "NOLO",
		Exchange:      "NYSE",
		LogoImagePath: types.LogoSentinel,
	}

	err := Persist(context.Background(), profile, dataDir, nil)
	require.NoError(t, err)

	assert.Equal(t, types.LogoSentinel, profile.LogoImagePath)

	entries, err := os.ReadDir(filepath.Join(dataDir, "No_Logo_Inc"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, InfoFileName, entries[0].Name())

	info, err := os.ReadFile(filepath.Join(dataDir, "No_Logo_Inc", InfoFileName))
	require.NoError(t, err)
	assert.Contains(t, string(info), "Logo File:\nN/A")
}

func TestPersist_LogoDownloadFailureAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dataDir := t.TempDir()
	profile := &types.CompanyProfile{
		CompanyName: "Broken Logo",
		Ticker:      "BRK",
		Exchange:    "NYSE",
		LogoURL:     server.URL + "/img/CompanyLogos/missing.png",
	}

	err := Persist(context.Background(), profile, dataDir, nil)
	require.Error(t, err)

	var fetchErr *fetch.Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, types.LogoSentinel, profile.LogoImagePath)

	_, statErr := os.Stat(filepath.Join(dataDir, "Broken_Logo", InfoFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPersist_OverwritesOnRerun(t *testing.T) {
	dataDir := t.TempDir()
	profile := &types.CompanyProfile{CompanyName: "Rerun Co", Description: "first"}
	require.NoError(t, Persist(context.Background(), profile, dataDir, nil))

	profile.Description = "second"
	require.NoError(t, Persist(context.Background(), profile, dataDir, nil))

	info, err := os.ReadFile(filepath.Join(dataDir, "Rerun_Co", InfoFileName))
	require.NoError(t, err)
	assert.Contains(t, string(info), "second")
	assert.NotContains(t, string(info), "first")
}
