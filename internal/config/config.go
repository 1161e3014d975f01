// Package config provides configuration loading and validation for the migrator.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment variables read by FromEnv.
const (
	EnvConfigFile      = "COMPANY_MIGRATOR_CONFIG"
	EnvRoot            = "COMPANY_MIGRATOR_ROOT"
	EnvUploadURL       = "COMPANY_MIGRATOR_UPLOAD_URL"
	EnvConfirmPath     = "COMPANY_MIGRATOR_CONFIRM_PATH"
	EnvSiteOrigin      = "COMPANY_MIGRATOR_SITE_ORIGIN"
	EnvHeadless        = "COMPANY_MIGRATOR_HEADLESS"
	EnvVerbose         = "COMPANY_MIGRATOR_VERBOSE"
	EnvFetchTimeout    = "COMPANY_MIGRATOR_FETCH_TIMEOUT"
	EnvNavigateTimeout = "COMPANY_MIGRATOR_NAVIGATE_TIMEOUT"
	EnvStepTimeout     = "COMPANY_MIGRATOR_STEP_TIMEOUT"
	EnvConfirmTimeout  = "COMPANY_MIGRATOR_CONFIRM_TIMEOUT"
)

// Config holds the migrator settings. Timeouts are in seconds.
type Config struct {
	// Root is the workspace holding data/ and uploaded.json.
	Root string `json:"root,omitempty" validate:"required"`

	// UploadURL is the upload portal form.
	UploadURL string `json:"upload_url,omitempty" validate:"required,url"`
	// ConfirmPath is the endpoint substring whose response confirms a submit.
	ConfirmPath string `json:"confirm_path,omitempty" validate:"required"`
	// SiteOrigin resolves root-relative logo paths.
	SiteOrigin string `json:"site_origin,omitempty" validate:"required,url"`
	UserAgent  string `json:"user_agent,omitempty" validate:"required"`

	FetchTimeoutSeconds    int `json:"fetch_timeout_seconds,omitempty" validate:"gt=0"`
	NavigateTimeoutSeconds int `json:"navigate_timeout_seconds,omitempty" validate:"gt=0"`
	StepTimeoutSeconds     int `json:"step_timeout_seconds,omitempty" validate:"gt=0"`
	ConfirmTimeoutSeconds  int `json:"confirm_timeout_seconds,omitempty" validate:"gt=0"`

	Headless bool `json:"headless,omitempty"`
	Verbose  bool `json:"verbose,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Root:                   ".",
		UploadURL:              "https://frontend-react-mu-lake.vercel.app/upload-logo",
		ConfirmPath:            "/upload-logo",
		SiteOrigin:             "https://www.annualreports.com",
		UserAgent:              "Mozilla/5.0",
		FetchTimeoutSeconds:    30,
		NavigateTimeoutSeconds: 60,
		StepTimeoutSeconds:     30,
		ConfirmTimeoutSeconds:  30,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds the effective configuration: defaults, then the JSON file
// named by COMPANY_MIGRATOR_CONFIG (if set), then individual environment
// variables. The result is validated.
func FromEnv() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	stringVars := map[string]*string{
		EnvRoot:        &c.Root,
		EnvUploadURL:   &c.UploadURL,
		EnvConfirmPath: &c.ConfirmPath,
		EnvSiteOrigin:  &c.SiteOrigin,
	}
	for name, field := range stringVars {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	ints := map[string]*int{
		EnvFetchTimeout:    &c.FetchTimeoutSeconds,
		EnvNavigateTimeout: &c.NavigateTimeoutSeconds,
		EnvStepTimeout:     &c.StepTimeoutSeconds,
		EnvConfirmTimeout:  &c.ConfirmTimeoutSeconds,
	}
	for name, field := range ints {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer number of seconds: %w", name, err)
		}
		*field = n
	}

	bools := map[string]*bool{
		EnvHeadless: &c.Headless,
		EnvVerbose:  &c.Verbose,
	}
	for name, field := range bools {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be a boolean: %w", name, err)
		}
		*field = b
	}

	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Root == "" {
		result.Root = defaults.Root
	}
	if result.UploadURL == "" {
		result.UploadURL = defaults.UploadURL
	}
	if result.ConfirmPath == "" {
		result.ConfirmPath = defaults.ConfirmPath
	}
	if result.SiteOrigin == "" {
		result.SiteOrigin = defaults.SiteOrigin
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}

	// Int fields: use default if zero
	if result.FetchTimeoutSeconds == 0 {
		result.FetchTimeoutSeconds = defaults.FetchTimeoutSeconds
	}
	if result.NavigateTimeoutSeconds == 0 {
		result.NavigateTimeoutSeconds = defaults.NavigateTimeoutSeconds
	}
	if result.StepTimeoutSeconds == 0 {
		result.StepTimeoutSeconds = defaults.StepTimeoutSeconds
	}
	if result.ConfirmTimeoutSeconds == 0 {
		result.ConfirmTimeoutSeconds = defaults.ConfirmTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so the file value wins.

	return result
}

// DataDir is where artifact bundles are written.
func (c *Config) DataDir() string {
	return filepath.Join(c.Root, "data")
}

// LedgerPath is the uploaded.json ledger file.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Root, "uploaded.json")
}

// FetchTimeout is the per-request HTTP timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// NavigateTimeout bounds loading the upload form until the network is idle.
func (c *Config) NavigateTimeout() time.Duration {
	return time.Duration(c.NavigateTimeoutSeconds) * time.Second
}

// StepTimeout bounds each individual form interaction.
func (c *Config) StepTimeout() time.Duration {
	return time.Duration(c.StepTimeoutSeconds) * time.Second
}

// ConfirmTimeout bounds the submit-and-confirm wait.
func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.ConfirmTimeoutSeconds) * time.Second
}
