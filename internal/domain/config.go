package domain

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Environment variables read by the config loader.
const (
	EnvValidatorCLI = "OOXML_VALIDATOR_CLI"
	EnvVersion      = "OOXML_VALIDATOR_VERSION"
	EnvHome         = "OOXML_VALIDATOR_HOME"
	EnvLogLevel     = "OOXML_VALIDATOR_LOG_LEVEL"
	EnvLogFormat    = "OOXML_VALIDATOR_LOG_FORMAT"
)

const (
	DefaultVersion      = "v0.1.0"
	DefaultDownloadBase = "https://github.com/xarsh/ooxml-validator/releases/download"
	DefaultMaxRedirects = 5
	DefaultRetries      = 3
)

// ValidLogLevels and ValidLogFormats enumerate accepted logging settings.
var (
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
	ValidLogFormats = []string{"console", "json"}
)

// Config holds settings loaded from .ooxml-validator.yaml and the environment.
type Config struct {
	// ValidatorCLI overrides the embedded binary with an external command line.
	ValidatorCLI  string         `yaml:"validator_cli"  json:"validator_cli,omitempty"`
	Version       string         `yaml:"version"        json:"version"`
	InstallRoot   string         `yaml:"install_root"   json:"install_root"`
	OfficeVersion string         `yaml:"office_version" json:"office_version,omitempty"`
	Download      DownloadConfig `yaml:"download"       json:"download"`
	Log           LogConfig      `yaml:"log"            json:"log"`
}

// DownloadConfig tunes the binary fetcher.
type DownloadConfig struct {
	BaseURL      string `yaml:"base_url"      json:"base_url"`
	MaxRedirects int    `yaml:"max_redirects" json:"max_redirects"`
	Retries      *int   `yaml:"retries"       json:"retries,omitempty"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `yaml:"level"  json:"level"`
	Format string `yaml:"format" json:"format"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Version:     DefaultVersion,
		InstallRoot: DefaultInstallRoot(),
		Download: DownloadConfig{
			BaseURL:      DefaultDownloadBase,
			MaxRedirects: DefaultMaxRedirects,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// DefaultInstallRoot is <user-cache-dir>/ooxml-validator, or a directory
// under the system temp dir when no cache dir is known.
func DefaultInstallRoot() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "ooxml-validator")
}

// EffectiveRetries returns the configured retry count or the default.
func (d DownloadConfig) EffectiveRetries() int {
	if d.Retries == nil {
		return DefaultRetries
	}
	return *d.Retries
}

// DefaultRequestOptions seeds request options from the configured office version.
func (c Config) DefaultRequestOptions() RequestOptions {
	return RequestOptions{OfficeVersion: c.OfficeVersion}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	if c.Version != "" {
		if _, err := semver.NewVersion(c.Version); err != nil {
			return fmt.Errorf("version %q is not a release tag: %w", c.Version, err)
		}
	}

	if c.OfficeVersion != "" {
		if _, ok := ParseOfficeVersion(c.OfficeVersion); !ok {
			return fmt.Errorf("unknown office_version %q (valid: %s)", c.OfficeVersion, joinVersions())
		}
	}

	if c.Download.BaseURL != "" {
		u, err := url.Parse(c.Download.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("download.base_url %q must be an absolute http(s) URL", c.Download.BaseURL)
		}
	}
	if c.Download.MaxRedirects < 0 {
		return fmt.Errorf("download.max_redirects must be >= 0 (got %d)", c.Download.MaxRedirects)
	}
	if c.Download.Retries != nil && *c.Download.Retries < 0 {
		return fmt.Errorf("download.retries must be >= 0 (got %d)", *c.Download.Retries)
	}

	if c.Log.Level != "" && !contains(ValidLogLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("unknown log.level %q (valid: %s)", c.Log.Level, strings.Join(ValidLogLevels, ", "))
	}
	if c.Log.Format != "" && !contains(ValidLogFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("unknown log.format %q (valid: %s)", c.Log.Format, strings.Join(ValidLogFormats, ", "))
	}

	return nil
}

func joinVersions() string {
	names := make([]string, len(ValidOfficeVersions))
	for i, v := range ValidOfficeVersions {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
