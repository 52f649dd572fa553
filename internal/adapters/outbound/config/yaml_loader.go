package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

// FileName is the per-directory configuration file.
const FileName = ".ooxml-validator.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .ooxml-validator.yaml
// and overlaying OOXML_VALIDATOR_* environment variables.
type YAMLLoader struct {
	lookupEnv func(string) (string, bool)
}

// New creates a YAMLLoader that reads the process environment.
func New() *YAMLLoader { return &YAMLLoader{lookupEnv: os.LookupEnv} }

// NewWithEnv creates a YAMLLoader that reads variables through lookup.
// A nil lookup ignores the environment.
func NewWithEnv(lookup func(string) (string, bool)) *YAMLLoader {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return &YAMLLoader{lookupEnv: lookup}
}

// Load reads .ooxml-validator.yaml from dir.
// A missing file yields the defaults plus the environment.
func (l *YAMLLoader) Load(dir string) (domain.Config, error) {
	return l.load(filepath.Join(dir, FileName), false)
}

// LoadFile reads an explicitly named config file, which must exist.
func (l *YAMLLoader) LoadFile(path string) (domain.Config, error) {
	return l.load(path, true)
}

func (l *YAMLLoader) load(path string, required bool) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", name, err)
		}
		// Validate before the environment is applied so errors point at the file.
		if err := cfg.Validate(); err != nil {
			return domain.Config{}, fmt.Errorf("invalid %s: %w", name, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return domain.Config{}, err
	}

	ApplyEnv(&cfg, l.lookupEnv)
	fillDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays non-empty OOXML_VALIDATOR_* variables onto cfg.
func ApplyEnv(cfg *domain.Config, lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(domain.EnvValidatorCLI, &cfg.ValidatorCLI)
	set(domain.EnvVersion, &cfg.Version)
	set(domain.EnvHome, &cfg.InstallRoot)
	set(domain.EnvLogLevel, &cfg.Log.Level)
	set(domain.EnvLogFormat, &cfg.Log.Format)
}

// fillDefaults restores defaults for keys the file set to empty values.
func fillDefaults(cfg *domain.Config) {
	def := domain.DefaultConfig()
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.InstallRoot == "" {
		cfg.InstallRoot = def.InstallRoot
	}
	if cfg.Download.BaseURL == "" {
		cfg.Download.BaseURL = def.Download.BaseURL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

// Render produces the commented .ooxml-validator.yaml written by `init`.
func Render(cfg domain.Config) ([]byte, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	var b strings.Builder
	b.WriteString("# ooxml-validate configuration\n")
	b.WriteString("# Environment variables (" + domain.EnvValidatorCLI + ", " + domain.EnvVersion + ", ...) override these values.\n\n")
	b.Write(body)
	b.WriteString("\n# Run an external validator instead of the downloaded binary:\n")
	b.WriteString("# validator_cli: dotnet /opt/ooxml-validator/OOXMLValidator.dll\n")
	return []byte(b.String()), nil
}
