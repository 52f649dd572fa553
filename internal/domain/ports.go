package domain

import "context"

// ValidatorLocator resolves the validator command to run.
type ValidatorLocator interface {
	Locate() (ValidatorHandle, error)
}

// ValidatorRunner executes the validator for one request and captures its output.
type ValidatorRunner interface {
	Run(ctx context.Context, handle ValidatorHandle, req ValidationRequest) (*RawOutput, error)
}

// OutputNormalizer reshapes raw validator output into a ValidationResult.
type OutputNormalizer interface {
	Normalize(raw *RawOutput) (*ValidationResult, error)
}

// BinaryFetcher downloads a release binary for a runtime into dest.
type BinaryFetcher interface {
	Fetch(ctx context.Context, version string, rid RuntimeID, dest string) (*FetchResult, error)
}

// ManifestStore persists the install manifest next to an installed binary.
type ManifestStore interface {
	Load(binDir string) (*InstallManifest, error)
	Save(binDir string, m *InstallManifest) error
	Remove(binDir string) error
}

// ConfigLoader loads configuration from a directory's default config file or
// from an explicitly named one.
type ConfigLoader interface {
	Load(dir string) (Config, error)
	LoadFile(path string) (Config, error)
}
