package domain

// InstallHint is shown whenever the binary could not be installed.
const InstallHint = "set " + EnvValidatorCLI + " to the command line of an existing validator executable to skip the download"

// FetchResult describes a binary written by the fetcher.
type FetchResult struct {
	Runtime RuntimeID `json:"runtime"`
	Version string    `json:"version"`
	URL     string    `json:"url"`
	Path    string    `json:"path"`
	SHA256  string    `json:"sha256"`
	Bytes   int64     `json:"bytes"`
}

// InstallManifest records which release is installed for a runtime.
type InstallManifest struct {
	Runtime     RuntimeID `json:"runtime"`
	Version     string    `json:"version"`
	URL         string    `json:"url"`
	SHA256      string    `json:"sha256"`
	Bytes       int64     `json:"bytes"`
	InstalledAt string    `json:"installed_at"`
}

// Matches reports whether the manifest describes version for rid.
func (m *InstallManifest) Matches(rid RuntimeID, version string) bool {
	return m != nil && m.Runtime == rid && m.Version == version
}

// InstallStatus is the outcome of a best-effort install.
type InstallStatus string

const (
	InstallInstalled InstallStatus = "installed"
	InstallSkipped   InstallStatus = "skipped"
	InstallFailed    InstallStatus = "failed"
)

// InstallReport summarizes an install attempt. A failed install is reported,
// never raised.
type InstallReport struct {
	Status  InstallStatus `json:"status"`
	Runtime RuntimeID     `json:"runtime,omitempty"`
	Version string        `json:"version"`
	Path    string        `json:"path,omitempty"`
	URL     string        `json:"url,omitempty"`
	SHA256  string        `json:"sha256,omitempty"`
	Error   string        `json:"error,omitempty"`
	Hint    string        `json:"hint,omitempty"`
}
