package locator

import (
	"os"
	"runtime"
	"strings"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

// Locator implements domain.ValidatorLocator. The override command line and
// install root are injected; nothing is read from the process environment.
type Locator struct {
	override    string
	installRoot string
	goos        string
	goarch      string
}

// New creates a Locator for the running platform.
func New(override, installRoot string) *Locator {
	return NewForPlatform(override, installRoot, runtime.GOOS, runtime.GOARCH)
}

// NewForPlatform creates a Locator that resolves binaries for goos/goarch
// instead of the running platform.
func NewForPlatform(override, installRoot, goos, goarch string) *Locator {
	return &Locator{override: override, installRoot: installRoot, goos: goos, goarch: goarch}
}

// Locate returns the override command when one is configured, otherwise the
// embedded binary path for the platform. Existence is not checked here; a
// missing binary surfaces as a spawn error.
func (l *Locator) Locate() (domain.ValidatorHandle, error) {
	if fields := strings.Fields(l.override); len(fields) > 0 {
		return domain.ValidatorHandle{Path: fields[0], Args: fields[1:], Override: true}, nil
	}

	rid, err := l.Runtime()
	if err != nil {
		return domain.ValidatorHandle{}, err
	}
	return domain.ValidatorHandle{
		Path: domain.EmbeddedBinaryPath(l.installRoot, rid),
		Args: []string{},
	}, nil
}

// Runtime resolves the runtime identifier for the locator's platform.
func (l *Locator) Runtime() (domain.RuntimeID, error) {
	return domain.ResolveRuntime(l.goos, l.goarch)
}

// Installed reports whether the embedded binary exists as a regular file.
func (l *Locator) Installed() bool {
	rid, err := l.Runtime()
	if err != nil {
		return false
	}
	info, err := os.Stat(domain.EmbeddedBinaryPath(l.installRoot, rid))
	return err == nil && info.Mode().IsRegular()
}

// InstallRoot is the directory the embedded binary is resolved under.
func (l *Locator) InstallRoot() string {
	return l.installRoot
}
