package domain

import (
	"path/filepath"
	"runtime"
	"strings"
)

// RuntimeID names an (operating system, CPU architecture) target for a
// prebuilt validator binary.
type RuntimeID string

const (
	RuntimeOSXArm64   RuntimeID = "osx-arm64"
	RuntimeOSXX64     RuntimeID = "osx-x64"
	RuntimeLinuxX64   RuntimeID = "linux-x64"
	RuntimeLinuxArm64 RuntimeID = "linux-arm64"
	RuntimeWinX64     RuntimeID = "win-x64"
	RuntimeWinArm64   RuntimeID = "win-arm64"
)

// SupportedRuntimes enumerates every runtime identifier a binary is published for.
var SupportedRuntimes = []RuntimeID{
	RuntimeOSXArm64,
	RuntimeOSXX64,
	RuntimeLinuxX64,
	RuntimeLinuxArm64,
	RuntimeWinX64,
	RuntimeWinArm64,
}

type platformKey struct {
	os   string
	arch string
}

var runtimeTable = map[platformKey]RuntimeID{
	{"darwin", "arm64"}:  RuntimeOSXArm64,
	{"darwin", "amd64"}:  RuntimeOSXX64,
	{"linux", "amd64"}:   RuntimeLinuxX64,
	{"linux", "arm64"}:   RuntimeLinuxArm64,
	{"windows", "amd64"}: RuntimeWinX64,
	{"windows", "arm64"}: RuntimeWinArm64,
}

// ResolveRuntime maps a GOOS/GOARCH pair to its runtime identifier.
// Untested combinations fail with *UnsupportedPlatformError.
func ResolveRuntime(goos, goarch string) (RuntimeID, error) {
	rid, ok := runtimeTable[platformKey{goos, goarch}]
	if !ok {
		return "", &UnsupportedPlatformError{OS: goos, Arch: goarch}
	}
	return rid, nil
}

// CurrentRuntime resolves the runtime identifier of the running process.
func CurrentRuntime() (RuntimeID, error) {
	return ResolveRuntime(runtime.GOOS, runtime.GOARCH)
}

// IsWindows reports whether the identifier belongs to the Windows family.
func (r RuntimeID) IsWindows() bool {
	return strings.HasPrefix(string(r), "win-")
}

// BinaryName is the on-disk file name of the installed validator.
func (r RuntimeID) BinaryName() string {
	if r.IsWindows() {
		return "ooxml-validator.exe"
	}
	return "ooxml-validator"
}

// BinDir is the directory holding the embedded binary for rid under installRoot.
func BinDir(installRoot string, rid RuntimeID) string {
	return filepath.Join(installRoot, "bin", string(rid))
}

// EmbeddedBinaryPath is <installRoot>/bin/<rid>/<binary-name>.
func EmbeddedBinaryPath(installRoot string, rid RuntimeID) string {
	return filepath.Join(BinDir(installRoot, rid), rid.BinaryName())
}

// ArtifactName is the release asset name published for this runtime.
func (r RuntimeID) ArtifactName() string {
	name := "ooxml-validator-" + string(r)
	if r.IsWindows() {
		name += ".exe"
	}
	return name
}
