package application

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

// InstallOptions selects what to install and where.
type InstallOptions struct {
	Version     string // release tag; empty means domain.DefaultVersion
	InstallRoot string
	Force       bool // re-download even when the manifest matches

	// GOOS and GOARCH default to the running platform.
	GOOS   string
	GOARCH string
}

// InstallService downloads the embedded validator binary for the current
// platform. Installation is best-effort: failures are logged and reported,
// never returned as errors.
type InstallService struct {
	fetcher   domain.BinaryFetcher
	manifests domain.ManifestStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewInstallService creates a new InstallService.
func NewInstallService(fetcher domain.BinaryFetcher, manifests domain.ManifestStore, logger *zap.Logger) *InstallService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstallService{fetcher: fetcher, manifests: manifests, logger: logger, now: time.Now}
}

// Install fetches the binary for the target runtime unless the same version
// is already in place.
func (s *InstallService) Install(ctx context.Context, opts InstallOptions) *domain.InstallReport {
	version := opts.Version
	if version == "" {
		version = domain.DefaultVersion
	}
	report := &domain.InstallReport{Version: version}

	if _, err := semver.NewVersion(version); err != nil {
		return s.fail(report, fmt.Errorf("version %q is not a release tag: %w", version, err))
	}

	goos, goarch := opts.GOOS, opts.GOARCH
	if goos == "" {
		goos = runtime.GOOS
	}
	if goarch == "" {
		goarch = runtime.GOARCH
	}
	rid, err := domain.ResolveRuntime(goos, goarch)
	if err != nil {
		return s.fail(report, err)
	}
	report.Runtime = rid

	installRoot := opts.InstallRoot
	if installRoot == "" {
		installRoot = domain.DefaultInstallRoot()
	}
	binDir := domain.BinDir(installRoot, rid)
	dest := domain.EmbeddedBinaryPath(installRoot, rid)
	report.Path = dest

	if !opts.Force {
		m, err := s.manifests.Load(binDir)
		if err != nil {
			s.logger.Debug("Ignoring unreadable manifest", zap.String("dir", binDir), zap.Error(err))
		}
		if m.Matches(rid, version) && isFile(dest) {
			s.logger.Info("Validator binary already installed",
				zap.String("runtime", string(rid)), zap.String("version", version), zap.String("path", dest))
			report.Status = domain.InstallSkipped
			report.URL = m.URL
			report.SHA256 = m.SHA256
			return report
		}
	}

	s.logger.Info("Downloading OOXML validator binary",
		zap.String("runtime", string(rid)), zap.String("version", version))
	res, err := s.fetcher.Fetch(ctx, version, rid, dest)
	if err != nil {
		return s.fail(report, err)
	}
	report.Status = domain.InstallInstalled
	report.URL = res.URL
	report.SHA256 = res.SHA256

	m := &domain.InstallManifest{
		Runtime:     rid,
		Version:     version,
		URL:         res.URL,
		SHA256:      res.SHA256,
		Bytes:       res.Bytes,
		InstalledAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.manifests.Save(binDir, m); err != nil {
		s.logger.Warn("Could not record install manifest", zap.String("dir", binDir), zap.Error(err))
	}

	s.logger.Info("Installed OOXML validator binary", zap.String("path", dest), zap.String("sha256", res.SHA256))
	return report
}

func (s *InstallService) fail(report *domain.InstallReport, err error) *domain.InstallReport {
	s.logger.Warn("Failed to install OOXML validator binary",
		zap.Error(err), zap.String("hint", domain.InstallHint))
	report.Status = domain.InstallFailed
	report.Error = err.Error()
	report.Hint = domain.InstallHint
	return report
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
