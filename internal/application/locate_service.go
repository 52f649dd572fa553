package application

import (
	"go.uber.org/zap"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

// RuntimeLocator is a ValidatorLocator that can also describe the embedded
// binary it would fall back to.
type RuntimeLocator interface {
	domain.ValidatorLocator
	Runtime() (domain.RuntimeID, error)
	Installed() bool
	InstallRoot() string
}

// LocateService reports the resolved validator without running it.
type LocateService struct {
	locator   RuntimeLocator
	manifests domain.ManifestStore
	logger    *zap.Logger
}

// NewLocateService creates a new LocateService.
func NewLocateService(locator RuntimeLocator, manifests domain.ManifestStore, logger *zap.Logger) *LocateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocateService{locator: locator, manifests: manifests, logger: logger}
}

// Describe never fails: resolution problems are reported in Error.
func (s *LocateService) Describe() *domain.RuntimeInfo {
	info := &domain.RuntimeInfo{InstallRoot: s.locator.InstallRoot()}

	if handle, err := s.locator.Locate(); err != nil {
		info.Error = err.Error()
	} else {
		info.Handle = &handle
	}

	rid, err := s.locator.Runtime()
	if err != nil {
		if info.Error == "" {
			info.Error = err.Error()
		}
		return info
	}
	info.Runtime = rid
	info.Installed = s.locator.Installed()

	m, err := s.manifests.Load(domain.BinDir(info.InstallRoot, rid))
	if err != nil {
		s.logger.Debug("Ignoring unreadable manifest", zap.Error(err))
	}
	info.Manifest = m
	return info
}
