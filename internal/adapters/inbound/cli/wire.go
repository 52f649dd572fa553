package cli

import (
	"go.uber.org/zap"

	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/fetcher"
	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/locator"
	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/manifest"
	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/runner"
	"github.com/xarsh/ooxml-validator-go/internal/application"
	"github.com/xarsh/ooxml-validator-go/internal/domain"
	"github.com/xarsh/ooxml-validator-go/internal/domain/normalize"
)

type services struct {
	validate *application.ValidateService
	install  *application.InstallService
	locate   *application.LocateService
}

// newServices wires the outbound adapters for cfg.
func newServices(cfg domain.Config, log *zap.Logger) services {
	loc := locator.New(cfg.ValidatorCLI, cfg.InstallRoot)
	manifests := manifest.New()
	dl := fetcher.New(
		fetcher.WithBaseURL(cfg.Download.BaseURL),
		fetcher.WithMaxRedirects(cfg.Download.MaxRedirects),
		fetcher.WithRetries(cfg.Download.EffectiveRetries()),
		fetcher.WithLogger(log.Named("fetcher")),
	)

	return services{
		validate: application.NewValidateService(loc, runner.New(log.Named("runner")), normalize.New(), log),
		install:  application.NewInstallService(dl, manifests, log.Named("install")),
		locate:   application.NewLocateService(loc, manifests, log),
	}
}
