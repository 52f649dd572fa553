// Package validator validates OOXML documents (.docx, .pptx, .xlsx) from Go
// code by running the native ooxml-validator binary and normalizing its
// output.
//
//	v := validator.New()
//	result, err := v.ValidateFile(ctx, "report.docx", validator.Options{OfficeVersion: "Office2016"})
//
// The binary is looked up under the install root (see Install) unless an
// explicit command line is given with WithCommand or OOXML_VALIDATOR_CLI.
package validator

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/fetcher"
	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/locator"
	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/manifest"
	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/runner"
	"github.com/xarsh/ooxml-validator-go/internal/application"
	"github.com/xarsh/ooxml-validator-go/internal/domain"
	"github.com/xarsh/ooxml-validator-go/internal/domain/normalize"
	"github.com/xarsh/ooxml-validator-go/internal/logger"
)

type (
	// Result is the outcome of validating one target.
	Result = domain.ValidationResult
	// Error is one conformance finding.
	Error = domain.ValidationError
	// Options are the per-call validation knobs.
	Options = domain.RequestOptions
	// InstallReport describes an Install attempt.
	InstallReport = domain.InstallReport
	// RuntimeInfo describes the validator that would run.
	RuntimeInfo = domain.RuntimeInfo

	UnsupportedPlatformError = domain.UnsupportedPlatformError
	SpawnError               = domain.SpawnError
	ProcessExitError         = domain.ProcessExitError
	OutputParseError         = domain.OutputParseError
	CancelledError           = domain.CancelledError
	HTTPError                = domain.HTTPError
	TooManyRedirectsError    = domain.TooManyRedirectsError
)

// Validator validates documents. It is safe for concurrent use.
type Validator struct {
	command     string
	installRoot string
	version     string
	logger      *zap.Logger

	validate *application.ValidateService
	install  *application.InstallService
	locate   *application.LocateService
}

// Option configures a Validator.
type Option func(*Validator)

// WithCommand runs the given command line instead of the installed binary.
// It is split on whitespace; the first field is the executable.
func WithCommand(cmdline string) Option {
	return func(v *Validator) { v.command = cmdline }
}

// WithInstallRoot sets the directory the binary is installed under.
func WithInstallRoot(dir string) Option {
	return func(v *Validator) { v.installRoot = dir }
}

// WithReleaseVersion sets the release tag Install downloads.
func WithReleaseVersion(tag string) Option {
	return func(v *Validator) { v.version = tag }
}

// WithLogger sets the logger. The default, and nil, discard everything.
func WithLogger(l *zap.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// New creates a Validator. Without options it honours OOXML_VALIDATOR_CLI,
// OOXML_VALIDATOR_HOME and OOXML_VALIDATOR_VERSION.
func New(opts ...Option) *Validator {
	v := &Validator{
		command:     strings.TrimSpace(os.Getenv(domain.EnvValidatorCLI)),
		installRoot: strings.TrimSpace(os.Getenv(domain.EnvHome)),
		version:     strings.TrimSpace(os.Getenv(domain.EnvVersion)),
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = logger.Nop()
	}
	if v.installRoot == "" {
		v.installRoot = domain.DefaultInstallRoot()
	}
	if v.version == "" {
		v.version = domain.DefaultVersion
	}

	loc := locator.New(v.command, v.installRoot)
	manifests := manifest.New()
	v.validate = application.NewValidateService(loc, runner.New(v.logger), normalize.New(), v.logger)
	v.install = application.NewInstallService(fetcher.New(fetcher.WithLogger(v.logger)), manifests, v.logger)
	v.locate = application.NewLocateService(loc, manifests, v.logger)
	return v
}

// ValidateFile validates one document or directory. It returns either a
// result or an error, never both. A nonconforming document is a result with
// OK false, not an error.
func (v *Validator) ValidateFile(ctx context.Context, file string, opts Options) (*Result, error) {
	return v.validate.Validate(ctx, domain.NewValidationRequest(file, opts))
}

// IsValid reports whether file conforms.
func (v *Validator) IsValid(ctx context.Context, file string, opts Options) (bool, error) {
	return v.validate.IsValid(ctx, domain.NewValidationRequest(file, opts))
}

// Install downloads the native binary for the running platform. It never
// fails; inspect the report's Status.
func (v *Validator) Install(ctx context.Context, force bool) *InstallReport {
	return v.install.Install(ctx, application.InstallOptions{
		Version:     v.version,
		InstallRoot: v.installRoot,
		Force:       force,
	})
}

// Locate describes the validator command ValidateFile would run.
func (v *Validator) Locate() *RuntimeInfo {
	return v.locate.Describe()
}

// OfficeVersions lists the accepted Options.OfficeVersion values, most
// recent first.
func OfficeVersions() []string {
	out := make([]string, len(domain.ValidOfficeVersions))
	for i, ov := range domain.ValidOfficeVersions {
		out[i] = string(ov)
	}
	return out
}
