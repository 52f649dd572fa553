package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

// ValidateService composes locate → run → normalize for one target per call.
// It holds no per-call state, so one instance may serve concurrent callers.
type ValidateService struct {
	locator    domain.ValidatorLocator
	runner     domain.ValidatorRunner
	normalizer domain.OutputNormalizer
	logger     *zap.Logger
}

// NewValidateService creates a new ValidateService with all required dependencies.
func NewValidateService(
	locator domain.ValidatorLocator,
	runner domain.ValidatorRunner,
	normalizer domain.OutputNormalizer,
	logger *zap.Logger,
) *ValidateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidateService{locator: locator, runner: runner, normalizer: normalizer, logger: logger}
}

// Validate runs the native validator against req.File and returns the
// normalized result. It returns either a result or an error, never both.
func (s *ValidateService) Validate(ctx context.Context, req domain.ValidationRequest) (*domain.ValidationResult, error) {
	if strings.TrimSpace(req.File) == "" {
		return nil, errors.New("no file to validate")
	}

	handle, err := s.locator.Locate()
	if err != nil {
		return nil, err
	}

	raw, err := s.runner.Run(ctx, handle, req)
	if err != nil {
		var spawnErr *domain.SpawnError
		if errors.As(err, &spawnErr) && !handle.Override {
			s.logger.Warn("Validator binary could not be started; run `ooxml-validate install` first",
				zap.String("path", handle.Path), zap.String("hint", domain.InstallHint))
		}
		return nil, err
	}

	result, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Validated",
		zap.String("file", result.File),
		zap.String("office_version", string(req.EffectiveOfficeVersion())),
		zap.Bool("ok", result.OK),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// IsValid reports whether req.File conforms. It is Validate(...).OK.
func (s *ValidateService) IsValid(ctx context.Context, req domain.ValidationRequest) (bool, error) {
	result, err := s.Validate(ctx, req)
	if err != nil {
		return false, err
	}
	return result.OK, nil
}

// Outcome pairs a request with its result or error.
type Outcome struct {
	Request domain.ValidationRequest
	Result  *domain.ValidationResult
	Err     error
}

// ValidateAll validates each request independently, at most jobs at a time,
// and returns outcomes in request order. One failing target does not stop
// the others; only ctx cancellation does.
func (s *ValidateService) ValidateAll(ctx context.Context, reqs []domain.ValidationRequest, jobs int) []Outcome {
	if jobs < 1 {
		jobs = 1
	}

	outcomes := make([]Outcome, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, req := range reqs {
		g.Go(func() error {
			result, err := s.Validate(gctx, req)
			outcomes[i] = Outcome{Request: req, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// Summary counts outcomes by kind.
type Summary struct {
	Total         int `json:"total"`
	Conforming    int `json:"conforming"`
	Nonconforming int `json:"nonconforming"`
	Failed        int `json:"failed"`
}

// Summarize tallies outcomes.
func Summarize(outcomes []Outcome) Summary {
	sum := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			sum.Failed++
		case o.Result.OK:
			sum.Conforming++
		default:
			sum.Nonconforming++
		}
	}
	return sum
}

// FirstError returns the first outcome error, wrapped with its file.
func FirstError(outcomes []Outcome) error {
	for _, o := range outcomes {
		if o.Err != nil {
			return fmt.Errorf("%s: %w", o.Request.File, o.Err)
		}
	}
	return nil
}
