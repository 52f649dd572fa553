package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

// DefaultWaitDelay bounds how long Run keeps reading output after the
// validator was killed or exited while a descendant still holds its pipes.
const DefaultWaitDelay = 2 * time.Second

// ExecRunner implements domain.ValidatorRunner by spawning the validator as
// a child process.
type ExecRunner struct {
	logger    *zap.Logger
	waitDelay time.Duration
}

// New creates an ExecRunner. A nil logger disables logging.
func New(logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{logger: logger, waitDelay: DefaultWaitDelay}
}

// Run starts the validator for req and blocks until it exits and both of its
// output streams are drained. Stdout and stderr are copied concurrently while
// the process runs so neither pipe can fill up and stall the child. On
// cancellation the child is killed and its pipes are closed after the wait
// delay, even when a grandchild (a wrapper script's payload) still holds them.
func (r *ExecRunner) Run(ctx context.Context, handle domain.ValidatorHandle, req domain.ValidationRequest) (*domain.RawOutput, error) {
	args := handle.CommandLine(req)
	r.logger.Debug("Running validator", zap.String("path", handle.Path), zap.Strings("args", args))

	var outBuf, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, handle.Path, args...)
	cmd.Stdin = nil
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	cmd.WaitDelay = r.waitDelay

	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return nil, &domain.CancelledError{Op: "validation", Err: ctx.Err()}
		}
		return nil, &domain.SpawnError{Path: handle.Path, Err: err}
	}
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return nil, &domain.CancelledError{Op: "validation", Err: ctx.Err()}
	}

	raw := &domain.RawOutput{
		File:     req.File,
		Stdout:   outBuf.Bytes(),
		Stderr:   errBuf.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	if errors.Is(waitErr, exec.ErrWaitDelay) {
		r.logger.Warn("Validator exited but a descendant kept its output open; using what was read",
			zap.Duration("wait_delay", r.waitDelay))
		waitErr = nil
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return nil, &domain.ProcessExitError{
				Code:       exitErr.ExitCode(),
				Diagnostic: diagnostic(raw, waitErr),
			}
		}
		return nil, fmt.Errorf("waiting for validator: %w", waitErr)
	}

	r.logger.Debug("Validator finished",
		zap.Int("exit_code", raw.ExitCode),
		zap.Int("stdout_bytes", len(raw.Stdout)),
		zap.Int("stderr_bytes", len(raw.Stderr)))
	return raw, nil
}

// diagnostic prefers stderr, then stdout, then the wait error itself so the
// message is never empty.
func diagnostic(raw *domain.RawOutput, waitErr error) string {
	if s := strings.TrimSpace(string(raw.Stderr)); s != "" {
		return s
	}
	if s := strings.TrimSpace(string(raw.Stdout)); s != "" {
		return s
	}
	return waitErr.Error()
}
