package domain

import "fmt"

// UnsupportedPlatformError is returned when no validator binary exists for
// the running OS/architecture pair.
type UnsupportedPlatformError struct {
	OS   string
	Arch string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("no embedded OOXML validator binary for platform: %s %s", e.OS, e.Arch)
}

// HTTPError is a non-2xx, non-redirect response from the artifact store.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d when downloading %s", e.StatusCode, e.URL)
}

// TooManyRedirectsError is returned once the redirect chain exceeds Limit.
type TooManyRedirectsError struct {
	URL   string
	Limit int
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("too many redirects (limit %d) when downloading %s", e.Limit, e.URL)
}

// SpawnError means the validator process could not be started at all.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn OOXML validator %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ProcessExitError means the validator ran but exited with a nonzero code.
// Diagnostic holds stderr, or stdout when stderr was empty.
type ProcessExitError struct {
	Code       int
	Diagnostic string
}

func (e *ProcessExitError) Error() string {
	return fmt.Sprintf("OOXML validator exited with code %d: %s", e.Code, e.Diagnostic)
}

// OutputParseError means the validator's stdout was not a single JSON value.
type OutputParseError struct {
	Err error
	Raw string
}

func (e *OutputParseError) Error() string {
	return fmt.Sprintf("failed to parse OOXML validator output as JSON: %v\noutput was:\n%s", e.Err, e.Raw)
}

func (e *OutputParseError) Unwrap() error { return e.Err }

// CancelledError is returned when the caller's context ends before the
// operation completes. Err is the context error.
type CancelledError struct {
	Op  string
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("%s cancelled: %v", e.Op, e.Err)
}

func (e *CancelledError) Unwrap() error { return e.Err }
