package domain

import (
	"github.com/goccy/go-json"
)

// RawOutput is what the validator process produced. It is discarded once
// normalized.
type RawOutput struct {
	File     string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// ValidationError is one conformance finding reported by the native validator.
// Fields the validator emits beyond the canonical ones are kept in Extra and
// written back out next to them.
type ValidationError struct {
	Description string
	Path        string
	XPath       string
	ErrorType   string
	ID          string
	Extra       map[string]any
}

// Canonical JSON keys of a ValidationError.
const (
	KeyDescription = "description"
	KeyPath        = "path"
	KeyXPath       = "xpath"
	KeyErrorType   = "errorType"
	KeyID          = "id"
)

// MarshalJSON flattens Extra into the same object as the canonical fields.
func (e ValidationError) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+5)
	for k, v := range e.Extra {
		out[k] = v
	}
	for k, v := range map[string]string{
		KeyDescription: e.Description,
		KeyPath:        e.Path,
		KeyXPath:       e.XPath,
		KeyErrorType:   e.ErrorType,
		KeyID:          e.ID,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// ValidationResult is the canonical outcome of validating one target.
type ValidationResult struct {
	File   string
	OK     bool
	Errors []ValidationError
	Extra  map[string]any
}

// NewValidationResult assembles a result whose OK flag is derived from the
// error count.
func NewValidationResult(file string, errs []ValidationError) *ValidationResult {
	if errs == nil {
		errs = []ValidationError{}
	}
	return &ValidationResult{File: file, OK: len(errs) == 0, Errors: errs}
}

// MarshalJSON writes {"file","ok","errors"} plus any preserved sibling fields.
// errors is always an array.
func (r ValidationResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+3)
	for k, v := range r.Extra {
		out[k] = v
	}
	errs := r.Errors
	if errs == nil {
		errs = []ValidationError{}
	}
	out["file"] = r.File
	out["ok"] = r.OK
	out["errors"] = errs
	return json.Marshal(out)
}

// ErrorTypes counts findings per error kind.
func (r *ValidationResult) ErrorTypes() map[string]int {
	counts := make(map[string]int)
	for _, e := range r.Errors {
		kind := e.ErrorType
		if kind == "" {
			kind = "Unknown"
		}
		counts[kind]++
	}
	return counts
}
