package cli

import "errors"

// Process exit statuses for ooxml-validate.
const (
	ExitOK            = 0
	ExitNonconformant = 1
	ExitFailure       = 2
)

// ErrNonconformant is returned by validate when every target could be checked
// but at least one does not conform.
var ErrNonconformant = errors.New("document does not conform")

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNonconformant):
		return ExitNonconformant
	default:
		return ExitFailure
	}
}
