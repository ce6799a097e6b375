// Package expect reconciles a snippet's diagnostics with its declared
// expectation and matches recorded output blocks against candidate text.
package expect

import (
	"fmt"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
)

// Behavior is what a snippet declared about its own outcome.
type Behavior uint8

const (
	// Unconstrained surfaces diagnostics as-is; errors stay errors.
	Unconstrained Behavior = iota
	// MustError requires at least one error-severity diagnostic.
	MustError
	// MustNotError requires zero error-severity diagnostics.
	MustNotError
)

func (b Behavior) String() string {
	switch b {
	case MustError:
		return "must-error"
	case MustNotError:
		return "must-not-error"
	}
	return "unconstrained"
}

// BehaviorFor derives the behavior from a snippet's error configuration:
// nil means don't care, true requires failure, false forbids it.
func BehaviorFor(errFlag *bool) Behavior {
	switch {
	case errFlag == nil:
		return Unconstrained
	case *errFlag:
		return MustError
	default:
		return MustNotError
	}
}

// ViolationError reports that a snippet's actual error/no-error outcome
// contradicted its configuration. It is fatal to the snippet.
type ViolationError struct {
	Behavior Behavior
	Errors   int
}

func (e *ViolationError) Error() string {
	if e.Behavior == MustError {
		return "error expected, none occurred"
	}
	return fmt.Sprintf("no error expected, %d occurred", e.Errors)
}

// Apply reconciles diagnostics with the declared behavior and returns the
// log to surface.
//
// MustError with at least one error demotes every error to a warning so
// the expected failure does not itself fail the build; with zero errors it
// fails with *ViolationError. MustNotError passes the log through but
// fails if any error occurred. Unconstrained passes everything through.
func Apply(b Behavior, log diag.Log) (diag.Log, error) {
	errs := log.ErrorCount()
	switch b {
	case MustError:
		if errs == 0 {
			return nil, &ViolationError{Behavior: MustError}
		}
		return log.Demoted(), nil
	case MustNotError:
		if errs > 0 {
			return nil, &ViolationError{Behavior: MustNotError, Errors: errs}
		}
		return log, nil
	default:
		return log, nil
	}
}
