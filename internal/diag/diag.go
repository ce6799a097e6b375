// Package diag defines the diagnostic model shared by the snippet pipeline.
//
// Diagnostics are produced during elaboration and accumulated per snippet.
// They are never mutated after capture; the only permitted transformation is
// demotion of errors to warnings when a snippet declared that it expects to
// fail (see internal/expect).
package diag

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics (e.g. evaluation results).
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	// SevError is for error diagnostics; an error fails the build unless
	// the snippet's expectation reconciles it.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "information"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// MarshalText renders the severity for the JSON node payload.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity maps a configuration string to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "information", "info":
		return SevInfo, nil
	case "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevInfo, fmt.Errorf("unknown severity %q (want information, warning or error)", s)
}

// Pos is a 1-based line/column position within a snippet's source text.
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Diagnostic is one severity-tagged message tied to a source position.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Pos      Pos      `json:"pos"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// Log is the ordered sequence of diagnostics captured for one snippet.
type Log []Diagnostic

// ErrorCount reports how many entries have error severity.
func (l Log) ErrorCount() int {
	n := 0
	for _, d := range l {
		if d.Severity == SevError {
			n++
		}
	}
	return n
}

// HasErrors reports whether any entry has error severity.
func (l Log) HasErrors() bool { return l.ErrorCount() > 0 }

// Demoted returns a copy of the log with every error downgraded to a
// warning. The receiver is left untouched.
func (l Log) Demoted() Log {
	out := make(Log, len(l))
	copy(out, l)
	for i := range out {
		if out[i].Severity == SevError {
			out[i].Severity = SevWarning
		}
	}
	return out
}
