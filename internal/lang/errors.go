package lang

import (
	"fmt"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
)

// ParseError is malformed snippet syntax. It is fatal to the snippet and
// points at the offending span.
type ParseError struct {
	Pos diag.Pos
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Msg)
}

// TypeError is a configuration-level failure: an explicit expected-type
// annotation that could not be resolved. It is distinct from a snippet's
// own elaboration errors, which surface as diagnostics.
type TypeError struct {
	Pos diag.Pos
	Msg string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error at %s: %s", e.Pos, e.Msg)
}
