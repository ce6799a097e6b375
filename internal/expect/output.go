package expect

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
	"git.home.luguber.info/inful/snipdoc/internal/registry"
)

// suggestionWidth limits how much of each stored candidate a NoMatchError
// quotes back; enough to orient the author, short enough for one line.
const suggestionWidth = 30

// MatchOutput compares a candidate text block against every entry recorded
// under a name, under the given whitespace mode. Both sides are trimmed
// before comparison. The first equivalent entry wins; if a severity is
// demanded, the entry must also carry it. No match fails with
// *NoMatchError listing a clipped preview of every stored candidate.
func MatchOutput(entries []registry.Entry, candidate string, mode WhitespaceMode, severity *diag.Severity) (registry.Entry, error) {
	for _, entry := range entries {
		if severity != nil && entry.Severity != *severity {
			continue
		}
		if Equal(entry.Text, candidate, mode) {
			return entry, nil
		}
	}
	nm := &NoMatchError{Candidate: candidate, Mode: mode}
	for _, entry := range entries {
		nm.Previews = append(nm.Previews, clip(entry.Text, suggestionWidth))
	}
	return registry.Entry{}, nm
}

// NoMatchError reports that no recorded entry matched the candidate block.
type NoMatchError struct {
	Candidate string
	Mode      WhitespaceMode
	Previews  []string
}

func (e *NoMatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no recorded output matches (whitespace mode %s)", e.Mode)
	if len(e.Previews) > 0 {
		b.WriteString("; candidates: ")
		for i, p := range e.Previews {
			if i > 0 {
				b.WriteString(" | ")
			}
			fmt.Fprintf(&b, "%q", p)
		}
	}
	return b.String()
}

func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
