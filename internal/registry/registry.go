// Package registry holds named snippet outputs for one document build.
//
// A snippet processed with name=X records its diagnostic output here;
// later document fragments reference "the output of X" without re-running
// the snippet. The registry is an explicit object owned by the build
// driver and threaded through processing, not a package global. It lives
// for exactly one build invocation.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xrash/smetrics"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
)

// Entry is one line of recorded snippet output.
type Entry struct {
	Severity diag.Severity `json:"severity"`
	Text     string        `json:"text"`
}

// Registry maps symbolic names to recorded output entries.
type Registry struct {
	entries map[string][]Entry
}

func New() *Registry {
	return &Registry{entries: map[string][]Entry{}}
}

// Register stores entries under name. Re-registering the same name is a
// silent overwrite: last write wins.
func (r *Registry) Register(name string, entries []Entry) {
	stored := make([]Entry, len(entries))
	copy(stored, entries)
	r.entries[name] = stored
}

// Lookup returns the entries recorded under name. An absent name fails
// with *UnknownNameError carrying near-miss suggestions and the full key
// list.
func (r *Registry) Lookup(name string) ([]Entry, error) {
	if entries, ok := r.entries[name]; ok {
		return entries, nil
	}
	return nil, &UnknownNameError{
		Name:        name,
		Suggestions: r.suggest(name),
		Known:       r.Names(),
	}
}

// Names lists all registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of registered names.
func (r *Registry) Len() int { return len(r.entries) }

// jaroWinklerThreshold is deliberately permissive; a wrong suggestion in
// an error message costs nothing, a missing one costs a round trip.
const jaroWinklerThreshold = 0.8

// suggest finds near misses for a failed lookup: bidirectional substring
// containment, then Jaro-Winkler similarity.
func (r *Registry) suggest(query string) []string {
	lq := strings.ToLower(query)
	var out []string
	for _, name := range r.Names() {
		ln := strings.ToLower(name)
		if strings.Contains(ln, lq) || strings.Contains(lq, ln) {
			out = append(out, name)
			continue
		}
		if smetrics.JaroWinkler(lq, ln, 0.7, 4) >= jaroWinklerThreshold {
			out = append(out, name)
		}
	}
	return out
}

// UnknownNameError reports a lookup of an unregistered name.
type UnknownNameError struct {
	Name        string
	Suggestions []string
	Known       []string
}

func (e *UnknownNameError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no output registered under %q", e.Name)
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	if len(e.Known) > 0 {
		fmt.Fprintf(&b, "; known names: %s", strings.Join(e.Known, ", "))
	}
	return b.String()
}
