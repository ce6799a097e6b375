package highlight

import (
	"encoding/json"
	"sort"
)

// Location says where a symbol was defined in the rendered documentation.
type Location struct {
	Document string `json:"document"`
	Anchor   string `json:"anchor"`
}

// SymbolIndex is the build-wide map from qualified names to their
// definition sites. The single-threaded document traversal is the only
// writer, so no locking is needed.
type SymbolIndex struct {
	symbols map[string]Location
}

func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{symbols: map[string]Location{}}
}

// Add records a definition site. Redefinition overwrites, matching the
// environment's own last-write-wins behavior.
func (x *SymbolIndex) Add(name, document string) {
	x.symbols[name] = Location{Document: document, Anchor: "def-" + name}
}

// Resolve returns the definition site of a qualified name.
func (x *SymbolIndex) Resolve(name string) (Location, bool) {
	loc, ok := x.symbols[name]
	return loc, ok
}

// Len reports the number of indexed symbols.
func (x *SymbolIndex) Len() int { return len(x.symbols) }

// MarshalJSON renders the index as a name-sorted object, for the xref dump
// written at the end of a build.
func (x *SymbolIndex) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(x.symbols))
	for name := range x.symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make(map[string]Location, len(x.symbols))
	for _, name := range names {
		ordered[name] = x.symbols[name]
	}
	return json.Marshal(ordered)
}
