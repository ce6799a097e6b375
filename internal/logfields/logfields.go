// Package logfields defines canonical log field name constants to avoid
// drift across packages.
package logfields

import "log/slog"

const (
	KeyBuildID    = "build_id"
	KeyDocument   = "document"
	KeySnippet    = "snippet_name"
	KeySeverity   = "severity"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyPort       = "port"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers
// can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Document(d string) slog.Attr      { return slog.String(KeyDocument, d) }
func Snippet(n string) slog.Attr       { return slog.String(KeySnippet, n) }
func Severity(s string) slog.Attr      { return slog.String(KeySeverity, s) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Port(p int) slog.Attr             { return slog.Int(KeyPort, p) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
