package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, BuildID("b1")},
		{"Document", KeyDocument, Document("index.html")},
		{"Snippet", KeySnippet, Snippet("two")},
		{"Severity", KeySeverity, Severity("warning")},
		{"DurationMS", KeyDurationMS, DurationMS(12.5)},
		{"Path", KeyPath, Path("/tmp/x")},
		{"Port", KeyPort, Port(1316)},
		{"Error", KeyError, Error(errors.New("boom"))},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
	}
}

func TestError_NilProducesEmptyValue(t *testing.T) {
	a := Error(nil)
	if a.Value.String() != "" {
		t.Fatalf("expected empty value for nil error, got %q", a.Value.String())
	}
}
