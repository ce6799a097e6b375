package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/snipdoc/internal/expect"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "docs:\n  directory: ./guide\n"))
	require.NoError(t, err)
	require.Equal(t, "./guide", cfg.Docs.Directory)
	require.Equal(t, "./site", cfg.Output.Directory)
	require.Equal(t, "lean", cfg.Snippets.Language)
	require.Equal(t, 60, cfg.Snippets.MaxLineWidth)
	require.Equal(t, expect.WhitespaceExact, cfg.WhitespaceMode())
	require.Equal(t, 1316, cfg.Preview.Port)
}

func TestLoad_MissingFile_Error(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("SNIPDOC_TEST_DIR", "/tmp/expanded")
	cfg, err := Load(writeConfig(t, "output:\n  directory: ${SNIPDOC_TEST_DIR}\n"))
	require.NoError(t, err)
	require.Equal(t, "/tmp/expanded", cfg.Output.Directory)
}

func TestLoad_InvalidWhitespaceMode_Rejected(t *testing.T) {
	_, err := Load(writeConfig(t, "snippets:\n  whitespace: fuzzy\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "snippets.whitespace")
}

func TestLoad_InvalidYAML_Rejected(t *testing.T) {
	_, err := Load(writeConfig(t, "docs: [unclosed\n"))
	require.Error(t, err)
}

func TestWriteDefault_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefault(path, false))
	require.Error(t, WriteDefault(path, false))
	require.NoError(t, WriteDefault(path, true))

	// The scaffold itself must load cleanly.
	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Output.Clean)
	require.True(t, cfg.Preview.Metrics)
}
