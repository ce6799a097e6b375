// Package config loads and validates the snipdoc configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/snipdoc/internal/expect"
)

// Config is the application configuration.
type Config struct {
	Docs     DocsConfig     `yaml:"docs"`
	Output   OutputConfig   `yaml:"output"`
	Snippets SnippetsConfig `yaml:"snippets"`
	Preview  PreviewConfig  `yaml:"preview"`
}

// DocsConfig locates the Markdown sources.
type DocsConfig struct {
	Directory string `yaml:"directory"`
	Title     string `yaml:"title,omitempty"`
}

// OutputConfig controls where the rendered site goes.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// SnippetsConfig controls snippet verification and rendering.
type SnippetsConfig struct {
	// Language is the fenced-block tag marking snippets.
	Language string `yaml:"language,omitempty"`
	// MaxLineWidth is the long-line lint limit in columns.
	MaxLineWidth int `yaml:"max_line_width,omitempty"`
	// IndentOffset widens the lint limit for indented display contexts.
	IndentOffset int `yaml:"indent_offset,omitempty"`
	// Whitespace is the default output-matching mode: exact, normalized
	// or lax.
	Whitespace string `yaml:"whitespace,omitempty"`
}

// PreviewConfig controls the local preview server.
type PreviewConfig struct {
	Port    int  `yaml:"port,omitempty"`
	Metrics bool `yaml:"metrics,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env if present; missing files are fine.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables in the YAML content before parsing.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Docs.Directory == "" {
		c.Docs.Directory = "./docs"
	}
	if c.Docs.Title == "" {
		c.Docs.Title = "Documentation"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./site"
	}
	if c.Snippets.Language == "" {
		c.Snippets.Language = "lean"
	}
	if c.Snippets.MaxLineWidth == 0 {
		c.Snippets.MaxLineWidth = 60
	}
	if c.Snippets.Whitespace == "" {
		c.Snippets.Whitespace = "exact"
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = 1316
	}
}

// Validate rejects configurations the build cannot honor.
func (c *Config) Validate() error {
	if _, err := expect.ParseWhitespaceMode(c.Snippets.Whitespace); err != nil {
		return fmt.Errorf("snippets.whitespace: %w", err)
	}
	if c.Snippets.MaxLineWidth < 0 {
		return fmt.Errorf("snippets.max_line_width must not be negative")
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return fmt.Errorf("preview.port %d out of range", c.Preview.Port)
	}
	return nil
}

// WhitespaceMode returns the parsed default output-matching mode.
// Validate has already rejected unparsable values.
func (c *Config) WhitespaceMode() expect.WhitespaceMode {
	mode, _ := expect.ParseWhitespaceMode(c.Snippets.Whitespace)
	return mode
}

// DefaultYAML is the scaffold written by the init command.
const DefaultYAML = `docs:
  directory: ./docs
  title: Documentation

output:
  directory: ./site
  clean: true

snippets:
  language: lean
  max_line_width: 60
  whitespace: exact

preview:
  port: 1316
  metrics: true
`

// WriteDefault writes the scaffold configuration file.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	return os.WriteFile(path, []byte(DefaultYAML), 0o644)
}
