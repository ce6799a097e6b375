// Package build drives whole-site builds: it walks the docs tree,
// converts every Markdown document through the snippet pipeline in
// sorted order, and writes the rendered HTML, assets and symbol index.
package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/snipdoc/internal/config"
	"git.home.luguber.info/inful/snipdoc/internal/highlight"
	"git.home.luguber.info/inful/snipdoc/internal/lang"
	"git.home.luguber.info/inful/snipdoc/internal/logfields"
	"git.home.luguber.info/inful/snipdoc/internal/metrics"
	"git.home.luguber.info/inful/snipdoc/internal/registry"
	"git.home.luguber.info/inful/snipdoc/internal/render"
	"git.home.luguber.info/inful/snipdoc/internal/snapshot"
	"git.home.luguber.info/inful/snipdoc/internal/snippet"
)

// XrefFile is the name of the symbol index dump written next to the
// rendered documents.
const XrefFile = "xref.json"

// Report summarizes one build.
type Report struct {
	BuildID     string
	Documents   int
	Snippets    int
	Diagnostics int
	Duration    time.Duration
}

// Builder runs builds for one configuration. Documents share a single
// environment, registry and symbol index, so snippet state flows across
// document boundaries in walk order.
type Builder struct {
	cfg *config.Config
	rec metrics.Recorder
	log *slog.Logger
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRecorder injects a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(b *Builder) { b.rec = rec }
}

// WithLogger overrides the default logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *Builder) { b.log = log }
}

func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg: cfg,
		rec: metrics.NoopRecorder{},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run builds the full site: rendered HTML mirroring the docs tree,
// static assets, and the cross-reference index.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	return b.run(ctx, true)
}

// Check verifies every document without writing any output.
func (b *Builder) Check(ctx context.Context) (*Report, error) {
	return b.run(ctx, false)
}

func (b *Builder) run(ctx context.Context, write bool) (*Report, error) {
	start := time.Now()
	report := &Report{BuildID: uuid.NewString()}
	log := b.log.With(logfields.BuildID(report.BuildID))

	docs, err := b.discover()
	if err != nil {
		b.rec.IncBuildOutcome("failed")
		return report, err
	}
	if len(docs) == 0 {
		log.Warn("no markdown documents found", logfields.Path(b.cfg.Docs.Directory))
	}

	if write {
		if err := b.prepareOutput(); err != nil {
			b.rec.IncBuildOutcome("failed")
			return report, err
		}
	}

	// One environment and registry for the whole build; walk order is the
	// elaboration order.
	snap := snapshot.NewManager(lang.NewEnvironment(), lang.NewScope())
	proc := snippet.NewProcessor(snap, registry.New())
	index := highlight.NewSymbolIndex()

	var errs []error
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			b.rec.IncBuildOutcome("failed")
			return report, err
		}
		stats, err := b.buildDocument(proc, index, doc, write, log)
		report.Documents++
		report.Snippets += stats.Snippets
		report.Diagnostics += stats.Diagnostics
		if err != nil {
			errs = append(errs, err)
			log.Error("document failed", logfields.Document(doc), logfields.Error(err))
		}
	}

	if write && len(errs) == 0 {
		if err := render.WriteAssets(b.cfg.Output.Directory); err != nil {
			errs = append(errs, fmt.Errorf("write assets: %w", err))
		}
		if err := b.writeXref(index); err != nil {
			errs = append(errs, err)
		}
	}

	report.Duration = time.Since(start)
	b.rec.ObserveBuildDuration(report.Duration)
	if len(errs) > 0 {
		b.rec.IncBuildOutcome("failed")
		return report, errors.Join(errs...)
	}
	b.rec.IncBuildOutcome("success")
	log.Info("build complete",
		slog.Int("documents", report.Documents),
		slog.Int("snippets", report.Snippets),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

// discover lists the Markdown documents under the docs directory as
// sorted slash-separated relative paths.
func (b *Builder) discover() ([]string, error) {
	root := b.cfg.Docs.Directory
	var docs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		docs = append(docs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk docs directory: %w", err)
	}
	sort.Strings(docs)
	return docs, nil
}

func (b *Builder) prepareOutput() error {
	out := b.cfg.Output.Directory
	if b.cfg.Output.Clean {
		if err := os.RemoveAll(out); err != nil {
			return fmt.Errorf("clean output directory: %w", err)
		}
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// buildDocument converts one Markdown file. A failed document still
// contributes its stats so the report reflects everything processed.
func (b *Builder) buildDocument(proc *snippet.Processor, index *highlight.SymbolIndex, doc string, write bool, log *slog.Logger) (render.Stats, error) {
	started := time.Now()
	outRel := htmlPath(doc)

	source, err := os.ReadFile(filepath.Join(b.cfg.Docs.Directory, filepath.FromSlash(doc)))
	if err != nil {
		return render.Stats{}, fmt.Errorf("read document: %w", err)
	}

	// A fresh extension per document: it carries the document path and
	// collects that document's errors.
	ext := render.NewExtension(proc, index, render.Options{
		Tag:          b.cfg.Snippets.Language,
		DocPath:      outRel,
		MaxLineWidth: b.cfg.Snippets.MaxLineWidth,
		IndentOffset: b.cfg.Snippets.IndentOffset,
		Whitespace:   b.cfg.WhitespaceMode(),
		Recorder:     b.rec,
	})
	md := goldmark.New(goldmark.WithExtensions(ext))

	var body strings.Builder
	if err := md.Convert(source, &body); err != nil {
		return ext.Stats(), fmt.Errorf("convert %s: %w", doc, err)
	}
	if err := ext.Err(); err != nil {
		return ext.Stats(), err
	}

	if write {
		target := filepath.Join(b.cfg.Output.Directory, filepath.FromSlash(outRel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return ext.Stats(), fmt.Errorf("create output directory: %w", err)
		}
		page := renderPage(b.cfg.Docs.Title, outRel, body.String())
		if err := os.WriteFile(target, []byte(page), 0o644); err != nil {
			return ext.Stats(), fmt.Errorf("write %s: %w", outRel, err)
		}
	}

	elapsed := time.Since(started)
	b.rec.ObserveDocumentDuration(outRel, elapsed)
	log.Debug("document built",
		logfields.Document(outRel),
		slog.Int("snippets", ext.Stats().Snippets),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return ext.Stats(), nil
}

func (b *Builder) writeXref(index *highlight.SymbolIndex) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal symbol index: %w", err)
	}
	path := filepath.Join(b.cfg.Output.Directory, XrefFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write symbol index: %w", err)
	}
	return nil
}

// htmlPath maps a docs-relative Markdown path to its output path.
func htmlPath(doc string) string {
	return strings.TrimSuffix(doc, ".md") + ".html"
}

// renderPage wraps converted Markdown in a minimal HTML page. Asset
// links are relative so nested documents resolve them correctly.
func renderPage(title, docPath, body string) string {
	prefix := strings.Repeat("../", strings.Count(docPath, "/"))
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<link rel="stylesheet" href="%s%s">
</head>
<body>
<main>
%s</main>
<script src="%s%s"></script>
</body>
</html>
`, html.EscapeString(title), prefix, render.AssetCSS, body, prefix, render.AssetJS)
}
