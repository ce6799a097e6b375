// Package preview serves the rendered site locally and rebuilds it when
// the docs directory changes.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/snipdoc/internal/build"
	"git.home.luguber.info/inful/snipdoc/internal/config"
	"git.home.luguber.info/inful/snipdoc/internal/logfields"
	"git.home.luguber.info/inful/snipdoc/internal/metrics"
)

const debounceDelay = 300 * time.Millisecond

// Server rebuilds and serves the site for local authoring.
type Server struct {
	cfg            *config.Config
	rec            metrics.Recorder
	log            *slog.Logger
	metricsHandler http.Handler
	status         buildStatus
}

// Option customizes a Server.
type Option func(*Server)

// WithRecorder injects a metrics recorder into rebuilds.
func WithRecorder(rec metrics.Recorder) Option {
	return func(s *Server) { s.rec = rec }
}

// WithMetricsHandler exposes the given handler on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

// WithLogger overrides the default logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		rec: metrics.NoopRecorder{},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// buildStatus tracks the current build state for the status endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) snapshot() (lastError error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild
}

// Run builds once, then serves the output directory and rebuilds on
// filesystem changes until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	absDocs, err := resolveDocsDir(s.cfg)
	if err != nil {
		return err
	}

	// Initial build. A failure is recorded but does not abort: the author
	// sees it on the status endpoint and fixes the docs while serving.
	s.rebuild(ctx)

	srv, err := s.startHTTP(ctx)
	if err != nil {
		return err
	}

	watcher, err := setupWatcher(absDocs)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger := setupDebouncer()
	s.startRebuildWorker(ctx, rebuildReq)

	return s.eventLoop(ctx, watcher, trigger, srv)
}

func resolveDocsDir(cfg *config.Config) (string, error) {
	abs, err := filepath.Abs(cfg.Docs.Directory)
	if err != nil {
		return "", fmt.Errorf("resolve docs dir: %w", err)
	}
	if st, statErr := os.Stat(abs); statErr != nil || !st.IsDir() {
		return "", fmt.Errorf("docs dir not found or not a directory: %s", abs)
	}
	return abs, nil
}

// handler assembles the preview mux: the rendered site at /, a JSON
// build-status endpoint, and optionally Prometheus metrics.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Output.Directory)))
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		lastErr, good := s.status.snapshot()
		payload := map[string]any{"ok": lastErr == nil, "has_good_build": good}
		if lastErr != nil {
			payload["error"] = lastErr.Error()
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
	if s.metricsHandler != nil {
		mux.Handle("/metrics", s.metricsHandler)
	}
	return mux
}

func (s *Server) startHTTP(ctx context.Context) (*http.Server, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Preview.Port),
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", s.cfg.Preview.Port, err)
	}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("preview server failed", logfields.Error(err))
		}
	}()
	s.log.Info("preview server listening",
		logfields.Port(s.cfg.Preview.Port),
		slog.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Preview.Port)))
	return srv, nil
}

func setupWatcher(absDocs string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := addDirsRecursive(watcher, absDocs); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// setupDebouncer returns a rebuild channel and a trigger that coalesces
// bursts of filesystem events into one request.
func setupDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

func (s *Server) startRebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				s.log.Info("change detected; rebuilding site")
				s.rebuild(ctx)
			}
		}
	}()
}

// rebuild runs one full build. Each rebuild starts from a fresh
// environment and registry, so stale definitions never linger.
func (s *Server) rebuild(ctx context.Context) {
	builder := build.New(s.cfg, build.WithRecorder(s.rec), build.WithLogger(s.log))
	report, err := builder.Run(ctx)
	if err != nil {
		s.log.Warn("build failed", logfields.Error(err))
		s.status.setError(err)
		return
	}
	s.status.setSuccess()
	s.log.Info("site rebuilt",
		logfields.BuildID(report.BuildID),
		slog.Int("documents", report.Documents),
		slog.Int("snippets", report.Snippets))
}

func (s *Server) eventLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func(), srv *http.Server) error {
	for {
		select {
		case <-ctx.Done():
			return s.shutdown(srv)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) shutdown(srv *http.Server) error {
	s.log.Info("shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("server shutdown error", logfields.Error(err))
	}
	return nil
}

func (s *Server) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	// New directories need watching before their files produce events.
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	s.log.Debug("file change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent filters out events from editor temp files and other
// artifacts that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	if base == ".DS_Store" || base == "Thumbs.db" {
		return true
	}
	return false
}
