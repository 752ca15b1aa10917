// internal/server/server.go
// Package server hosts the cards page, the export endpoint and the local
// image proxy.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mwiater/reasoncards/internal/cards"
	"github.com/mwiater/reasoncards/internal/render"
)

const (
	defaultExportDir    = "exported_cards"
	defaultMaxBodyBytes = 32 << 20
	shutdownTimeout     = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr string
	// WorkDir anchors the export directory, the image roots and the
	// relative paths returned to clients.
	WorkDir      string
	ExportDir    string
	AllowedRoots []string
	IconsDir     string
	MaxBodyBytes int64
	Dataset      *cards.Dataset
	Renderer     *render.Renderer
	Logger       *zap.Logger
}

// Server serves the HTTP surface.
type Server struct {
	addr         string
	workDir      string
	exportDir    string
	roots        map[string]struct{}
	iconsDir     string
	maxBodyBytes int64
	dataset      *cards.Dataset
	renderer     *render.Renderer
	log          *zap.Logger
	handler      http.Handler
}

// New validates opts and builds the route table.
func New(opts Options) (*Server, error) {
	if strings.TrimSpace(opts.WorkDir) == "" {
		return nil, errors.New("work dir is required")
	}
	workDir, err := filepath.Abs(opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("resolve work dir: %w", err)
	}

	s := &Server{
		addr:         opts.Addr,
		workDir:      workDir,
		exportDir:    opts.ExportDir,
		roots:        make(map[string]struct{}, len(opts.AllowedRoots)),
		iconsDir:     opts.IconsDir,
		maxBodyBytes: opts.MaxBodyBytes,
		dataset:      opts.Dataset,
		renderer:     opts.Renderer,
		log:          opts.Logger,
	}
	if s.exportDir == "" {
		s.exportDir = defaultExportDir
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = defaultMaxBodyBytes
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.renderer == nil {
		s.renderer = render.New(render.Options{LocalRoots: opts.AllowedRoots})
	}
	for _, root := range opts.AllowedRoots {
		if root = strings.Trim(strings.TrimSpace(root), "/"); root != "" {
			s.roots[root] = struct{}{}
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /api/export-card", s.handleExportCard)
	mux.HandleFunc("GET /api/local-image", s.handleLocalImage)
	mux.HandleFunc("GET /cards", s.handleCards)
	mux.HandleFunc("GET /placeholder.svg", handlePlaceholder)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/cards", http.StatusFound)
	})
	if s.iconsDir != "" {
		mux.Handle("GET /icons/", http.StripPrefix("/icons/", http.FileServer(http.Dir(s.iconsDir))))
	}
	s.handler = s.logRequests(mux)
	return s, nil
}

// Handler returns the root handler, request logging included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	cardCount := 0
	if s.dataset != nil {
		cardCount = s.dataset.Len()
	}
	s.log.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("workdir", s.workDir),
		zap.Int("cards", cardCount),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}
