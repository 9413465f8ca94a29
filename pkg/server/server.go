// Package server exposes a generate result over a read-only HTTP API.
//
// Routes:
//
//	GET /healthz            version, run id and identifier count
//	GET /tree               the tree document
//	GET /tree/{uti}         the subtree rooted at one identifier
//	GET /children           the children document
//	GET /children/{uti}     all descendants of one identifier
//	GET /ancestors/{uti}    the top-level ancestors of one identifier
//	GET /roots              the top-level identifiers
//
// Responses are JSON; add ?format=yaml for YAML. Unknown identifiers
// answer 404. The served result can be replaced with [Server.Swap] while
// requests are in flight.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/utitree/pkg/buildinfo"
	"github.com/matzehuels/utitree/pkg/document"
	"github.com/matzehuels/utitree/pkg/hierarchy"
	"github.com/matzehuels/utitree/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Server serves one pipeline result.
type Server struct {
	mu     sync.RWMutex
	res    *pipeline.Result
	logger *log.Logger
	router chi.Router
}

// New creates a server for res.
func New(res *pipeline.Result, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{res: res, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Swap replaces the served result.
func (s *Server) Swap(res *pipeline.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.res = res
}

func (s *Server) result() *pipeline.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/tree", s.handleTree)
	r.Get("/tree/{uti}", s.handleSubtree)
	r.Get("/children", s.handleChildren)
	r.Get("/children/{uti}", s.handleDescendants)
	r.Get("/ancestors/{uti}", s.handleAncestors)
	r.Get("/roots", s.handleRoots)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := s.result()
	respond(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"run_id":  res.RunID,
		"utis":    len(res.Children),
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, s.result().Tree)
}

func (s *Server) handleSubtree(w http.ResponseWriter, r *http.Request) {
	uti := chi.URLParam(r, "uti")
	res := s.result()
	if res.Graph == nil {
		notFound(w, r, uti)
		return
	}
	n, ok := res.Graph.Node(uti)
	if !ok {
		notFound(w, r, uti)
		return
	}
	respond(w, r, http.StatusOK, hierarchy.Stringify(n.Tree()))
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, s.result().Children)
}

func (s *Server) handleDescendants(w http.ResponseWriter, r *http.Request) {
	uti := chi.URLParam(r, "uti")
	desc, ok := s.result().Children[uti]
	if !ok {
		notFound(w, r, uti)
		return
	}
	respond(w, r, http.StatusOK, map[string]any{"uti": uti, "descendants": desc})
}

func (s *Server) handleAncestors(w http.ResponseWriter, r *http.Request) {
	uti := chi.URLParam(r, "uti")
	anc, ok := s.result().Ancestors[uti]
	if !ok {
		notFound(w, r, uti)
		return
	}
	respond(w, r, http.StatusOK, map[string]any{"uti": uti, "ancestors": anc})
}

func (s *Server) handleRoots(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, s.result().Roots)
}

func notFound(w http.ResponseWriter, r *http.Request, uti string) {
	respond(w, r, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown uti %q", uti)})
}

// respond encodes v as JSON, or YAML when the request asks for it.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	format, contentType := document.JSON, "application/json"
	if q := r.URL.Query().Get("format"); q == "yaml" || q == "yml" {
		format, contentType = document.YAML, "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = document.Encode(w, v, format)
}
