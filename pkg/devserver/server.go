// Package devserver serves components over HTTP for development: each
// demo runs against an in-memory host tree on the server, browsers get
// its HTML over a WebSocket after every flush, and DOM events post back
// to drive the real handlers. It is a development aid, not a production
// transport.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/lumen-ui/lumen/pkg/dom/memdom"
	"github.com/lumen-ui/lumen/pkg/metrics"
	"github.com/lumen-ui/lumen/pkg/runtime"
	"github.com/lumen-ui/lumen/pkg/ui"
)

// Server hosts a set of named components for live preview.
type Server struct {
	addr       string
	logger     *slog.Logger
	metrics    *metrics.Metrics
	components map[string]ui.Component

	mu       sync.Mutex
	sessions map[string]*session
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address (default ":8080").
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics attaches a metrics set shared by all preview runtimes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a preview server for the given named components.
func New(components map[string]ui.Component, opts ...Option) *Server {
	s := &Server{
		addr:       ":8080",
		logger:     slog.Default(),
		components: components,
		sessions:   make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "lumen.devserver")
	return s
}

// Run serves until ctx is done. Every preview session's dispatch loop
// runs in the same group, so cancellation tears the whole server down.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(ctx, g),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		s.logger.Info("dev server listening", "addr", s.addr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) routes(ctx context.Context, g *errgroup.Group) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/demo/{name}", s.handleDemo)
	r.Get("/ws/{name}", func(w http.ResponseWriter, req *http.Request) {
		s.handleSocket(ctx, g, w, req)
	})
	r.Post("/event/{name}/{node}/{type}", s.handleEvent)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// session is one live component tree: a runtime over an in-memory
// document plus the sockets watching it.
type session struct {
	name string
	doc  *memdom.Document
	rt   *runtime.Runtime
	hub  *hub
}

// session returns the live session for a component name, mounting it on
// first use. The runtime's dispatch loop joins the server's group.
func (s *Server) session(ctx context.Context, g *errgroup.Group, name string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[name]; ok {
		return sess, nil
	}
	fn, ok := s.components[name]
	if !ok {
		return nil, fmt.Errorf("unknown component %q", name)
	}

	doc := memdom.NewDocument()
	rt := runtime.New(doc,
		runtime.WithLogger(s.logger.With("demo", name)),
		runtime.WithMetrics(s.metrics),
	)
	sess := &session{name: name, doc: doc, rt: rt, hub: newHub()}

	rt.OnFlush(func() {
		sess.hub.broadcast(updateMessage{Type: "update", HTML: doc.HTML(doc.Root)})
	})
	if err := rt.Mount(doc.Root, fn); err != nil {
		return nil, err
	}

	g.Go(func() error {
		err := rt.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	s.sessions[name] = sess
	return sess, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, req *http.Request) {
	names := make([]string, 0, len(s.components))
	for name := range s.components {
		names = append(names, name)
	}
	writeIndexPage(w, names)
}

func (s *Server) handleDemo(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")
	if _, ok := s.components[name]; !ok {
		http.NotFound(w, req)
		return
	}
	writeDemoPage(w, name)
}

// handleEvent replays a browser event against the server-side tree. The
// dispatch forms one tick, so all signal writes from the handlers
// coalesce into a single flush and one socket update.
func (s *Server) handleEvent(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")
	nodeID := chi.URLParam(req, "node")
	eventType := chi.URLParam(req, "type")

	s.mu.Lock()
	sess, ok := s.sessions[name]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "no session", http.StatusNotFound)
		return
	}

	var data map[string]any
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&data)
	}

	sess.rt.Dispatch(func() {
		node := sess.doc.NodeByID(nodeID)
		if node == nil {
			s.logger.Warn("event for unknown node", "demo", name, "node", nodeID)
			return
		}
		node.Fire(eventType, data)
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSocket(ctx context.Context, g *errgroup.Group, w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")
	sess, err := s.session(ctx, g, name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	sess.hub.serve(w, req, updateMessage{Type: "update", HTML: sess.doc.HTML(sess.doc.Root)})
}
