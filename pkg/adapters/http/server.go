// Package http serves a lesson page over HTTP.
//
// Every request touching the page runs on the page's loop. The server
// exposes an HTML rendering with introspection attributes, JSON state and
// view models, navigation actions, store variables, and an SSE stream of
// store changes and snapshot diffs.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/aretw0/lectern/pkg/loop"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StateTopic is the SSE topic carrying snapshot diffs.
const StateTopic = "__state"

// ErrNoPage is returned while no page is installed.
var ErrNoPage = errors.New("no lesson page loaded")

// Event is the payload of one SSE message.
type Event struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Server hosts one lesson page.
type Server struct {
	Streams *StreamManager

	loop     *loop.Loop
	store    ports.VariableStore
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	spec     *openapi3.T
	router   routers.Router

	// Loop-owned.
	page *lesson.Page
	last *domain.Snapshot

	bridgeMu sync.Mutex
	bridged  map[string]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a server without a page. Pages are installed with
// SetPage; builders should pass Notify as the page's change callback.
func NewServer(l *loop.Loop, store ports.VariableStore, opts ...Option) *Server {
	s := &Server{
		loop:    l,
		store:   store,
		logger:  logging.NewNop(),
		bridged: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	spec, err := LoadSpec(context.Background())
	if err == nil {
		s.spec = spec
		s.router, err = newRouter(spec)
	}
	if err != nil {
		s.logger.Error("request validation disabled", "error", err)
	}
	return s
}

// SetPage unmounts the current page, if any, and mounts page in its place.
func (s *Server) SetPage(ctx context.Context, page *lesson.Page) error {
	return s.loop.Do(ctx, func() {
		if s.page != nil {
			s.page.Controller.Unmount()
		}
		s.page = page
		s.last = nil
		if page != nil {
			page.Controller.Mount()
		}
		s.Notify()
	})
}

// Notify broadcasts the snapshot diff since the previous call. It must run
// on the loop.
func (s *Server) Notify() {
	if s.page == nil {
		return
	}
	snap := s.page.Controller.Snapshot()
	diff := domain.Diff(s.last, &snap)
	s.last = &snap
	if diff == nil {
		return
	}
	s.broadcast(StateTopic, diff)
}

func (s *Server) broadcast(topic string, value any) {
	data, err := json.Marshal(Event{Key: topic, Value: value})
	if err != nil {
		s.logger.Error("failed to encode event", "topic", topic, "error", err)
		return
	}
	s.Streams.Broadcast(topic, string(data))
}

// bridge forwards store notifications for key to the stream manager. The
// store subscription lives as long as the server.
func (s *Server) bridge(key string) {
	s.bridgeMu.Lock()
	defer s.bridgeMu.Unlock()
	if _, ok := s.bridged[key]; ok {
		return
	}
	s.bridged[key] = struct{}{}
	s.store.Subscribe(key, func(k string, v any) {
		s.broadcast(k, v)
	})
}

// Handler returns the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(limitBody(MaxBodyBytes))
	if s.router != nil {
		r.Use(s.validateRequests(s.router))
	}

	r.Get("/openapi.yaml", s.GetSpec)
	r.Get("/swagger", s.GetSwagger)

	r.Get("/", s.GetPage)
	r.Get("/state", s.GetState)
	r.Get("/view", s.GetView)

	r.Post("/next", s.action(func(p *lesson.Page) { p.Controller.Next() }))
	r.Post("/prev", s.action(func(p *lesson.Page) { p.Controller.Prev() }))
	r.Post("/goto/{index}", s.indexAction(func(p *lesson.Page, i int) { p.Controller.GoTo(i) }))
	r.Post("/reveal/{index}", s.indexAction(func(p *lesson.Page, i int) { p.Controller.GoTo(i) }))
	r.Post("/dots/{index}", s.indexAction(func(p *lesson.Page, i int) {
		if p.Slide != nil {
			p.Slide.ClickDot(i)
		}
	}))
	r.Post("/continue", s.action(func(p *lesson.Page) {
		if p.Step != nil {
			p.Step.Continue()
		}
	}))
	r.Post("/back", s.action(func(p *lesson.Page) {
		if p.Step != nil {
			p.Step.Back()
		}
	}))
	r.Post("/keys/{key}", func(w http.ResponseWriter, r *http.Request) {
		key := domain.Key(chi.URLParam(r, "key"))
		s.action(func(p *lesson.Page) { p.DispatchKey(key) })(w, r)
	})

	r.Get("/vars/{key}", s.GetVariable)
	r.Put("/vars/{key}", s.PutVariable)

	r.Get("/events", s.SubscribeEvents)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withPage runs fn on the loop with the current page.
func (s *Server) withPage(ctx context.Context, fn func(p *lesson.Page)) error {
	var missing bool
	err := s.loop.Do(ctx, func() {
		if s.page == nil {
			missing = true
			return
		}
		fn(s.page)
	})
	if err != nil {
		return err
	}
	if missing {
		return ErrNoPage
	}
	return nil
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoPage), errors.Is(err, loop.ErrStopped):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.logger.Error("request failed", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) action(fn func(p *lesson.Page)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snap domain.Snapshot
		err := s.withPage(r.Context(), func(p *lesson.Page) {
			fn(p)
			snap = p.Controller.Snapshot()
		})
		if err != nil {
			s.fail(w, err)
			return
		}
		s.writeJSON(w, snap)
	}
}

// indexAction parses {index}. Out of range indexes reach the controller,
// which ignores them.
func (s *Server) indexAction(fn func(p *lesson.Page, index int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "Invalid index", http.StatusBadRequest)
			return
		}
		s.action(func(p *lesson.Page) { fn(p, index) })(w, r)
	}
}

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.action(func(*lesson.Page) {})(w, r)
}

// GetView handles GET /view.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	var view any
	if err := s.withPage(r.Context(), func(p *lesson.Page) { view = p.Controller.View() }); err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, view)
}

// GetVariable handles GET /vars/{key}.
func (s *Server) GetVariable(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s.writeJSON(w, Event{Key: key, Value: s.store.Read(key, "")})
}

// PutVariable handles PUT /vars/{key}. The body is any JSON value.
func (s *Server) PutVariable(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutVariable: Invalid request body", "key", key, "error", err)
		return
	}

	// Writes run on the loop so gate watchers observe them there.
	if err := s.loop.Do(r.Context(), func() { s.store.Write(key, value) }); err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, Event{Key: key, Value: value})
}

// SubscribeEvents handles GET /events?key=a,b (SSE).
// Without keys the stream carries snapshot diffs only.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var topics []string
	for _, key := range strings.Split(r.URL.Query().Get("key"), ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		topics = append(topics, key)
	}
	if len(topics) == 0 {
		topics = []string{StateTopic}
	}
	for _, topic := range topics {
		if topic != StateTopic {
			s.bridge(topic)
		}
	}

	ch, cancel := s.Streams.Subscribe(topics...)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing", "topics", topics)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]string{
		"app":     "lectern-http",
		"version": strings.TrimSpace(lectern.Version),
	}
	if s.spec != nil && s.spec.Info != nil {
		info["api_version"] = s.spec.Info.Version
	}
	_ = s.withPage(r.Context(), func(p *lesson.Page) {
		info["lesson"] = p.Title()
		info["layout"] = string(p.Layout())
	})
	s.writeJSON(w, info)
}
