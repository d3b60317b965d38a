// Package mcp exposes a lesson page as a Model Context Protocol server, so
// agents can inspect the page, drive navigation and satisfy gates.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/aretw0/lectern/pkg/loop"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// LessonURI is the resource carrying the page manifest and items.
const LessonURI = "lectern://lesson"

// ErrNoPage is returned by tools while no page is installed.
var ErrNoPage = errors.New("no lesson page loaded")

// PageResponse is the structured result of the navigation tools.
type PageResponse struct {
	Title    string          `json:"title" jsonschema_description:"Lesson title"`
	Snapshot domain.Snapshot `json:"snapshot" jsonschema_description:"Introspectable controller state"`
	Changed  bool            `json:"changed" jsonschema_description:"Whether the call moved the page"`
	View     any             `json:"view,omitempty" jsonschema_description:"Render model of the page"`
}

// VariableResponse is the structured result of the variable tools.
type VariableResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	Ready bool   `json:"ready" jsonschema_description:"Whether the value satisfies a completion gate"`
}

// Server exposes one lesson page over MCP.
type Server struct {
	loop      *loop.Loop
	page      *lesson.Page // loop-owned
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server without a page.
func NewServer(l *loop.Loop, opts ...Option) *Server {
	s := &Server{
		loop:      l,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("lectern-mcp", strings.TrimSpace(lectern.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// SetPage unmounts the current page, if any, and mounts page.
func (s *Server) SetPage(ctx context.Context, page *lesson.Page) error {
	return s.loop.Do(ctx, func() {
		if s.page != nil {
			s.page.Controller.Unmount()
		}
		s.page = page
		if page != nil {
			page.Controller.Mount()
		}
	})
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx
// is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("inspect",
		mcp.WithDescription("Return the lesson title, the controller snapshot and the render model."),
		mcp.WithOutputSchema[PageResponse](),
	), mcp.NewStructuredToolHandler(s.handleInspect))

	s.mcpServer.AddTool(mcp.NewTool("next",
		mcp.WithDescription("Advance the page: Continue for steps, next slide for slides."),
		mcp.WithOutputSchema[PageResponse](),
	), mcp.NewStructuredToolHandler(s.handleNext))

	s.mcpServer.AddTool(mcp.NewTool("prev",
		mcp.WithDescription("Go back: Back for steps (when allowed), previous slide for slides."),
		mcp.WithOutputSchema[PageResponse](),
	), mcp.NewStructuredToolHandler(s.handlePrev))

	s.mcpServer.AddTool(mcp.NewTool("go_to",
		mcp.WithDescription("Reveal a step or jump to a slide by 0-based index. Out of range indexes are ignored."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based item index")),
		mcp.WithOutputSchema[PageResponse](),
	), mcp.NewStructuredToolHandler(s.handleGoTo))

	s.mcpServer.AddTool(mcp.NewTool("press_key",
		mcp.WithDescription("Deliver a keyboard key to the page (ArrowRight, ArrowLeft, ArrowUp, ArrowDown)."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Key name")),
		mcp.WithOutputSchema[PageResponse](),
	), mcp.NewStructuredToolHandler(s.handlePressKey))

	s.mcpServer.AddTool(mcp.NewTool("read_variable",
		mcp.WithDescription("Read a variable from the lesson store."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Variable name")),
		mcp.WithOutputSchema[VariableResponse](),
	), mcp.NewStructuredToolHandler(s.handleReadVariable))

	s.mcpServer.AddTool(mcp.NewTool("write_variable",
		mcp.WithDescription("Write a variable to the lesson store. Completion gates watch these variables."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Variable name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("JSON encoded value")),
		mcp.WithOutputSchema[VariableResponse](),
	), mcp.NewStructuredToolHandler(s.handleWriteVariable))
}

type goToArgs struct {
	Index int `mapstructure:"index"`
}

type keyArgs struct {
	Key string `mapstructure:"key"`
}

type variableArgs struct {
	Key   string `mapstructure:"key"`
	Value string `mapstructure:"value"`
}

// decodeArgs maps tool arguments onto out. JSON numbers arrive as float64.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// withPage runs fn on the loop and returns the resulting page state.
func (s *Server) withPage(ctx context.Context, fn func(p *lesson.Page) bool) (PageResponse, error) {
	var (
		resp    PageResponse
		missing bool
	)
	err := s.loop.Do(ctx, func() {
		if s.page == nil {
			missing = true
			return
		}
		resp.Changed = fn(s.page)
		resp.Title = s.page.Title()
		resp.Snapshot = s.page.Controller.Snapshot()
		resp.View = s.page.Controller.View()
	})
	if err != nil {
		return PageResponse{}, err
	}
	if missing {
		return PageResponse{}, ErrNoPage
	}
	return resp, nil
}

func (s *Server) handleInspect(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (PageResponse, error) {
	return s.withPage(ctx, func(*lesson.Page) bool { return false })
}

func (s *Server) handleNext(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (PageResponse, error) {
	return s.withPage(ctx, func(p *lesson.Page) bool { return p.Controller.Next() })
}

func (s *Server) handlePrev(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (PageResponse, error) {
	return s.withPage(ctx, func(p *lesson.Page) bool { return p.Controller.Prev() })
}

func (s *Server) handleGoTo(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (PageResponse, error) {
	var in goToArgs
	if err := decodeArgs(args, &in); err != nil {
		return PageResponse{}, err
	}
	return s.withPage(ctx, func(p *lesson.Page) bool {
		before := p.Controller.Snapshot()
		p.Controller.GoTo(in.Index)
		return before != p.Controller.Snapshot()
	})
}

func (s *Server) handlePressKey(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (PageResponse, error) {
	var in keyArgs
	if err := decodeArgs(args, &in); err != nil {
		return PageResponse{}, err
	}
	return s.withPage(ctx, func(p *lesson.Page) bool {
		return p.Controller.HandleKey(domain.Key(in.Key))
	})
}

func (s *Server) handleReadVariable(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (VariableResponse, error) {
	var in variableArgs
	if err := decodeArgs(args, &in); err != nil {
		return VariableResponse{}, err
	}
	var (
		value   any
		missing bool
	)
	err := s.loop.Do(ctx, func() {
		if s.page == nil {
			missing = true
			return
		}
		value = s.page.Store.Read(in.Key, "")
	})
	if err != nil {
		return VariableResponse{}, err
	}
	if missing {
		return VariableResponse{}, ErrNoPage
	}
	return VariableResponse{Key: in.Key, Value: value, Ready: domain.IsReady(value)}, nil
}

func (s *Server) handleWriteVariable(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (VariableResponse, error) {
	var in variableArgs
	if err := decodeArgs(args, &in); err != nil {
		return VariableResponse{}, err
	}

	var value any
	dec := json.NewDecoder(strings.NewReader(in.Value))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		// Bare words are taken as strings.
		value = in.Value
	}

	var missing bool
	err := s.loop.Do(ctx, func() {
		if s.page == nil {
			missing = true
			return
		}
		s.page.Store.Write(in.Key, value)
	})
	if err != nil {
		return VariableResponse{}, err
	}
	if missing {
		return VariableResponse{}, ErrNoPage
	}
	s.logger.Info("MCP: variable written", "key", in.Key)
	return VariableResponse{Key: in.Key, Value: value, Ready: domain.IsReady(value)}, nil
}

type lessonResource struct {
	Manifest lesson.Manifest `json:"manifest"`
	Items    []domain.Item   `json:"items"`
}

func (s *Server) readLesson(ctx context.Context) ([]byte, error) {
	var (
		res     lessonResource
		missing bool
	)
	err := s.loop.Do(ctx, func() {
		if s.page == nil {
			missing = true
			return
		}
		res = lessonResource{Manifest: s.page.Manifest, Items: s.page.Items()}
	})
	if err != nil {
		return nil, err
	}
	if missing {
		return nil, ErrNoPage
	}
	return json.Marshal(res)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(LessonURI, "Current Lesson",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := s.readLesson(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read lesson: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      LessonURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
