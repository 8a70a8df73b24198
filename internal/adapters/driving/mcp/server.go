package mcp

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

// Server is the MCP server for pitrseek.
type Server struct {
	ports  *Ports
	server *mcp.Server

	mu sync.RWMutex
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	version := ports.Version
	if version == "" {
		version = "dev"
	}
	impl := &mcp.Implementation{
		Name:    "pitrseek",
		Version: version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// SetDefaults replaces the target and accuracy used when a tool call
// leaves them out. Calls already running keep the old defaults.
func (s *Server) SetDefaults(target domain.DatabaseTarget, accuracy time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ports.DefaultTarget = target
	s.ports.DefaultAccuracy = accuracy
}

// Defaults returns the current default target and accuracy.
func (s *Server) Defaults() (domain.DatabaseTarget, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ports.DefaultTarget, s.ports.DefaultAccuracy
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
