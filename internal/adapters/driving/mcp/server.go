// Package mcp exposes corpus retrieval and answering as Model Context
// Protocol tools, so agent clients can ground themselves in the wiki.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/logger"
)

// Version is the protocol implementation version advertised to clients.
const Version = "0.1.0"

// Server wraps an MCP server around the retrieval ports. Tools are
// registered according to which ports are wired: search and
// hybrid_search always, ask only when an answer service exists.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer builds a server over the given ports. Search is required.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("wiring mcp server: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "ragchat",
			Version: Version,
		}, nil),
	}
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves MCP over stdio until the context is cancelled. This is the
// transport agent hosts spawn subprocesses with.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("Serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr until the context is
// cancelled.
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

	logger.Info("Serving MCP over HTTP on %s", addr)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("mcp http server: %w", err)
	}
	return nil
}
