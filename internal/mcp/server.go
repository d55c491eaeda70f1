package mcp

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/atsbridge/internal/config"
	"github.com/honeycarbs/atsbridge/internal/domain/ats"
	"github.com/honeycarbs/atsbridge/internal/mcp/tools"
	"github.com/honeycarbs/atsbridge/pkg/logging"
)

const (
	ServerName    = "atsbridge"
	ServerVersion = "0.1.0"
	StreamPath    = "/mcp/stream"
)

// Server serves the MCP stream, the REST API and /healthz on one HTTP listener
type Server struct {
	logger *logging.Logger
	config config.Config

	srv     *http.Server
	started atomic.Bool
}

// NewMCPServer builds the SDK server with every ATS tool registered
func NewMCPServer(svc ats.Service, logger *logging.Logger) *sdkmcp.Server {
	impl := &sdkmcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}

	mcpServer := sdkmcp.NewServer(impl, nil)
	tools.RegisterAll(mcpServer, svc, logger)
	return mcpServer
}

// NewServer constructs the HTTP server; rest handles every path not claimed by MCP
func NewServer(log *logging.Logger, cfg config.Config, mcpServer *sdkmcp.Server, rest http.Handler) *Server {
	log = logging.OrNop(log)

	handler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle(StreamPath, handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if rest != nil {
		mux.Handle("/", rest)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		logger: log,
		config: cfg,
		srv:    httpSrv,
	}
}

// Handler exposes the root mux
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("HTTP server listening", "addr", s.srv.Addr, "provider", s.config.Provider, "mcp", StreamPath)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}
