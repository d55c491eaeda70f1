//go:build wireinject
// +build wireinject

package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/wire"

	"github.com/honeycarbs/atsbridge/internal/api"
	"github.com/honeycarbs/atsbridge/internal/config"
	"github.com/honeycarbs/atsbridge/internal/domain/ats"
	"github.com/honeycarbs/atsbridge/internal/domain/ats/providers"
	"github.com/honeycarbs/atsbridge/internal/mcp"
	"github.com/honeycarbs/atsbridge/pkg/logging"
)

// InitializeServer builds the HTTP server for the configured ATS provider
func InitializeServer(cfg config.Config, logger *logging.Logger) (*mcp.Server, error) {
	wire.Build(
		// Provider adapter selected by ATS_PROVIDER
		providers.NewProvider,

		// Services
		ats.NewServiceWithDeps,

		// Surfaces
		api.NewRouter,
		wire.Bind(new(http.Handler), new(*chi.Mux)),
		mcp.NewMCPServer,
		mcp.NewServer,
	)

	return &mcp.Server{}, nil
}
