// Package tools exposes the ATS service as MCP tools.
package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/atsbridge/internal/domain/ats"
	"github.com/honeycarbs/atsbridge/pkg/logging"
)

// Option configures which tools are registered
type Option func(*registry)

type registry struct {
	server *sdkmcp.Server
	svc    ats.Service
	logger *logging.Logger
	names  []string
}

// Register applies the provided tool options
func Register(server *sdkmcp.Server, svc ats.Service, logger *logging.Logger, opts ...Option) []string {
	reg := &registry{
		server: server,
		svc:    svc,
		logger: logging.OrNop(logger),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reg)
	}
	return reg.names
}

// RegisterAll installs every ATS tool
func RegisterAll(server *sdkmcp.Server, svc ats.Service, logger *logging.Logger) []string {
	names := Register(server, svc, logger,
		WithListJobs(),
		WithCreateCandidate(),
		WithListApplications(),
		WithHealth(),
	)
	logging.OrNop(logger).Info("ats tools registered", "tools", names, "provider", svc.ProviderName())
	return names
}

func (r *registry) add(name string) {
	r.names = append(r.names, name)
}
