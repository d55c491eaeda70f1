// Package providers wires the built-in ATS adapters into a registry.
package providers

import (
	"github.com/honeycarbs/atsbridge/internal/config"
	"github.com/honeycarbs/atsbridge/internal/domain/ats"
	"github.com/honeycarbs/atsbridge/internal/domain/ats/providers/greenhouse"
	"github.com/honeycarbs/atsbridge/internal/domain/ats/providers/workable"
	"github.com/honeycarbs/atsbridge/internal/domain/ats/providers/zoho"
	"github.com/honeycarbs/atsbridge/pkg/logging"
)

// DefaultRegistry returns a registry with every built-in adapter
func DefaultRegistry() *ats.Registry {
	r := ats.NewRegistry()
	r.Register("greenhouse", greenhouse.New)
	r.Register("zoho_recruit", zoho.New)
	r.Register("workable", workable.New)
	return r
}

// NewProvider resolves the provider selected by cfg.Provider
func NewProvider(cfg config.Config, logger *logging.Logger) (ats.Provider, error) {
	return DefaultRegistry().Resolve(cfg.Provider, cfg, logger)
}
