package ats

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/honeycarbs/atsbridge/internal/config"
	"github.com/honeycarbs/atsbridge/pkg/atserr"
	"github.com/honeycarbs/atsbridge/pkg/logging"
)

// Factory builds a provider from configuration
type Factory func(cfg config.Config, logger *logging.Logger) (Provider, error)

// Registry maps provider names to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces a factory; names are case-insensitive
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[normalizeName(name)] = f
}

// Names returns the registered provider names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve builds the provider registered under name
func (r *Registry) Resolve(name string, cfg config.Config, logger *logging.Logger) (Provider, error) {
	key := normalizeName(name)

	r.mu.RLock()
	f, ok := r.factories[key]
	r.mu.RUnlock()

	if !ok {
		supported := strings.Join(r.Names(), ", ")
		return nil, atserr.Validation(
			fmt.Sprintf("Unsupported ATS provider '%s'. Supported providers: %s", name, supported),
			map[string]string{"provider": supported},
		)
	}

	p, err := f(cfg, logging.OrNop(logger).Named(key))
	if err != nil {
		return nil, fmt.Errorf("ats: build provider %q: %w", key, err)
	}
	return p, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
