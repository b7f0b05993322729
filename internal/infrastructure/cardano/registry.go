package cardano

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"cardano-explorer.backend/internal/config"
	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
)

// Registry manages provider adapters keyed by name
type Registry struct {
	providers map[entities.ProviderName]Provider
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[entities.ProviderName]Provider),
	}
}

// NewDefaultRegistry wires every built-in provider from cfg
func NewDefaultRegistry(cfg *config.Config, client Doer, logger *zap.Logger) *Registry {
	r := NewRegistry()
	r.Register(NewKoiosProvider(cfg.Koios, client))
	r.Register(NewCardanoscanProvider(cfg.Cardanoscan, client))
	r.Register(NewCustomProvider(cfg.Custom, client))
	r.Register(NewBitvavoProvider())
	logger.Named("ProviderRegistry").Debug("Providers registered", zap.Int("count", len(r.providers)))
	return r
}

// Get returns the adapter for name
func (r *Registry) Get(name entities.ProviderName) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q: %w", name, domainerrors.ErrInvalidProvider)
	}
	return p, nil
}

// Register injects or overrides the adapter for p.Name()
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}
