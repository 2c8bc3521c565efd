// Package registry resolves model ids to backend clients. Providers are
// consulted in priority order and constructed clients are cached, so every
// query for the same model id shares one client instance.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/qiyuey/bookagent/internal/domain"
)

// Registry implements domain.BackendRegistry.
type Registry struct {
	providers []domain.BackendProvider

	mu      sync.RWMutex
	clients map[string]domain.BackendClient
}

// New creates a registry over the given providers, sorted ascending by
// priority. The provider set is fixed for the registry's lifetime; exactly
// one provider is expected to be a catch-all at the maximum priority.
func New(providers ...domain.BackendProvider) *Registry {
	sorted := make([]domain.BackendProvider, len(providers))
	copy(sorted, providers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	return &Registry{
		providers: sorted,
		clients:   make(map[string]domain.BackendClient),
	}
}

// Resolve returns the cached client for the model id, constructing it via
// the first supporting provider on a miss. Resolution is deterministic and
// idempotent for a fixed provider set. Concurrent first access may build a
// duplicate client; the extra instance is discarded and the cached one wins.
func (r *Registry) Resolve(modelID string) (domain.BackendClient, error) {
	if modelID == "" {
		return nil, domain.NewConfigurationError("model id cannot be empty")
	}

	r.mu.RLock()
	client, ok := r.clients[modelID]
	r.mu.RUnlock()
	if ok {
		return client, nil
	}

	provider := r.providerFor(modelID)
	if provider == nil {
		// Unreachable when a catch-all is registered.
		return nil, domain.NewConfigurationError("no backend provider claims model %q", modelID)
	}

	client, err := provider.Create(modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for model %q: %w", modelID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, raced := r.clients[modelID]; raced {
		return existing, nil
	}
	r.clients[modelID] = client

	return client, nil
}

func (r *Registry) providerFor(modelID string) domain.BackendProvider {
	for _, provider := range r.providers {
		if provider.Supports(modelID) {
			return provider
		}
	}
	return nil
}
