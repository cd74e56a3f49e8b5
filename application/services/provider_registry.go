package services

import (
	"context"
	"sort"
	"sync"

	"github.com/danja/semem-go/application/ports"
	apperrors "github.com/danja/semem-go/pkg/errors"
	"go.uber.org/zap"
)

// ProviderEntry is one configured provider: its capabilities, selection
// priority (lower = better), and bound adapter instances (§4.C).
type ProviderEntry struct {
	Type         string
	Priority     int
	Chat         ports.ChatProvider
	Embedding    ports.EmbeddingProvider
	Capabilities map[ports.ProviderCapability]bool
}

func (e ProviderEntry) hasCapability(c ports.ProviderCapability) bool {
	return e.Capabilities != nil && e.Capabilities[c]
}

// ProviderRegistry selects an LLM/embedding provider by capability and
// priority, falling back to the next candidate on repeated failure (§4.C).
type ProviderRegistry struct {
	mu       sync.Mutex
	entries  []ProviderEntry
	unhealthy map[string]bool
	logger   *zap.Logger
	onFallback func(capability string)
}

// NewProviderRegistry builds a registry from configured entries, sorted by
// priority ascending (lower value first; entries with equal priority keep
// their configured order).
func NewProviderRegistry(entries []ProviderEntry, logger *zap.Logger) *ProviderRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	sorted := make([]ProviderEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return &ProviderRegistry{entries: sorted, unhealthy: make(map[string]bool), logger: logger}
}

// OnFallback registers a callback invoked each time pickProvider skips an
// unhealthy candidate, the hook the observability metrics wire
// RecordProviderFallback through.
func (r *ProviderRegistry) OnFallback(fn func(capability string)) {
	r.onFallback = fn
}

// PickChatProvider implements pickProvider(capability=chat): the available
// provider with minimal priority among those tagged chat-capable.
func (r *ProviderRegistry) PickChatProvider(_ context.Context) (ports.ChatProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if !e.hasCapability(ports.CapabilityChat) || e.Chat == nil {
			continue
		}
		if r.unhealthy[e.Type] {
			if r.onFallback != nil {
				r.onFallback(string(ports.CapabilityChat))
			}
			continue
		}
		return e.Chat, nil
	}
	return nil, apperrors.NewUnavailable("no healthy chat-capable provider configured", nil)
}

// PickEmbeddingProvider is PickChatProvider for the embedding capability.
func (r *ProviderRegistry) PickEmbeddingProvider(_ context.Context) (ports.EmbeddingProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if !e.hasCapability(ports.CapabilityEmbedding) || e.Embedding == nil {
			continue
		}
		if r.unhealthy[e.Type] {
			if r.onFallback != nil {
				r.onFallback(string(ports.CapabilityEmbedding))
			}
			continue
		}
		return e.Embedding, nil
	}
	return nil, apperrors.NewUnavailable("no healthy embedding-capable provider configured", nil)
}

// MarkUnhealthy excludes providerType from selection until MarkHealthy is
// called, the "on repeated failure, falls back to the next" behavior in
// §4.C. Call sites observe this via their own retry/circuit-breaker wrapper
// around the provider call; the registry itself does not count failures.
func (r *ProviderRegistry) MarkUnhealthy(providerType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unhealthy[providerType] = true
	r.logger.Warn("provider marked unhealthy", zap.String("provider", providerType))
}

// MarkHealthy clears a provider's unhealthy flag.
func (r *ProviderRegistry) MarkHealthy(providerType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.unhealthy, providerType)
}
