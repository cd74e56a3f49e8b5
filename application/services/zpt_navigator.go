package services

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
	apperrors "github.com/danja/semem-go/pkg/errors"
	"go.uber.org/zap"
)

// QueryBuilder builds a concrete SPARQL SELECT for a set of ZPT parameters.
// infrastructure/persistence/sparql.Builder satisfies this structurally,
// keeping the navigator's dependency a plain function-shaped port instead
// of a concrete SPARQL package import.
type QueryBuilder interface {
	Build(params valueobjects.Params) (string, error)
}

// NavigatorConfig tunes the ZPT Navigator (§4.F, §6).
type NavigatorConfig struct {
	Endpoint       string // cache-key derivation input, §4.D
	QueryCacheTTL  time.Duration
	SessionTimeout time.Duration
}

// ZPTNavigator builds and executes zoom/pan/tilt SPARQL, writes navigation
// provenance, and owns NavigationSession continuity in-process (§4.F).
type ZPTNavigator struct {
	store   ports.GraphStore
	cache   ports.QueryCache
	builder QueryBuilder
	cfg     NavigatorConfig
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*entities.NavigationSession
}

// NewZPTNavigator wires the navigator's dependencies.
func NewZPTNavigator(store ports.GraphStore, cache ports.QueryCache, builder QueryBuilder, cfg NavigatorConfig, logger *zap.Logger) *ZPTNavigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.QueryCacheTTL <= 0 {
		cfg.QueryCacheTTL = 5 * time.Minute
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = 30 * time.Minute
	}
	return &ZPTNavigator{
		store:    store,
		cache:    cache,
		builder:  builder,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*entities.NavigationSession),
	}
}

// InitializeSession implements the "start -> initialize(sessionId?) ->
// active" transition: restores an existing session from the graph store,
// or starts a fresh one when sessionID is empty, unknown, or unreadable
// (§4.F restoring-a-session: "on parse failure, return null").
func (n *ZPTNavigator) InitializeSession(ctx context.Context, sessionID string) (*entities.NavigationSession, error) {
	n.mu.Lock()
	if sessionID != "" {
		if s, ok := n.sessions[sessionID]; ok {
			n.mu.Unlock()
			return s, nil
		}
	}
	n.mu.Unlock()

	if sessionID != "" {
		restored, err := n.store.LoadSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if restored != nil {
			n.mu.Lock()
			n.sessions[restored.ID] = restored
			n.mu.Unlock()
			return restored, nil
		}
	}

	session := entities.NewNavigationSession(sessionID)
	n.mu.Lock()
	n.sessions[session.ID] = session
	n.mu.Unlock()
	return session, nil
}

// NavigateResult is the outcome of one Navigate call.
type NavigateResult struct {
	Nodes        []entities.KnowledgeNode
	FromCache    bool
	ResponseTime time.Duration
}

// Navigate implements the "active -> navigate(params) -> active"
// transition: computes the cache key, serves cached bindings on hit
// (bypassing provenance), or executes the built query, caches the result,
// and writes a NavigationView (§4.F).
func (n *ZPTNavigator) Navigate(ctx context.Context, sessionID string, params valueobjects.Params) (*NavigateResult, error) {
	start := time.Now()

	session, err := n.InitializeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	query, err := n.builder.Build(params)
	if err != nil {
		return nil, err
	}
	key := valueobjects.QueryCacheKey(query, n.cfg.Endpoint)

	var body []byte
	fromCache := false
	if n.cache != nil {
		if cached, ok := n.cache.Get(ctx, key); ok {
			body = cached
			fromCache = true
		}
	}

	if !fromCache {
		body, err = n.store.Query(ctx, query)
		if err != nil {
			return nil, err
		}
		if n.cache != nil {
			if err := n.cache.Set(ctx, key, body, n.cfg.QueryCacheTTL); err != nil {
				n.logger.Warn("query cache write failed", zap.Error(err))
			}
		}
	}

	nodes, err := parseKnowledgeNodes(body, params.Zoom)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	view := entities.NavigationView{
		ZPTParams:    params,
		ResultCount:  len(nodes),
		ResponseTime: elapsed,
		Timestamp:    time.Now(),
		FromCache:    fromCache,
	}

	n.mu.Lock()
	session.RecordNavigation(params, view)
	n.mu.Unlock()

	if !fromCache {
		// Navigation provenance is written only for freshly executed queries,
		// the chosen resolution of §9's open question on cache-hit
		// provenance: a cache hit bypasses provenance write and ordering
		// side-effects (§4.F "Cache coordination").
		if err := n.store.SaveNavigationView(ctx, session.URI, view); err != nil {
			n.logger.Warn("navigation provenance write failed", zap.Error(err))
		}
	}
	if err := n.store.SaveSession(ctx, session); err != nil {
		n.logger.Warn("session mirror write failed", zap.String("session", session.ID), zap.Error(err))
	}

	return &NavigateResult{Nodes: nodes, FromCache: fromCache, ResponseTime: elapsed}, nil
}

// SweepExpired implements the "active -> (idle > sessionTimeout) ->
// expired -> sweep() -> (deleted)" transition, dropping in-process sessions
// idle past the configured timeout.
func (n *ZPTNavigator) SweepExpired() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := time.Now()
	swept := 0
	for id, s := range n.sessions {
		if s.IsExpired(now, n.cfg.SessionTimeout) {
			delete(n.sessions, id)
			swept++
		}
	}
	return swept
}

type sparqlBinding map[string]struct {
	Value string `json:"value"`
}

type sparqlJSONResults struct {
	Results struct {
		Bindings []sparqlBinding `json:"bindings"`
	} `json:"results"`
}

// parseKnowledgeNodes converts a SPARQL JSON results document into
// KnowledgeNode corpuscles, typed by the requested zoom (§4.F).
func parseKnowledgeNodes(body []byte, zoom valueobjects.Zoom) ([]entities.KnowledgeNode, error) {
	var parsed sparqlJSONResults
	if len(body) > 0 {
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, apperrors.NewProtocol("malformed sparql json results: %v", err)
		}
	}

	nodeType := entities.ZoomNodeType[zoom]
	nodes := make([]entities.KnowledgeNode, 0, len(parsed.Results.Bindings))
	for _, b := range parsed.Results.Bindings {
		node := entities.KnowledgeNode{
			URI:     b["node"].Value,
			Type:    nodeType,
			Label:   b["label"].Value,
			Content: b["content"].Value,
		}
		if created := b["created"].Value; created != "" {
			if t, err := time.Parse(time.RFC3339, created); err == nil {
				node.CreatedAt = t
			}
		}
		if v := b["entryPoint"].Value; v != "" {
			node.EntryPoint = v == "true" || v == "1"
		}
		if v := b["frequency"].Value; v != "" {
			if f, err := strconv.Atoi(v); err == nil {
				node.Frequency = f
			}
		}
		if v := b["memberCount"].Value; v != "" {
			if c, err := strconv.Atoi(v); err == nil {
				node.MemberCount = c
			}
		}
		if v := b["elementCount"].Value; v != "" {
			if c, err := strconv.Atoi(v); err == nil {
				node.ElementCount = c
			}
		}
		if v := b["sourceDocument"].Value; v != "" {
			node.SourceURI = v
		}
		if v := b["embeddingHandle"].Value; v != "" {
			node.EmbeddingURI = v
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
