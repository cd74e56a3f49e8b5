package services

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
	domainsvc "github.com/danja/semem-go/domain/services"
	"go.uber.org/zap"
)

// Tier restricts retrieveRelevant to one memory tier, or both when empty
// (§4.E: "caller may restrict to one tier or fuse both (default fuse)").
type Tier = entities.Tier

// MemoryStoreConfig tunes the two-tier memory (§4.E, §6 memory.*).
type MemoryStoreConfig struct {
	ShortTermCapacity   int
	SimilarityThreshold float64
	PromotionThreshold  float64
	DecayRate           float64
	DebounceDelay       time.Duration
}

// MemoryStore maintains the two-tier memory and its RDF mirror (§4.E). It
// replaces the "parallel arrays for memory" pattern §9 flags for
// re-architecture with one owned slice of *entities.Interaction per tier
// plus a byId index.
type MemoryStore struct {
	mu         sync.RWMutex
	shortTerm  []*entities.Interaction
	longTerm   []*entities.Interaction
	byID       map[string]*entities.Interaction

	graph      ports.GraphStore
	vectorIndex ports.VectorIndex // optional accelerator, may be nil
	cache      ports.QueryCache
	debouncer  ports.Debouncer
	dataCache  ports.MemoryDataCache // optional, may be nil
	dataTimeout time.Duration
	calculator domainsvc.SimilarityCalculator
	cfg        MemoryStoreConfig
	logger     *zap.Logger
}

// NewMemoryStore wires the Memory Store's dependencies. vectorIndex and
// dataCache may be nil: without a vectorIndex, retrieveRelevant scans both
// tiers directly; without a dataCache, CachedSnapshot always recomputes.
func NewMemoryStore(
	graph ports.GraphStore,
	vectorIndex ports.VectorIndex,
	cache ports.QueryCache,
	debouncer ports.Debouncer,
	dataCache ports.MemoryDataCache,
	dataTimeout time.Duration,
	calculator domainsvc.SimilarityCalculator,
	cfg MemoryStoreConfig,
	logger *zap.Logger,
) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShortTermCapacity <= 0 {
		cfg.ShortTermCapacity = 50
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = time.Second
	}
	if dataTimeout <= 0 {
		dataTimeout = time.Minute
	}
	return &MemoryStore{
		byID:       make(map[string]*entities.Interaction),
		graph:      graph,
		vectorIndex: vectorIndex,
		cache:      cache,
		debouncer:  debouncer,
		dataCache:  dataCache,
		dataTimeout: dataTimeout,
		calculator: calculator,
		cfg:        cfg,
		logger:     logger,
	}
}

// AddInteraction implements addInteraction(prompt, response, embedding,
// concepts): assigns id and timestamp, appends to short-term, invalidates
// the query cache, and schedules a debounced write-through (§4.E).
func (s *MemoryStore) AddInteraction(ctx context.Context, prompt, response string, embedding valueobjects.Embedding, concepts []string) (*entities.Interaction, error) {
	s.mu.Lock()
	if len(s.shortTerm) >= s.cfg.ShortTermCapacity {
		s.promoteLocked(time.Now())
	}
	interaction := entities.NewInteraction(prompt, response, embedding, concepts)
	s.shortTerm = append(s.shortTerm, interaction)
	s.byID[interaction.ID] = interaction
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.InvalidatePattern(ctx, ".*"); err != nil {
			s.logger.Warn("query cache invalidation failed after addInteraction", zap.Error(err))
		}
	}
	if s.dataCache != nil {
		s.dataCache.Invalidate()
	}

	if !interaction.PendingEmbedding && s.vectorIndex != nil {
		if err := s.vectorIndex.Upsert(ctx, interaction.ID, interaction.Embedding, map[string]string{"tier": string(interaction.Tier)}); err != nil {
			s.logger.Warn("vector index upsert failed", zap.Error(err))
		}
	}

	s.schedulePersist(ctx, interaction)
	return interaction, nil
}

// schedulePersist coalesces repeated writes for the same tick via the
// shared debouncer (§4.D); cancellation on shutdown is the debouncer's
// responsibility, not this call site's.
func (s *MemoryStore) schedulePersist(ctx context.Context, interaction *entities.Interaction) {
	persist := func() {
		if err := s.graph.SaveInteraction(ctx, interaction); err != nil {
			s.logger.Error("interaction write-through failed", zap.String("id", interaction.ID), zap.Error(err))
			return
		}
		for _, label := range interaction.Concepts {
			concept := entities.NewConcept(label)
			if err := s.graph.SaveConcept(ctx, concept); err != nil {
				s.logger.Warn("concept write-through failed", zap.String("concept", concept.URI), zap.Error(err))
			}
		}
	}
	if s.debouncer != nil {
		s.debouncer.Schedule(persist, s.cfg.DebounceDelay)
	} else {
		persist()
	}
}

// RetrieveRelevant implements retrieveRelevant(query, k, contextWindow):
// ranks candidates by the composite similarity score, returns the top-k
// above the similarity threshold, ties broken by recency (§4.E).
// tierFilter restricts to one tier; pass "" to fuse both (default).
func (s *MemoryStore) RetrieveRelevant(query domainsvc.Query, k int, tierFilter Tier) []*entities.Interaction {
	now := time.Now()

	s.mu.Lock()
	candidates := s.candidatesForQueryLocked(query, k, tierFilter)
	type scored struct {
		interaction *entities.Interaction
		score       float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.PendingEmbedding {
			continue
		}
		score := s.calculator.Score(query, c, now)
		if score < s.cfg.SimilarityThreshold {
			continue
		}
		ranked = append(ranked, scored{interaction: c, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].interaction.CreatedAt.After(ranked[j].interaction.CreatedAt)
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}

	out := make([]*entities.Interaction, 0, len(ranked))
	for _, r := range ranked {
		r.interaction.RecordAccess()
		out = append(out, r.interaction)
	}
	s.mu.Unlock()

	return out
}

// candidatesForQueryLocked narrows the composite-scoring pass to the
// vector index's nearest neighbors when one is wired and the query carries
// a computed embedding, falling back to a brute-force scan of the
// requested tier(s) when the index is absent, empty, or fails (§4.A: ANN
// acceleration is additive, never a hard dependency). Caller holds s.mu.
func (s *MemoryStore) candidatesForQueryLocked(query domainsvc.Query, k int, tierFilter Tier) []*entities.Interaction {
	if s.vectorIndex == nil || query.Embedding.IsPending() {
		return s.candidatesLocked(tierFilter)
	}

	oversample := k * 4
	if oversample < 20 {
		oversample = 20
	}
	matches, err := s.vectorIndex.Query(context.Background(), query.Embedding, oversample)
	if err != nil {
		s.logger.Warn("vector index query failed, falling back to brute-force scan", zap.Error(err))
		return s.candidatesLocked(tierFilter)
	}
	if len(matches) == 0 {
		return s.candidatesLocked(tierFilter)
	}

	out := make([]*entities.Interaction, 0, len(matches))
	for _, m := range matches {
		interaction, ok := s.byID[m.ID]
		if !ok {
			continue
		}
		if tierFilter != "" && interaction.Tier != tierFilter {
			continue
		}
		out = append(out, interaction)
	}
	return out
}

// candidatesLocked returns the tier-filtered candidate slice. Caller holds
// s.mu.
func (s *MemoryStore) candidatesLocked(tierFilter Tier) []*entities.Interaction {
	switch tierFilter {
	case entities.TierShort:
		return append([]*entities.Interaction(nil), s.shortTerm...)
	case entities.TierLong:
		return append([]*entities.Interaction(nil), s.longTerm...)
	default:
		out := make([]*entities.Interaction, 0, len(s.shortTerm)+len(s.longTerm))
		out = append(out, s.shortTerm...)
		out = append(out, s.longTerm...)
		return out
	}
}

// Promote implements promote(): moves any short-term interaction meeting
// the promotion criterion to long-term, freeing its working-set slot.
//
// The source material's "score-sum-over-window" is not separately tracked
// per interaction; this store treats AccessCount as that running score
// proxy (every qualifying retrieval already increments it), so the
// criterion reduces to AccessCount >= max(promotionThreshold, 2) — an
// explicit decision recorded for the §9 open question on promotion
// semantics.
func (s *MemoryStore) Promote(ctx context.Context) {
	s.mu.Lock()
	s.promoteLocked(time.Now())
	s.mu.Unlock()
	_ = ctx
}

func (s *MemoryStore) promoteLocked(_ time.Time) {
	remaining := s.shortTerm[:0:0]
	for _, interaction := range s.shortTerm {
		threshold := s.cfg.PromotionThreshold
		if threshold <= 0 {
			threshold = 2.0
		}
		if float64(interaction.AccessCount) >= threshold && interaction.AccessCount >= 2 {
			interaction.Tier = entities.TierLong
			s.longTerm = append(s.longTerm, interaction)
			continue
		}
		remaining = append(remaining, interaction)
	}
	s.shortTerm = remaining
}

// Decay implements decay(): periodically multiplies each interaction's
// access count by (1 - decayRate*Δt), clipped at 0, reducing the weight
// future retrievals implicitly give recently-unused items via the
// promotion criterion (§4.E).
func (s *MemoryStore) Decay(elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	factor := 1 - s.cfg.DecayRate*elapsed.Seconds()
	if factor < 0 {
		factor = 0
	}
	for _, interaction := range s.shortTerm {
		interaction.AccessCount = int(math.Floor(float64(interaction.AccessCount) * factor))
	}
	for _, interaction := range s.longTerm {
		interaction.AccessCount = int(math.Floor(float64(interaction.AccessCount) * factor))
	}
}

// Get returns an interaction by id, searching both tiers.
func (s *MemoryStore) Get(id string) (*entities.Interaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	return i, ok
}

// Snapshot implements the memory-data cache's refresh path: a consistent
// view of both tiers taken under lock, matching §5's "retrieval takes the
// data reference once" ordering guarantee.
func (s *MemoryStore) Snapshot() *ports.MemoryDataSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := &ports.MemoryDataSnapshot{
		Embeddings:   make(map[string][]float64, len(s.byID)),
		Timestamps:   make(map[string]time.Time, len(s.byID)),
		AccessCounts: make(map[string]int, len(s.byID)),
		ConceptsList: make(map[string][]string, len(s.byID)),
	}
	for _, i := range s.shortTerm {
		snapshot.ShortTermMemory = append(snapshot.ShortTermMemory, i.ID)
		snapshot.Embeddings[i.ID] = i.Embedding.Vector
		snapshot.Timestamps[i.ID] = i.CreatedAt
		snapshot.AccessCounts[i.ID] = i.AccessCount
		snapshot.ConceptsList[i.ID] = i.Concepts
	}
	for _, i := range s.longTerm {
		snapshot.LongTermMemory = append(snapshot.LongTermMemory, i.ID)
		snapshot.Embeddings[i.ID] = i.Embedding.Vector
		snapshot.Timestamps[i.ID] = i.CreatedAt
		snapshot.AccessCounts[i.ID] = i.AccessCount
		snapshot.ConceptsList[i.ID] = i.Concepts
	}
	return snapshot
}

// CachedSnapshot serves a snapshot from the memory-data cache when it is
// still fresh (§4.D isValid ⇔ loaded ∧ (now-lastLoaded) < timeout),
// recomputing and repopulating the cache on a miss. Without a configured
// dataCache, it always recomputes directly from Snapshot.
func (s *MemoryStore) CachedSnapshot() *ports.MemoryDataSnapshot {
	if s.dataCache == nil {
		return s.Snapshot()
	}
	if s.dataCache.IsValid(time.Now(), s.dataTimeout) {
		if snap, ok := s.dataCache.Get(); ok {
			return snap
		}
	}
	snapshot := s.Snapshot()
	s.dataCache.Set(snapshot)
	return snapshot
}
