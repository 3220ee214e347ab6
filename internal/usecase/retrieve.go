package usecase

import (
	"errors"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"kalebbot/internal/adapter/store"
	"kalebbot/internal/domain"
	"kalebbot/internal/port"
)

// LoadState reports why the retriever can or cannot serve queries.
type LoadState int

const (
	// StateUnloaded means no load has been attempted yet (lazy mode).
	StateUnloaded LoadState = iota
	// StateLoaded means index, metadata and embedder are all available.
	StateLoaded
	// StateMissingFiles means the persisted snapshot files are absent.
	StateMissingFiles
	// StateProviderError means the embedding provider failed to initialize
	// or the snapshot could not be read.
	StateProviderError
)

// EmbedderFactory constructs the embedding provider. Loading the
// provider is deferred along with the snapshot so that lazy retrievers
// pay the cost only on first use.
type EmbedderFactory func() (port.Embedder, error)

// Retriever answers semantic queries against the persisted knowledge
// base. It never returns an error from Search: an unloaded or broken
// subsystem yields an empty result set, which callers must read as
// "no relevant context".
//
// Loading is attempted at most once per process lifetime regardless of
// outcome; if the files appear after a failed attempt the retriever
// stays empty until Reload is called.
type Retriever struct {
	mu          sync.RWMutex
	snapshots   *store.SnapshotStore
	newEmbedder EmbedderFactory
	logger      *zap.Logger
	cache       *gocache.Cache
	defaultK    int

	loadAttempted bool
	state         LoadState
	embedder      port.Embedder
	index         port.VectorIndex
	chunks        []domain.Chunk
	generation    uint64
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithQueryCache enables caching of search results for the given TTL.
func WithQueryCache(ttl time.Duration) Option {
	return func(r *Retriever) {
		r.cache = gocache.New(ttl, 2*ttl)
	}
}

// WithDefaultTopK sets the k used when Search is called with k <= 0.
func WithDefaultTopK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.defaultK = k
		}
	}
}

// NewLazyRetriever defers all loading to the first Search call.
func NewLazyRetriever(snapshots *store.SnapshotStore, factory EmbedderFactory, logger *zap.Logger, opts ...Option) *Retriever {
	r := &Retriever{
		snapshots:   snapshots,
		newEmbedder: factory,
		logger:      logger,
		defaultK:    5,
		state:       StateUnloaded,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewEagerRetriever loads everything at construction. A missing
// snapshot leaves the retriever permanently unloaded; it never retries
// on its own.
func NewEagerRetriever(snapshots *store.SnapshotStore, factory EmbedderFactory, logger *zap.Logger, opts ...Option) *Retriever {
	r := NewLazyRetriever(snapshots, factory, logger, opts...)
	r.mu.Lock()
	r.loadLocked()
	r.mu.Unlock()
	return r
}

// Search embeds the query and returns up to k nearest chunks ordered
// nearest-first. It returns an empty slice when the knowledge base is
// not loaded or any step fails.
func (r *Retriever) Search(query string, k int) []domain.SearchResult {
	if k <= 0 {
		k = r.defaultK
	}

	r.mu.Lock()
	if !r.loadAttempted {
		r.loadLocked()
	}
	idx := r.index
	embedder := r.embedder
	chunks := r.chunks
	generation := r.generation
	r.mu.Unlock()

	if idx == nil || embedder == nil {
		return nil
	}

	cacheKey := ""
	if r.cache != nil {
		cacheKey = fmt.Sprintf("%d:%d:%s", generation, k, query)
		if cached, ok := r.cache.Get(cacheKey); ok {
			return cached.([]domain.SearchResult)
		}
	}

	vectors, err := embedder.Embed([]string{query})
	if err != nil || len(vectors) == 0 {
		r.logger.Warn("query embedding failed", zap.Error(err))
		return nil
	}

	distances, positions, err := idx.Search(vectors[0], k)
	if err != nil {
		r.logger.Warn("index search failed", zap.Error(err))
		return nil
	}

	results := make([]domain.SearchResult, 0, k)
	for i, pos := range positions {
		if pos == port.NoMatch {
			continue
		}
		// Bound check against stale or mismatched metadata.
		if pos >= len(chunks) {
			continue
		}
		results = append(results, domain.SearchResult{
			Text:     chunks[pos].Text,
			Source:   chunks[pos].Source,
			Distance: distances[i],
		})
	}

	if r.cache != nil {
		r.cache.Set(cacheKey, results, gocache.DefaultExpiration)
	}

	return results
}

// LoadState reports the current loading state.
func (r *Retriever) LoadState() LoadState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Generation returns the snapshot generation currently served, or 0.
func (r *Retriever) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Reload discards the attempted-once gate and loads the snapshot
// again. It is the explicit recovery path for processes that started
// before the knowledge base existed, and the refresh path after a
// rebuild.
func (r *Retriever) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loadLocked()
	if r.cache != nil {
		r.cache.Flush()
	}

	switch r.state {
	case StateLoaded:
		return nil
	case StateMissingFiles:
		return store.ErrMissingSnapshot
	default:
		return fmt.Errorf("knowledge base load failed")
	}
}

func (r *Retriever) loadLocked() {
	r.loadAttempted = true

	snap, err := r.snapshots.Load()
	if err != nil {
		if errors.Is(err, store.ErrMissingSnapshot) {
			r.state = StateMissingFiles
			r.logger.Warn("knowledge base files not found; run the index command first")
		} else {
			r.state = StateProviderError
			r.logger.Error("failed to load knowledge base snapshot", zap.Error(err))
		}
		return
	}

	if r.embedder == nil {
		embedder, err := r.newEmbedder()
		if err != nil {
			r.state = StateProviderError
			r.logger.Error("failed to initialize embedding provider", zap.Error(err))
			return
		}
		r.embedder = embedder
	}

	r.index = snap.Index
	r.chunks = snap.Chunks
	r.generation = snap.Generation
	r.state = StateLoaded

	r.logger.Info("knowledge base loaded",
		zap.Int("chunks", len(snap.Chunks)),
		zap.Uint64("generation", snap.Generation))
}
