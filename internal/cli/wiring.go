package cli

import (
	"fmt"
	"os"
	"time"

	"kalebbot/internal/adapter/embedding"
	"kalebbot/internal/adapter/extractor"
	"kalebbot/internal/adapter/fs"
	"kalebbot/internal/adapter/llm"
	"kalebbot/internal/adapter/repository"
	"kalebbot/internal/adapter/store"
	"kalebbot/internal/adapter/whatsapp"
	"kalebbot/internal/agent"
	"kalebbot/internal/port"
	"kalebbot/internal/usecase"
)

func newSnapshotStore() *store.SnapshotStore {
	return store.NewSnapshotStore(cfg.IndexPath(rootDir), cfg.MetadataPath(rootDir))
}

func newBuilder(embedder port.Embedder) *usecase.Builder {
	lister := fs.NewLister(cfg.Knowledge.Includes, cfg.Knowledge.Excludes)
	return usecase.NewBuilder(
		lister,
		extractor.DefaultSet(log),
		embedder,
		newSnapshotStore(),
		cfg.Knowledge.MinChunkChars,
		log,
	)
}

func embedderFactory() usecase.EmbedderFactory {
	return func() (port.Embedder, error) {
		return embedding.NewFromConfig(cfg.Embedding)
	}
}

func retrieverOptions() []usecase.Option {
	opts := []usecase.Option{usecase.WithDefaultTopK(cfg.Retrieve.TopK)}
	if cfg.Retrieve.CacheTTL > 0 {
		opts = append(opts, usecase.WithQueryCache(time.Duration(cfg.Retrieve.CacheTTL)*time.Second))
	}
	return opts
}

func newRetriever() *usecase.Retriever {
	if cfg.Retrieve.LazyLoad {
		return usecase.NewLazyRetriever(newSnapshotStore(), embedderFactory(), log, retrieverOptions()...)
	}
	return usecase.NewEagerRetriever(newSnapshotStore(), embedderFactory(), log, retrieverOptions()...)
}

func newMessenger() port.Messenger {
	if cfg.WhatsApp.GatewayURL == "" {
		return whatsapp.NewSimulator(log)
	}
	return whatsapp.NewGateway(
		cfg.WhatsApp.GatewayURL,
		time.Duration(cfg.WhatsApp.TimeoutSeconds)*time.Second,
		cfg.WhatsApp.MaxRetries,
		log,
	)
}

func newLLM() port.LLM {
	if !cfg.LLM.Enabled {
		return nil
	}
	return llm.NewClient(cfg.LLM.BaseURL, os.Getenv(cfg.LLM.APIKeyEnv), cfg.LLM.Model, 60*time.Second)
}

// newAssistant wires the full agent stack around an existing retriever.
// The returned store must be closed by the caller.
func newAssistant(retriever *usecase.Retriever) (*agent.Router, *repository.Store, error) {
	repo, err := repository.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	router := agent.NewRouter(retriever, newLLM(), newMessenger(), repo, cfg.Retrieve.TopK, log)
	return router, repo, nil
}
