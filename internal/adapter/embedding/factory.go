package embedding

import (
	"fmt"

	"kalebbot/config"
	"kalebbot/internal/port"
)

// NewFromConfig builds the configured embedding provider.
func NewFromConfig(cfg config.EmbeddingConfig) (port.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		var (
			e   *OpenAIEmbedder
			err error
		)
		if cfg.BaseURL != "" {
			e, err = NewOpenAICompatibleEmbedder(cfg.APIKeyEnv, cfg.Model, cfg.BaseURL)
		} else {
			e, err = NewOpenAIEmbedder(cfg.APIKeyEnv, cfg.Model)
		}
		if err != nil {
			return nil, err
		}
		e.BatchSize = cfg.BatchSize
		return e, nil
	case "ollama":
		e, err := NewOllamaEmbedder(cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		e.BatchSize = cfg.BatchSize
		return e, nil
	case "mock":
		return NewMockEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
