package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for KalebBot.
type Config struct {
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	LLM       LLMConfig       `yaml:"llm"`
	WhatsApp  WhatsAppConfig  `yaml:"whatsapp"`
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// KnowledgeConfig holds knowledge-base indexing configuration.
type KnowledgeConfig struct {
	Path          string   `yaml:"path"`           // corpus directory
	IndexFile     string   `yaml:"index_file"`     // serialized flat index
	MetadataFile  string   `yaml:"metadata_file"`  // chunk metadata database
	MinChunkChars int      `yaml:"min_chunk_chars"`
	Includes      []string `yaml:"includes"`
	Excludes      []string `yaml:"excludes"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider" env:"EMBEDDING_PROVIDER"` // "openai", "ollama", "mock"
	Model     string `yaml:"model" env:"EMBEDDING_MODEL"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url" env:"EMBEDDING_BASE_URL"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK     int  `yaml:"top_k"`
	LazyLoad bool `yaml:"lazy_load"`
	CacheTTL int  `yaml:"cache_ttl_seconds"` // 0 disables the query cache
}

// LLMConfig holds generation model configuration.
type LLMConfig struct {
	Enabled   bool   `yaml:"enabled" env:"LLM_ENABLED"`
	Model     string `yaml:"model" env:"LLM_MODEL"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url" env:"LLM_BASE_URL"`
}

// WhatsAppConfig holds the outbound message gateway configuration.
// An empty GatewayURL puts the WhatsApp agent in simulated-send mode.
type WhatsAppConfig struct {
	GatewayURL     string `yaml:"gateway_url" env:"WHATSAPP_GATEWAY_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// DatabaseConfig holds the task/memory store configuration.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DATABASE_PATH"`
}

// ServerConfig holds web dashboard configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" env:"SERVER_ADDR"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Knowledge: KnowledgeConfig{
			Path:          "knowledge_base",
			IndexFile:     "knowledge_base_index.bin",
			MetadataFile:  "knowledge_base_metadata.db",
			MinChunkChars: 10,
			Includes:      []string{"*.pdf", "*.txt", "*.docx"},
			Excludes:      []string{".*"},
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "all-minilm",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 384,
			BatchSize: 100,
		},
		Retrieve: RetrieveConfig{
			TopK:     5,
			LazyLoad: true,
			CacheTTL: 300,
		},
		LLM: LLMConfig{
			Enabled:   false,
			Model:     "google/gemini-flash-1.5",
			APIKeyEnv: "OPENROUTER_API_KEY",
			BaseURL:   "https://openrouter.ai/api/v1",
		},
		WhatsApp: WhatsAppConfig{
			TimeoutSeconds: 30,
			MaxRetries:     3,
		},
		Database: DatabaseConfig{
			Path: "automation.db",
		},
		Server: ServerConfig{
			Addr: ":5001",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, then applies environment
// variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg)
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return applyEnv(cfg)
}

// LoadFromDir loads configuration from a directory (looks for
// kalebbot.yaml, then config/default.yaml).
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"kalebbot.yaml", filepath.Join("config", "default.yaml")} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return applyEnv(DefaultConfig())
}

func applyEnv(cfg *Config) (*Config, error) {
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexPath returns the absolute path of the serialized index file.
func (c *Config) IndexPath(root string) string {
	return resolve(root, c.Knowledge.IndexFile)
}

// MetadataPath returns the absolute path of the chunk metadata file.
func (c *Config) MetadataPath(root string) string {
	return resolve(root, c.Knowledge.MetadataFile)
}

// CorpusPath returns the absolute path of the corpus directory.
func (c *Config) CorpusPath(root string) string {
	return resolve(root, c.Knowledge.Path)
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
