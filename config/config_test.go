package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Knowledge.MinChunkChars != 10 {
		t.Errorf("expected min chunk chars 10, got %d", cfg.Knowledge.MinChunkChars)
	}
	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected top-k 5, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Embedding.Dimension != 384 {
		t.Errorf("expected dimension 384, got %d", cfg.Embedding.Dimension)
	}
	if !cfg.Retrieve.LazyLoad {
		t.Error("expected lazy load enabled by default")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Knowledge.Path != "knowledge_base" {
		t.Errorf("expected default corpus path, got %s", cfg.Knowledge.Path)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kalebbot.yaml")
	data := `
knowledge:
  path: docs
  min_chunk_chars: 20
retrieve:
  top_k: 3
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Knowledge.Path != "docs" {
		t.Errorf("expected corpus path 'docs', got %s", cfg.Knowledge.Path)
	}
	if cfg.Knowledge.MinChunkChars != 20 {
		t.Errorf("expected min chunk chars 20, got %d", cfg.Knowledge.MinChunkChars)
	}
	if cfg.Retrieve.TopK != 3 {
		t.Errorf("expected top-k 3, got %d", cfg.Retrieve.TopK)
	}
	// Untouched sections keep defaults.
	if cfg.Server.Addr != ":5001" {
		t.Errorf("expected default server addr, got %s", cfg.Server.Addr)
	}
}

func TestLoadFromDirPrefersProjectFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "kalebbot.yaml"), []byte("server:\n  addr: \":8080\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Server.Addr)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected env override :9090, got %s", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env override debug, got %s", cfg.Logging.Level)
	}
}

func TestPathResolution(t *testing.T) {
	cfg := DefaultConfig()

	got := cfg.CorpusPath("/srv/bot")
	if got != filepath.Join("/srv/bot", "knowledge_base") {
		t.Errorf("unexpected corpus path: %s", got)
	}

	cfg.Knowledge.IndexFile = "/var/lib/kb/index.bin"
	if cfg.IndexPath("/srv/bot") != "/var/lib/kb/index.bin" {
		t.Error("absolute paths must be kept as-is")
	}
}
