package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"kalebbot/internal/adapter/embedding"
	"kalebbot/internal/adapter/extractor"
	"kalebbot/internal/adapter/fs"
	"kalebbot/internal/adapter/store"
)

func newTestBuilder(t *testing.T) (*Builder, *store.SnapshotStore, string) {
	t.Helper()
	dir := t.TempDir()
	corpus := filepath.Join(dir, "knowledge_base")
	if err := os.Mkdir(corpus, 0755); err != nil {
		t.Fatal(err)
	}

	snapshots := store.NewSnapshotStore(
		filepath.Join(dir, "knowledge_base_index.bin"),
		filepath.Join(dir, "knowledge_base_metadata.db"),
	)

	builder := NewBuilder(
		fs.NewLister([]string{"*.txt", "*.pdf", "*.docx"}, nil),
		extractor.DefaultSet(zap.NewNop()),
		embedding.NewMockEmbedder(8),
		snapshots,
		10,
		zap.NewNop(),
	)
	return builder, snapshots, corpus
}

func writeCorpusFile(t *testing.T, corpus, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(corpus, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildSingleChunk(t *testing.T) {
	builder, snapshots, corpus := newTestBuilder(t)
	writeCorpusFile(t, corpus, "policy.txt", "Vacation requests must be submitted 14 days in advance.")

	stats, err := builder.Build(corpus)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Chunks != 1 {
		t.Fatalf("expected 1 chunk, got %d", stats.Chunks)
	}

	snap, err := snapshots.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Chunks) != 1 {
		t.Fatalf("expected 1 persisted chunk, got %d", len(snap.Chunks))
	}
	if snap.Chunks[0].Source != "policy.txt" {
		t.Errorf("expected source policy.txt, got %s", snap.Chunks[0].Source)
	}
	if snap.Chunks[0].Text != "Vacation requests must be submitted 14 days in advance." {
		t.Errorf("unexpected chunk text: %q", snap.Chunks[0].Text)
	}
	if snap.Index.Len() != 1 {
		t.Errorf("expected 1 indexed vector, got %d", snap.Index.Len())
	}
}

func TestBuildChunkThreshold(t *testing.T) {
	builder, _, corpus := newTestBuilder(t)
	writeCorpusFile(t, corpus, "short.txt", "\n\n  tiny  \nten chars!\n   \nthis line is long enough to keep\n")

	stats, err := builder.Build(corpus)
	if err != nil {
		t.Fatal(err)
	}
	// Blank lines, whitespace-only lines, and lines of 10 or fewer
	// trimmed characters are all dropped.
	if stats.Chunks != 1 {
		t.Errorf("expected 1 chunk above threshold, got %d", stats.Chunks)
	}
}

func TestBuildEmptyCorpusFails(t *testing.T) {
	builder, snapshots, corpus := newTestBuilder(t)

	_, err := builder.Build(corpus)
	if !errors.Is(err, ErrNoChunks) {
		t.Fatalf("expected ErrNoChunks, got %v", err)
	}
	if _, err := snapshots.Load(); !errors.Is(err, store.ErrMissingSnapshot) {
		t.Errorf("expected no snapshot written, got %v", err)
	}
}

func TestBuildBelowThresholdCorpusFails(t *testing.T) {
	builder, _, corpus := newTestBuilder(t)
	writeCorpusFile(t, corpus, "tiny.txt", "short\n\nalso tiny\n")

	if _, err := builder.Build(corpus); !errors.Is(err, ErrNoChunks) {
		t.Fatalf("expected ErrNoChunks, got %v", err)
	}
}

func TestBuildFailureKeepsPriorSnapshot(t *testing.T) {
	builder, snapshots, corpus := newTestBuilder(t)
	writeCorpusFile(t, corpus, "policy.txt", "Expense reports are due on the fifth business day.")

	if _, err := builder.Build(corpus); err != nil {
		t.Fatal(err)
	}
	before, err := snapshots.Load()
	if err != nil {
		t.Fatal(err)
	}

	// Empty the corpus and rebuild; the failed build must not touch
	// the previous generation.
	if err := os.Remove(filepath.Join(corpus, "policy.txt")); err != nil {
		t.Fatal(err)
	}
	if _, err := builder.Build(corpus); !errors.Is(err, ErrNoChunks) {
		t.Fatalf("expected ErrNoChunks, got %v", err)
	}

	after, err := snapshots.Load()
	if err != nil {
		t.Fatal(err)
	}
	if after.Generation != before.Generation {
		t.Errorf("failed build replaced the snapshot: %d -> %d", before.Generation, after.Generation)
	}
}

func TestBuildSkipsUnsupportedAndBrokenFiles(t *testing.T) {
	builder, snapshots, corpus := newTestBuilder(t)
	writeCorpusFile(t, corpus, "good.txt", "A perfectly indexable line of handbook text.")
	writeCorpusFile(t, corpus, "broken.pdf", "not actually a pdf")
	writeCorpusFile(t, corpus, "image.txt.bak", "ignored entirely")

	stats, err := builder.Build(corpus)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Chunks != 1 {
		t.Errorf("expected 1 chunk from the good file, got %d", stats.Chunks)
	}

	snap, err := snapshots.Load()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Chunks[0].Source != "good.txt" {
		t.Errorf("expected source good.txt, got %s", snap.Chunks[0].Source)
	}
}

func TestBuildPositionalAlignment(t *testing.T) {
	builder, snapshots, corpus := newTestBuilder(t)
	writeCorpusFile(t, corpus, "a.txt", "alpha document first line text\nalpha document second line text")
	writeCorpusFile(t, corpus, "b.txt", "bravo document only line of text")

	stats, err := builder.Build(corpus)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Chunks != 3 {
		t.Fatalf("expected 3 chunks, got %d", stats.Chunks)
	}

	snap, err := snapshots.Load()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Index.Len() != len(snap.Chunks) {
		t.Fatalf("index/metadata misaligned: %d vs %d", snap.Index.Len(), len(snap.Chunks))
	}

	// File enumeration order, then in-file line order.
	wantSources := []string{"a.txt", "a.txt", "b.txt"}
	for i, want := range wantSources {
		if snap.Chunks[i].Source != want {
			t.Errorf("chunk %d: expected source %s, got %s", i, want, snap.Chunks[i].Source)
		}
	}
}
