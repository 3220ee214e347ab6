package usecase

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"kalebbot/internal/adapter/embedding"
	"kalebbot/internal/adapter/extractor"
	"kalebbot/internal/adapter/fs"
	"kalebbot/internal/adapter/store"
	"kalebbot/internal/port"
)

func mockFactory() (port.Embedder, error) {
	return embedding.NewMockEmbedder(8), nil
}

func failingFactory() (port.Embedder, error) {
	return nil, errors.New("provider unavailable")
}

// buildCorpus builds a snapshot from the given files and returns the
// snapshot store pointing at it.
func buildCorpus(t *testing.T, files map[string]string) *store.SnapshotStore {
	t.Helper()
	dir := t.TempDir()
	corpus := filepath.Join(dir, "kb")
	if err := os.Mkdir(corpus, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(corpus, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	snapshots := store.NewSnapshotStore(
		filepath.Join(dir, "index.bin"),
		filepath.Join(dir, "meta.db"),
	)
	builder := NewBuilder(
		fs.NewLister([]string{"*.txt"}, nil),
		extractor.DefaultSet(zap.NewNop()),
		embedding.NewMockEmbedder(8),
		snapshots,
		10,
		zap.NewNop(),
	)
	if _, err := builder.Build(corpus); err != nil {
		t.Fatal(err)
	}
	return snapshots
}

func TestSearchSingleChunkScenario(t *testing.T) {
	snapshots := buildCorpus(t, map[string]string{
		"policy.txt": "Vacation requests must be submitted 14 days in advance.",
	})

	r := NewEagerRetriever(snapshots, mockFactory, zap.NewNop())
	if r.LoadState() != StateLoaded {
		t.Fatalf("expected loaded state, got %d", r.LoadState())
	}

	results := r.Search("vacation policy", 5)
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 result, got %d", len(results))
	}
	if results[0].Source != "policy.txt" {
		t.Errorf("expected source policy.txt, got %s", results[0].Source)
	}
	if results[0].Text != "Vacation requests must be submitted 14 days in advance." {
		t.Errorf("unexpected text: %q", results[0].Text)
	}
}

func TestSearchReturnsAtMostK(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 8; i++ {
		files[fmt.Sprintf("doc%d.txt", i)] = fmt.Sprintf("document number %d with enough text", i)
	}
	snapshots := buildCorpus(t, files)
	r := NewEagerRetriever(snapshots, mockFactory, zap.NewNop())

	for _, k := range []int{1, 3, 8, 20} {
		results := r.Search("document number", k)
		if len(results) > k {
			t.Errorf("k=%d: got %d results", k, len(results))
		}
	}
}

func TestSearchOrderedAndIdempotent(t *testing.T) {
	snapshots := buildCorpus(t, map[string]string{
		"a.txt": "aardvark anatomy overview text\nbeaver behavior study notes\ncheetah chasing dynamics report",
	})
	r := NewEagerRetriever(snapshots, mockFactory, zap.NewNop())

	first := r.Search("aardvark anatomy", 3)
	if len(first) == 0 {
		t.Fatal("expected results")
	}
	for i := 1; i < len(first); i++ {
		if first[i].Distance < first[i-1].Distance {
			t.Errorf("distances not non-decreasing: %v", first)
		}
	}

	for i := 0; i < 5; i++ {
		again := r.Search("aardvark anatomy", 3)
		if len(again) != len(first) {
			t.Fatalf("result count changed between identical queries")
		}
		for j := range first {
			if again[j] != first[j] {
				t.Errorf("result %d changed between identical queries", j)
			}
		}
	}
}

func TestSearchUnloadedReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	snapshots := store.NewSnapshotStore(
		filepath.Join(dir, "index.bin"),
		filepath.Join(dir, "meta.db"),
	)

	r := NewEagerRetriever(snapshots, mockFactory, zap.NewNop())
	if r.LoadState() != StateMissingFiles {
		t.Errorf("expected missing-files state, got %d", r.LoadState())
	}
	if results := r.Search("anything", 5); len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestLazyLoadAttemptedOnce(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "index.bin")
	metaPath := filepath.Join(dir, "meta.db")
	snapshots := store.NewSnapshotStore(indexPath, metaPath)

	r := NewLazyRetriever(snapshots, mockFactory, zap.NewNop())
	if r.LoadState() != StateUnloaded {
		t.Fatalf("expected unloaded before first search, got %d", r.LoadState())
	}

	// First search triggers the one and only load attempt; files are
	// absent so it fails.
	if results := r.Search("anything", 5); len(results) != 0 {
		t.Fatalf("expected empty results, got %d", len(results))
	}
	if r.LoadState() != StateMissingFiles {
		t.Fatalf("expected missing-files state, got %d", r.LoadState())
	}

	// Now create the snapshot. A plain second search must NOT reload:
	// the attempted-once gate keeps the retriever empty.
	populated := buildCorpus(t, map[string]string{
		"policy.txt": "Remote work requires manager approval in writing.",
	})
	copySnapshot(t, populated, indexPath, metaPath)

	if results := r.Search("remote work", 5); len(results) != 0 {
		t.Errorf("second search reloaded despite the attempted-once gate")
	}

	// Reload is the explicit recovery path.
	if err := r.Reload(); err != nil {
		t.Fatal(err)
	}
	if results := r.Search("remote work", 5); len(results) != 1 {
		t.Errorf("expected 1 result after Reload, got %d", len(results))
	}
}

func TestLazyProviderErrorState(t *testing.T) {
	snapshots := buildCorpus(t, map[string]string{
		"policy.txt": "Security badges must be worn at all times.",
	})

	r := NewLazyRetriever(snapshots, failingFactory, zap.NewNop())
	if results := r.Search("badges", 5); len(results) != 0 {
		t.Errorf("expected empty results with failing provider, got %d", len(results))
	}
	if r.LoadState() != StateProviderError {
		t.Errorf("expected provider-error state, got %d", r.LoadState())
	}
}

func TestReloadPicksUpNewGeneration(t *testing.T) {
	snapshots := buildCorpus(t, map[string]string{
		"old.txt": "the old generation only line",
	})
	r := NewEagerRetriever(snapshots, mockFactory, zap.NewNop())
	gen1 := r.Generation()

	// Rebuild in place with different content.
	rebuildInPlace(t, snapshots, map[string]string{
		"new.txt": "the new generation only line",
	})

	// The in-memory snapshot is unaffected until Reload.
	if r.Generation() != gen1 {
		t.Error("generation changed without Reload")
	}

	if err := r.Reload(); err != nil {
		t.Fatal(err)
	}
	if r.Generation() == gen1 {
		t.Error("expected new generation after Reload")
	}
	results := r.Search("new generation", 5)
	if len(results) != 1 || results[0].Source != "new.txt" {
		t.Errorf("expected the new snapshot's chunk, got %v", results)
	}
}

// copySnapshot copies the files behind src to the given destination paths.
func copySnapshot(t *testing.T, src *store.SnapshotStore, indexPath, metaPath string) {
	t.Helper()
	snap, err := src.Load()
	if err != nil {
		t.Fatal(err)
	}
	dst := store.NewSnapshotStore(indexPath, metaPath)
	if _, err := dst.Save(snap.Index, snap.Chunks); err != nil {
		t.Fatal(err)
	}
}

// rebuildInPlace replaces the snapshot behind the store with one built
// from the given files.
func rebuildInPlace(t *testing.T, snapshots *store.SnapshotStore, files map[string]string) {
	t.Helper()
	corpus := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(corpus, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	builder := NewBuilder(
		fs.NewLister([]string{"*.txt"}, nil),
		extractor.DefaultSet(zap.NewNop()),
		embedding.NewMockEmbedder(8),
		snapshots,
		10,
		zap.NewNop(),
	)
	if _, err := builder.Build(corpus); err != nil {
		t.Fatal(err)
	}
}
