package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"kalebbot/internal/adapter/extractor"
	"kalebbot/internal/adapter/fs"
	"kalebbot/internal/adapter/index"
	"kalebbot/internal/adapter/store"
	"kalebbot/internal/domain"
	"kalebbot/internal/port"
)

// ErrNoChunks reports a build over a corpus that yielded no indexable
// text. The previous snapshot, if any, is left untouched.
var ErrNoChunks = errors.New("no indexable text found in corpus")

// Builder produces knowledge-base snapshots: it scans a corpus
// directory, extracts and chunks text, embeds every chunk, and writes
// a full replacement (index, metadata) pair.
type Builder struct {
	lister        *fs.Lister
	extractors    *extractor.Set
	embedder      port.Embedder
	snapshots     *store.SnapshotStore
	minChunkChars int
	logger        *zap.Logger
}

func NewBuilder(
	lister *fs.Lister,
	extractors *extractor.Set,
	embedder port.Embedder,
	snapshots *store.SnapshotStore,
	minChunkChars int,
	logger *zap.Logger,
) *Builder {
	if minChunkChars <= 0 {
		minChunkChars = 10
	}
	return &Builder{
		lister:        lister,
		extractors:    extractors,
		embedder:      embedder,
		snapshots:     snapshots,
		minChunkChars: minChunkChars,
		logger:        logger,
	}
}

// Build scans corpusDir and replaces the persisted snapshot.
// Per-file extraction failures degrade to an empty contribution; the
// only build-level failure short of I/O trouble is an empty chunk set.
func (b *Builder) Build(corpusDir string) (*domain.BuildStats, error) {
	started := time.Now()

	files, err := b.lister.List(corpusDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus directory: %w", err)
	}

	var chunks []domain.Chunk
	skipped := 0

	for _, file := range files {
		ex, ok := b.extractors.For(file.Path)
		if !ok {
			skipped++
			b.logger.Debug("skipping unsupported file", zap.String("file", file.Name))
			continue
		}

		text, err := ex.Extract(file.Path)
		if err != nil {
			b.logger.Warn("extraction failed, file contributes nothing",
				zap.String("file", file.Name),
				zap.Error(err))
			continue
		}

		chunks = append(chunks, b.chunkText(text, file.Name)...)
	}

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	b.logger.Info("embedding chunks",
		zap.Int("chunks", len(chunks)),
		zap.String("model", b.embedder.ModelName()))

	vectors, err := b.embedder.Embed(texts)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	idx, err := index.NewFlatL2(b.embedder.Dimension())
	if err != nil {
		return nil, err
	}
	if err := idx.Add(vectors); err != nil {
		return nil, fmt.Errorf("failed to populate index: %w", err)
	}

	generation, err := b.snapshots.Save(idx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}

	stats := &domain.BuildStats{
		FilesScanned: len(files),
		FilesSkipped: skipped,
		Chunks:       len(chunks),
		Dimension:    b.embedder.Dimension(),
		Generation:   generation,
		Duration:     time.Since(started),
	}

	b.logger.Info("knowledge base rebuilt",
		zap.Int("files", stats.FilesScanned),
		zap.Int("chunks", stats.Chunks),
		zap.Duration("took", stats.Duration))

	return stats, nil
}

// chunkText splits extracted text on line boundaries and keeps trimmed
// lines longer than the minimum character threshold.
func (b *Builder) chunkText(text, source string) []domain.Chunk {
	var chunks []domain.Chunk
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) > b.minChunkChars {
			chunks = append(chunks, domain.Chunk{Text: trimmed, Source: source})
		}
	}
	return chunks
}
