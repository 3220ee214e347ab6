package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"kalebbot/internal/adapter/embedding"
	"kalebbot/internal/usecase"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the knowledge base from the corpus directory",
	Long: `Scan the corpus directory, extract text from supported documents
(.txt, .pdf, .docx), embed every chunk and write the index snapshot.

Examples:
  kalebbot index
  kalebbot index -d /path/to/workspace`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	embedder, err := embedding.NewFromConfig(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("failed to initialize embedding provider: %w", err)
	}

	// Progress output only for the HTTP-backed embedders.
	if e, ok := embedder.(*embedding.OpenAIEmbedder); ok {
		var bar *progressbar.ProgressBar
		e.OnProgress = func(done, total int) {
			if bar == nil {
				bar = progressbar.Default(int64(total), "embedding")
			}
			bar.Set(done)
		}
	}

	corpus := cfg.CorpusPath(rootDir)
	fmt.Printf("Indexing %s...\n", corpus)

	stats, err := newBuilder(embedder).Build(corpus)
	if err != nil {
		if errors.Is(err, usecase.ErrNoChunks) {
			return fmt.Errorf("nothing to index in %s: add .txt, .pdf or .docx files first", corpus)
		}
		return err
	}

	fmt.Printf("Indexed %d chunks from %d files (%d skipped) in %s\n",
		stats.Chunks, stats.FilesScanned, stats.FilesSkipped, stats.Duration.Round(time.Millisecond))
	return nil
}
