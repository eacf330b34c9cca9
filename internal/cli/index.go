package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/saiborg-ai/saiborg/internal/config"
	"github.com/saiborg-ai/saiborg/internal/indexer"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Rebuild the vector store from a directory of PDFs",
	Long: `Extract text from every PDF in the directory, split it into chunks,
embed each chunk and rebuild the vector store from scratch.

The directory defaults to SAIBORG_DATA_DIR (or "data"). Rerunning on an
unchanged directory produces an equivalent store. Run this offline, not
while the bot is serving.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(config.ModeIndex); err != nil {
		return err
	}

	dir := cfg.DataDir
	if len(args) == 1 {
		dir = args[0]
	}

	ctx := context.Background()

	embedder, err := newEmbedder(ctx)
	if err != nil {
		return err
	}
	s, err := openStore()
	if err != nil {
		return err
	}

	ix := indexer.New(embedder, s, cfg.ChunkSize, cfg.ChunkOverlap, logger)

	logger.Info("indexing documents", "dir", dir, "store", s.Path(),
		"chunk_size", cfg.ChunkSize, "chunk_overlap", cfg.ChunkOverlap)

	summary, err := ix.Index(ctx, dir)
	if err != nil {
		if errors.Is(err, indexer.ErrSourceDir) {
			return fmt.Errorf("cannot index %s: %w", dir, err)
		}
		return err
	}

	fmt.Printf("Indexed %d documents (%d pages) into %d chunks at %s\n",
		summary.Documents, summary.Pages, summary.Chunks, s.Path())
	if summary.SkippedChunks > 0 || summary.SkippedFiles > 0 {
		fmt.Printf("Skipped %d chunks and %d files (see log for details)\n",
			summary.SkippedChunks, summary.SkippedFiles)
	}
	return nil
}
