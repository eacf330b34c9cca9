// Package indexer builds the vector store from a directory of PDFs.
//
// Indexing is a full rebuild: the store collection is dropped and
// repopulated, so rerunning on unchanged input yields an equivalent store.
// It runs offline (from the CLI), never concurrently with serving.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/saiborg-ai/saiborg/internal/store"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/textsplitter"
)

// ErrSourceDir indicates the document directory is missing or unreadable.
var ErrSourceDir = errors.New("document directory unreadable")

// embedBatchSize bounds how many chunk texts go to the provider per call.
const embedBatchSize = 16

// Embedder computes chunk embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ChunkStore receives the rebuilt index.
type ChunkStore interface {
	Reset() error
	Add(ctx context.Context, chunks []store.Chunk, embeddings [][]float32) error
	Count() int
}

// Summary reports what one indexing run produced.
type Summary struct {
	Documents     int // PDF files read
	Pages         int // pages with extractable text
	Chunks        int // chunks persisted
	SkippedChunks int // chunks dropped after embedding failure
	SkippedFiles  int // files dropped after read failure
}

// Indexer rebuilds the store from a document directory.
type Indexer struct {
	embedder Embedder
	store    ChunkStore
	splitter textsplitter.RecursiveCharacter
	logger   *slog.Logger
}

// New creates an indexer. chunkSize and chunkOverlap fall back to 1000/200
// when non-positive.
func New(embedder Embedder, chunkStore ChunkStore, chunkSize, chunkOverlap int, logger *slog.Logger) *Indexer {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		embedder: embedder,
		store:    chunkStore,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
		logger: logger,
	}
}

// Index extracts, splits, embeds and persists every PDF under dir.
// A chunk whose embedding fails is skipped and logged, not retried beyond
// the embedder's own single transient retry.
func (ix *Indexer) Index(ctx context.Context, dir string) (Summary, error) {
	var summary Summary

	entries, err := os.ReadDir(dir)
	if err != nil {
		return summary, fmt.Errorf("%w: %v", ErrSourceDir, err)
	}

	var pdfFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			pdfFiles = append(pdfFiles, entry.Name())
		}
	}
	if len(pdfFiles) == 0 {
		return summary, fmt.Errorf("%w: no PDF files in %s", ErrSourceDir, dir)
	}

	// Extract and split everything first; the existing store stays intact
	// if no document yields text.
	var chunks []store.Chunk
	for _, name := range pdfFiles {
		fileChunks, pages, err := ix.loadFile(ctx, dir, name)
		if err != nil {
			ix.logger.Error("failed to read PDF, skipping file", "file", name, "error", err)
			summary.SkippedFiles++
			continue
		}
		summary.Documents++
		summary.Pages += pages
		chunks = append(chunks, fileChunks...)
	}
	if len(chunks) == 0 {
		return summary, fmt.Errorf("%w: no text extracted from %s", ErrSourceDir, dir)
	}

	ix.logger.Info("split documents into chunks",
		"documents", summary.Documents, "pages", summary.Pages, "chunks", len(chunks))

	if err := ix.store.Reset(); err != nil {
		return summary, fmt.Errorf("reset store: %w", err)
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		added, skipped, err := ix.embedAndAdd(ctx, chunks[start:end])
		if err != nil {
			return summary, err
		}
		summary.Chunks += added
		summary.SkippedChunks += skipped
	}

	ix.logger.Info("index rebuilt", "chunks", summary.Chunks,
		"skipped_chunks", summary.SkippedChunks, "store_count", ix.store.Count())
	return summary, nil
}

// loadFile extracts per-page text from one PDF and splits it into chunks.
func (ix *Indexer) loadFile(ctx context.Context, dir, name string) ([]store.Chunk, int, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, err
	}

	docs, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("extract text: %w", err)
	}

	var chunks []store.Chunk
	pages := 0
	for i, doc := range docs {
		text := strings.TrimSpace(doc.PageContent)
		if text == "" {
			continue
		}
		pages++
		page := metadataPage(doc.Metadata, i+1)

		pieces, err := ix.splitter.SplitText(text)
		if err != nil {
			return nil, 0, fmt.Errorf("split page %d: %w", page, err)
		}
		for ordinal, piece := range pieces {
			chunks = append(chunks, store.Chunk{
				ID:      uuid.NewString(),
				Text:    piece,
				Source:  name,
				Page:    page,
				Ordinal: ordinal,
			})
		}
	}
	return chunks, pages, nil
}

// embedAndAdd embeds one batch and persists it. A failed batch falls back
// to per-chunk embedding so a single bad chunk only loses itself.
func (ix *Indexer) embedAndAdd(ctx context.Context, batch []store.Chunk) (added, skipped int, err error) {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	embeddings, embErr := ix.embedder.EmbedBatch(ctx, texts)
	if embErr == nil {
		if err := ix.store.Add(ctx, batch, embeddings); err != nil {
			return 0, 0, err
		}
		return len(batch), 0, nil
	}
	if ctx.Err() != nil {
		return 0, 0, embErr
	}

	ix.logger.Warn("batch embedding failed, retrying per chunk", "chunks", len(batch), "error", embErr)

	for _, chunk := range batch {
		embedding, err := ix.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			if ctx.Err() != nil {
				return added, skipped, err
			}
			ix.logger.Error("embedding failed, chunk skipped",
				"source", chunk.Source, "page", chunk.Page, "ordinal", chunk.Ordinal, "error", err)
			skipped++
			continue
		}
		if err := ix.store.Add(ctx, []store.Chunk{chunk}, [][]float32{embedding}); err != nil {
			return added, skipped, err
		}
		added++
	}
	return added, skipped, nil
}

// metadataPage reads the loader's page number, tolerating the numeric types
// different loader versions emit. fallback is the document's position.
func metadataPage(metadata map[string]any, fallback int) int {
	v, ok := metadata["page"]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return fallback
	}
}
