// Package retrieval turns a question into a source-tagged context string
// from the vector store.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/saiborg-ai/saiborg/internal/store"
)

const separator = "\n\n---\n\n"

// QueryEmbedder computes the embedding for a question.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher queries the vector store.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, k int) ([]store.Hit, error)
}

// Citation names the origin of one retrieved chunk.
type Citation struct {
	Source string
	Page   int
}

// Result is the assembled retrieval output for one question.
type Result struct {
	// Context is the concatenated, source-tagged chunk text, bounded by the
	// configured budget.
	Context string

	// Citations lists the origin of every chunk included in Context.
	Citations []Citation
}

// Pipeline retrieves relevant chunks for a question. It never mutates the
// store.
type Pipeline struct {
	embedder QueryEmbedder
	searcher Searcher
	topK     int
	budget   int // max context characters
	logger   *slog.Logger
}

// New creates a retrieval pipeline. topK and budget fall back to 5 and 6000
// when non-positive.
func New(embedder QueryEmbedder, searcher Searcher, topK, budget int, logger *slog.Logger) *Pipeline {
	if topK <= 0 {
		topK = 5
	}
	if budget <= 0 {
		budget = 6000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		embedder: embedder,
		searcher: searcher,
		topK:     topK,
		budget:   budget,
		logger:   logger,
	}
}

// Retrieve embeds the question, finds the nearest chunks and assembles the
// context string. Propagates store.ErrEmptyIndex unchanged so the caller
// can produce the "no knowledge base" reply.
func (p *Pipeline) Retrieve(ctx context.Context, question string) (Result, error) {
	embedding, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return Result{}, fmt.Errorf("embed question: %w", err)
	}

	hits, err := p.searcher.Search(ctx, embedding, p.topK)
	if err != nil {
		return Result{}, err
	}

	p.logger.Info("retrieved document chunks", "question_len", len(question), "hits", len(hits))

	var parts []string
	var citations []Citation
	used := 0
	for _, hit := range hits {
		part := fmt.Sprintf("[%s s.%d]\n%s", hit.Source, hit.Page, hit.Text)
		cost := len(part)
		if len(parts) > 0 {
			cost += len(separator)
		}
		if used+cost > p.budget {
			break
		}
		parts = append(parts, part)
		citations = append(citations, Citation{Source: hit.Source, Page: hit.Page})
		used += cost
	}

	return Result{
		Context:   strings.Join(parts, separator),
		Citations: citations,
	}, nil
}
