// Package store persists document chunks and their embeddings on disk.
//
// The store is a chromem-go database rooted at a configurable path. The
// indexer writes it offline; the serving process only reads it. Writer and
// reader must agree on the collection name and embedding dimension.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	chromem "github.com/philippgille/chromem-go"
)

// CollectionName is the single collection holding document chunks.
const CollectionName = "documents"

// ErrEmptyIndex indicates the store holds no chunks. Callers fall back to a
// "no knowledge base" reply instead of a generic failure.
var ErrEmptyIndex = errors.New("vector store is empty")

// Chunk is one indexed span of document text.
// Immutable once written; removed only by a full reindex.
type Chunk struct {
	ID      string
	Text    string
	Source  string // originating PDF filename
	Page    int    // 1-based page number
	Ordinal int    // chunk position within the page
}

// Hit is a chunk returned from a similarity query.
type Hit struct {
	Chunk
	Similarity float32
}

// Store wraps a persistent chromem-go database.
type Store struct {
	db   *chromem.DB
	coll *chromem.Collection
	path string
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open vector store at %s: %w", path, err)
	}

	coll, err := db.GetOrCreateCollection(CollectionName, nil, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", CollectionName, err)
	}

	return &Store{db: db, coll: coll, path: path}, nil
}

// noEmbedding guards against chromem computing embeddings itself; every
// document and query carries a vector computed by the llm package, where
// dimension validation lives.
func noEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("store has no embedding function; pass precomputed vectors")
}

// Path returns the on-disk location of the store.
func (s *Store) Path() string {
	return s.path
}

// Count returns the number of stored chunks.
func (s *Store) Count() int {
	return s.coll.Count()
}

// Reset drops and recreates the collection. The indexer calls this once per
// run; reindexing is a full rebuild, never an incremental diff.
func (s *Store) Reset() error {
	if err := s.db.DeleteCollection(CollectionName); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}

	coll, err := s.db.GetOrCreateCollection(CollectionName, nil, noEmbedding)
	if err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	s.coll = coll
	return nil
}

// Add persists chunks with their precomputed embeddings.
// len(chunks) must equal len(embeddings).
func (s *Store) Add(ctx context.Context, chunks []Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:        c.ID,
			Content:   c.Text,
			Embedding: embeddings[i],
			Metadata: map[string]string{
				"source":  c.Source,
				"page":    strconv.Itoa(c.Page),
				"ordinal": strconv.Itoa(c.Ordinal),
			},
		}
	}

	if err := s.coll.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// Search returns up to k chunks nearest to the query embedding, most
// similar first. Returns ErrEmptyIndex when no chunks are stored.
func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]Hit, error) {
	count := s.coll.Count()
	if count == 0 {
		return nil, ErrEmptyIndex
	}
	if k > count {
		k = count
	}
	if k <= 0 {
		return []Hit{}, nil
	}

	results, err := s.coll.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, Hit{
			Chunk: Chunk{
				ID:      r.ID,
				Text:    r.Content,
				Source:  r.Metadata["source"],
				Page:    atoiOrZero(r.Metadata["page"]),
				Ordinal: atoiOrZero(r.Metadata["ordinal"]),
			},
			Similarity: r.Similarity,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	return hits, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
