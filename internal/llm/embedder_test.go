package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeEmbeddings stands in for a langchaingo embeddings client.
type fakeEmbeddings struct {
	vectors [][]float32
	err     error
	calls   int
}

func (f *fakeEmbeddings) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.vectors != nil {
		return f.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3, 0.4}
	}
	return out, nil
}

func (f *fakeEmbeddings) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func newTestEmbedder(fake *fakeEmbeddings) *Embedder {
	return &Embedder{model: fake, dimension: 4, modelName: "test-embed"}
}

func TestEmbed(t *testing.T) {
	e := newTestEmbedder(&fakeEmbeddings{})

	vec, err := e.Embed(context.Background(), "returret gælder 30 dage")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != e.Dimension() {
		t.Errorf("got %d-dim vector, want %d", len(vec), e.Dimension())
	}
}

func TestEmbedBatch(t *testing.T) {
	fake := &fakeEmbeddings{}
	e := newTestEmbedder(fake)

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != 4 {
			t.Errorf("vector %d has dimension %d, want 4", i, len(v))
		}
	}
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	fake := &fakeEmbeddings{}
	e := newTestEmbedder(fake)

	vecs, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if len(vecs) != 0 {
		t.Errorf("got %d vectors, want 0", len(vecs))
	}
	if fake.calls != 0 {
		t.Error("provider called for empty input")
	}
}

func TestEmbedDimensionMismatch(t *testing.T) {
	// Provider returns 3-dim vectors against a 4-dim store contract.
	fake := &fakeEmbeddings{vectors: [][]float32{{0.1, 0.2, 0.3}}}
	e := newTestEmbedder(fake)

	_, err := e.Embed(context.Background(), "q")
	if !errors.Is(err, ErrEmbed) {
		t.Fatalf("Embed() error = %v, want ErrEmbed", err)
	}
	if !strings.Contains(err.Error(), "dimension mismatch") {
		t.Errorf("error should name the mismatch: %v", err)
	}
}

func TestEmbedCountMismatch(t *testing.T) {
	// One vector for two texts.
	fake := &fakeEmbeddings{vectors: [][]float32{{0.1, 0.2, 0.3, 0.4}}}
	e := newTestEmbedder(fake)

	_, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	if !errors.Is(err, ErrEmbed) {
		t.Errorf("EmbedBatch() error = %v, want ErrEmbed", err)
	}
}

func TestEmbedProviderFailure(t *testing.T) {
	fake := &fakeEmbeddings{err: errors.New("api key not valid")}
	e := newTestEmbedder(fake)

	_, err := e.Embed(context.Background(), "q")
	if !errors.Is(err, ErrEmbed) {
		t.Fatalf("Embed() error = %v, want ErrEmbed", err)
	}
	if fake.calls != 1 {
		t.Errorf("non-transient failure retried: %d calls", fake.calls)
	}
}
