package retrieval

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/saiborg-ai/saiborg/internal/store"
)

type fakeEmbedder struct {
	embedding []float32
	err       error
	gotText   string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.gotText = text
	return f.embedding, f.err
}

type fakeSearcher struct {
	hits []store.Hit
	err  error
	gotK int
}

func (f *fakeSearcher) Search(_ context.Context, _ []float32, k int) ([]store.Hit, error) {
	f.gotK = k
	return f.hits, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hit(text, source string, page int, sim float32) store.Hit {
	return store.Hit{
		Chunk:      store.Chunk{Text: text, Source: source, Page: page},
		Similarity: sim,
	}
}

func TestRetrieve(t *testing.T) {
	embedder := &fakeEmbedder{embedding: []float32{0.1, 0.2}}
	searcher := &fakeSearcher{hits: []store.Hit{
		hit("returret gælder 30 dage", "policy.pdf", 4, 0.9),
		hit("fragt refunderes ikke", "policy.pdf", 5, 0.7),
	}}
	p := New(embedder, searcher, 5, 6000, discardLogger())

	res, err := p.Retrieve(context.Background(), "Hvad er vores returpolitik?")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if embedder.gotText != "Hvad er vores returpolitik?" {
		t.Errorf("embedded text = %q", embedder.gotText)
	}
	if searcher.gotK != 5 {
		t.Errorf("search k = %d, want 5", searcher.gotK)
	}
	if !strings.Contains(res.Context, "[policy.pdf s.4]") {
		t.Errorf("context missing source tag: %q", res.Context)
	}
	if !strings.Contains(res.Context, "returret gælder 30 dage") {
		t.Errorf("context missing chunk text: %q", res.Context)
	}
	if !strings.Contains(res.Context, separator) {
		t.Error("context missing chunk separator")
	}
	if len(res.Citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(res.Citations))
	}
	if res.Citations[0] != (Citation{Source: "policy.pdf", Page: 4}) {
		t.Errorf("citations[0] = %+v", res.Citations[0])
	}
}

func TestRetrieveBudget(t *testing.T) {
	long := strings.Repeat("x", 100)
	searcher := &fakeSearcher{hits: []store.Hit{
		hit(long, "a.pdf", 1, 0.9),
		hit(long, "a.pdf", 2, 0.8),
		hit(long, "a.pdf", 3, 0.7),
	}}
	// Budget fits roughly one tagged chunk.
	p := New(&fakeEmbedder{embedding: []float32{1}}, searcher, 5, 150, discardLogger())

	res, err := p.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(res.Citations) != 1 {
		t.Errorf("got %d citations, want 1 under budget", len(res.Citations))
	}
	if len(res.Context) > 150 {
		t.Errorf("context length %d exceeds budget", len(res.Context))
	}
}

func TestRetrieveEmptyIndex(t *testing.T) {
	searcher := &fakeSearcher{err: store.ErrEmptyIndex}
	p := New(&fakeEmbedder{embedding: []float32{1}}, searcher, 5, 6000, discardLogger())

	_, err := p.Retrieve(context.Background(), "q")
	if !errors.Is(err, store.ErrEmptyIndex) {
		t.Errorf("Retrieve() error = %v, want ErrEmptyIndex", err)
	}
}

func TestRetrieveEmbedFailure(t *testing.T) {
	wantErr := errors.New("embedding backend down")
	p := New(&fakeEmbedder{err: wantErr}, &fakeSearcher{}, 5, 6000, discardLogger())

	_, err := p.Retrieve(context.Background(), "q")
	if !errors.Is(err, wantErr) {
		t.Errorf("Retrieve() error = %v, want wrapped embed error", err)
	}
}

func TestNewDefaults(t *testing.T) {
	p := New(&fakeEmbedder{}, &fakeSearcher{}, 0, -1, nil)
	if p.topK != 5 || p.budget != 6000 {
		t.Errorf("defaults: topK=%d budget=%d", p.topK, p.budget)
	}
}
