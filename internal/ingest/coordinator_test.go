package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaopdss/news-article-agent/internal/article"
	"github.com/joaopdss/news-article-agent/internal/dedup"
)

type fakeExtractor struct {
	calls int
	art   *article.Article
}

func (f *fakeExtractor) Extract(context.Context, string) *article.Article {
	f.calls++
	return f.art
}

type fakeEmbedder struct {
	calls    int
	lastText string
	vector   []float32
	err      error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	f.lastText = text
	return f.vector, f.err
}

type fakeUpserter struct {
	calls   int
	lastURL string
	lastArt article.Article
	err     error
}

func (f *fakeUpserter) Upsert(_ context.Context, url string, _ []float32, art article.Article) error {
	f.calls++
	f.lastURL = url
	f.lastArt = art
	return f.err
}

func newPipeline(art *article.Article) (*Coordinator, *fakeExtractor, *fakeEmbedder, *fakeUpserter) {
	extractor := &fakeExtractor{art: art}
	embedder := &fakeEmbedder{vector: []float32{1, 2, 3}}
	store := &fakeUpserter{}
	c := NewCoordinator(extractor, embedder, store, dedup.New(100, time.Minute), nil)
	return c, extractor, embedder, store
}

func TestIngest(t *testing.T) {
	art := &article.Article{Title: "A", Content: "B", URL: "https://example.com/a", Date: "2024-01-01"}
	c, _, embedder, store := newPipeline(art)

	require.NoError(t, c.Ingest(context.Background(), "https://example.com/a"))
	assert.Equal(t, "A. B", embedder.lastText)
	assert.Equal(t, "https://example.com/a", store.lastURL)
	assert.Equal(t, *art, store.lastArt)
}

func TestIngestRejectsInvalidURL(t *testing.T) {
	c, extractor, _, store := newPipeline(nil)

	require.NoError(t, c.Ingest(context.Background(), "not a url"))
	assert.Zero(t, extractor.calls)
	assert.Zero(t, store.calls)
}

func TestIngestDedupSkipsSecondCall(t *testing.T) {
	art := &article.Article{Title: "A", URL: "https://example.com/a"}
	c, extractor, embedder, store := newPipeline(art)

	require.NoError(t, c.Ingest(context.Background(), "https://example.com/a"))
	require.NoError(t, c.Ingest(context.Background(), "https://example.com/a"))

	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, 1, store.calls)
}

func TestIngestExtractionFailureAborts(t *testing.T) {
	c, _, embedder, store := newPipeline(nil)

	require.NoError(t, c.Ingest(context.Background(), "https://example.com/a"))
	assert.Zero(t, embedder.calls)
	assert.Zero(t, store.calls)
}

func TestIngestEmbeddingFailurePropagates(t *testing.T) {
	art := &article.Article{Title: "A", URL: "https://example.com/a"}
	c, _, embedder, store := newPipeline(art)
	embedder.err = errors.New("provider down")

	err := c.Ingest(context.Background(), "https://example.com/a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding article")
	assert.Zero(t, store.calls)
}

func TestIngestUpsertFailurePropagates(t *testing.T) {
	art := &article.Article{Title: "A", URL: "https://example.com/a"}
	c, _, _, store := newPipeline(art)
	store.err = errors.New("write failed")

	err := c.Ingest(context.Background(), "https://example.com/a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storing article")
}
