package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaopdss/news-article-agent/internal/article"
)

type fakeExtractor struct {
	art *article.Article
}

func (f *fakeExtractor) Extract(context.Context, string) *article.Article {
	return f.art
}

type fakeEmbedder struct {
	lastText string
	vector   []float32
	err      error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.lastText = text
	return f.vector, f.err
}

type fakeSearcher struct {
	lastTopK int
	sources  []article.Source
	err      error
}

func (f *fakeSearcher) QuerySimilar(_ context.Context, _ []float32, topK int) ([]article.Source, error) {
	f.lastTopK = topK
	return f.sources, f.err
}

type fakeGenerator struct {
	lastPrompt string
	answer     string
	err        error
	panics     bool
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	if f.panics {
		panic("generator exploded")
	}
	f.lastPrompt = prompt
	return f.answer, f.err
}

func newTestAgent(extractor *fakeExtractor, embedder *fakeEmbedder, searcher *fakeSearcher, generator *fakeGenerator) *Agent {
	return New(extractor, embedder, searcher, generator, 1, nil)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  Mode
	}{
		{"https://example.com/article", ModeURL},
		{"http://news.example.org/a/b?c=d", ModeURL},
		{"what happened in the california wildfires", ModeKnowledge},
		{"tell me about https://example.com", ModeKnowledge},
		{"example.com/article", ModeKnowledge},
		{"", ModeKnowledge},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query).Mode)
		})
	}
}

func TestAnswerURLMode(t *testing.T) {
	art := &article.Article{
		Title:   "Fires spread north",
		Content: "Full body text",
		URL:     "https://example.com/article",
		Date:    "2024-01-15",
	}
	generator := &fakeGenerator{answer: "A summary."}
	a := newTestAgent(&fakeExtractor{art: art}, &fakeEmbedder{}, &fakeSearcher{}, generator)

	resp := a.Answer(context.Background(), "https://example.com/article")

	assert.Equal(t, "A summary.", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "Fires spread north", resp.Sources[0].Title)
	assert.Equal(t, "https://example.com/article", resp.Sources[0].URL)
	assert.Empty(t, resp.Sources[0].Content)
	assert.Contains(t, generator.lastPrompt, "Full body text")
}

func TestAnswerURLModeExtractionFailure(t *testing.T) {
	a := newTestAgent(&fakeExtractor{art: nil}, &fakeEmbedder{}, &fakeSearcher{}, &fakeGenerator{})

	resp := a.Answer(context.Background(), "https://example.com/unreachable")

	assert.Equal(t, answerCannotProcess, resp.Answer)
	assert.Empty(t, resp.Sources)
}

func TestAnswerURLModeGenerationFailure(t *testing.T) {
	art := &article.Article{Title: "T", Content: "C", URL: "https://example.com/a"}
	generator := &fakeGenerator{err: errors.New("api down")}
	a := newTestAgent(&fakeExtractor{art: art}, &fakeEmbedder{}, &fakeSearcher{}, generator)

	resp := a.Answer(context.Background(), "https://example.com/a")

	assert.Equal(t, answerUnavailable, resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Empty(t, resp.Sources[0].Content)
}

func TestAnswerKnowledgeMode(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	searcher := &fakeSearcher{sources: []article.Source{{
		Title:   "Wildfires rage in California",
		URL:     "https://example.com/fires",
		Date:    "2024-01-10",
		Content: "Thousands evacuated as fires spread.",
	}}}
	generator := &fakeGenerator{answer: "Fires spread and thousands evacuated."}
	a := newTestAgent(&fakeExtractor{}, embedder, searcher, generator)

	resp := a.Answer(context.Background(), "what happened in the wildfires")

	assert.Equal(t, "what happened in the wildfires", embedder.lastText)
	assert.Equal(t, 1, searcher.lastTopK)
	assert.Contains(t, generator.lastPrompt, "Thousands evacuated")
	assert.Contains(t, generator.lastPrompt, "what happened in the wildfires")

	assert.Equal(t, "Fires spread and thousands evacuated.", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "Wildfires rage in California", resp.Sources[0].Title)
	assert.Empty(t, resp.Sources[0].Content)
}

func TestAnswerKnowledgeModeNoMatches(t *testing.T) {
	a := newTestAgent(&fakeExtractor{}, &fakeEmbedder{vector: []float32{1}}, &fakeSearcher{}, &fakeGenerator{})

	resp := a.Answer(context.Background(), "something never ingested")

	assert.Equal(t, answerNoInformation, resp.Answer)
	assert.Empty(t, resp.Sources)
}

func TestAnswerKnowledgeModeEmbeddingFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("provider down")}
	a := newTestAgent(&fakeExtractor{}, embedder, &fakeSearcher{}, &fakeGenerator{})

	resp := a.Answer(context.Background(), "a question")

	assert.Equal(t, answerUnavailable, resp.Answer)
	assert.Empty(t, resp.Sources)
}

func TestAnswerKnowledgeModeSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("store down")}
	a := newTestAgent(&fakeExtractor{}, &fakeEmbedder{vector: []float32{1}}, searcher, &fakeGenerator{})

	resp := a.Answer(context.Background(), "a question")

	assert.Equal(t, answerUnavailable, resp.Answer)
	assert.Empty(t, resp.Sources)
}

func TestAnswerKnowledgeModeGenerationFailure(t *testing.T) {
	searcher := &fakeSearcher{sources: []article.Source{{
		Title: "T", URL: "https://example.com/a", Content: "body",
	}}}
	generator := &fakeGenerator{err: errors.New("api down")}
	a := newTestAgent(&fakeExtractor{}, &fakeEmbedder{vector: []float32{1}}, searcher, generator)

	resp := a.Answer(context.Background(), "a question")

	assert.Equal(t, answerUnavailable, resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Empty(t, resp.Sources[0].Content)
}

func TestAnswerRecoversFromPanic(t *testing.T) {
	searcher := &fakeSearcher{sources: []article.Source{{Title: "T", URL: "https://example.com/a"}}}
	a := newTestAgent(&fakeExtractor{}, &fakeEmbedder{vector: []float32{1}}, searcher, &fakeGenerator{panics: true})

	resp := a.Answer(context.Background(), "a question")

	assert.Equal(t, answerUnavailable, resp.Answer)
	assert.Empty(t, resp.Sources)
}
