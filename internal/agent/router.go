// Package agent answers natural-language questions about news, either
// by analyzing a URL directly or by retrieval against the knowledge
// base.
package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/joaopdss/news-article-agent/internal/article"
	"github.com/joaopdss/news-article-agent/internal/urlcheck"
)

// Mode is the query handling path chosen by the classifier.
type Mode int

const (
	// ModeURL summarizes a live page named by the query.
	ModeURL Mode = iota
	// ModeKnowledge retrieves from previously ingested articles.
	ModeKnowledge
)

// Decision is the classifier's tagged verdict for one query.
type Decision struct {
	Mode Mode
	// URL is set in ModeURL, Query in ModeKnowledge.
	URL   string
	Query string
}

// Classify decides how a query is handled. Pure: a query that parses as
// an http(s) URL goes to URL mode, everything else to knowledge mode.
func Classify(query string) Decision {
	if urlcheck.IsURL(query) {
		return Decision{Mode: ModeURL, URL: query}
	}
	return Decision{Mode: ModeKnowledge, Query: query}
}

// Response is the answer returned to callers. Sources never carry
// content past this package.
type Response struct {
	Answer  string           `json:"answer"`
	Sources []article.Source `json:"sources"`
}

// Fixed fallback answers. Every branch of the router terminates in a
// well-formed response; internal errors degrade to one of these instead
// of escaping to the caller.
const (
	answerCannotProcess = "Sorry, I could not process that URL. The page may be unreachable or its content could not be extracted."
	answerNoInformation = "I don't have any information about that in my knowledge base yet."
	answerUnavailable   = "Sorry, I ran into a problem while answering your question. Please try again."
)

// Extractor fetches and structures a live page; nil means the page
// could not be processed.
type Extractor interface {
	Extract(ctx context.Context, url string) *article.Article
}

// Embedder turns the query into a vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher retrieves the nearest stored articles for a vector.
type Searcher interface {
	QuerySimilar(ctx context.Context, vector []float32, topK int) ([]article.Source, error)
}

// Generator produces the final answer text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Agent routes queries and assembles grounded answers.
type Agent struct {
	extractor Extractor
	embedder  Embedder
	searcher  Searcher
	generator Generator
	topK      int
	logger    *zap.Logger
}

// New creates an agent. topK is the number of stored records retrieved
// in knowledge mode; values below 1 fall back to 1.
func New(extractor Extractor, embedder Embedder, searcher Searcher, generator Generator, topK int, logger *zap.Logger) *Agent {
	if topK < 1 {
		topK = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		extractor: extractor,
		embedder:  embedder,
		searcher:  searcher,
		generator: generator,
		topK:      topK,
		logger:    logger.Named("agent"),
	}
}

// Answer handles one query end to end. It never returns an error: every
// failure path terminates in a fixed fallback response.
func (a *Agent) Answer(ctx context.Context, query string) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("query handling panicked", zap.Any("panic", r))
			resp = fallback(answerUnavailable)
		}
	}()

	decision := Classify(query)
	switch decision.Mode {
	case ModeURL:
		queriesTotal.WithLabelValues("url").Inc()
		return a.answerURL(ctx, decision.URL)
	default:
		queriesTotal.WithLabelValues("knowledge").Inc()
		return a.answerKnowledge(ctx, decision.Query)
	}
}

// answerURL summarizes the live page named by the query.
func (a *Agent) answerURL(ctx context.Context, url string) Response {
	art := a.extractor.Extract(ctx, url)
	if art == nil {
		return fallback(answerCannotProcess)
	}

	prompt := summaryPrompt(*art)
	sources := []article.Source{art.Source().Stripped()}

	answer, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("answer generation failed", zap.String("url", url), zap.Error(err))
		generationFallbacks.Inc()
		return Response{Answer: answerUnavailable, Sources: sources}
	}

	return Response{Answer: answer, Sources: sources}
}

// answerKnowledge retrieves stored articles and grounds the answer on
// them.
func (a *Agent) answerKnowledge(ctx context.Context, query string) Response {
	vector, err := a.embedder.Embed(ctx, query)
	if err != nil {
		a.logger.Warn("query embedding failed", zap.Error(err))
		return fallback(answerUnavailable)
	}

	sources, err := a.searcher.QuerySimilar(ctx, vector, a.topK)
	if err != nil {
		a.logger.Warn("similarity query failed", zap.Error(err))
		return fallback(answerUnavailable)
	}

	if len(sources) == 0 {
		return fallback(answerNoInformation)
	}

	prompt := groundingPrompt(query, sources)

	// Content leaves the process under no circumstances, generation
	// success or failure alike.
	stripped := article.StripContent(sources)

	answer, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("answer generation failed", zap.Error(err))
		generationFallbacks.Inc()
		return Response{Answer: answerUnavailable, Sources: stripped}
	}

	return Response{Answer: answer, Sources: stripped}
}

// fallback builds a terminal response with no sources.
func fallback(answer string) Response {
	return Response{Answer: answer, Sources: []article.Source{}}
}
