package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/joaopdss/news-article-agent/internal/article"
)

// ErrUnparseableResponse indicates the structuring capability returned
// output that could not be parsed as JSON at all.
var ErrUnparseableResponse = errors.New("unparseable structuring response")

// placeholderTitle fills in when the structuring capability omits the
// title; content and date default to empty.
const placeholderTitle = "Untitled"

// Rate limiter defaults: 50 requests per minute with small bursts.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

// structurePrompt instructs the model to emit exactly the three fields
// as a single machine-parseable object.
const structurePrompt = `You are an expert at extracting structured data from raw news web pages.

Extract the article from the provided page content and respond with a JSON object containing exactly these keys:
- "title": the article headline
- "content": the full article body as plain text, without navigation, ads or boilerplate
- "date": the publication date in YYYY-MM-DD format, or an empty string if not present

Respond ONLY with the JSON object, no additional text.`

// LLMStructurer implements Structurer on top of a langchaingo chat
// model.
type LLMStructurer struct {
	model   llms.Model
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewLLMStructurer wraps a chat model as a structuring capability.
func NewLLMStructurer(model llms.Model, logger *zap.Logger) *LLMStructurer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMStructurer{
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		logger:  logger.Named("structurer"),
	}
}

// Structure asks the model for {title, content, date}. Missing fields
// are defaulted; a response that parses as no JSON at all is a hard
// failure.
func (s *LLMStructurer) Structure(ctx context.Context, raw, url string) (article.Article, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return article.Article{}, fmt.Errorf("rate limiter: %w", err)
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(structurePrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(raw)},
		},
	}

	resp, err := s.model.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithJSONMode())
	if err != nil {
		return article.Article{}, fmt.Errorf("generating structured output: %w", err)
	}
	if len(resp.Choices) == 0 {
		return article.Article{}, fmt.Errorf("%w: no choices returned", ErrUnparseableResponse)
	}

	return s.parse(resp.Choices[0].Content, url)
}

// parse decodes the model output, applying field defaults.
func (s *LLMStructurer) parse(text, url string) (article.Article, error) {
	text = stripCodeFences(text)

	// Pointer fields distinguish missing keys from empty values.
	var fields struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
		Date    *string `json:"date"`
	}
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return article.Article{}, fmt.Errorf("%w: %v", ErrUnparseableResponse, err)
	}

	if fields.Title == nil && fields.Content == nil && fields.Date == nil {
		s.logger.Warn("structuring response omitted all expected keys",
			zap.String("url", url))
	}

	art := article.Article{Title: placeholderTitle, URL: url}
	if fields.Title != nil && *fields.Title != "" {
		art.Title = *fields.Title
	}
	if fields.Content != nil {
		art.Content = *fields.Content
	}
	if fields.Date != nil {
		art.Date = *fields.Date
	}
	return art, nil
}

// stripCodeFences removes markdown fences some models wrap around JSON.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

var _ Structurer = (*LLMStructurer)(nil)
