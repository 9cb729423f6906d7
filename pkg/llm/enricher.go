package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/rss2notion/pkg/config"
	"github.com/umputun/rss2notion/pkg/domain"
)

var (
	// ErrNoAPIKey returned when enrichment is requested without an API key
	ErrNoAPIKey = errors.New("llm api key is not set")
	// ErrNoModel returned when none of the candidate models is offered by the provider
	ErrNoModel = errors.New("no suitable model available")
)

// default prompt asking for an importance score and a one-sentence summary.
// {title} and {content} are replaced with the entry title and content, other text is sent as is.
const defaultPrompt = `Task: analyze this news item.
1. Rate its importance from 1 to 10.
2. Summarize the core point in one sentence.
3. The answer must strictly follow this format: 【score:8/10】one-sentence summary

Title: {title}
Content:
{content}`

// Enricher annotates entries with a generated importance score and summary
type Enricher struct {
	client   *openai.Client
	config   config.LLMConfig
	model    string
	prompt   string
	maxInput int
}

// NewEnricher creates an enricher and probes the provider for available models once.
// The first of the preferred and fallback models found in the provider's list is used
// for all subsequent requests.
func NewEnricher(ctx context.Context, cfg config.LLMConfig) (*Enricher, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	prompt := cfg.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	maxInput := cfg.MaxInput
	if maxInput <= 0 {
		maxInput = 2000
	}

	e := &Enricher{
		client:   openai.NewClientWithConfig(clientConfig),
		config:   cfg,
		prompt:   prompt,
		maxInput: maxInput,
	}

	models, err := e.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	available := make([]string, 0, len(models.Models))
	for _, m := range models.Models {
		available = append(available, m.ID)
	}
	lgr.Printf("[DEBUG] available models: %s", strings.Join(available, ", "))

	candidates := append([]string{cfg.Model}, cfg.FallbackModels...)
	model, ok := SelectModel(available, candidates)
	if !ok {
		return nil, fmt.Errorf("%w, wanted one of %v", ErrNoModel, candidates)
	}
	if model != cfg.Model {
		lgr.Printf("[WARN] model %s is not available, using %s", cfg.Model, model)
	}
	e.model = model
	return e, nil
}

// Model returns the model selected at creation
func (e *Enricher) Model() string {
	return e.model
}

// SelectModel returns the first candidate present in the available list.
// Names are compared without the "models/" prefix some providers add.
func SelectModel(available, candidates []string) (string, bool) {
	names := make(map[string]bool, len(available))
	for _, a := range available {
		names[strings.TrimPrefix(a, "models/")] = true
	}
	for _, c := range candidates {
		c = strings.TrimPrefix(strings.TrimSpace(c), "models/")
		if c != "" && names[c] {
			return c, true
		}
	}
	return "", false
}

// Annotate asks the model for an importance score and a one-sentence summary of the entry
func (e *Enricher) Annotate(ctx context.Context, entry domain.Entry) (string, error) {
	content := ContentForEnrichment(entry, e.maxInput)

	req := openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: float32(e.config.Temperature),
		MaxTokens:   e.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: renderPrompt(e.prompt, entry.Title, content),
			},
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from llm")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty response from llm")
	}
	return text, nil
}

// ContentForEnrichment returns the text sent for enrichment: summary if set, title otherwise,
// truncated to maxLen characters
func ContentForEnrichment(entry domain.Entry, maxLen int) string {
	content := entry.Summary
	if content == "" {
		content = entry.Title
	}
	return truncate(content, maxLen)
}

// renderPrompt fills {title} and {content} placeholders of the template
func renderPrompt(tmpl, title, content string) string {
	return strings.NewReplacer("{title}", title, "{content}", content).Replace(tmpl)
}

// ComposeSummary puts the annotation in front of the original summary, separated by a blank line
func ComposeSummary(annotation, original string) string {
	return annotation + "\n\n" + original
}

// truncate cuts s to at most maxLen runes
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}
