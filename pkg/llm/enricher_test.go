package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/rss2notion/pkg/config"
	"github.com/umputun/rss2notion/pkg/domain"
)

// fakeProvider serves models listing and chat completions the way an OpenAI-compatible API does
type fakeProvider struct {
	models      []string
	answer      string
	status      int // status for chat completions, 200 if zero
	listCalls   atomic.Int32
	chatCalls   atomic.Int32
	lastRequest openai.ChatCompletionRequest
}

func (f *fakeProvider) server(t *testing.T) *httptest.Server {
	router := routegroup.New(http.NewServeMux())
	router.HandleFunc("GET /v1/models", func(w http.ResponseWriter, r *http.Request) {
		f.listCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			rest.RenderJSON(w, rest.JSON{"error": rest.JSON{"message": "invalid api key", "type": "invalid_request_error"}})
			return
		}
		data := make([]rest.JSON, 0, len(f.models))
		for _, m := range f.models {
			data = append(data, rest.JSON{"id": m, "object": "model", "owned_by": "test"})
		}
		rest.RenderJSON(w, rest.JSON{"object": "list", "data": data})
	})
	router.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		f.chatCalls.Add(1)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastRequest))
		if f.status != 0 && f.status != http.StatusOK {
			w.WriteHeader(f.status)
			rest.RenderJSON(w, rest.JSON{"error": rest.JSON{"message": "quota exceeded", "type": "rate_limit"}})
			return
		}
		resp := openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.answer}}}}
		rest.RenderJSON(w, resp)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func testLLMConfig(endpoint string) config.LLMConfig {
	cfg := config.Default().LLM
	cfg.Endpoint = endpoint + "/v1"
	cfg.APIKey = "test-key"
	return cfg
}

func TestNewEnricher(t *testing.T) {
	t.Run("no api key", func(t *testing.T) {
		cfg := config.Default().LLM
		_, err := NewEnricher(context.Background(), cfg)
		require.ErrorIs(t, err, ErrNoAPIKey)
	})

	t.Run("preferred model available", func(t *testing.T) {
		fp := &fakeProvider{models: []string{"models/gemini-pro", "models/gemini-1.5-flash"}}
		srv := fp.server(t)

		e, err := NewEnricher(context.Background(), testLLMConfig(srv.URL))
		require.NoError(t, err)
		assert.Equal(t, "gemini-1.5-flash", e.Model())
		assert.Equal(t, int32(1), fp.listCalls.Load())
	})

	t.Run("fallback model", func(t *testing.T) {
		fp := &fakeProvider{models: []string{"models/embedding-001", "models/gemini-pro"}}
		srv := fp.server(t)

		e, err := NewEnricher(context.Background(), testLLMConfig(srv.URL))
		require.NoError(t, err)
		assert.Equal(t, "gemini-pro", e.Model())
	})

	t.Run("no model available", func(t *testing.T) {
		fp := &fakeProvider{models: []string{"models/embedding-001"}}
		srv := fp.server(t)

		_, err := NewEnricher(context.Background(), testLLMConfig(srv.URL))
		require.ErrorIs(t, err, ErrNoModel)
	})

	t.Run("bad key", func(t *testing.T) {
		fp := &fakeProvider{models: []string{"gemini-1.5-flash"}}
		srv := fp.server(t)

		cfg := testLLMConfig(srv.URL)
		cfg.APIKey = "bad-key"
		_, err := NewEnricher(context.Background(), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list models")
		assert.Equal(t, int32(0), fp.chatCalls.Load())
	})
}

func TestSelectModel(t *testing.T) {
	tests := []struct {
		name       string
		available  []string
		candidates []string
		want       string
		ok         bool
	}{
		{"exact", []string{"a", "b"}, []string{"b"}, "b", true},
		{"prefixed listing", []string{"models/a", "models/b"}, []string{"b", "a"}, "b", true},
		{"prefixed candidate", []string{"a"}, []string{"models/a"}, "a", true},
		{"first match wins", []string{"x", "y", "z"}, []string{"q", "z", "y"}, "z", true},
		{"no substring match", []string{"gemini-1.5-flash-8b"}, []string{"gemini-1.5-flash"}, "", false},
		{"empty candidates skipped", []string{"a"}, []string{"", " ", "a"}, "a", true},
		{"nothing", nil, []string{"a"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectModel(tt.available, tt.candidates)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnricher_Annotate(t *testing.T) {
	fp := &fakeProvider{models: []string{"gemini-1.5-flash"}, answer: "  【score:8/10】Go 1.22 ships range-over-func.  \n"}
	srv := fp.server(t)

	e, err := NewEnricher(context.Background(), testLLMConfig(srv.URL))
	require.NoError(t, err)

	entry := domain.Entry{Title: "Go 1.22 Released", Summary: "New features in Go", Link: "https://go.dev/blog/go1.22"}
	annotation, err := e.Annotate(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, "【score:8/10】Go 1.22 ships range-over-func.", annotation)

	assert.Equal(t, "gemini-1.5-flash", fp.lastRequest.Model)
	require.Len(t, fp.lastRequest.Messages, 1)
	prompt := fp.lastRequest.Messages[0].Content
	assert.Contains(t, prompt, "Title: Go 1.22 Released")
	assert.Contains(t, prompt, "New features in Go")
	assert.Contains(t, prompt, "【score:")

	t.Run("content is truncated", func(t *testing.T) {
		long := strings.Repeat("新", 5000)
		_, err := e.Annotate(context.Background(), domain.Entry{Title: "T", Summary: long})
		require.NoError(t, err)
		prompt := fp.lastRequest.Messages[0].Content
		assert.Contains(t, prompt, strings.Repeat("新", 2000))
		assert.NotContains(t, prompt, strings.Repeat("新", 2001))
	})

	t.Run("title used without summary", func(t *testing.T) {
		_, err := e.Annotate(context.Background(), domain.Entry{Title: "Only Title"})
		require.NoError(t, err)
		assert.Contains(t, fp.lastRequest.Messages[0].Content, "Content:\nOnly Title")
	})
}

func TestEnricher_Annotate_CustomPrompt(t *testing.T) {
	fp := &fakeProvider{models: []string{"gemini-1.5-flash"}, answer: "ok"}
	srv := fp.server(t)

	cfg := testLLMConfig(srv.URL)
	cfg.Prompt = "Rate 0-100% for {title}: {content} (100% = must read, %d literal)"
	e, err := NewEnricher(context.Background(), cfg)
	require.NoError(t, err)

	_, err = e.Annotate(context.Background(), domain.Entry{Title: "50% off", Summary: "sale %s"})
	require.NoError(t, err)
	assert.Equal(t, "Rate 0-100% for 50% off: sale %s (100% = must read, %d literal)", fp.lastRequest.Messages[0].Content)
}

func TestRenderPrompt(t *testing.T) {
	assert.Equal(t, "a T b C", renderPrompt("a {title} b {content}", "T", "C"))
	assert.Equal(t, "no placeholders", renderPrompt("no placeholders", "T", "C"))
	assert.Equal(t, "{content} in title", renderPrompt("{title}", "{content} in title", "C"), "values are not expanded again")
}

func TestEnricher_Annotate_Errors(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		fp := &fakeProvider{models: []string{"gemini-1.5-flash"}, status: http.StatusTooManyRequests}
		srv := fp.server(t)
		cfg := testLLMConfig(srv.URL)
		e, err := NewEnricher(context.Background(), cfg)
		require.NoError(t, err)

		_, err = e.Annotate(context.Background(), domain.Entry{Title: "T", Summary: "S"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm request failed")
	})

	t.Run("empty answer", func(t *testing.T) {
		fp := &fakeProvider{models: []string{"gemini-1.5-flash"}, answer: "   "}
		srv := fp.server(t)
		e, err := NewEnricher(context.Background(), testLLMConfig(srv.URL))
		require.NoError(t, err)

		_, err = e.Annotate(context.Background(), domain.Entry{Title: "T"})
		require.EqualError(t, err, "empty response from llm")
	})
}

func TestContentForEnrichment(t *testing.T) {
	assert.Equal(t, "summary", ContentForEnrichment(domain.Entry{Title: "title", Summary: "summary"}, 2000))
	assert.Equal(t, "title", ContentForEnrichment(domain.Entry{Title: "title"}, 2000))
	assert.Equal(t, "sum", ContentForEnrichment(domain.Entry{Summary: "summary"}, 3))

	for _, n := range []int{0, 1, 1999, 2000, 2001, 10000} {
		content := ContentForEnrichment(domain.Entry{Summary: strings.Repeat("é", n)}, 2000)
		assert.LessOrEqual(t, utf8.RuneCountInString(content), 2000, "input length %d", n)
		assert.Equal(t, min(n, 2000), utf8.RuneCountInString(content))
	}
}

func TestComposeSummary(t *testing.T) {
	assert.Equal(t, "【score:7/10】short\n\noriginal text", ComposeSummary("【score:7/10】short", "original text"))
	assert.Equal(t, "annotation\n\n", ComposeSummary("annotation", ""))
}
