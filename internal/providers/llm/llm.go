package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider is a hosted chat model answering one prompt at a time.
type Provider interface {
	// Complete returns the full model answer for prompt, sampled at temperature 0.
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}

// Options selects and configures a provider.
type Options struct {
	Provider string // groq|openai|googleai|vertex
	Model    string
	BaseURL  string

	GroqAPIKey   string
	OpenAIAPIKey string
	GeminiAPIKey string

	VertexProject  string
	VertexLocation string
}

const (
	GroqBaseURL  = "https://api.groq.com/openai/v1"
	GroqModel    = "llama-3.3-70b-versatile"
	OpenAIModel  = "gpt-4o-mini"
	GeminiModel  = "gemini-1.5-flash"
	ProviderGroq = "groq"
)

// New builds the provider named by opts.Provider.
func New(ctx context.Context, opts Options) (Provider, error) {
	switch strings.ToLower(opts.Provider) {
	case "", ProviderGroq:
		base := opts.BaseURL
		if base == "" {
			base = GroqBaseURL
		}
		return NewOpenAICompatible(opts.GroqAPIKey, base, firstNonEmpty(opts.Model, GroqModel))
	case "openai":
		return NewOpenAICompatible(opts.OpenAIAPIKey, opts.BaseURL, firstNonEmpty(opts.Model, OpenAIModel))
	case "googleai", "gemini":
		return NewGoogleAI(ctx, opts.GeminiAPIKey, firstNonEmpty(opts.Model, GeminiModel))
	case "vertex":
		return NewVertexGemini(ctx, opts.VertexProject, opts.VertexLocation, opts.Model)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", opts.Provider)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
