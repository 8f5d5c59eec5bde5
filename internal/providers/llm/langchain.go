package llm

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChain adapts any langchaingo chat model.
type LangChain struct {
	model llms.Model
	close func() error
}

func NewLangChain(model llms.Model) *LangChain {
	return &LangChain{model: model}
}

// NewOpenAICompatible talks to OpenAI or any endpoint speaking its API (Groq).
func NewOpenAICompatible(apiKey, baseURL, model string) (*LangChain, error) {
	if apiKey == "" {
		return nil, errors.New("llm api key is not set")
	}
	opts := []openai.Option{openai.WithToken(apiKey), openai.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	m, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return NewLangChain(m), nil
}

func NewGoogleAI(ctx context.Context, apiKey, model string) (*LangChain, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	m, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(model))
	if err != nil {
		return nil, err
	}
	return &LangChain{model: m, close: m.Close}, nil
}

func (l *LangChain) Complete(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, l.model, prompt, llms.WithTemperature(0))
}

func (l *LangChain) Close() error {
	if l.close == nil {
		return nil
	}
	return l.close()
}
