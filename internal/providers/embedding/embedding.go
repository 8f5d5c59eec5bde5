package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Options selects the embedder backing the portfolio index.
type Options struct {
	Provider string // hash|openai|googleai
	Model    string
	BaseURL  string
	APIKey   string
	Dims     int
}

// New returns a langchaingo embedder for the configured provider.
func New(ctx context.Context, opts Options) (embeddings.Embedder, error) {
	switch strings.ToLower(opts.Provider) {
	case "", "hash":
		return NewHashing(opts.Dims), nil
	case "openai":
		if opts.APIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is not set")
		}
		model := opts.Model
		if model == "" {
			model = "text-embedding-3-small"
		}
		clientOpts := []openai.Option{openai.WithToken(opts.APIKey), openai.WithEmbeddingModel(model)}
		if opts.BaseURL != "" {
			clientOpts = append(clientOpts, openai.WithBaseURL(opts.BaseURL))
		}
		client, err := openai.New(clientOpts...)
		if err != nil {
			return nil, err
		}
		return newEmbedder(client)
	case "googleai", "gemini":
		if opts.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		gopts := []googleai.Option{googleai.WithAPIKey(opts.APIKey)}
		if opts.Model != "" {
			gopts = append(gopts, googleai.WithDefaultEmbeddingModel(opts.Model))
		}
		client, err := googleai.New(ctx, gopts...)
		if err != nil {
			return nil, err
		}
		return newEmbedder(client)
	default:
		return nil, fmt.Errorf("unknown EMBEDDING_PROVIDER %q", opts.Provider)
	}
}

func newEmbedder(client embeddings.EmbedderClient) (embeddings.Embedder, error) {
	e, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}
	return e, nil
}
