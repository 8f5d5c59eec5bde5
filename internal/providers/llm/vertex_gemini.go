package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	if projectID == "" {
		return nil, errors.New("VERTEX_PROJECT is not set")
	}
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = GeminiModel
	}

	m := c.GenerativeModel(modelName)
	m.SetTemperature(0)
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

// Complete drains the content stream into one answer.
func (v *VertexGemini) Complete(ctx context.Context, prompt string) (string, error) {
	var sb strings.Builder

	it := v.model.GenerateContentStream(ctx, vertexgenai.Text(prompt))
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}

		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(vertexgenai.Text); ok {
					sb.WriteString(string(t))
				}
			}
		}
	}
}
