package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/pgmjr/ottodot-p1/internal/domain"
)

// GeminiConfig selects the Gemini backend. APIKey takes precedence; when
// it is empty, ProjectID/Location select Vertex AI.
type GeminiConfig struct {
	APIKey    string
	ProjectID string
	Location  string
	Model     string
}

// GeminiClient implements domain.LLMClient on top of Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed LLM client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		clientCfg.APIKey = cfg.APIKey
		clientCfg.Backend = genai.BackendGeminiAPI
	case cfg.ProjectID != "" && cfg.Location != "":
		clientCfg.Project = cfg.ProjectID
		clientCfg.Location = cfg.Location
		clientCfg.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("gemini: an API key or a project/location pair is required")
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends one prompt and returns the raw completion text. Transport
// and model failures come back as *domain.GenerationError; the empty-text
// check is left to the calling service, which owns that taxonomy.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	temp := float32(0.7)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: 2048,
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", &domain.GenerationError{Err: err}
	}

	return res.Text(), nil
}
