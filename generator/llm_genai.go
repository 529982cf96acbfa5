package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel    = "gemini-2.5-flash"
	defaultVertexProject  = "content-strategy-pro"
	defaultVertexLocation = "us-central1"
)

// GenAILLM implements LLMClient with google.golang.org/genai. Provider
// "vertex" talks to Vertex AI with project/location credentials; "gemini"
// talks to the Gemini API with an API key.
type GenAILLM struct {
	Model    string
	JSONMode bool
	client   *genai.Client
}

func NewGenAILLMFromConfig(ctx context.Context, cfg *LLMSettings) (*GenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{}
	if strings.EqualFold(cfg.Provider, "gemini") {
		if cfg.APIKey == "" {
			return nil, errors.New("gemini api key missing; provide llm.api_key")
		}
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	} else {
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		if cc.Project == "" {
			cc.Project = defaultVertexProject
		}
		cc.Location = cfg.Location
		if cc.Location == "" {
			cc.Location = defaultVertexLocation
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAILLM{Model: model, JSONMode: cfg.JSONMode, client: client}, nil
}

func (g *GenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	config := &genai.GenerateContentConfig{}
	if prompt.System != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if g.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt.User), config)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("genai: empty candidates")
	}
	return resp.Text(), nil
}
