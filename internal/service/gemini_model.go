package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	config "github.com/maheshrc27/postpilot/configs"
	"google.golang.org/genai"
)

type GenerationRequest struct {
	Prompt        string
	Image         []byte
	ImageMIMEType string
	Structured    bool
}

// TextModel sends one prompt to a generative model and returns its raw text.
type TextModel interface {
	Generate(ctx context.Context, apiKey string, req *GenerationRequest) (string, error)
}

type geminiModel struct {
	model   string
	baseURL string
}

func NewGeminiModel(cfg config.Config) TextModel {
	return &geminiModel{
		model:   cfg.Gemini.Model,
		baseURL: cfg.Gemini.BaseURL,
	}
}

var generatedItemsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"text":    {Type: genai.TypeString},
					"comment": {Type: genai.TypeString},
				},
				Required: []string{"text"},
			},
		},
	},
	Required: []string{"items"},
}

func (m *geminiModel) Generate(ctx context.Context, apiKey string, req *GenerationRequest) (string, error) {
	if apiKey == "" {
		return "", validationError("gemini api key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if m.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: m.baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		slog.Error("failed to create gemini client", "error", err)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if len(req.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Image, req.ImageMIMEType))
	}

	generationConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.9),
		TopK:            genai.Ptr[float32](40),
		TopP:            genai.Ptr[float32](0.95),
		MaxOutputTokens: 2048,
	}
	if req.Structured {
		generationConfig.ResponseMIMEType = "application/json"
		generationConfig.ResponseSchema = generatedItemsSchema
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, m.model, contents, generationConfig)
	if err != nil {
		slog.Error("gemini generation failed", "model", m.model, "error", err)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates returned", ErrGenerationFailed)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	return text.String(), nil
}
