package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/postpilot/internal/transfer"
)

type CaptionService interface {
	GenerateCaptions(ctx context.Context, userID int64, req *transfer.CaptionRequest) (*transfer.CaptionResult, error)
	GeneratePrompts(ctx context.Context, userID int64, req *transfer.PromptRequest) (*transfer.PromptResult, error)
}

type captionService struct {
	settings  SettingsService
	model     TextModel
	templates *promptTemplates
}

func NewCaptionService(settings SettingsService, model TextModel) (CaptionService, error) {
	templates, err := loadPromptTemplates(promptTemplatesYAML)
	if err != nil {
		return nil, err
	}
	return &captionService{
		settings:  settings,
		model:     model,
		templates: templates,
	}, nil
}

func (s *captionService) GenerateCaptions(ctx context.Context, userID int64, req *transfer.CaptionRequest) (*transfer.CaptionResult, error) {
	if req == nil {
		return nil, validationError("request body is empty")
	}

	topic := strings.ToLower(strings.TrimSpace(req.Topic))
	style := strings.ToLower(strings.TrimSpace(req.Style))
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if style == "" {
		style = defaultStyle
	}
	if platform == "" {
		platform = PlatformPage
	}

	topicTmpl, ok := s.templates.Topics[topic]
	if !ok {
		return nil, validationError("unknown topic %q, expected one of: %s", req.Topic, templateKeys(s.templates.Topics))
	}
	if _, ok := s.templates.Styles[style]; !ok {
		return nil, validationError("unknown style %q, expected one of: %s", req.Style, templateKeys(s.templates.Styles))
	}
	if _, ok := s.templates.Platforms[platform]; !ok {
		return nil, validationError("unknown platform %q, expected one of: %s", req.Platform, templateKeys(s.templates.Platforms))
	}

	var image []byte
	if req.ImageBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			return nil, validationError("image_base64 is not valid base64")
		}
		if req.ImageMimeType == "" {
			return nil, validationError("image_mime_type is required with image_base64")
		}
		image = decoded
	}

	apiKey, err := s.settings.GeminiAPIKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	count := clampCount(req.Count)
	withComments := req.GenerateComments && platform != PlatformGroup

	prompt := s.templates.captionPrompt(topic, style, platform, strings.TrimSpace(req.Context), count, withComments)
	raw, err := s.model.Generate(ctx, apiKey, &GenerationRequest{
		Prompt:        prompt,
		Image:         image,
		ImageMIMEType: req.ImageMimeType,
		Structured:    true,
	})
	if err != nil {
		return nil, err
	}

	captions, comments := ParseCaptions(raw, count, withComments, topicTmpl.DefaultComment)
	if len(captions) == 0 {
		slog.Error("generated content could not be parsed", "topic", topic)
		return nil, fmt.Errorf("%w: no captions in response", ErrGenerationFailed)
	}

	return &transfer.CaptionResult{Captions: captions, Comments: comments}, nil
}

func (s *captionService) GeneratePrompts(ctx context.Context, userID int64, req *transfer.PromptRequest) (*transfer.PromptResult, error) {
	if req == nil {
		return nil, validationError("request body is empty")
	}

	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	topic := strings.ToLower(strings.TrimSpace(req.Topic))
	style := strings.ToLower(strings.TrimSpace(req.Style))

	if _, ok := s.templates.PromptKinds[kind]; !ok {
		return nil, validationError("unknown prompt kind %q, expected one of: %s", req.Kind, templateKeys(s.templates.PromptKinds))
	}
	if _, ok := s.templates.Topics[topic]; topic != "" && !ok {
		return nil, validationError("unknown topic %q, expected one of: %s", req.Topic, templateKeys(s.templates.Topics))
	}
	if _, ok := s.templates.Styles[style]; style != "" && !ok {
		return nil, validationError("unknown style %q, expected one of: %s", req.Style, templateKeys(s.templates.Styles))
	}

	apiKey, err := s.settings.GeminiAPIKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	count := clampCount(req.Count)
	prompt := s.templates.mediaPrompt(kind, topic, style, strings.TrimSpace(req.Context), count)

	raw, err := s.model.Generate(ctx, apiKey, &GenerationRequest{Prompt: prompt, Structured: true})
	if err != nil {
		return nil, err
	}

	prompts := ParsePrompts(raw, count)
	if len(prompts) == 0 {
		return nil, fmt.Errorf("%w: no prompts in response", ErrGenerationFailed)
	}

	return &transfer.PromptResult{Prompts: prompts}, nil
}
